// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 Steadybit GmbH

package httpprobe

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

var defaultStatusCodes = []string{"2xx", "3xx"}

type statusCodeMatcher struct {
	expressions []string
	codes       []int
	classes     []int
}

// parseStatusCodes resolves literal codes ("404"), classes ("2xx") and
// inclusive ranges ("200-299"). Entries may be delimited by ';'.
func parseStatusCodes(expressions []string) (statusCodeMatcher, error) {
	if len(expressions) == 0 {
		expressions = defaultStatusCodes
	}
	m := statusCodeMatcher{}
	for _, expression := range expressions {
		for _, code := range strings.Split(expression, ";") {
			code = strings.TrimSpace(code)
			if code == "" {
				continue
			}
			m.expressions = append(m.expressions, code)

			if class, ok := parseStatusClass(code); ok {
				m.classes = append(m.classes, class)
				continue
			}

			if strings.Contains(code, "-") {
				rangeParts := strings.Split(code, "-")
				if len(rangeParts) != 2 {
					return m, fmt.Errorf("invalid status code range '%s'", code)
				}
				start, err := parseStatusCode(rangeParts[0])
				if err != nil {
					return m, err
				}
				end, err := parseStatusCode(rangeParts[1])
				if err != nil {
					return m, err
				}
				if start > end {
					return m, fmt.Errorf("invalid status code range '%s'", code)
				}
				for i := start; i <= end; i++ {
					m.codes = append(m.codes, i)
				}
				continue
			}

			c, err := parseStatusCode(code)
			if err != nil {
				return m, err
			}
			m.codes = append(m.codes, c)
		}
	}
	if len(m.expressions) == 0 {
		return parseStatusCodes(defaultStatusCodes)
	}
	return m, nil
}

func parseStatusClass(code string) (int, bool) {
	if len(code) != 3 || !strings.EqualFold(code[1:], "xx") {
		return 0, false
	}
	class := int(code[0] - '0')
	if class < 1 || class > 5 {
		return 0, false
	}
	return class, true
}

func parseStatusCode(code string) (int, error) {
	c, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil {
		return 0, fmt.Errorf("invalid status code '%s'", code)
	}
	if c < 100 || c > 599 {
		return 0, fmt.Errorf("invalid status code '%d'", c)
	}
	return c, nil
}

func (m statusCodeMatcher) matches(statusCode int) bool {
	if slices.Contains(m.codes, statusCode) {
		return true
	}
	return slices.ContainsFunc(m.classes, func(class int) bool {
		return statusCode >= class*100 && statusCode <= class*100+99
	})
}

func (m statusCodeMatcher) String() string {
	return strings.Join(m.expressions, ", ")
}
