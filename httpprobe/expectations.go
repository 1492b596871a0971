// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 Steadybit GmbH

package httpprobe

import (
	"fmt"
	"net/url"
	"regexp"
)

// InputError reports probe input that cannot be used at all,
// e.g. an unparsable redirect target. It indicates a misconfigured probe
// rather than a network condition.
type InputError struct {
	Field string
	Value string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s '%s': %v", e.Field, e.Value, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

type expectations struct {
	redirects      *int
	redirectTarget *url.URL
	bodyMatch      []*regexp.Regexp
	bodyMismatch   []*regexp.Regexp
	secure         *bool
	statusCodes    statusCodeMatcher
	httpVersion    string
}

func compileExpectations(p Params) (expectations, error) {
	e := expectations{
		redirects:   p.ExpectRedirects,
		secure:      p.ExpectSecure,
		httpVersion: p.ExpectHTTPVersion,
	}

	if p.MaxRedirects < 0 {
		return e, &InputError{Field: "maxRedirects", Value: fmt.Sprint(p.MaxRedirects), Err: fmt.Errorf("must not be negative")}
	}
	if p.ExpectRedirects != nil && *p.ExpectRedirects < 0 {
		return e, &InputError{Field: "expectHttpRedirects", Value: fmt.Sprint(*p.ExpectRedirects), Err: fmt.Errorf("must not be negative")}
	}

	if p.ExpectRedirectTarget != "" {
		target, err := url.Parse(p.ExpectRedirectTarget)
		if err != nil {
			return e, &InputError{Field: "expectHttpRedirectTo", Value: p.ExpectRedirectTarget, Err: err}
		}
		e.redirectTarget = target
	}

	var err error
	if e.bodyMatch, err = compilePatterns("expectHttpResponseBodyMatch", p.ExpectBodyMatch); err != nil {
		return e, err
	}
	if e.bodyMismatch, err = compilePatterns("expectHttpResponseBodyMismatch", p.ExpectBodyMismatch); err != nil {
		return e, err
	}

	if e.statusCodes, err = parseStatusCodes(p.ExpectStatusCode); err != nil {
		return e, &InputError{Field: "expectHttpStatusCode", Value: fmt.Sprint(p.ExpectStatusCode), Err: err}
	}

	return e, nil
}

func compilePatterns(field string, patterns []string) ([]*regexp.Regexp, error) {
	result := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, &InputError{Field: field, Value: pattern, Err: err}
		}
		result = append(result, re)
	}
	return result, nil
}
