// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 Steadybit GmbH

package httpprobe

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	CauseInvalidRedirects      = "invalidRedirects"
	CauseInvalidRedirectTarget = "invalidRedirectTarget"
	CauseBodyMismatch          = "httpResponseBodyMismatch"
	CauseBodyMatch             = "httpResponseBodyMatch"
	CauseInvalidSecure         = "invalidSecure"
	CauseInvalidStatusCode     = "invalidHttpStatusCode"
	CauseInvalidHTTPVersion    = "invalidHttpVersion"
)

// Failure is one violated expectation.
type Failure struct {
	Cause       string `json:"cause"`
	Description string `json:"description"`
	Actual      any    `json:"actual,omitempty"`
	Expected    any    `json:"expected,omitempty"`
}

type validator func(e expectations, res *Response, state *State) []Failure

var validators = []validator{
	validateRedirects,
	validateRedirectTarget,
	validateBody,
	validateSecure,
	validateStatusCode,
	validateHTTPVersion,
}

// validate runs every validator against the terminal response. Neither the
// response nor the state is modified.
func validate(e expectations, res *Response, state *State) []Failure {
	failures := make([]Failure, 0)
	for _, v := range validators {
		failures = append(failures, v(e, res, state)...)
	}
	return failures
}

func validateRedirects(e expectations, _ *Response, state *State) []Failure {
	if e.redirects != nil {
		if state.Redirects != *e.redirects {
			return []Failure{{
				Cause:       CauseInvalidRedirects,
				Description: fmt.Sprintf("Expected %d redirects, but got %d", *e.redirects, state.Redirects),
				Actual:      state.Redirects,
				Expected:    *e.redirects,
			}}
		}
		return nil
	}
	// a redirect target implies at least one redirect
	if e.redirectTarget != nil && state.Redirects == 0 {
		return []Failure{{
			Cause:       CauseInvalidRedirects,
			Description: "Expected at least one redirect, but got none",
			Actual:      state.Redirects,
			Expected:    ">= 1",
		}}
	}
	return nil
}

func validateRedirectTarget(e expectations, _ *Response, state *State) []Failure {
	if e.redirectTarget == nil {
		return nil
	}
	expected := e.redirectTarget.String()
	last, ok := state.LastRequest()
	if !ok {
		return []Failure{{
			Cause:       CauseInvalidRedirectTarget,
			Description: fmt.Sprintf("Expected redirect to %s, but no request was issued", expected),
			Expected:    expected,
		}}
	}

	var mismatches []string
	if !strings.EqualFold(last.URL.Scheme, e.redirectTarget.Scheme) {
		mismatches = append(mismatches, "scheme")
	}
	if !strings.EqualFold(last.URL.Host, e.redirectTarget.Host) {
		mismatches = append(mismatches, "host")
	}
	if normalizePath(last.URL.Path) != normalizePath(e.redirectTarget.Path) {
		mismatches = append(mismatches, "path")
	}
	if len(mismatches) == 0 {
		return nil
	}

	actual := fmt.Sprintf("%s://%s%s", last.URL.Scheme, last.URL.Host, normalizePath(last.URL.Path))
	return []Failure{{
		Cause:       CauseInvalidRedirectTarget,
		Description: fmt.Sprintf("Expected redirect to %s, but ended at %s (%s differs)", expected, actual, strings.Join(mismatches, ", ")),
		Actual:      actual,
		Expected:    expected,
	}}
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

func validateBody(e expectations, res *Response, _ *State) []Failure {
	if len(e.bodyMatch) == 0 && len(e.bodyMismatch) == 0 {
		return nil
	}
	body := string(res.Body)

	var failures []Failure
	for _, re := range e.bodyMatch {
		if !re.MatchString(body) {
			failures = append(failures, Failure{
				Cause:       CauseBodyMismatch,
				Description: fmt.Sprintf("Response body does not match %s", re.String()),
				Expected:    re.String(),
			})
		}
	}
	for _, re := range e.bodyMismatch {
		if re.MatchString(body) {
			failures = append(failures, Failure{
				Cause:       CauseBodyMatch,
				Description: fmt.Sprintf("Response body must not match %s", re.String()),
				Expected:    re.String(),
			})
		}
	}
	return failures
}

// validateSecure compares against "TLS happened on any leg", so a handshake
// on an earlier leg counts even if the final leg is plaintext.
func validateSecure(e expectations, _ *Response, state *State) []Failure {
	if e.secure == nil {
		return nil
	}
	secure := state.Secure()
	if secure == *e.secure {
		return nil
	}
	description := "Expected a secure connection, but no TLS handshake happened"
	if !*e.secure {
		description = "Expected an insecure connection, but a TLS handshake happened"
	}
	return []Failure{{
		Cause:       CauseInvalidSecure,
		Description: description,
		Actual:      secure,
		Expected:    *e.secure,
	}}
}

func validateStatusCode(e expectations, res *Response, _ *State) []Failure {
	if e.statusCodes.matches(res.StatusCode) {
		return nil
	}
	return []Failure{{
		Cause:       CauseInvalidStatusCode,
		Description: fmt.Sprintf("Expected status code %s, but got %d", e.statusCodes.String(), res.StatusCode),
		Actual:      res.StatusCode,
		Expected:    e.statusCodes.String(),
	}}
}

func validateHTTPVersion(e expectations, res *Response, _ *State) []Failure {
	if e.httpVersion == "" || versionMatches(e.httpVersion, res) {
		return nil
	}
	return []Failure{{
		Cause:       CauseInvalidHTTPVersion,
		Description: fmt.Sprintf("Expected HTTP version %s, but got %s", e.httpVersion, res.Proto),
		Actual:      res.Version(),
		Expected:    e.httpVersion,
	}}
}

func versionMatches(expected string, res *Response) bool {
	expected = strings.TrimSpace(expected)
	if v, err := strconv.ParseFloat(expected, 64); err == nil {
		return v == res.Version()
	}
	return strings.EqualFold(expected, res.Proto)
}
