// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 Steadybit GmbH

package httpprobe

import "net/http"

// Params is the validated parameter bag of a single probe.
type Params struct {
	Method            string            `json:"method,omitempty"`
	FollowRedirects   *bool             `json:"followRedirects,omitempty"`
	AllowUnauthorized bool              `json:"allowUnauthorized,omitempty"`
	Headers           map[string]string `json:"headers,omitempty"`

	// MaxRedirects bounds the number of followed redirects. Zero means no bound.
	MaxRedirects int `json:"maxRedirects,omitempty"`

	ExpectRedirects      *int     `json:"expectHttpRedirects,omitempty"`
	ExpectRedirectTarget string   `json:"expectHttpRedirectTo,omitempty"`
	ExpectBodyMatch      []string `json:"expectHttpResponseBodyMatch,omitempty"`
	ExpectBodyMismatch   []string `json:"expectHttpResponseBodyMismatch,omitempty"`
	ExpectSecure         *bool    `json:"expectHttpSecure,omitempty"`
	ExpectStatusCode     []string `json:"expectHttpStatusCode,omitempty"`
	ExpectHTTPVersion    string   `json:"expectHttpVersion,omitempty"`
}

func (p Params) method() string {
	if p.Method == "" {
		return http.MethodGet
	}
	return p.Method
}

func (p Params) followRedirects() bool {
	return p.FollowRedirects == nil || *p.FollowRedirects
}
