// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 Steadybit GmbH

package exthttpprobe

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/steadybit/extension-http-probe/config"
	"github.com/steadybit/extension-http-probe/httpprobe"
	"github.com/steadybit/extension-kit/extutil"
)

// toParams converts the action configuration into the probe parameter bag.
func toParams(cfg map[string]interface{}) (httpprobe.Params, error) {
	params := httpprobe.Params{
		Method:               strings.ToUpper(extutil.ToString(cfg["method"])),
		AllowUnauthorized:    extutil.ToBool(cfg["allowUnauthorized"]),
		ExpectRedirectTarget: strings.TrimSpace(extutil.ToString(cfg["expectHttpRedirectTo"])),
		ExpectBodyMatch:      toStringSlice(cfg["expectHttpResponseBodyMatch"]),
		ExpectBodyMismatch:   toStringSlice(cfg["expectHttpResponseBodyMismatch"]),
		ExpectStatusCode:     toStringSlice(cfg["expectHttpStatusCode"]),
		ExpectHTTPVersion:    strings.TrimSpace(extutil.ToString(cfg["expectHttpVersion"])),
		MaxRedirects:         config.Config.MaxRedirects,
	}

	if v, ok := cfg["followRedirects"]; ok && v != nil {
		params.FollowRedirects = extutil.Ptr(extutil.ToBool(v))
	}

	var err error
	if cfg["headers"] != nil {
		if params.Headers, err = extutil.ToKeyValue(cfg, "headers"); err != nil {
			return params, fmt.Errorf("failed to parse headers: %w", err)
		}
	}

	if params.ExpectRedirects, err = toOptionalInt(cfg["expectHttpRedirects"]); err != nil {
		return params, fmt.Errorf("failed to parse expectHttpRedirects: %w", err)
	}
	if params.ExpectSecure, err = toOptionalBool(cfg["expectHttpSecure"]); err != nil {
		return params, fmt.Errorf("failed to parse expectHttpSecure: %w", err)
	}

	maxRedirects, err := toOptionalInt(cfg["maxRedirects"])
	if err != nil {
		return params, fmt.Errorf("failed to parse maxRedirects: %w", err)
	}
	if maxRedirects != nil {
		params.MaxRedirects = *maxRedirects
	}

	return params, nil
}

func toOptionalBool(v interface{}) (*bool, error) {
	switch b := v.(type) {
	case nil:
		return nil, nil
	case bool:
		return &b, nil
	case string:
		b = strings.TrimSpace(b)
		if b == "" || strings.EqualFold(b, "any") {
			return nil, nil
		}
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return nil, err
		}
		return &parsed, nil
	default:
		return nil, fmt.Errorf("unsupported value '%v'", v)
	}
}

func toOptionalInt(v interface{}) (*int, error) {
	switch i := v.(type) {
	case nil:
		return nil, nil
	case int:
		return &i, nil
	case int64:
		return extutil.Ptr(int(i)), nil
	case float64:
		return extutil.Ptr(int(i)), nil
	case string:
		i = strings.TrimSpace(i)
		if i == "" {
			return nil, nil
		}
		parsed, err := strconv.Atoi(i)
		if err != nil {
			return nil, err
		}
		return &parsed, nil
	default:
		return nil, fmt.Errorf("unsupported value '%v'", v)
	}
}

// toStringSlice trims the entries and drops empty ones. An empty list means
// the expectation is not set.
func toStringSlice(v interface{}) []string {
	var result []string
	for _, value := range extutil.ToStringArray(v) {
		if value = strings.TrimSpace(value); value != "" {
			result = append(result, value)
		}
	}
	return result
}
