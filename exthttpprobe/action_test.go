// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 Steadybit GmbH

package exthttpprobe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/steadybit/action-kit/go/action_kit_api/v2"
	"github.com/steadybit/extension-http-probe/httpprobe"
	extension_kit "github.com/steadybit/extension-kit"
	"github.com/steadybit/extension-kit/extutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAction_Prepare(t *testing.T) {
	tests := []struct {
		name        string
		requestBody action_kit_api.PrepareActionRequestBody
		wantedError error
		wantedTitle string
		wantedState *HTTPProbeState
	}{
		{
			name: "Should return config",
			requestBody: extutil.JsonMangle(action_kit_api.PrepareActionRequestBody{
				Config: map[string]interface{}{
					"action":                         "prepare",
					"url":                            "https://steadybit.com",
					"method":                         "head",
					"followRedirects":                false,
					"allowUnauthorized":              true,
					"headers":                        []interface{}{map[string]interface{}{"key": "test", "value": "test"}},
					"expectHttpStatusCode":           []interface{}{"2xx", "404"},
					"expectHttpResponseBodyMatch":    []interface{}{"^OK$"},
					"expectHttpResponseBodyMismatch": []interface{}{"error", " "},
					"expectHttpRedirects":            2,
					"expectHttpRedirectTo":           "https://steadybit.com/home",
					"expectHttpSecure":               "true",
					"expectHttpVersion":              "1.1",
					"maxRedirects":                   10,
				},
				ExecutionId: uuid.New(),
			}),
			wantedState: &HTTPProbeState{
				URL: "https://steadybit.com",
				Params: httpprobe.Params{
					Method:               "HEAD",
					FollowRedirects:      extutil.Ptr(false),
					AllowUnauthorized:    true,
					Headers:              map[string]string{"test": "test"},
					MaxRedirects:         10,
					ExpectRedirects:      extutil.Ptr(2),
					ExpectRedirectTarget: "https://steadybit.com/home",
					ExpectBodyMatch:      []string{"^OK$"},
					ExpectBodyMismatch:   []string{"error"},
					ExpectSecure:         extutil.Ptr(true),
					ExpectStatusCode:     []string{"2xx", "404"},
					ExpectHTTPVersion:    "1.1",
				},
			},
		},
		{
			name: "Should leave optional expectations empty",
			requestBody: extutil.JsonMangle(action_kit_api.PrepareActionRequestBody{
				Config: map[string]interface{}{
					"url":              "http://steadybit.com",
					"expectHttpSecure": "any",
				},
				ExecutionId: uuid.New(),
			}),
			wantedState: &HTTPProbeState{
				URL:    "http://steadybit.com",
				Params: httpprobe.Params{},
			},
		},
		{
			name: "Should return error for missing url",
			requestBody: action_kit_api.PrepareActionRequestBody{
				Config: map[string]interface{}{
					"method": "GET",
				},
				ExecutionId: uuid.New(),
			},
			wantedError: extutil.Ptr(extension_kit.ToError("URL is missing", nil)),
		},
		{
			name: "Should return error for invalid redirect count",
			requestBody: action_kit_api.PrepareActionRequestBody{
				Config: map[string]interface{}{
					"url":                 "https://steadybit.com",
					"expectHttpRedirects": "many",
				},
				ExecutionId: uuid.New(),
			},
			wantedError: extutil.Ptr(extension_kit.ToError("failed to parse expectHttpRedirects: strconv.Atoi: parsing \"many\": invalid syntax", nil)),
		},
		{
			name: "Should report negative max redirects",
			requestBody: action_kit_api.PrepareActionRequestBody{
				Config: map[string]interface{}{
					"url":          "https://steadybit.com",
					"maxRedirects": -1,
				},
				ExecutionId: uuid.New(),
			},
			wantedTitle: "invalid maxRedirects '-1': must not be negative",
		},
		{
			name: "Should report invalid status code expectation",
			requestBody: action_kit_api.PrepareActionRequestBody{
				Config: map[string]interface{}{
					"url":                  "https://steadybit.com",
					"expectHttpStatusCode": []interface{}{"2xy"},
				},
				ExecutionId: uuid.New(),
			},
			wantedTitle: "invalid expectHttpStatusCode '[2xy]': invalid status code '2xy'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			//Given
			state := HTTPProbeState{}
			request := tt.requestBody
			//When
			result, err := prepare(request, &state)

			//Then
			if tt.wantedError != nil {
				assert.EqualError(t, err, tt.wantedError.Error())
			}
			if tt.wantedTitle != "" {
				require.NoError(t, err)
				require.NotNil(t, result)
				assert.Equal(t, tt.wantedTitle, result.Error.Title)
			}
			if tt.wantedState != nil {
				require.NoError(t, err)
				assert.Nil(t, result)
				assert.Equal(t, tt.requestBody.ExecutionId, state.ExecutionID)
				assert.Equal(t, tt.wantedState.URL, state.URL)
				assert.Equal(t, tt.wantedState.Params, state.Params)
			}
		})
	}
}

func TestAction_Start(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/redirect" {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		_, _ = w.Write([]byte("OK"))
	}))
	defer server.Close()

	tests := []struct {
		name          string
		url           string
		params        httpprobe.Params
		wantedError   bool
		wantedMetrics []string
	}{
		{
			name:          "successful probe",
			url:           server.URL + "/redirect",
			params:        httpprobe.Params{ExpectRedirects: extutil.Ptr(1)},
			wantedMetrics: []string{"contentLength", "redirects", "secure", "statusCode", "httpVersion"},
		},
		{
			name:          "failed expectation",
			url:           server.URL,
			params:        httpprobe.Params{ExpectStatusCode: []string{"404"}},
			wantedError:   true,
			wantedMetrics: []string{"contentLength", "redirects", "secure", "statusCode", "httpVersion"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action := &httpProbeAction{prober: &httpprobe.Prober{}}
			state := HTTPProbeState{ExecutionID: uuid.New(), URL: tt.url, Params: tt.params}

			result, err := action.Start(context.Background(), &state)
			require.NoError(t, err)
			require.NotNil(t, result)

			if tt.wantedError {
				require.NotNil(t, result.Error)
				assert.Equal(t, extutil.Ptr(action_kit_api.Failed), result.Error.Status)
				assert.Contains(t, *result.Error.Detail, httpprobe.CauseInvalidStatusCode)
			} else {
				assert.Nil(t, result.Error)
			}

			require.NotNil(t, result.Metrics)
			names := map[string]bool{}
			for _, m := range *result.Metrics {
				names[*m.Name] = true
				assert.Equal(t, tt.url, m.Metric["url"])
			}
			for _, name := range tt.wantedMetrics {
				assert.True(t, names[name], "missing metric %s", name)
			}
			assert.True(t, names["duration"])
			assert.False(t, names["tlsCertificateExpiry"])
		})
	}
}

func TestAction_StartWithTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	action := &httpProbeAction{prober: &httpprobe.Prober{}}
	state := HTTPProbeState{ExecutionID: uuid.New(), URL: url}

	result, err := action.Start(context.Background(), &state)
	require.NoError(t, err)

	require.NotNil(t, result.Error)
	assert.Equal(t, "Request to "+url+" failed", result.Error.Title)
	for _, m := range *result.Metrics {
		assert.NotEqual(t, "statusCode", *m.Name)
	}
}

func TestAction_StartWithInvalidInput(t *testing.T) {
	action := &httpProbeAction{prober: &httpprobe.Prober{}}
	state := HTTPProbeState{ExecutionID: uuid.New(), URL: "ftp://steadybit.com"}

	_, err := action.Start(context.Background(), &state)
	assert.Error(t, err)
}

func TestAction_Describe(t *testing.T) {
	description := NewHTTPProbeAction().Describe()

	assert.Equal(t, ActionIDProbe, description.Id)
	assert.Equal(t, action_kit_api.Check, description.Kind)
	assert.Equal(t, action_kit_api.TimeControlInstantaneous, description.TimeControl)

	names := map[string]bool{}
	for _, p := range description.Parameters {
		names[p.Name] = true
	}
	for _, name := range []string{"url", "method", "headers", "followRedirects", "allowUnauthorized", "expectHttpStatusCode",
		"expectHttpResponseBodyMatch", "expectHttpResponseBodyMismatch", "expectHttpRedirects", "expectHttpRedirectTo",
		"expectHttpSecure", "expectHttpVersion", "maxRedirects"} {
		assert.True(t, names[name], "missing parameter %s", name)
	}
}
