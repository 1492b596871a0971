// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 Steadybit GmbH

package exthttpprobe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/steadybit/action-kit/go/action_kit_api/v2"
	"github.com/steadybit/action-kit/go/action_kit_sdk"
	"github.com/steadybit/extension-http-probe/httpprobe"
	extension_kit "github.com/steadybit/extension-kit"
	"github.com/steadybit/extension-kit/extbuild"
	"github.com/steadybit/extension-kit/extutil"
)

const (
	ActionIDProbe   = "com.steadybit.extension_http.probe"
	actionIconProbe = "data:image/svg+xml,%3Csvg%20xmlns%3D%22http%3A%2F%2Fwww.w3.org%2F2000%2Fsvg%22%20width%3D%2224%22%20height%3D%2224%22%20viewBox%3D%220%200%2024%2024%22%20fill%3D%22none%22%20stroke%3D%22%231D2632%22%20stroke-width%3D%221.6%22%20stroke-linecap%3D%22round%22%20stroke-linejoin%3D%22round%22%3E%3Ccircle%20cx%3D%2212%22%20cy%3D%2212%22%20r%3D%2210%22%2F%3E%3Cpath%20d%3D%22M12%206v6l4%202%22%2F%3E%3C%2Fsvg%3E"
)

type HTTPProbeState struct {
	ExecutionID uuid.UUID
	URL         string
	Params      httpprobe.Params
}

type prober interface {
	Probe(ctx context.Context, target string, params httpprobe.Params) (httpprobe.Result, error)
}

type httpProbeAction struct {
	prober prober
}

// Make sure Action implements all required interfaces
var (
	_ action_kit_sdk.Action[HTTPProbeState] = (*httpProbeAction)(nil)
)

func NewHTTPProbeAction() action_kit_sdk.Action[HTTPProbeState] {
	return &httpProbeAction{prober: &httpprobe.Prober{}}
}

func (a *httpProbeAction) NewEmptyState() HTTPProbeState {
	return HTTPProbeState{}
}

// Describe returns the action description for the platform with all required information.
func (a *httpProbeAction) Describe() action_kit_api.ActionDescription {
	return action_kit_api.ActionDescription{
		Id:          ActionIDProbe,
		Label:       "HTTP (Probe)",
		Description: "Probes an http endpoint once, measures the time spent per connection phase and validates the response",
		Version:     extbuild.GetSemverVersionStringOrUnknown(),
		Icon:        extutil.Ptr(actionIconProbe),

		Technology: extutil.Ptr("HTTP"),
		Category:   extutil.Ptr("HTTP"),

		Kind:        action_kit_api.Check,
		TimeControl: action_kit_api.TimeControlInstantaneous,

		Parameters: []action_kit_api.ActionParameter{
			//------------------------
			// Request Definition
			//------------------------
			{
				Name:  "requestDefinition",
				Label: "Request Definition",
				Type:  action_kit_api.ActionParameterTypeHeader,
				Order: extutil.Ptr(0),
			},
			{
				Name:         "method",
				Label:        "HTTP Method",
				Description:  extutil.Ptr("The HTTP method to use."),
				Type:         action_kit_api.ActionParameterTypeString,
				DefaultValue: extutil.Ptr("GET"),
				Required:     extutil.Ptr(true),
				Order:        extutil.Ptr(1),
				Options: extutil.Ptr([]action_kit_api.ParameterOption{
					action_kit_api.ExplicitParameterOption{Label: "GET", Value: "GET"},
					action_kit_api.ExplicitParameterOption{Label: "POST", Value: "POST"},
					action_kit_api.ExplicitParameterOption{Label: "PUT", Value: "PUT"},
					action_kit_api.ExplicitParameterOption{Label: "PATCH", Value: "PATCH"},
					action_kit_api.ExplicitParameterOption{Label: "HEAD", Value: "HEAD"},
					action_kit_api.ExplicitParameterOption{Label: "DELETE", Value: "DELETE"},
					action_kit_api.ExplicitParameterOption{Label: "OPTIONS", Value: "OPTIONS"},
				}),
			},
			{
				Name:        "url",
				Label:       "Target URL",
				Description: extutil.Ptr("The URL to probe."),
				Type:        action_kit_api.ActionParameterTypeString,
				Required:    extutil.Ptr(true),
				Order:       extutil.Ptr(2),
			},
			{
				Name:        "headers",
				Label:       "HTTP Headers",
				Description: extutil.Ptr("The HTTP Headers."),
				Type:        action_kit_api.ActionParameterTypeKeyValue,
				Order:       extutil.Ptr(3),
			},
			//------------------------
			// Result Verification
			//------------------------
			{
				Name:  "resultVerification",
				Label: "Result Verification",
				Type:  action_kit_api.ActionParameterTypeHeader,
				Order: extutil.Ptr(4),
			},
			{
				Name:         "expectHttpStatusCode",
				Label:        "Response status codes",
				Description:  extutil.Ptr("Which HTTP status codes should be considered as success? Supports codes, classes like '2xx' and ranges like '200-299'."),
				Type:         action_kit_api.ActionParameterTypeStringArray,
				DefaultValue: extutil.Ptr("[\"2xx\",\"3xx\"]"),
				Order:        extutil.Ptr(5),
			},
			{
				Name:        "expectHttpResponseBodyMatch",
				Label:       "Response body matches",
				Description: extutil.Ptr("Regular expressions the response body must match."),
				Type:        action_kit_api.ActionParameterTypeStringArray,
				Order:       extutil.Ptr(6),
			},
			{
				Name:        "expectHttpResponseBodyMismatch",
				Label:       "Response body does not match",
				Description: extutil.Ptr("Regular expressions the response body must not match."),
				Type:        action_kit_api.ActionParameterTypeStringArray,
				Order:       extutil.Ptr(7),
			},
			{
				Name:        "expectHttpRedirects",
				Label:       "Number of redirects",
				Description: extutil.Ptr("The exact number of redirects. Leave empty to skip the check."),
				Type:        action_kit_api.ActionParameterTypeInteger,
				Order:       extutil.Ptr(8),
			},
			{
				Name:        "expectHttpRedirectTo",
				Label:       "Redirect target",
				Description: extutil.Ptr("The URL the redirect chain has to end at. Scheme, host and path are compared."),
				Type:        action_kit_api.ActionParameterTypeString,
				Order:       extutil.Ptr(9),
			},
			{
				Name:         "expectHttpSecure",
				Label:        "Secure connection",
				Description:  extutil.Ptr("Whether a TLS handshake is expected on the redirect chain."),
				Type:         action_kit_api.ActionParameterTypeString,
				DefaultValue: extutil.Ptr("any"),
				Order:        extutil.Ptr(10),
				Options: extutil.Ptr([]action_kit_api.ParameterOption{
					action_kit_api.ExplicitParameterOption{Label: "No expectation", Value: "any"},
					action_kit_api.ExplicitParameterOption{Label: "Secure", Value: "true"},
					action_kit_api.ExplicitParameterOption{Label: "Insecure", Value: "false"},
				}),
			},
			{
				Name:        "expectHttpVersion",
				Label:       "HTTP version",
				Description: extutil.Ptr("The expected HTTP version, e.g. '1.1' or '2'."),
				Type:        action_kit_api.ActionParameterTypeString,
				Order:       extutil.Ptr(11),
			},
			//------------------------
			// Client Settings
			//------------------------
			{
				Name:  "clientSettings",
				Label: "HTTP Client Settings",
				Type:  action_kit_api.ActionParameterTypeHeader,
				Order: extutil.Ptr(12),
			},
			{
				Name:         "followRedirects",
				Label:        "Follow Redirects?",
				Description:  extutil.Ptr("Should 301 and 302 redirects be followed?"),
				Type:         action_kit_api.ActionParameterTypeBoolean,
				DefaultValue: extutil.Ptr("true"),
				Advanced:     extutil.Ptr(true),
				Order:        extutil.Ptr(13),
			},
			{
				Name:        "maxRedirects",
				Label:       "Max Redirects",
				Description: extutil.Ptr("Fail the probe once more redirects would be followed. Leave empty for no limit."),
				Type:        action_kit_api.ActionParameterTypeInteger,
				Advanced:    extutil.Ptr(true),
				Order:       extutil.Ptr(14),
			},
			{
				Name:         "allowUnauthorized",
				Label:        "Allow unauthorized certificates",
				Description:  extutil.Ptr("Skip the verification of the server certificate."),
				Type:         action_kit_api.ActionParameterTypeBoolean,
				DefaultValue: extutil.Ptr("false"),
				Advanced:     extutil.Ptr(true),
				Order:        extutil.Ptr(15),
			},
		},
	}
}

func (a *httpProbeAction) Prepare(_ context.Context, state *HTTPProbeState, request action_kit_api.PrepareActionRequestBody) (*action_kit_api.PrepareResult, error) {
	return prepare(request, state)
}

func prepare(request action_kit_api.PrepareActionRequestBody, state *HTTPProbeState) (*action_kit_api.PrepareResult, error) {
	url := strings.TrimSpace(extutil.ToString(request.Config["url"]))
	if url == "" {
		return nil, extutil.Ptr(extension_kit.ToError("URL is missing", nil))
	}

	params, err := toParams(request.Config)
	if err != nil {
		return nil, extutil.Ptr(extension_kit.ToError(err.Error(), nil))
	}

	if err := httpprobe.CheckParams(url, params); err != nil {
		return &action_kit_api.PrepareResult{
			Error: &action_kit_api.ActionKitError{
				Title: err.Error(),
			},
		}, nil
	}

	state.ExecutionID = request.ExecutionId
	state.URL = url
	state.Params = params
	return nil, nil
}

// Start runs the probe. The action is instantaneous, so the complete result is reported here.
func (a *httpProbeAction) Start(ctx context.Context, state *HTTPProbeState) (*action_kit_api.StartResult, error) {
	logger := log.With().Str("executionId", state.ExecutionID.String()).Logger()

	result, err := a.prober.Probe(ctx, state.URL, state.Params)
	if err != nil {
		logger.Error().Err(err).Msg("Invalid probe configuration")
		return nil, extutil.Ptr(extension_kit.ToError("Invalid probe configuration", err))
	}

	metrics := toActionMetrics(state.URL, result.Metrics, time.Now())
	startResult := &action_kit_api.StartResult{
		Metrics: extutil.Ptr(metrics),
	}

	if result.TransportErr != nil {
		startResult.Error = &action_kit_api.ActionKitError{
			Title:  fmt.Sprintf("Request to %s failed", state.URL),
			Detail: extutil.Ptr(result.TransportErr.Error()),
			Status: extutil.Ptr(action_kit_api.Failed),
		}
	} else if len(result.Failures) > 0 {
		descriptions := make([]string, 0, len(result.Failures))
		for _, f := range result.Failures {
			descriptions = append(descriptions, fmt.Sprintf("%s: %s", f.Cause, f.Description))
		}
		startResult.Error = &action_kit_api.ActionKitError{
			Title:  fmt.Sprintf("%d expectation(s) failed for %s", len(result.Failures), state.URL),
			Detail: extutil.Ptr(strings.Join(descriptions, "\n")),
			Status: extutil.Ptr(action_kit_api.Failed),
		}
	}

	logger.Debug().Bool("success", result.Success).Int("metrics", len(metrics)).Msg("Probe completed")
	return startResult, nil
}
