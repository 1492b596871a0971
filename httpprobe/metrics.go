// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 Steadybit GmbH

package httpprobe

import "strconv"

const (
	MetricCertificateExpiry = "tlsCertificateExpiry"
	MetricContentLength     = "contentLength"
	MetricDuration          = "duration"
	MetricRedirects         = "redirects"
	MetricSecure            = "secure"
	MetricStatusCode        = "statusCode"
	MetricHTTPVersion       = "httpVersion"

	UnitDatetime = "datetime"
	UnitBytes    = "bytes"
	UnitSeconds  = "seconds"
	UnitCount    = "count"
	UnitBoolean  = "boolean"
	UnitCode     = "code"
	UnitVersion  = "version"
)

// Metric is a single observation of a probe. Value is one of float64, int,
// int64, bool, string, time.Time or nil.
type Metric struct {
	Name        string            `json:"name"`
	Unit        string            `json:"unit"`
	Value       any               `json:"value"`
	Description string            `json:"description"`
	Tags        map[string]string `json:"tags,omitempty"`
}

// assembleMetrics builds the metric list. It never depends on validation and
// res may be nil after a transport failure.
func assembleMetrics(res *Response, state *State) []Metric {
	metrics := []Metric{
		{
			Name:        MetricCertificateExpiry,
			Unit:        UnitDatetime,
			Value:       certificateExpiry(res),
			Description: "Expiry date of the peer certificate of the final response",
		},
		{
			Name:        MetricContentLength,
			Unit:        UnitBytes,
			Value:       contentLength(res),
			Description: "Content length as announced by the final response",
		},
	}

	for _, phase := range Phases {
		d, ok := state.Duration(phase)
		if !ok {
			continue
		}
		metrics = append(metrics, Metric{
			Name:        MetricDuration,
			Unit:        UnitSeconds,
			Value:       d.Seconds(),
			Description: "Time spent per phase across all legs",
			Tags:        map[string]string{"phase": string(phase)},
		})
	}

	metrics = append(metrics,
		Metric{
			Name:        MetricRedirects,
			Unit:        UnitCount,
			Value:       state.Redirects,
			Description: "Number of followed redirects",
		},
		Metric{
			Name:        MetricSecure,
			Unit:        UnitBoolean,
			Value:       state.Secure(),
			Description: "Whether a TLS handshake happened on any leg",
		},
	)

	var statusCode, httpVersion any
	if res != nil {
		statusCode = res.StatusCode
		httpVersion = res.Version()
	}
	metrics = append(metrics,
		Metric{
			Name:        MetricStatusCode,
			Unit:        UnitCode,
			Value:       statusCode,
			Description: "Status code of the final response",
		},
		Metric{
			Name:        MetricHTTPVersion,
			Unit:        UnitVersion,
			Value:       httpVersion,
			Description: "HTTP version of the final response",
		},
	)
	return metrics
}

func certificateExpiry(res *Response) any {
	if res == nil || res.TLS == nil || len(res.TLS.PeerCertificates) == 0 {
		return nil
	}
	return res.TLS.PeerCertificates[0].NotAfter
}

func contentLength(res *Response) any {
	if res == nil {
		return nil
	}
	header := res.Header.Get("Content-Length")
	if header == "" {
		return nil
	}
	length, err := strconv.ParseInt(header, 10, 64)
	if err != nil || length < 0 {
		return nil
	}
	return length
}
