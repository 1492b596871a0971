// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 Steadybit GmbH

package httpprobe

import (
	"crypto/tls"
	"crypto/x509"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metricNames(metrics []Metric) []string {
	names := make([]string, 0, len(metrics))
	for _, m := range metrics {
		names = append(names, m.Name)
	}
	return names
}

func TestAssembleMetrics_WithoutResponse(t *testing.T) {
	start := time.Now()
	state := newState(start)
	state.record(legMilestones{dnsStart: start, dnsDone: at(start, 3)})

	metrics := assembleMetrics(nil, state)

	assert.Equal(t, []string{
		MetricCertificateExpiry,
		MetricContentLength,
		MetricDuration,
		MetricRedirects,
		MetricSecure,
		MetricStatusCode,
		MetricHTTPVersion,
	}, metricNames(metrics))
	assert.Nil(t, metrics[0].Value)
	assert.Nil(t, metrics[1].Value)
	assert.Equal(t, map[string]string{"phase": "dnsLookup"}, metrics[2].Tags)
	assert.InDelta(t, 0.003, metrics[2].Value, 1e-9)
	assert.Equal(t, 0, metrics[3].Value)
	assert.Equal(t, false, metrics[4].Value)
	assert.Nil(t, metrics[5].Value)
	assert.Nil(t, metrics[6].Value)
}

func TestAssembleMetrics_WithResponse(t *testing.T) {
	start := time.Now()
	state := newState(start)
	state.Redirects = 2
	state.record(legMilestones{
		connectStart: start, connectDone: at(start, 1),
		tlsStart: at(start, 1), tlsDone: at(start, 4),
		firstByte: at(start, 10), responseEnd: at(start, 12),
	})
	expiry := time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC)
	res := newTestResponse(200, "OK")
	res.Header.Set("Content-Length", "2")
	res.TLS = &tls.ConnectionState{PeerCertificates: []*x509.Certificate{{NotAfter: expiry}}}

	metrics := assembleMetrics(res, state)

	require.Len(t, metrics, 2+4+4)
	assert.Equal(t, expiry, metrics[0].Value)
	assert.Equal(t, int64(2), metrics[1].Value)

	var phases []string
	for _, m := range metrics[2:6] {
		assert.Equal(t, MetricDuration, m.Name)
		assert.Equal(t, UnitSeconds, m.Unit)
		assert.GreaterOrEqual(t, m.Value.(float64), 0.0)
		phases = append(phases, m.Tags["phase"])
	}
	assert.Equal(t, []string{"tcpConnection", "tlsHandshake", "firstByte", "contentTransfer"}, phases)

	assert.Equal(t, 2, metrics[6].Value)
	assert.Equal(t, true, metrics[7].Value)
	assert.Equal(t, 200, metrics[8].Value)
	assert.Equal(t, 1.1, metrics[9].Value)
}

func TestAssembleMetrics_ContentLength(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   any
	}{
		{name: "missing", header: "", want: nil},
		{name: "valid", header: "1024", want: int64(1024)},
		{name: "unparsable", header: "a lot", want: nil},
		{name: "negative", header: "-1", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newTestResponse(200, "")
			if tt.header != "" {
				res.Header.Set("Content-Length", tt.header)
			}
			assert.Equal(t, tt.want, contentLength(res))
		})
	}
}

func TestResponse_Version(t *testing.T) {
	assert.Equal(t, 1.0, (&Response{ProtoMajor: 1, ProtoMinor: 0}).Version())
	assert.Equal(t, 1.1, (&Response{ProtoMajor: 1, ProtoMinor: 1}).Version())
	assert.Equal(t, 2.0, (&Response{ProtoMajor: 2, ProtoMinor: 0}).Version())
}
