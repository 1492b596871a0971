// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 Steadybit GmbH

package exthttpprobe

import (
	"testing"
	"time"

	"github.com/steadybit/extension-http-probe/httpprobe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToActionMetrics(t *testing.T) {
	now := time.Now()
	expiry := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	metrics := []httpprobe.Metric{
		{Name: httpprobe.MetricCertificateExpiry, Unit: httpprobe.UnitDatetime, Value: expiry},
		{Name: httpprobe.MetricContentLength, Unit: httpprobe.UnitBytes, Value: nil},
		{Name: httpprobe.MetricDuration, Unit: httpprobe.UnitSeconds, Value: 0.25, Tags: map[string]string{"phase": "firstByte"}},
		{Name: httpprobe.MetricRedirects, Unit: httpprobe.UnitCount, Value: 2},
		{Name: httpprobe.MetricSecure, Unit: httpprobe.UnitBoolean, Value: true},
		{Name: httpprobe.MetricStatusCode, Unit: httpprobe.UnitCode, Value: 200},
		{Name: "bytes", Unit: httpprobe.UnitBytes, Value: int64(42)},
		{Name: "ignored", Unit: "text", Value: "not a number"},
	}

	result := toActionMetrics("https://steadybit.com", metrics, now)

	require.Len(t, result, 6)
	assert.Equal(t, float64(expiry.Unix()), result[0].Value)
	assert.Equal(t, 0.25, result[1].Value)
	assert.Equal(t, map[string]string{"url": "https://steadybit.com", "unit": "seconds", "phase": "firstByte"}, result[1].Metric)
	assert.Equal(t, 2.0, result[2].Value)
	assert.Equal(t, 1.0, result[3].Value)
	assert.Equal(t, 200.0, result[4].Value)
	assert.Equal(t, 42.0, result[5].Value)
	for _, m := range result {
		assert.Equal(t, now, m.Timestamp)
	}
}
