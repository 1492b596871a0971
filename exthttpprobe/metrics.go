// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 Steadybit GmbH

package exthttpprobe

import (
	"time"

	"github.com/steadybit/action-kit/go/action_kit_api/v2"
	"github.com/steadybit/extension-http-probe/httpprobe"
	"github.com/steadybit/extension-kit/extutil"
)

// toActionMetrics converts probe metrics into action kit metrics. Null values
// have no numeric representation and are skipped.
func toActionMetrics(url string, metrics []httpprobe.Metric, timestamp time.Time) []action_kit_api.Metric {
	result := make([]action_kit_api.Metric, 0, len(metrics))
	for _, m := range metrics {
		value, ok := numericValue(m.Value)
		if !ok {
			continue
		}
		labels := map[string]string{
			"url":  url,
			"unit": m.Unit,
		}
		for k, v := range m.Tags {
			labels[k] = v
		}
		result = append(result, action_kit_api.Metric{
			Name:      extutil.Ptr(m.Name),
			Metric:    labels,
			Value:     value,
			Timestamp: timestamp,
		})
	}
	return result
}

func numericValue(v any) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case bool:
		if value {
			return 1, true
		}
		return 0, true
	case time.Time:
		return float64(value.Unix()), true
	default:
		return 0, false
	}
}
