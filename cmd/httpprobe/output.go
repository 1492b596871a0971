// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 Steadybit GmbH

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/steadybit/extension-http-probe/httpprobe"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	gray   = color.New(color.FgHiBlack)
	bold   = color.New(color.Bold)
)

func printResult(w io.Writer, format string, target string, result httpprobe.Result) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "text":
		printText(w, target, result)
		return nil
	default:
		return fmt.Errorf("unknown output format '%s'", format)
	}
}

func printText(w io.Writer, target string, result httpprobe.Result) {
	_, _ = bold.Fprintf(w, "%s\n", target)
	if result.State != nil {
		for i, req := range result.State.Requests {
			_, _ = gray.Fprintf(w, "  [%d] %s %s\n", i, req.Method, req.URL.String())
		}
	}
	if result.TransportErr != nil {
		_, _ = red.Fprintf(w, "  request failed: %v\n", result.TransportErr)
	}

	fmt.Fprintln(w)
	for _, m := range result.Metrics {
		name := m.Name
		if phase, ok := m.Tags["phase"]; ok {
			name = fmt.Sprintf("%s{phase=%s}", m.Name, phase)
		}
		fmt.Fprintf(w, "  %-36s %s\n", name, formatValue(m))
	}

	if len(result.Failures) > 0 {
		fmt.Fprintln(w)
		for _, f := range result.Failures {
			_, _ = red.Fprintf(w, "  ✗ %s: %s\n", f.Cause, f.Description)
		}
	}

	fmt.Fprintln(w)
	if result.Success {
		_, _ = green.Fprintln(w, "SUCCESS")
	} else {
		_, _ = red.Fprintln(w, "FAILED")
	}
}

func formatValue(m httpprobe.Metric) string {
	switch v := m.Value.(type) {
	case nil:
		return gray.Sprint("null")
	case time.Time:
		return v.Format(time.RFC3339)
	case float64:
		if m.Unit == httpprobe.UnitSeconds {
			return fmt.Sprintf("%.6fs", v)
		}
		return fmt.Sprint(v)
	case int:
		if m.Name == httpprobe.MetricStatusCode {
			return statusColor(v).Sprint(v)
		}
		return fmt.Sprint(v)
	default:
		return fmt.Sprint(v)
	}
}

func statusColor(status int) *color.Color {
	switch {
	case status >= http.StatusBadRequest:
		return red
	case status >= http.StatusMultipleChoices:
		return yellow
	default:
		return green
	}
}
