// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 Steadybit GmbH

// Package httpprobe probes an HTTP(S) endpoint, optionally following
// redirects, measures the time spent per connection phase across all legs of
// the chain and validates the final response against declarative
// expectations.
package httpprobe

import (
	"context"
	"crypto/x509"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Result of one probe. Metrics are always present; Failures is empty whenever
// no response was obtained.
type Result struct {
	Metrics  []Metric  `json:"metrics"`
	Failures []Failure `json:"failures"`
	Success  bool      `json:"success"`

	Response *Response `json:"-"`
	State    *State    `json:"-"`
	// TransportErr is set when the chain ended without a response.
	TransportErr error `json:"-"`
}

// Prober runs probes. The zero value is ready to use; probes are independent
// of each other and may run concurrently.
type Prober struct {
	// RootCAs overrides the system roots used for certificate verification.
	RootCAs *x509.CertPool
	// Now is the clock used for timing milestones, time.Now if unset.
	Now func() time.Time
}

// CheckParams reports the first input error Probe would fail with, without
// issuing any request.
func CheckParams(target string, params Params) error {
	if _, err := parseTarget(target); err != nil {
		return err
	}
	_, err := compileExpectations(params)
	return err
}

// Probe runs a probe against target. A returned error always indicates
// unusable input; transport failures are reported through the Result.
func (p *Prober) Probe(ctx context.Context, target string, params Params) (Result, error) {
	targetURL, err := parseTarget(target)
	if err != nil {
		return Result{}, err
	}
	e, err := compileExpectations(params)
	if err != nil {
		return Result{}, err
	}

	now := p.Now
	if now == nil {
		now = time.Now
	}
	c := &chain{
		client: createHttpClient(params, p.RootCAs),
		params: params,
		state:  newState(now()),
		logger: log.With().Str("probeId", uuid.NewString()).Str("target", target).Logger(),
		now:    now,
	}

	res, err := c.launch(ctx, targetURL)
	if err == nil {
		res, err = c.follow(ctx, res)
	}

	result := Result{
		Failures:     make([]Failure, 0),
		Response:     res,
		State:        c.state,
		TransportErr: err,
	}
	if err != nil {
		c.logger.Warn().Err(err).Int("legs", len(c.state.Requests)).Msg("Probe ended without response")
	} else {
		result.Failures = validate(e, res, c.state)
	}
	result.Metrics = assembleMetrics(res, c.state)
	result.Success = res != nil && len(result.Failures) == 0

	logResult(c.logger, result)
	return result, nil
}

func parseTarget(target string) (*url.URL, error) {
	targetURL, err := url.Parse(target)
	if err != nil {
		return nil, &InputError{Field: "url", Value: target, Err: err}
	}
	if targetURL.Scheme != "http" && targetURL.Scheme != "https" {
		return nil, &InputError{Field: "url", Value: target, Err: fmt.Errorf("unsupported scheme '%s'", targetURL.Scheme)}
	}
	if targetURL.Host == "" {
		return nil, &InputError{Field: "url", Value: target, Err: fmt.Errorf("host is missing")}
	}
	return targetURL, nil
}

func logResult(logger zerolog.Logger, result Result) {
	level := zerolog.InfoLevel
	if !result.Success {
		level = zerolog.WarnLevel
	}
	for _, f := range result.Failures {
		logger.Debug().Str("cause", f.Cause).Msg(f.Description)
	}
	logger.WithLevel(level).Bool("success", result.Success).
		Int("failures", len(result.Failures)).
		Int("redirects", result.State.Redirects).
		Msg("Probe finished")
}
