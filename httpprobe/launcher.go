// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 Steadybit GmbH

package httpprobe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Response is the captured outcome of a leg. The body has been read
// completely and the connection is closed.
type Response struct {
	URL        url.URL
	StatusCode int
	Status     string
	Proto      string
	ProtoMajor int
	ProtoMinor int
	Header     http.Header
	Body       []byte
	TLS        *tls.ConnectionState
}

// Version returns the protocol version as number, e.g. 1.1 or 2.
func (r *Response) Version() float64 {
	v, _ := strconv.ParseFloat(fmt.Sprintf("%d.%d", r.ProtoMajor, r.ProtoMinor), 64)
	return v
}

// chain runs the legs of one probe. It is the single owner of its State.
type chain struct {
	client *http.Client
	params Params
	state  *State
	logger zerolog.Logger
	now    func() time.Time
}

func createHttpClient(params Params, rootCAs *x509.CertPool) *http.Client {
	// every leg opens and closes its own connection, so each leg reports
	// its own dns, connect and handshake milestones. Bodies and headers are
	// kept as sent on the wire, without transparent decompression.
	transport := &http.Transport{
		DisableKeepAlives:  true,
		DisableCompression: true,
		DialContext:        (&net.Dialer{}).DialContext,
		ForceAttemptHTTP2:  true,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: params.AllowUnauthorized,
			RootCAs:            rootCAs,
		},
	}
	return &http.Client{
		Transport: transport,
		// redirects are followed by the chain itself
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func createRequest(ctx context.Context, params Params, target *url.URL) (*http.Request, error) {
	request, err := http.NewRequestWithContext(ctx, strings.ToUpper(params.method()), target.String(), nil)
	if err == nil {
		for k, v := range params.Headers {
			request.Header.Add(k, v)
		}
	}
	return request, err
}

// launch issues a single leg. A nil response together with an error means the
// transport failed; this is a regular outcome of a probe, not a fatal one.
func (c *chain) launch(ctx context.Context, target *url.URL) (*Response, error) {
	req, err := createRequest(ctx, c.params, target)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.state.Requests = append(c.state.Requests, RequestDescriptor{
		Method:            req.Method,
		URL:               *req.URL,
		Header:            req.Header.Clone(),
		VerifyCertificate: !c.params.AllowUnauthorized,
	})

	tracer := newLegTracer(c.now)
	req = req.WithContext(httptrace.WithClientTrace(req.Context(), &tracer.ClientTrace))

	if c.logger.GetLevel() == zerolog.TraceLevel {
		c.logger.Trace().Any("headers", req.Header).Msgf("Requesting %s %s", req.Method, req.URL.String())
	} else {
		c.logger.Debug().Msgf("Requesting %s %s", req.Method, req.URL.String())
	}

	response, err := c.client.Do(req)
	if err != nil {
		c.state.record(tracer.milestones())
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	body, err := io.ReadAll(response.Body)
	tracer.responseEnded()
	c.state.record(tracer.milestones())
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if c.logger.GetLevel() == zerolog.TraceLevel {
		c.logger.Trace().Str("status", response.Status).Bytes("body", body).Any("headers", response.Header).Msgf("Got response for %s %s", req.Method, req.URL.String())
	} else {
		c.logger.Debug().Str("status", response.Status).Int("body-size", len(body)).Msgf("Got response for %s %s", req.Method, req.URL.String())
	}

	return &Response{
		URL:        *req.URL,
		StatusCode: response.StatusCode,
		Status:     response.Status,
		Proto:      response.Proto,
		ProtoMajor: response.ProtoMajor,
		ProtoMinor: response.ProtoMinor,
		Header:     response.Header,
		Body:       body,
		TLS:        response.TLS,
	}, nil
}
