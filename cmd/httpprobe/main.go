// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 Steadybit GmbH

package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/steadybit/extension-http-probe/httpprobe"
)

const (
	exitFailed       = 1
	exitInvalidInput = 2
)

type options struct {
	method            string
	headers           []string
	noFollowRedirects bool
	allowUnauthorized bool
	maxRedirects      int
	expectStatusCodes []string
	expectBodyMatch   []string
	expectBodyMiss    []string
	expectRedirects   int
	expectRedirectTo  string
	expectSecure      string
	expectHTTPVersion string
	output            string
	verbose           bool
}

// exitError carries the process exit code out of the command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit code %d", e.code)
	}
	return e.err.Error()
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			if exitErr.err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", exitErr.err)
			}
			os.Exit(exitErr.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitInvalidInput)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "httpprobe <url>",
		Short:         "Probe an HTTP endpoint and validate the response",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.method, "method", "X", "GET", "HTTP method")
	flags.StringArrayVarP(&opts.headers, "header", "H", nil, "HTTP header 'Name: value' (repeatable)")
	flags.BoolVar(&opts.noFollowRedirects, "no-follow-redirects", false, "Do not follow 301 and 302 redirects")
	flags.BoolVarP(&opts.allowUnauthorized, "insecure", "k", false, "Skip certificate verification")
	flags.IntVar(&opts.maxRedirects, "max-redirects", 0, "Fail once more redirects would be followed, 0 for no limit")
	flags.StringArrayVar(&opts.expectStatusCodes, "expect-status", nil, "Expected status code, class (2xx) or range (200-299) (repeatable)")
	flags.StringArrayVar(&opts.expectBodyMatch, "expect-body-match", nil, "Regular expression the body must match (repeatable)")
	flags.StringArrayVar(&opts.expectBodyMiss, "expect-body-mismatch", nil, "Regular expression the body must not match (repeatable)")
	flags.IntVar(&opts.expectRedirects, "expect-redirects", -1, "Exact number of expected redirects, -1 for no check")
	flags.StringVar(&opts.expectRedirectTo, "expect-redirect-to", "", "URL the redirect chain has to end at")
	flags.StringVar(&opts.expectSecure, "expect-secure", "", "Expect a TLS handshake (true) or none (false)")
	flags.StringVar(&opts.expectHTTPVersion, "expect-http-version", "", "Expected HTTP version, e.g. 1.1 or 2")
	flags.StringVarP(&opts.output, "output", "o", "text", "Output format: text or json")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	return cmd
}

func run(cmd *cobra.Command, opts *options, target string) error {
	level := zerolog.WarnLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).Level(level)

	params, err := toParams(opts)
	if err != nil {
		return &exitError{code: exitInvalidInput, err: err}
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	result, err := (&httpprobe.Prober{}).Probe(ctx, target, params)
	if err != nil {
		return &exitError{code: exitInvalidInput, err: err}
	}

	if err := printResult(cmd.OutOrStdout(), opts.output, target, result); err != nil {
		return &exitError{code: exitInvalidInput, err: err}
	}
	if !result.Success {
		return &exitError{code: exitFailed}
	}
	return nil
}

func toParams(opts *options) (httpprobe.Params, error) {
	params := httpprobe.Params{
		Method:               strings.ToUpper(opts.method),
		AllowUnauthorized:    opts.allowUnauthorized,
		MaxRedirects:         opts.maxRedirects,
		ExpectRedirectTarget: opts.expectRedirectTo,
		ExpectBodyMatch:      opts.expectBodyMatch,
		ExpectBodyMismatch:   opts.expectBodyMiss,
		ExpectStatusCode:     opts.expectStatusCodes,
		ExpectHTTPVersion:    opts.expectHTTPVersion,
	}
	if opts.noFollowRedirects {
		follow := false
		params.FollowRedirects = &follow
	}
	if opts.expectRedirects >= 0 {
		expected := opts.expectRedirects
		params.ExpectRedirects = &expected
	}

	switch strings.ToLower(opts.expectSecure) {
	case "":
	case "true":
		secure := true
		params.ExpectSecure = &secure
	case "false":
		secure := false
		params.ExpectSecure = &secure
	default:
		return params, fmt.Errorf("invalid --expect-secure '%s', use true or false", opts.expectSecure)
	}

	if len(opts.headers) > 0 {
		params.Headers = make(map[string]string, len(opts.headers))
		for _, header := range opts.headers {
			name, value, ok := strings.Cut(header, ":")
			if !ok || strings.TrimSpace(name) == "" {
				return params, fmt.Errorf("invalid header '%s', use 'Name: value'", header)
			}
			params.Headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
		}
	}
	return params, nil
}
