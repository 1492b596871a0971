// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 Steadybit GmbH

package httpprobe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// ErrTooManyRedirects ends a chain that exceeds Params.MaxRedirects.
var ErrTooManyRedirects = errors.New("too many redirects")

func isFollowedRedirect(statusCode int) bool {
	return statusCode == http.StatusMovedPermanently || statusCode == http.StatusFound
}

// follow recursively follows 301 and 302 responses until a terminal leg is
// reached. Without Params.MaxRedirects there is no bound on the hop count.
func (c *chain) follow(ctx context.Context, res *Response) (*Response, error) {
	if !c.params.followRedirects() || !isFollowedRedirect(res.StatusCode) {
		return res, nil
	}

	location := res.Header.Get("Location")
	if location == "" {
		c.logger.Debug().Int("status", res.StatusCode).Msg("Redirect without location, treating leg as terminal")
		return res, nil
	}
	next, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redirect location '%s': %w", location, err)
	}

	if c.params.MaxRedirects > 0 && c.state.Redirects >= c.params.MaxRedirects {
		return nil, fmt.Errorf("%w: more than %d", ErrTooManyRedirects, c.params.MaxRedirects)
	}
	c.state.Redirects++

	target := res.URL.ResolveReference(next)
	c.logger.Debug().Int("status", res.StatusCode).Int("redirects", c.state.Redirects).Msgf("Following redirect to %s", target.String())

	nextRes, err := c.launch(ctx, target)
	if err != nil {
		return nil, err
	}
	return c.follow(ctx, nextRes)
}
