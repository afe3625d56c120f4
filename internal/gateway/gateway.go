// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gateway wraps all outbound provider calls behind a single
// rate-limited HTTP client. Every provider adapter shares one Client, so the
// minimum inter-request interval is global across providers, not per
// provider. Failures are returned to callers as errors, never panics; a
// failed call still consumes the rate-limit slot so transient flapping
// cannot bypass throttling.
package gateway

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pdiddy/paper-mentat/pkg/types"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 10 * time.Second

const defaultMaxRetries = 3

// Client is the rate-limited HTTP gateway.
type Client struct {
	http       *http.Client
	limiter    *rate.Limiter
	userAgent  string
	maxRetries int
	log        zerolog.Logger
}

// New builds a Client from gateway configuration. A RatePerSecond of r
// enforces a minimum interval of 1/r between any two outbound requests
// (burst 1, so there is no catch-up after idle periods beyond one request).
func New(cfg types.GatewayConfig, log zerolog.Logger) *Client {
	rps := cfg.RatePerSecond
	if rps <= 0 {
		rps = 1
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &Client{
		http:       &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		userAgent:  cfg.UserAgent,
		maxRetries: maxRetries,
		log:        log,
	}
}

// Get issues a throttled GET to rawURL with params encoded as the query
// string. A transport error or non-2xx status returns an error after a
// logged warning; callers treat that as "provider returned nothing".
func (c *Client) Get(ctx context.Context, rawURL string, params url.Values) (*http.Response, error) {
	if len(params) > 0 {
		rawURL = rawURL + "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	return c.Do(req)
}

// Do executes an arbitrary request through the throttle and retry layers.
// Adapters that need extra headers (bearer tokens, Accept) build the request
// themselves and call Do.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	// The token is taken before the request is issued so the interval is
	// enforced regardless of the call's outcome.
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if req.Header.Get("User-Agent") == "" && c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.doWithRetry(ctx, req)
	if err != nil {
		c.log.Warn().Str("url", req.URL.String()).Err(err).Msg("request failed")
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		c.log.Warn().Str("url", req.URL.String()).Int("status", resp.StatusCode).Msg("request failed")
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, req.URL)
	}
	return resp, nil
}

// doWithRetry retries on HTTP 429 with exponential backoff starting at
// RetryBaseDelay. Each retry waits for its own rate-limit slot. After
// exhausting retries the last 429 response is returned to the status check
// in Do.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := c.http.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= c.maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		c.log.Warn().Str("url", req.URL.String()).Dur("backoff", backoff).
			Int("attempt", attempt+1).Msg("rate limited by provider, backing off")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
}

// GetJSON issues Get and decodes the response body into v.
func (c *Client) GetJSON(ctx context.Context, rawURL string, params url.Values, v any) error {
	resp, err := c.Get(ctx, rawURL, params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing response from %s: %w", rawURL, err)
	}
	return nil
}

// GetXML issues Get and decodes the response body into v.
func (c *Client) GetXML(ctx context.Context, rawURL string, params url.Values, v any) error {
	resp, err := c.Get(ctx, rawURL, params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := xml.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing response from %s: %w", rawURL, err)
	}
	return nil
}
