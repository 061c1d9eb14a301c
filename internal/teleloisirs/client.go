// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package teleloisirs is a client for the Télé Loisirs mobile REST API.
package teleloisirs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	xglog "github.com/ManuGH/tlgrab/internal/log"
	"github.com/ManuGH/tlgrab/internal/telemetry"
)

const (
	// DefaultBaseURL is the production API root.
	DefaultBaseURL = "https://api-tel.programme-tv.net"
	// DefaultUserAgent mimics the official Android application.
	DefaultUserAgent = "Tele-Loisirs(7.0.0|7000001) ~ Android(9|28) ~ " +
		"mobile(xiaomi|Redmi_Note_8|density=2.75) ~ okhttp(4.8.0)"

	defaultTimeout    = 30 * time.Second
	defaultRetries    = 2
	defaultBackoff    = 250 * time.Millisecond
	defaultMaxBackoff = 2 * time.Second
	defaultMaxPages   = 1000
)

// maxResponseBytes caps a single response body. Larger bodies fail with
// ErrResponseTooLarge instead of being decoded from a truncated read.
var maxResponseBytes int64 = 32 << 20

// Options configures the API client.
type Options struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int // 0 selects the default, negative disables retries
	Backoff    time.Duration
	MaxBackoff time.Duration
	// RateLimit of 0 leaves requests unthrottled.
	RateLimit      rate.Limit
	RateLimitBurst int
	MaxPages       int
	// HTTPClient overrides the pooled client. Used by tests.
	HTTPClient *http.Client
}

// Client issues GET requests against the API. It is safe for concurrent use;
// all callers share one pooled transport.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	maxRetries int
	backoff    time.Duration
	maxBackoff time.Duration
	pages      *Paginator
}

// NewClient creates a client from opts.
func NewClient(opts Options) (*Client, error) {
	nopts := normalizeOptions(opts)

	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(nopts.BaseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", nopts.BaseURL)
	}

	hc := nopts.HTTPClient
	if hc == nil {
		transport := &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   32,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: nopts.Timeout,
		}
		hc = &http.Client{
			Timeout:   nopts.Timeout,
			Transport: otelhttp.NewTransport(transport),
		}
	}

	limit := nopts.RateLimit
	burst := nopts.RateLimitBurst
	if limit <= 0 {
		limit = rate.Inf
	}

	c := &Client{
		baseURL:    base,
		httpClient: hc,
		limiter:    rate.NewLimiter(limit, burst),
		userAgent:  nopts.UserAgent,
		maxRetries: nopts.MaxRetries,
		backoff:    nopts.Backoff,
		maxBackoff: nopts.MaxBackoff,
	}
	c.pages = NewPaginator(c, nopts.MaxPages)
	return c, nil
}

func normalizeOptions(opts Options) Options {
	if strings.TrimSpace(opts.BaseURL) == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	switch {
	case opts.MaxRetries < 0:
		opts.MaxRetries = 0
	case opts.MaxRetries == 0:
		opts.MaxRetries = defaultRetries
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = defaultMaxBackoff
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = 1
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = defaultMaxPages
	}
	return opts
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Query performs one GET of path with the given query parameters and returns
// the decoded envelope. Transport failures and 5xx responses are retried.
func (c *Client) Query(ctx context.Context, path string, params url.Values) (*Envelope, error) {
	u := *c.baseURL
	u.Path = c.resolvePath(path)
	u.RawQuery = params.Encode()
	rawURL := u.String()
	endpoint := endpointLabel(path)
	op := "GET " + strings.Trim(path, "/")

	ctx, span := telemetry.Tracer("tlgrab.teleloisirs").Start(ctx, "teleloisirs.query",
		trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(attribute.String(telemetry.HTTPRouteKey, endpoint))
	defer span.End()

	logger := xglog.WithComponentFromContext(ctx, "teleloisirs")

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.backoff
	policy.MaxInterval = c.maxBackoff
	policy.RandomizationFactor = 0.2

	attempt := 0
	env, err := backoff.Retry(ctx, func() (*Envelope, error) {
		attempt++
		return c.attempt(ctx, op, endpoint, rawURL)
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(c.maxRetries+1)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			requestRetries.WithLabelValues(endpoint).Inc()
			logger.Debug().
				Err(err).
				Str(xglog.FieldURL, rawURL).
				Int(xglog.FieldAttempt, attempt).
				Dur("wait", wait).
				Msg("retrying API request")
		}),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Debug().Err(err).Str(xglog.FieldURL, rawURL).Msg("error while retrieving URL")
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			err = &APIError{Sentinel: ErrTransport, Op: op, URL: rawURL, Err: err}
		}
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	logger.Debug().Str(xglog.FieldURL, rawURL).Msg("retrieved URL")
	return env, nil
}

// resolvePath joins path onto the base URL path. Absolute paths that already
// carry the base prefix, as pagination cursors do, are used unchanged.
func (c *Client) resolvePath(path string) string {
	base := strings.TrimRight(c.baseURL.Path, "/")
	trimmed := strings.Trim(path, "/")
	if base != "" && strings.HasPrefix(path, "/") {
		if abs := "/" + trimmed; abs == base || strings.HasPrefix(abs, base+"/") {
			return abs
		}
	}
	return base + "/" + trimmed
}

func (c *Client) attempt(ctx context.Context, op, endpoint, rawURL string) (*Envelope, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, backoff.Permanent(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, backoff.Permanent(&APIError{Sentinel: ErrTransport, Op: op, URL: rawURL, Err: err})
	}
	c.applyHeaders(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordAttemptMetrics(endpoint, 0, time.Since(start), err)
		apiErr := &APIError{Sentinel: ErrTransport, Op: op, URL: rawURL, Err: err}
		if ctx.Err() != nil {
			return nil, backoff.Permanent(apiErr)
		}
		return nil, apiErr
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	recordAttemptMetrics(endpoint, resp.StatusCode, time.Since(start), err)
	if err != nil {
		return nil, &APIError{Sentinel: ErrTransport, Op: op, URL: rawURL, Status: resp.StatusCode, Err: err}
	}
	if int64(len(body)) > maxResponseBytes {
		return nil, backoff.Permanent(&APIError{
			Sentinel: ErrResponseTooLarge,
			Op:       op,
			URL:      rawURL,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("response exceeds %d bytes", maxResponseBytes),
		})
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{
			Sentinel: ErrUpstream,
			Op:       op,
			URL:      rawURL,
			Status:   resp.StatusCode,
			Message:  bodyMessage(body),
			Err:      fmt.Errorf("unexpected status %s", resp.Status),
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, apiErr
		}
		return nil, backoff.Permanent(apiErr)
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, backoff.Permanent(&APIError{Sentinel: ErrDecode, Op: op, URL: rawURL, Status: resp.StatusCode, Err: err})
	}
	if env.Data == nil {
		if msg := env.VendorMessage(); msg != "" {
			return nil, backoff.Permanent(&APIError{Sentinel: ErrUpstream, Op: op, URL: rawURL, Status: resp.StatusCode, Message: msg})
		}
		env.Data = &Data{}
	}
	return &env, nil
}

func (c *Client) applyHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
}

func bodyMessage(body []byte) string {
	var probe struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return ""
	}
	return messageText(probe.Message)
}

// endpointLabel collapses per-program paths so metric cardinality stays bounded.
func endpointLabel(path string) string {
	p := strings.Trim(path, "/")
	if strings.HasPrefix(p, "v2/programs/") {
		return "v2/programs/{id}.json"
	}
	if p == "" {
		return "/"
	}
	return p
}
