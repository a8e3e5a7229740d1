package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	apierrors "feargreed/internal/errors"
)

const (
	maxResponseSize = 32 << 20
	maxAttempts     = 3
)

// Client performs rate limited JSON GETs against the public data APIs.
// Every request, retries included, waits for the shared limiter.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	retryWait  time.Duration
	logger     *slog.Logger
}

// NewClient creates a client. rps <= 0 disables rate limiting.
func NewClient(timeout time.Duration, rps float64, userAgent string, logger *slog.Logger) *Client {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
		userAgent:  userAgent,
		retryWait:  2 * time.Second,
		logger:     logger.With(slog.String("component", "collector_client")),
	}
}

// GetJSON fetches rawURL and decodes the body into v. 429 and 5xx answers
// are retried; the wait honours Retry-After when it is given in seconds.
func (c *Client) GetJSON(ctx context.Context, rawURL string, v interface{}) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		retry, wait, err := c.get(ctx, rawURL, v)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry || attempt == maxAttempts {
			break
		}

		c.logger.WarnContext(ctx, "request failed, retrying",
			slog.String("url", rawURL),
			slog.Int("attempt", attempt),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return lastErr
}

func (c *Client) get(ctx context.Context, rawURL string, v interface{}) (retry bool, wait time.Duration, err error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return false, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, 0, ctx.Err()
		}
		return true, c.retryWait, apierrors.NewNetworkError("request failed", err).WithContext("url", rawURL)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "response received",
		slog.String("url", rawURL),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		appErr := apierrors.NewNetworkError(fmt.Sprintf("unexpected status %d", resp.StatusCode), nil).
			WithContext("url", rawURL).
			WithContext("status", resp.StatusCode)

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return true, c.retryAfter(resp), appErr
		}
		return false, 0, appErr
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(v); err != nil {
		return false, 0, apierrors.NewParsingError("decode response", err).WithContext("url", rawURL)
	}
	return false, 0, nil
}

func (c *Client) retryAfter(resp *http.Response) time.Duration {
	if s := resp.Header.Get("Retry-After"); s != "" {
		if secs, err := strconv.Atoi(s); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return c.retryWait
}
