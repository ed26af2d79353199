// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the metadata providers.
package httputil

import (
	"context"
	"io"
	"net/http"
	"time"
)

// DefaultRetryDelay is the wait before the single retry of a transient
// failure when the caller does not supply one.
var DefaultRetryDelay = 2 * time.Second

// maxAttempts bounds each request to one retry.
const maxAttempts = 2

// Transient reports whether an HTTP status is worth one more attempt:
// 429 (Too Many Requests) and any 5xx.
func Transient(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// Waiter paces outbound requests. *rate.Limiter satisfies it.
type Waiter interface {
	Wait(ctx context.Context) error
}

// DoWithRetry executes req and, on a network error or a transient status,
// waits a fixed delay and tries exactly once more. There is no backoff.
//
// When limiter is non-nil every attempt, the retry included, waits on it
// first. When delay is 0 DefaultRetryDelay is used. The body of a discarded
// response is drained and closed before the retry. If ctx is cancelled
// during the wait the function returns ctx.Err(). After the last attempt the
// response (or error) is returned as-is so the caller can classify it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, delay time.Duration, limiter Waiter) (*http.Response, error) {
	if delay <= 0 {
		delay = DefaultRetryDelay
	}

	for attempt := 1; ; attempt++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		resp, err := client.Do(req.Clone(ctx))
		if err == nil && !Transient(resp.StatusCode) {
			return resp, nil
		}
		if attempt >= maxAttempts {
			return resp, err
		}
		if ctx.Err() != nil {
			if resp != nil {
				resp.Body.Close()
			}
			return nil, ctx.Err()
		}

		if resp != nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}
