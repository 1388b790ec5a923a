// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	// generateTimeout bounds one completion request.
	generateTimeout = 60 * time.Second

	// maxResponseBytes caps how much of a provider reply is read.
	maxResponseBytes = 8 << 20

	// maxAttempts is how many times a throttled or failing call is sent.
	maxAttempts = 3

	// maxRetryWait caps a server-supplied Retry-After.
	maxRetryWait = 10 * time.Second
)

// retryDelay is the base of the exponential backoff.
var retryDelay = 500 * time.Millisecond

// ErrNoContent is returned when a provider answers 200 without any text.
var ErrNoContent = errors.New("no content in response")

// StatusError is a non-200 reply from a provider API.
type StatusError struct {
	Provider   string
	Code       int
	Body       string
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.Code, e.Body)
}

// Temporary reports whether sending the same request again may succeed.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// endpoint is the JSON-over-HTTP plumbing shared by every provider and
// moderator. label prefixes errors so failures name their provider.
type endpoint struct {
	label  string
	client *http.Client
}

func newEndpoint(label string, timeout time.Duration) endpoint {
	return endpoint{label: label, client: &http.Client{Timeout: timeout}}
}

// post sends payload to url and decodes a 200 reply into out. 429 and 5xx
// replies are retried with exponential backoff, or after the server's
// Retry-After when it sends one, until maxAttempts is reached or ctx ends.
func (e endpoint) post(ctx context.Context, url string, headers map[string]string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s marshal: %w", e.label, err)
	}

	var last *StatusError
	backoff := retry.WithMaxRetries(maxAttempts-1, retry.NewExponential(retryDelay))
	wait := retry.BackoffFunc(func() (time.Duration, bool) {
		next, stop := backoff.Next()
		if stop {
			return 0, true
		}
		if last != nil && last.RetryAfter > 0 {
			return min(last.RetryAfter, maxRetryWait), false
		}
		return next, false
	})

	return retry.Do(ctx, wait, func(ctx context.Context) error {
		respBody, err := e.send(ctx, url, headers, body)
		if err != nil {
			var se *StatusError
			if errors.As(err, &se) && se.Temporary() {
				last = se
				return retry.RetryableError(err)
			}
			return err
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%s unmarshal: %w", e.label, err)
		}
		return nil
	})
}

func (e endpoint) send(ctx context.Context, url string, headers map[string]string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", e.label, err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s http: %w", e.label, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%s read body: %w", e.label, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{
			Provider:   e.label,
			Code:       resp.StatusCode,
			Body:       string(respBody),
			RetryAfter: retryAfter(resp.Header.Get("Retry-After")),
		}
	}
	return respBody, nil
}

// retryAfter parses the delay-seconds form of Retry-After. HTTP dates are
// ignored and fall back to the default backoff.
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
