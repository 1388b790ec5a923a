// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"

	"blogtraffic/internal/apperr"
)

// UserAgent is sent with every landing-page request. Some hosts refuse
// requests that do not look like they come from a browser.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebkit/537.36"

// maxBodyBytes caps how much of a landing page is read.
const maxBodyBytes = 5 << 20

// Fetcher retrieves the HTML of a page. Implementations perform exactly one
// attempt: transport errors and non-2xx statuses wrap apperr.ErrFetch.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// HTTPFetcher performs a single GET and decodes the body to UTF-8 from the
// charset the server declares.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher whose client gives up after timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch downloads pageURL.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("probe request: %w", apperr.ErrValidation)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("probe get %s: %v: %w", pageURL, err, apperr.ErrFetch)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("probe get %s: status %d: %w", pageURL, resp.StatusCode, apperr.ErrFetch)
	}

	body := io.LimitReader(resp.Body, maxBodyBytes)
	utf8Reader, err := charset.NewReader(body, resp.Header.Get("Content-Type"))
	if err != nil {
		utf8Reader = body
	}

	raw, err := io.ReadAll(utf8Reader)
	if err != nil {
		return "", fmt.Errorf("probe read %s: %v: %w", pageURL, err, apperr.ErrFetch)
	}
	return string(raw), nil
}
