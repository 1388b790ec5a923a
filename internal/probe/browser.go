// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"blogtraffic/internal/apperr"
)

// BrowserFetcher renders the page in headless Chrome before reading its
// markup, for landing pages that build their content with JavaScript.
type BrowserFetcher struct {
	allocCtx context.Context
	cancel   context.CancelFunc
	timeout  time.Duration
}

// NewBrowserFetcher starts a headless browser allocator. Call Close to
// shut the browser down.
func NewBrowserFetcher(timeout time.Duration) *BrowserFetcher {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &BrowserFetcher{allocCtx: allocCtx, cancel: cancel, timeout: timeout}
}

// Fetch navigates to pageURL once and returns the rendered document.
func (b *BrowserFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	taskCtx, cancelTab := chromedp.NewContext(b.allocCtx)
	defer cancelTab()

	taskCtx, cancel := context.WithTimeout(taskCtx, b.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	resp, err := chromedp.RunResponse(taskCtx, chromedp.Navigate(pageURL))
	if err != nil {
		return "", fmt.Errorf("probe render %s: %v: %w", pageURL, err, apperr.ErrFetch)
	}
	if resp != nil && (resp.Status < 200 || resp.Status > 299) {
		return "", fmt.Errorf("probe render %s: status %d: %w", pageURL, resp.Status, apperr.ErrFetch)
	}

	var html string
	if err := chromedp.Run(taskCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("probe render %s: %v: %w", pageURL, err, apperr.ErrFetch)
	}
	return html, nil
}

// Close stops the browser.
func (b *BrowserFetcher) Close() {
	b.cancel()
}
