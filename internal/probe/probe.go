// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package probe fetches a website's landing page and extracts the brand,
// SEO and services signals used to plan its content.
package probe

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"blogtraffic/internal/apperr"
	"blogtraffic/internal/models"
)

// Result is the outcome of probing one page.
type Result struct {
	Profile *models.SiteProfile
	HTML    string // raw markup as fetched, for archiving
}

// Prober fetches and extracts landing pages. It holds no state between calls.
type Prober struct {
	fetcher Fetcher
}

// New creates a prober that retrieves pages with f.
func New(f Fetcher) *Prober {
	return &Prober{fetcher: f}
}

// Probe validates rawURL, fetches it once and extracts its site profile.
func (p *Prober) Probe(ctx context.Context, rawURL string) (*Result, error) {
	pageURL, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}

	html, err := p.fetcher.Fetch(ctx, pageURL.String())
	if err != nil {
		return nil, err
	}

	profile, err := Extract(html, pageURL)
	if err != nil {
		return nil, err
	}

	slog.Info("site probed",
		"url", pageURL.String(),
		"brand", profile.Brand.Name,
		"services", len(profile.Services),
	)
	return &Result{Profile: profile, HTML: html}, nil
}

// ParseURL accepts only absolute http(s) URLs with a host.
func ParseURL(rawURL string) (*url.URL, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("url is required: %w", apperr.ErrValidation)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("malformed url %q: %w", rawURL, apperr.ErrValidation)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("url %q must be an absolute http(s) url: %w", rawURL, apperr.ErrValidation)
	}
	return u, nil
}
