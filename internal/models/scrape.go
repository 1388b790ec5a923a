// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Storage bounds of a scrape snapshot.
const (
	MaxTopicThemeLen  = 500
	MaxDescriptionLen = 500
	MaxServices       = 20
)

// Brand is the identity extracted from a landing page.
type Brand struct {
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// SEO is the coarse search context extracted from a landing page.
type SEO struct {
	TopicTheme  string `json:"topicTheme"`
	Description string `json:"description,omitempty"`
}

// SiteProfile is what the site prober extracts from one page.
type SiteProfile struct {
	Brand    Brand    `json:"brand"`
	SEO      SEO      `json:"seo"`
	Services []string `json:"services"`
}

// Scrape is the brand/SEO snapshot captured when a website is registered.
// SnapshotKey points at the archived raw HTML when object storage is
// configured.
type Scrape struct {
	ID          string    `json:"id"`
	WebsiteID   string    `json:"websiteId"`
	Brand       Brand     `json:"brand"`
	SEO         SEO       `json:"seo"`
	Services    []string  `json:"services"`
	SnapshotKey string    `json:"snapshotKey,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewScrape builds the snapshot record for a profile, clamping each field to
// its storage bound.
func NewScrape(p *SiteProfile) *Scrape {
	services := p.Services
	if len(services) > MaxServices {
		services = services[:MaxServices]
	}
	return &Scrape{
		Brand: p.Brand,
		SEO: SEO{
			TopicTheme:  clampRunes(p.SEO.TopicTheme, MaxTopicThemeLen),
			Description: clampRunes(p.SEO.Description, MaxDescriptionLen),
		},
		Services: append([]string(nil), services...),
	}
}

// Profile returns the snapshot as the profile it was captured from.
func (s *Scrape) Profile() *SiteProfile {
	return &SiteProfile{Brand: s.Brand, SEO: s.SEO, Services: s.Services}
}

func clampRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
