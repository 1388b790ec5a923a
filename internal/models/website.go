// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the records persisted by the stores and exchanged
// by the onboarding pipeline and the JSON API.
package models

import (
	"strings"
	"time"
)

// Website is one registered content destination. The (OwnerID, URL) pair is
// unique; deleting a website removes its Scrape and Blogs.
type Website struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"userId"`
	Name            string    `json:"name"`
	URL             string    `json:"url"`
	Description     string    `json:"description,omitempty"`
	Logo            string    `json:"logo,omitempty"`
	PublishEndpoint string    `json:"publishEndpoint"`
	BlogCount       int       `json:"blogCount"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// WebsiteSummary is the projection returned by the per-owner listing.
type WebsiteSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
	Logo string `json:"logo,omitempty"`
}

// Summary projects the website onto its listing fields.
func (w *Website) Summary() WebsiteSummary {
	return WebsiteSummary{ID: w.ID, Name: w.Name, URL: w.URL, Logo: w.Logo}
}

// PublicWebsite is a website without its owner and publishing target, as
// served to anyone holding its id.
type PublicWebsite struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	Logo        string    `json:"logo,omitempty"`
	BlogCount   int       `json:"blogCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Public projects the website onto the fields readable by id alone.
func (w *Website) Public() PublicWebsite {
	return PublicWebsite{
		ID:          w.ID,
		Name:        w.Name,
		URL:         w.URL,
		Description: w.Description,
		Logo:        w.Logo,
		BlogCount:   w.BlogCount,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

// WebsitePatch carries a partial update of a website. Nil fields are left
// untouched.
type WebsitePatch struct {
	Name            *string `json:"name,omitempty"`
	URL             *string `json:"url,omitempty"`
	Description     *string `json:"description,omitempty"`
	Logo            *string `json:"logo,omitempty"`
	PublishEndpoint *string `json:"publishEndpoint,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p *WebsitePatch) IsEmpty() bool {
	return p.Name == nil && p.URL == nil && p.Description == nil &&
		p.Logo == nil && p.PublishEndpoint == nil
}

// NormalizeURL is the stored form of a website URL: trimmed and lower-cased.
func NormalizeURL(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
