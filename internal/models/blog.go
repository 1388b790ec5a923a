// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// BlogStatus is the editorial state of a blog post.
type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusScheduled BlogStatus = "scheduled"
	BlogStatusPublished BlogStatus = "published"
	BlogStatusFailed    BlogStatus = "failed"
)

// Valid reports whether s is one of the known statuses.
func (s BlogStatus) Valid() bool {
	switch s {
	case BlogStatusDraft, BlogStatusScheduled, BlogStatusPublished, BlogStatusFailed:
		return true
	}
	return false
}

// Keyword is a search term with its estimated monthly volume.
type Keyword struct {
	Name   string `json:"name"`
	Volume int    `json:"volume"`
}

// Blog is one content item of a website's editorial calendar.
type Blog struct {
	ID             string     `json:"id"`
	OwnerID        string     `json:"userId,omitempty"`
	WebsiteID      string     `json:"websiteId,omitempty"`
	Title          string     `json:"title"`
	Slug           string     `json:"slug,omitempty"`
	Content        string     `json:"content,omitempty"`
	SEOTitle       string     `json:"seoTitle,omitempty"`
	SEODescription string     `json:"seoDescription,omitempty"`
	Keywords       []Keyword  `json:"keywords"`
	Status         BlogStatus `json:"status"`
	ScheduledFor   *time.Time `json:"scheduledFor,omitempty"`
	PublishedAt    *time.Time `json:"publishedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// BlogSummary is the projection returned by the per-website listing.
type BlogSummary struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Status       BlogStatus `json:"status"`
	Keywords     []Keyword  `json:"keywords"`
	ScheduledFor *time.Time `json:"scheduledFor,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Summary projects the blog onto its listing fields.
func (b *Blog) Summary() BlogSummary {
	return BlogSummary{
		ID:           b.ID,
		Title:        b.Title,
		Status:       b.Status,
		Keywords:     b.Keywords,
		ScheduledFor: b.ScheduledFor,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

// BlogPatch carries a partial update of a blog. Nil fields are left
// untouched; there is no state machine on Status.
type BlogPatch struct {
	Title          *string     `json:"title,omitempty"`
	Slug           *string     `json:"slug,omitempty"`
	Content        *string     `json:"content,omitempty"`
	SEOTitle       *string     `json:"seoTitle,omitempty"`
	SEODescription *string     `json:"seoDescription,omitempty"`
	Keywords       *[]Keyword  `json:"keywords,omitempty"`
	Status         *BlogStatus `json:"status,omitempty"`
	ScheduledFor   *time.Time  `json:"scheduledFor,omitempty"`
	PublishedAt    *time.Time  `json:"publishedAt,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p *BlogPatch) IsEmpty() bool {
	return p.Title == nil && p.Slug == nil && p.Content == nil &&
		p.SEOTitle == nil && p.SEODescription == nil && p.Keywords == nil &&
		p.Status == nil && p.ScheduledFor == nil && p.PublishedAt == nil
}

// StampPublished sets PublishedAt when the patch publishes without one.
func (p *BlogPatch) StampPublished(now time.Time) {
	if p.Status != nil && *p.Status == BlogStatusPublished && p.PublishedAt == nil {
		p.PublishedAt = &now
	}
}

// Apply merges the patch into b. UpdatedAt is left to the store.
func (p *BlogPatch) Apply(b *Blog) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Slug != nil {
		b.Slug = *p.Slug
	}
	if p.Content != nil {
		b.Content = *p.Content
	}
	if p.SEOTitle != nil {
		b.SEOTitle = *p.SEOTitle
	}
	if p.SEODescription != nil {
		b.SEODescription = *p.SEODescription
	}
	if p.Keywords != nil {
		b.Keywords = *p.Keywords
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.ScheduledFor != nil {
		b.ScheduledFor = p.ScheduledFor
	}
	if p.PublishedAt != nil {
		b.PublishedAt = p.PublishedAt
	}
}

// PostSeed is one validated record of a language-model planning reply.
type PostSeed struct {
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	SEOTitle       string    `json:"seoTitle"`
	SEODescription string    `json:"seoDescription"`
	Keywords       []Keyword `json:"keywords"`
}
