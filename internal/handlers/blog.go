// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"blogtraffic/internal/cache"
	"blogtraffic/internal/models"
)

// BlogStore is the blog persistence the handlers use.
type BlogStore interface {
	Find(ctx context.Context, id string) (*models.Blog, error)
	ListByWebsite(ctx context.Context, websiteID string) ([]models.Blog, error)
	Update(ctx context.Context, id string, patch *models.BlogPatch) (*models.Blog, error)
}

// Blogs groups the blog HTTP handlers and their dependencies.
type Blogs struct {
	blogs     BlogStore
	onboarder Onboarder
	cache     ResponseCache
	now       func() time.Time
}

// NewBlogs creates the blog handlers. cache may be nil.
func NewBlogs(blogs BlogStore, onboarder Onboarder, c ResponseCache) *Blogs {
	return &Blogs{blogs: blogs, onboarder: onboarder, cache: c, now: time.Now}
}

// blogView is the editable projection of a blog.
func blogView(b *models.Blog) *models.Blog {
	v := *b
	v.OwnerID = ""
	v.WebsiteID = ""
	return &v
}

type blogList struct {
	LatestUpdate *time.Time           `json:"latestUpdate"`
	Blogs        []models.BlogSummary `json:"blogs"`
}

// List returns a website's blogs in schedule order with the most recent
// update time across them.
// GET /api/blogs?websiteId=
func (h *Blogs) List(w http.ResponseWriter, r *http.Request) {
	websiteID := strings.TrimSpace(r.URL.Query().Get("websiteId"))
	if websiteID == "" {
		writeMessage(w, http.StatusBadRequest, "websiteId is required")
		return
	}

	cachedJSON(w, r, h.cache, cache.BlogsKey(websiteID), func() (any, error) {
		blogs, err := h.blogs.ListByWebsite(r.Context(), websiteID)
		if err != nil {
			return nil, err
		}
		out := blogList{Blogs: make([]models.BlogSummary, len(blogs))}
		for i := range blogs {
			out.Blogs[i] = blogs[i].Summary()
			if u := blogs[i].UpdatedAt; out.LatestUpdate == nil || u.After(*out.LatestUpdate) {
				out.LatestUpdate = &u
			}
		}
		return out, nil
	})
}

// Get returns one blog's editable fields.
// GET /api/blogs/{id}
func (h *Blogs) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.blogs.Find(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"blog": blogView(b)})
}

// Update merges the supplied fields into a blog. Publishing without a
// publish time stamps the current time.
// PUT /api/blogs/{id}
func (h *Blogs) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.BlogPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateBlogPatch(&patch); err != nil {
		writeError(w, r, err)
		return
	}
	patch.StampPublished(h.now().UTC())

	b, err := h.blogs.Update(r.Context(), chi.URLParam(r, "id"), &patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	invalidate(r.Context(), h.cache, cache.BlogsKey(b.WebsiteID))
	writeJSON(w, http.StatusOK, map[string]any{"blog": blogView(b)})
}

// Generate writes and saves the body of one blog with the language model.
// POST /api/blogs/{id}/ai-generated?websiteId=
func (h *Blogs) Generate(w http.ResponseWriter, r *http.Request) {
	b, err := h.onboarder.GeneratePost(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("websiteId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	invalidate(r.Context(), h.cache, cache.BlogsKey(b.WebsiteID))
	writeJSON(w, http.StatusOK, map[string]any{"blog": blogView(b)})
}
