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
	"blogtraffic/internal/onboarding"
)

// snapshotURLTTL is the lifetime of a pre-signed snapshot link.
const snapshotURLTTL = 15 * time.Minute

// WebsiteStore is the website persistence the handlers use.
type WebsiteStore interface {
	Find(ctx context.Context, id string) (*models.Website, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Website, error)
	Update(ctx context.Context, id, ownerID string, patch *models.WebsitePatch) (*models.Website, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// ScrapeFinder loads a website's snapshot.
type ScrapeFinder interface {
	FindByWebsite(ctx context.Context, websiteID string) (*models.Scrape, error)
}

// Onboarder runs the registration pipeline and single-post generation.
// *onboarding.Service satisfies it.
type Onboarder interface {
	Onboard(ctx context.Context, in onboarding.Input) (*onboarding.Result, error)
	GeneratePost(ctx context.Context, blogID, websiteID string) (*models.Blog, error)
}

// SnapshotSigner issues links to archived landing pages.
// *storage.Client satisfies it.
type SnapshotSigner interface {
	SnapshotURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// Websites groups the website HTTP handlers and their dependencies.
type Websites struct {
	websites  WebsiteStore
	scrapes   ScrapeFinder
	onboarder Onboarder
	snapshots SnapshotSigner
	cache     ResponseCache
}

// NewWebsites creates the website handlers. snapshots and cache may be nil
// when object storage or caching is not configured.
func NewWebsites(websites WebsiteStore, scrapes ScrapeFinder, onboarder Onboarder, snapshots SnapshotSigner, c ResponseCache) *Websites {
	return &Websites{
		websites:  websites,
		scrapes:   scrapes,
		onboarder: onboarder,
		snapshots: snapshots,
		cache:     c,
	}
}

// addRequest accepts the field names of the dashboard form as well as the
// names used in responses.
type addRequest struct {
	Name            string `json:"name"`
	URL             string `json:"url"`
	Desc            string `json:"desc"`
	Description     string `json:"description"`
	Endpoint        string `json:"endpoint"`
	PublishEndpoint string `json:"publishEndpoint"`
	UserID          string `json:"userId"`
}

func (req *addRequest) input() onboarding.Input {
	in := onboarding.Input{
		Name:            req.Name,
		URL:             req.URL,
		Description:     req.Description,
		PublishEndpoint: req.PublishEndpoint,
		OwnerID:         req.UserID,
	}
	if in.Description == "" {
		in.Description = req.Desc
	}
	if in.PublishEndpoint == "" {
		in.PublishEndpoint = req.Endpoint
	}
	return in
}

// Add registers a website and seeds its editorial calendar.
// POST /api/website/add
func (h *Websites) Add(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.onboarder.Onboard(r.Context(), req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}

	invalidate(r.Context(), h.cache, cache.WebsitesKey(res.Website.OwnerID))
	writeJSON(w, http.StatusCreated, res)
}

// FetchAll lists an owner's websites, newest first.
// GET /api/website/fetch-all?userId=
func (h *Websites) FetchAll(w http.ResponseWriter, r *http.Request) {
	ownerID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if ownerID == "" {
		writeMessage(w, http.StatusBadRequest, "Invalid or missing userId")
		return
	}

	cachedJSON(w, r, h.cache, cache.WebsitesKey(ownerID), func() (any, error) {
		sites, err := h.websites.ListByOwner(r.Context(), ownerID)
		if err != nil {
			return nil, err
		}
		out := make([]models.WebsiteSummary, len(sites))
		for i := range sites {
			out[i] = sites[i].Summary()
		}
		return map[string]any{"websites": out}, nil
	})
}

// Get returns one website's public fields.
// GET /api/website/{id}
func (h *Websites) Get(w http.ResponseWriter, r *http.Request) {
	site, err := h.websites.Find(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"website": site.Public()})
}

type patchWebsiteRequest struct {
	UserID string `json:"userId"`
	models.WebsitePatch
}

// Update patches a website the caller owns.
// PATCH /api/website/{id}
func (h *Websites) Update(w http.ResponseWriter, r *http.Request) {
	var req patchWebsiteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		writeMessage(w, http.StatusBadRequest, "userId is required")
		return
	}
	if err := validateWebsitePatch(&req.WebsitePatch); err != nil {
		writeError(w, r, err)
		return
	}

	site, err := h.websites.Update(r.Context(), chi.URLParam(r, "id"), req.UserID, &req.WebsitePatch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	invalidate(r.Context(), h.cache, cache.WebsitesKey(site.OwnerID))
	writeJSON(w, http.StatusOK, site)
}

// Delete removes a website the caller owns, with its scrape and blogs. The
// owner is read from the JSON body, or from ?userId= when there is none.
// DELETE /api/website/{id}
func (h *Websites) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		UserID string `json:"userId"`
	}
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}
	if req.UserID == "" {
		req.UserID = r.URL.Query().Get("userId")
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		writeMessage(w, http.StatusBadRequest, "userId is required")
		return
	}

	if err := h.websites.Delete(r.Context(), id, req.UserID); err != nil {
		writeError(w, r, err)
		return
	}

	invalidate(r.Context(), h.cache, cache.WebsitesKey(req.UserID), cache.BlogsKey(id))
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Website deleted successfully",
		"success": true,
	})
}

// Snapshot returns a short-lived link to the landing page captured at
// registration.
// GET /api/website/{id}/snapshot
func (h *Websites) Snapshot(w http.ResponseWriter, r *http.Request) {
	if h.snapshots == nil {
		writeMessage(w, http.StatusNotFound, "Snapshots are not enabled")
		return
	}

	sc, err := h.scrapes.FindByWebsite(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if sc.SnapshotKey == "" {
		writeMessage(w, http.StatusNotFound, "No snapshot was archived for this website")
		return
	}

	link, err := h.snapshots.SnapshotURL(r.Context(), sc.SnapshotKey, snapshotURLTTL)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"url":       link,
		"expiresAt": time.Now().Add(snapshotURLTTL).UTC(),
	})
}

