// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strings"

	"blogtraffic/internal/session"
)

// SessionStore keeps per-browser state. *session.Store satisfies it.
type SessionStore interface {
	Get(ctx context.Context, r *http.Request) (*session.Data, error)
	Save(ctx context.Context, w http.ResponseWriter, r *http.Request, data *session.Data) error
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// Session serves the dashboard's current-website selection.
type Session struct {
	sessions SessionStore
	websites WebsiteStore
}

// NewSession creates the session handlers.
func NewSession(sessions SessionStore, websites WebsiteStore) *Session {
	return &Session{sessions: sessions, websites: websites}
}

type currentWebsite struct {
	CurrentWebsiteID *string `json:"currentWebsiteId"`
}

// GetWebsite returns the selected website id, or null.
// GET /api/session/website
func (h *Session) GetWebsite(w http.ResponseWriter, r *http.Request) {
	data, err := h.sessions.Get(r.Context(), r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var out currentWebsite
	if data != nil && data.CurrentWebsiteID != "" {
		out.CurrentWebsiteID = &data.CurrentWebsiteID
	}
	writeJSON(w, http.StatusOK, out)
}

// SetWebsite selects an existing website.
// PUT /api/session/website
func (h *Session) SetWebsite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WebsiteID string `json:"websiteId"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	id := strings.TrimSpace(req.WebsiteID)
	if id == "" {
		writeMessage(w, http.StatusBadRequest, "websiteId is required")
		return
	}

	if _, err := h.websites.Find(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	data, err := h.sessions.Get(r.Context(), r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if data == nil {
		data = &session.Data{}
	}
	data.CurrentWebsiteID = id

	if err := h.sessions.Save(r.Context(), w, r, data); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, currentWebsite{CurrentWebsiteID: &id})
}

// ClearWebsite forgets the selection.
// DELETE /api/session/website
func (h *Session) ClearWebsite(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, currentWebsite{})
}
