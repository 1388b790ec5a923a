// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API: website onboarding and
// management, blog editing and generation, and the current-website
// selection of a browser session.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"blogtraffic/internal/apperr"
	"blogtraffic/internal/middleware"
)

// maxRequestBody caps JSON request bodies. Generated post bodies are the
// largest payloads.
const maxRequestBody = 2 << 20

// ResponseCache stores encoded listing responses. *cache.ResponseCache
// satisfies it.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, body []byte)
	Invalidate(ctx context.Context, keys ...string)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeRaw writes an already encoded JSON body.
func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}

// writeMessage writes the error envelope {"message": ...}.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError maps err onto its HTTP status. Server-side failures are logged
// and answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"request_id", middleware.RequestIDFrom(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"kind", apperr.Kind(err),
			"error", err,
		)
		writeMessage(w, status, serverMessage(err))
		return
	}
	writeMessage(w, status, err.Error())
}

func serverMessage(err error) string {
	switch {
	case errors.Is(err, apperr.ErrFetch):
		return "Could not fetch the website."
	case errors.Is(err, apperr.ErrModel):
		return "The language model did not return a usable response."
	case errors.Is(err, apperr.ErrParse), errors.Is(err, apperr.ErrShape):
		return "The language model returned malformed content."
	default:
		return "Something went wrong."
	}
}

// decodeJSON reads a JSON request body into v. An empty or malformed body
// is a validation error.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body is required: %w", apperr.ErrValidation)
		}
		return fmt.Errorf("invalid JSON body: %v: %w", err, apperr.ErrValidation)
	}
	return nil
}

// cachedJSON serves key from the cache, or encodes load's result, caches it
// and serves it. A nil cache disables caching.
func cachedJSON(w http.ResponseWriter, r *http.Request, c ResponseCache, key string, load func() (any, error)) {
	if c != nil {
		if body, ok := c.Get(r.Context(), key); ok {
			w.Header().Set("X-Cache", "HIT")
			writeRaw(w, http.StatusOK, body)
			return
		}
	}

	data, err := load()
	if err != nil {
		writeError(w, r, err)
		return
	}

	body, err := json.Marshal(data)
	if err != nil {
		writeError(w, r, fmt.Errorf("encode response: %w: %w", apperr.ErrInternal, err))
		return
	}
	if c != nil {
		c.Set(r.Context(), key, body)
		w.Header().Set("X-Cache", "MISS")
	}
	writeRaw(w, http.StatusOK, body)
}

func invalidate(ctx context.Context, c ResponseCache, keys ...string) {
	if c != nil {
		c.Invalidate(ctx, keys...)
	}
}
