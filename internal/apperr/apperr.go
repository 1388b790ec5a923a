// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the error taxonomy shared by the onboarding
// pipeline, the stores and the HTTP handlers. Errors are plain sentinels
// wrapped with fmt.Errorf("...: %w", ...) and classified with errors.Is.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation marks missing or malformed caller input.
	ErrValidation = errors.New("validation error")
	// ErrConflict marks a uniqueness violation.
	ErrConflict = errors.New("conflict")
	// ErrNotFound marks a missing entity.
	ErrNotFound = errors.New("not found")
	// ErrFetch marks a failed fetch of a probed website.
	ErrFetch = errors.New("fetch error")
	// ErrModel marks a failed or empty language-model response.
	ErrModel = errors.New("model error")
	// ErrParse marks a model reply that is not valid JSON.
	ErrParse = errors.New("parse error")
	// ErrShape marks a model reply with the wrong structure or cardinality.
	ErrShape = errors.New("shape error")
	// ErrInternal marks any other persistence or infrastructure failure.
	ErrInternal = errors.New("internal error")
)

// Status maps an error to the HTTP status code the API responds with.
// Unclassified errors are treated as internal.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Kind returns the short name of the taxonomy entry err belongs to.
// Used as a metrics label, so the set of values is closed.
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrFetch):
		return "fetch"
	case errors.Is(err, ErrModel):
		return "model"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrShape):
		return "shape"
	default:
		return "internal"
	}
}
