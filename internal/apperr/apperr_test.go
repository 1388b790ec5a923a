package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", fmt.Errorf("name: %w", ErrValidation), http.StatusBadRequest},
		{"conflict", fmt.Errorf("insert website: %w", ErrConflict), http.StatusConflict},
		{"not found", fmt.Errorf("blog 1: %w", ErrNotFound), http.StatusNotFound},
		{"fetch", fmt.Errorf("probe: %w", ErrFetch), http.StatusInternalServerError},
		{"model", ErrModel, http.StatusInternalServerError},
		{"parse", ErrParse, http.StatusInternalServerError},
		{"shape", ErrShape, http.StatusInternalServerError},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Status(tt.err); got != tt.want {
				t.Errorf("Status(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("onboard: %w", fmt.Errorf("parse seeds: %w", ErrShape))
	if got := Kind(err); got != "shape" {
		t.Errorf("Kind = %q, want shape", got)
	}
	if got := Kind(errors.New("boom")); got != "internal" {
		t.Errorf("Kind(unclassified) = %q, want internal", got)
	}
}
