// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package parser turns language-model replies into validated records. It
// rejects rather than repairs: a reply is either fully well-shaped or an
// error.
package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode"

	"blogtraffic/internal/apperr"
	"blogtraffic/internal/models"
)

const fence = "```"

// StripCodeFence removes a surrounding Markdown code fence, with or without
// a language tag, and trims whitespace. Clean input is returned trimmed.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, fence) {
		return s
	}

	rest := s[len(fence):]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[i+1:]
	} else {
		rest = strings.TrimLeftFunc(rest, unicode.IsLetter)
	}

	rest = strings.TrimSpace(rest)
	rest = strings.TrimSuffix(rest, fence)
	return strings.TrimSpace(rest)
}

// seedWire mirrors one reply element. Volume is decoded as a JSON number of
// any form and rounded; it must fall within 0..MaxInt32.
type seedWire struct {
	Title          string        `json:"title"`
	Slug           string        `json:"slug"`
	SEOTitle       string        `json:"seoTitle"`
	SEODescription string        `json:"seoDescription"`
	Keywords       []keywordWire `json:"keywords"`
}

type keywordWire struct {
	Name   string  `json:"name"`
	Volume float64 `json:"volume"`
}

// ParseSeeds decodes a planning reply into exactly want post seeds.
// Malformed JSON or mistyped fields wrap apperr.ErrParse; a non-array, a
// wrong length or a missing required field wraps apperr.ErrShape.
func ParseSeeds(raw string, want int) ([]models.PostSeed, error) {
	clean := []byte(StripCodeFence(raw))

	var elems []json.RawMessage
	if err := json.Unmarshal(clean, &elems); err != nil {
		if !json.Valid(clean) {
			return nil, fmt.Errorf("reply is not valid JSON: %v: %w", err, apperr.ErrParse)
		}
		return nil, fmt.Errorf("reply is not a JSON array: %w", apperr.ErrShape)
	}
	if elems == nil {
		// A bare null decodes without error.
		return nil, fmt.Errorf("reply is not a JSON array: %w", apperr.ErrShape)
	}

	if len(elems) != want {
		return nil, fmt.Errorf("reply has %d posts, want %d: %w", len(elems), want, apperr.ErrShape)
	}

	seeds := make([]models.PostSeed, 0, len(elems))
	for i, elem := range elems {
		if t := bytes.TrimSpace(elem); len(t) == 0 || t[0] != '{' {
			return nil, fmt.Errorf("post %d is not an object: %w", i, apperr.ErrShape)
		}

		var w seedWire
		if err := json.Unmarshal(elem, &w); err != nil {
			return nil, fmt.Errorf("post %d: %v: %w", i, err, apperr.ErrParse)
		}

		seed, err := w.validate()
		if err != nil {
			return nil, fmt.Errorf("post %d: %w", i, err)
		}
		seeds = append(seeds, seed)
	}

	return seeds, nil
}

func (w *seedWire) validate() (models.PostSeed, error) {
	required := []struct{ name, value string }{
		{"title", w.Title},
		{"slug", w.Slug},
		{"seoTitle", w.SEOTitle},
		{"seoDescription", w.SEODescription},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return models.PostSeed{}, fmt.Errorf("missing %s: %w", f.name, apperr.ErrShape)
		}
	}

	if len(w.Keywords) == 0 {
		return models.PostSeed{}, fmt.Errorf("missing keywords: %w", apperr.ErrShape)
	}

	keywords := make([]models.Keyword, len(w.Keywords))
	for i, k := range w.Keywords {
		name := strings.TrimSpace(k.Name)
		if name == "" {
			return models.PostSeed{}, fmt.Errorf("keyword %d has no name: %w", i, apperr.ErrShape)
		}
		volume := math.Round(k.Volume)
		if volume < 0 || volume > math.MaxInt32 {
			return models.PostSeed{}, fmt.Errorf("keyword %d volume %v out of range: %w", i, k.Volume, apperr.ErrShape)
		}
		keywords[i] = models.Keyword{Name: name, Volume: int(volume)}
	}

	return models.PostSeed{
		Title:          strings.TrimSpace(w.Title),
		Slug:           strings.TrimSpace(w.Slug),
		SEOTitle:       strings.TrimSpace(w.SEOTitle),
		SEODescription: strings.TrimSpace(w.SEODescription),
		Keywords:       keywords,
	}, nil
}
