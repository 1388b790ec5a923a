// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
)

const moderationTimeout = 15 * time.Second

// ModerationResult contains the outcome of a prompt safety check.
type ModerationResult struct {
	Safe       bool     // true if the prompt passes moderation
	Categories []string // sorted flagged category names (empty when safe)
}

// Moderator checks caller-supplied text for policy violations before it
// is sent to a generation endpoint.
type Moderator interface {
	// CheckSafety evaluates text and reports whether it is safe to send to
	// an AI provider. If not safe, Categories lists the reasons.
	CheckSafety(ctx context.Context, text string) (*ModerationResult, error)
}

// openAIModerator calls POST {base}/moderations.
type openAIModerator struct {
	apiKey  string
	baseURL string
	http    endpoint
}

func newOpenAIModerator(apiKey, baseURL string) *openAIModerator {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &openAIModerator{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    newEndpoint("moderation", moderationTimeout),
	}
}

func (m *openAIModerator) CheckSafety(ctx context.Context, text string) (*ModerationResult, error) {
	body := moderationRequest{
		Model: "omni-moderation-latest",
		Input: text,
	}

	var result openAIModResponse
	headers := map[string]string{"Authorization": "Bearer " + m.apiKey}
	if err := m.http.post(ctx, m.baseURL+"/moderations", headers, body, &result); err != nil {
		return nil, err
	}

	if len(result.Results) == 0 || !result.Results[0].Flagged {
		return &ModerationResult{Safe: true}, nil
	}

	return &ModerationResult{
		Safe:       false,
		Categories: flaggedCategories(result.Results[0].Categories),
	}, nil
}

// mistralModerator calls POST {base}/v1/moderations.
type mistralModerator struct {
	apiKey  string
	baseURL string
	http    endpoint
}

func newMistralModerator(apiKey, baseURL string) *mistralModerator {
	// The generation base URL carries a /v1 suffix; the moderation path adds its own.
	baseURL = strings.TrimSuffix(baseURL, "/v1")
	if baseURL == "" {
		baseURL = "https://api.mistral.ai"
	}
	return &mistralModerator{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    newEndpoint("mistral moderation", moderationTimeout),
	}
}

func (m *mistralModerator) CheckSafety(ctx context.Context, text string) (*ModerationResult, error) {
	body := moderationRequest{
		Model: "mistral-moderation-latest",
		Input: text,
	}

	var result mistralModResponse
	headers := map[string]string{"Authorization": "Bearer " + m.apiKey}
	if err := m.http.post(ctx, m.baseURL+"/v1/moderations", headers, body, &result); err != nil {
		return nil, err
	}

	if len(result.Results) == 0 {
		return &ModerationResult{Safe: true}, nil
	}

	// Mistral has no top-level "flagged"; any flagged category counts.
	flagged := flaggedCategories(result.Results[0].Categories)
	return &ModerationResult{
		Safe:       len(flagged) == 0,
		Categories: flagged,
	}, nil
}

// fallbackModerator asks each moderator in turn until one answers.
type fallbackModerator struct {
	chain []Moderator
}

func newFallbackModerator(chain ...Moderator) *fallbackModerator {
	return &fallbackModerator{chain: chain}
}

func (m *fallbackModerator) CheckSafety(ctx context.Context, text string) (*ModerationResult, error) {
	var errs []error
	for _, mod := range m.chain {
		res, err := mod.CheckSafety(ctx, text)
		if err == nil {
			return res, nil
		}
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}

// flaggedCategories turns "hate/threatening" into "hate (threatening)" and
// "self_harm" into "self harm", returning only flagged names in sorted order.
func flaggedCategories(categories map[string]bool) []string {
	var flagged []string
	for cat, isFlagged := range categories {
		if !isFlagged {
			continue
		}
		display := cat
		if strings.Contains(cat, "/") {
			display = strings.Replace(cat, "/", " (", 1) + ")"
		}
		flagged = append(flagged, strings.ReplaceAll(display, "_", " "))
	}
	sort.Strings(flagged)
	return flagged
}

// --- Request/Response types ---

type moderationRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type openAIModResponse struct {
	Results []openAIModResult `json:"results"`
}

type openAIModResult struct {
	Flagged    bool            `json:"flagged"`
	Categories map[string]bool `json:"categories"`
}

type mistralModResponse struct {
	Results []mistralModResult `json:"results"`
}

type mistralModResult struct {
	Categories map[string]bool `json:"categories"`
}
