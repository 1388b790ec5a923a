// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai provides a unified interface for interacting with multiple
// LLM providers (OpenAI, Gemini, Claude, Mistral). Each provider implements
// the Provider interface, and the Registry selects the active one by name.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"blogtraffic/internal/metrics"
)

// Provider defines the interface that all AI providers must implement.
// Each provider handles its own HTTP communication and response parsing.
type Provider interface {
	// Generate sends a prompt to the LLM and returns the generated text.
	// systemPrompt sets the model's behaviour; userPrompt is the request.
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// Name returns the provider identifier (e.g., "openai", "gemini").
	Name() string
}

// ProviderConfig holds the credentials and settings for a single provider.
// A nil Temperature leaves sampling at the provider's default.
type ProviderConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature *float64
}

// factories builds a provider per supported name.
var factories = map[string]func(ProviderConfig) Provider{
	"openai":  func(c ProviderConfig) Provider { return newOpenAI(c) },
	"gemini":  func(c ProviderConfig) Provider { return newGemini(c) },
	"claude":  func(c ProviderConfig) Provider { return newClaude(c) },
	"mistral": func(c ProviderConfig) Provider { return newMistral(c) },
}

// Registry holds the configured providers and the active one's name. It
// is fixed at construction, so concurrent use needs no locking.
type Registry struct {
	providers map[string]Provider
	active    string
	moderator Moderator // nil when no moderation API key is configured
}

// NewRegistry builds a provider for every config with an API key; the rest
// are skipped. Prompts are screened by OpenAI's moderation endpoint when an
// OpenAI key exists, then by Mistral's.
func NewRegistry(active string, configs map[string]ProviderConfig) *Registry {
	r := &Registry{
		providers: make(map[string]Provider),
		active:    active,
	}

	for name, cfg := range configs {
		build, ok := factories[name]
		if !ok || cfg.APIKey == "" {
			continue
		}
		r.providers[name] = build(cfg)
	}

	var chain []Moderator
	if c := configs["openai"]; c.APIKey != "" {
		chain = append(chain, newOpenAIModerator(c.APIKey, c.BaseURL))
	}
	if c := configs["mistral"]; c.APIKey != "" {
		chain = append(chain, newMistralModerator(c.APIKey, c.BaseURL))
	}
	switch len(chain) {
	case 0:
	case 1:
		r.moderator = chain[0]
	default:
		r.moderator = newFallbackModerator(chain...)
	}

	return r
}

// Generate calls the active provider and records the call's outcome.
func (r *Registry) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	p, err := r.Active()
	if err != nil {
		return "", err
	}

	out, err := p.Generate(ctx, systemPrompt, userPrompt)
	outcome := "ok"
	var se *StatusError
	switch {
	case errors.As(err, &se) && se.Code == http.StatusTooManyRequests:
		outcome = "throttled"
	case err != nil:
		outcome = "error"
	case strings.TrimSpace(out) == "":
		outcome = "empty"
	}
	metrics.LLMRequestsTotal.WithLabelValues(p.Name(), outcome).Inc()

	return out, err
}

// Active returns the currently active provider.
func (r *Registry) Active() (Provider, error) {
	p, ok := r.providers[r.active]
	if !ok {
		return nil, fmt.Errorf("ai: no provider configured for %q", r.active)
	}
	return p, nil
}

// ActiveName returns the name of the currently active provider.
func (r *Registry) ActiveName() string {
	return r.active
}

// Available returns the sorted names of all providers with API keys.
func (r *Registry) Available() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckPrompt runs caller-supplied text through the moderation API.
// Without a moderator every prompt is reported safe.
func (r *Registry) CheckPrompt(ctx context.Context, prompt string) (*ModerationResult, error) {
	if r.moderator == nil {
		return &ModerationResult{Safe: true}, nil
	}
	return r.moderator.CheckSafety(ctx, prompt)
}

// HasProvider checks whether a named provider is configured and available.
func (r *Registry) HasProvider(name string) bool {
	_, ok := r.providers[name]
	return ok
}
