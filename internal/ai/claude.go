// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
	"strings"
)

const (
	// claudeMaxTokens leaves room for a full markdown post.
	claudeMaxTokens = 8192

	anthropicVersion = "2023-06-01"
)

// claudeProvider calls the Anthropic Messages API (POST /v1/messages).
type claudeProvider struct {
	config ProviderConfig
	http   endpoint
}

func newClaude(cfg ProviderConfig) *claudeProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	return &claudeProvider{config: cfg, http: newEndpoint("claude", generateTimeout)}
}

func (p *claudeProvider) Name() string { return "claude" }

// Generate concatenates the text blocks of the reply. Other block types
// are skipped.
func (p *claudeProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	req := claudeRequest{
		Model:       p.config.Model,
		MaxTokens:   claudeMaxTokens,
		System:      systemPrompt,
		Temperature: p.config.Temperature,
		Messages:    []claudeMessage{{Role: "user", Content: userPrompt}},
	}

	headers := map[string]string{
		"x-api-key":         p.config.APIKey,
		"anthropic-version": anthropicVersion,
	}

	var resp claudeResponse
	if err := p.http.post(ctx, p.config.BaseURL+"/v1/messages", headers, req, &resp); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("claude: no text content in response: %w", ErrNoContent)
	}
	return sb.String(), nil
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	System      string          `json:"system,omitempty"`
	Temperature *float64        `json:"temperature,omitempty"`
	Messages    []claudeMessage `json:"messages"`
}

type claudeContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type claudeResponse struct {
	Content    []claudeContentBlock `json:"content"`
	StopReason string               `json:"stop_reason,omitempty"`
}
