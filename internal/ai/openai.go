// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
	"strings"
)

// chatProvider talks to an OpenAI-compatible chat completions endpoint
// (POST {base}/chat/completions). OpenAI and Mistral both use it.
type chatProvider struct {
	name   string
	config ProviderConfig
	http   endpoint
}

func newChatProvider(name, defaultURL string, cfg ProviderConfig) *chatProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	return &chatProvider{
		name:   name,
		config: cfg,
		http:   newEndpoint(name, generateTimeout),
	}
}

func newOpenAI(cfg ProviderConfig) *chatProvider {
	return newChatProvider("openai", "https://api.openai.com/v1", cfg)
}

func (p *chatProvider) Name() string { return p.name }

// Generate returns the first choice's message. A reply cut short by the
// token limit is still returned; callers validate its shape.
func (p *chatProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	req := chatRequest{
		Model: p.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: p.config.Temperature,
	}

	var resp chatResponse
	headers := map[string]string{"Authorization": "Bearer " + p.config.APIKey}
	if err := p.http.post(ctx, p.config.BaseURL+"/chat/completions", headers, req, &resp); err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices returned: %w", p.name, ErrNoContent)
	}
	return resp.Choices[0].Message.Content, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason,omitempty"`
}
