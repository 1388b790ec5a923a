// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package planner builds the content-planning prompts and sends them to the
// configured language model. It does not interpret the replies.
package planner

import (
	"context"
	"fmt"
	"strings"

	"blogtraffic/internal/apperr"
	"blogtraffic/internal/models"
)

// SystemRole is the fixed system prompt of every planning call.
const SystemRole = "You are a senior SaaS content strategist and technical SEO writer."

// SeedCount is the size of the batch planned for a new website.
const SeedCount = 15

// Generator sends one prompt pair to a language model. *ai.Registry
// satisfies it.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Planner turns site context into language-model replies.
type Planner struct {
	gen Generator
}

// New creates a planner backed by gen.
func New(gen Generator) *Planner {
	return &Planner{gen: gen}
}

// PlanBatch asks for SeedCount post seeds for a site and returns the raw reply.
func (p *Planner) PlanBatch(ctx context.Context, profile *models.SiteProfile, description string) (string, error) {
	return p.generate(ctx, BatchPrompt(profile, description, SeedCount))
}

// WritePost asks for the full HTML body of one post. profile may be nil when
// the website has no snapshot.
func (p *Planner) WritePost(ctx context.Context, blog *models.Blog, profile *models.SiteProfile) (string, error) {
	return p.generate(ctx, PostPrompt(blog, profile))
}

func (p *Planner) generate(ctx context.Context, prompt string) (string, error) {
	reply, err := p.gen.Generate(ctx, SystemRole, prompt)
	if err != nil {
		return "", fmt.Errorf("planner: %w: %w", apperr.ErrModel, err)
	}
	if strings.TrimSpace(reply) == "" {
		return "", fmt.Errorf("planner: empty model response: %w", apperr.ErrModel)
	}
	return reply, nil
}

// BatchPrompt builds the bulk planning instruction. The output is a pure
// function of its inputs.
func BatchPrompt(profile *models.SiteProfile, description string, count int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Plan %d blog posts for the website described below.\n\n", count)
	writeContext(&b, profile)
	if d := strings.TrimSpace(description); d != "" {
		fmt.Fprintf(&b, "Owner's description: %s\n", d)
	}

	fmt.Fprintf(&b, `
Rules:
- Do not mention any brand, company or product names, including the site's own.
- Write for people searching for the topics above, not for the company.
- Each slug is lowercase words joined by hyphens.
- seoTitle is at most 60 characters; seoDescription is at most 160 characters.
- Give every post 3 to 6 keywords with an estimated monthly search volume.

Return ONLY a valid JSON array of exactly %d objects and nothing else. Each object has this shape:
{"title": "...", "slug": "...", "seoTitle": "...", "seoDescription": "...", "keywords": [{"name": "...", "volume": 0}]}
`, count)

	return b.String()
}

// PostPrompt builds the single-post instruction for an existing seed.
func PostPrompt(blog *models.Blog, profile *models.SiteProfile) string {
	var b strings.Builder

	b.WriteString("Write the complete blog post described below.\n\n")
	fmt.Fprintf(&b, "Title: %s\n", blog.Title)
	if blog.SEOTitle != "" {
		fmt.Fprintf(&b, "SEO title: %s\n", blog.SEOTitle)
	}
	if blog.SEODescription != "" {
		fmt.Fprintf(&b, "SEO description: %s\n", blog.SEODescription)
	}
	if len(blog.Keywords) > 0 {
		names := make([]string, len(blog.Keywords))
		for i, k := range blog.Keywords {
			names[i] = k.Name
		}
		fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(names, ", "))
	}

	if profile != nil {
		b.WriteString("\nThe post is published on this website:\n")
		writeContext(&b, profile)
	}

	b.WriteString(`
Requirements:
- Return the full article as an HTML document body, without <html>, <head> or <body> tags.
- Structure it with <h2>/<h3> headings, paragraphs and lists.
- Embed at least two relevant images (<img> with descriptive alt text) and one video (<iframe>).
- Style elements with inline style attributes only.
- Include backlinks (<a href>) to authoritative external sources.
- Use every keyword naturally at least once.
- Do not mention brand or product names.

Return ONLY the HTML.
`)

	return b.String()
}

func writeContext(b *strings.Builder, profile *models.SiteProfile) {
	if profile == nil {
		return
	}
	if profile.SEO.TopicTheme != "" {
		fmt.Fprintf(b, "Topic theme: %s\n", profile.SEO.TopicTheme)
	}
	if profile.SEO.Description != "" {
		fmt.Fprintf(b, "Site description: %s\n", profile.SEO.Description)
	}
	if len(profile.Services) > 0 {
		fmt.Fprintf(b, "Services: %s\n", strings.Join(profile.Services, "; "))
	}
}
