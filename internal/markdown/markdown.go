// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts generated post bodies into HTML using goldmark.
// Raw HTML passes through so replies that mix Markdown with HTML embeds
// keep their images, videos and inline styles.
package markdown

import (
	"bytes"
	"strings"

	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
		// Inline styles, since post bodies are published without our stylesheet.
		highlighting.NewHighlighting(
			highlighting.WithStyle("monokai"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(),
	),
)

// ToHTML converts Markdown source into HTML.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// EnsureHTML returns body unchanged when it already is markup and converts
// it from Markdown otherwise.
func EnsureHTML(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" || strings.HasPrefix(body, "<") {
		return body, nil
	}
	out, err := ToHTML(body)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
