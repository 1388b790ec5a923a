// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxLen bounds a generated slug. Longer slugs are cut at a hyphen.
const MaxLen = 80

var (
	// nonAlphanumeric matches anything that isn't a letter, combining mark,
	// digit, hyphen or whitespace, in any script.
	nonAlphanumeric = regexp.MustCompile(`[^\p{L}\p{M}\p{N}\s-]`)
	// whitespace runs become a single hyphen.
	whitespace = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given string. Accented
// Latin letters lose their marks; letters of other scripts are kept.
// Example: "Café Menus, 2026 Edition!" → "cafe-menus-2026-edition"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(fold(s)))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if len(result) > MaxLen {
		result = result[:MaxLen]
		for !utf8.ValidString(result) {
			result = result[:len(result)-1]
		}
		if i := strings.LastIndexByte(result, '-'); i > 0 {
			result = result[:i]
		}
		result = strings.Trim(result, "-")
	}
	return result
}

// fallbackBase is used when neither input yields a slug.
const fallbackBase = "post"

// Unique returns Generate(s), suffixed with -2, -3… until it is not in
// taken, and records the result in taken. fallback is used when s yields
// an empty slug, and "post" when both do.
func Unique(s, fallback string, taken map[string]bool) string {
	base := Generate(s)
	if base == "" {
		base = Generate(fallback)
	}
	if base == "" {
		base = fallbackBase
	}
	candidate := base
	for n := 2; taken[candidate]; n++ {
		candidate = base + "-" + strconv.Itoa(n)
	}
	taken[candidate] = true
	return candidate
}

// fold strips combining marks from Latin letters: "é" → "e". Marks on
// other scripts are part of the letter and stay.
func fold(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	var prev rune
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) && unicode.Is(unicode.Latin, prev) {
			continue
		}
		b.WriteRune(r)
		if !unicode.Is(unicode.Mn, r) {
			prev = r
		}
	}
	return norm.NFC.String(b.String())
}
