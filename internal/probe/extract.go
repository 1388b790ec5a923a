// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package probe

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"blogtraffic/internal/apperr"
	"blogtraffic/internal/models"
)

// Extraction limits.
const (
	maxTopicTheme   = 200
	serviceScanCap  = 20
	maxServices     = 10
	minServiceRunes = 6
	maxServiceRunes = 49
)

// iconSources lists where a site icon may be declared, most preferred first.
var iconSources = []struct {
	selector string
	attr     string
}{
	{`link[rel="icon"]`, "href"},
	{`link[rel="shortcut icon"]`, "href"},
	{`link[rel="apple-touch-icon"]`, "href"},
	{`link[rel="apple-touch-icon-precomposed"]`, "href"},
	{`link[rel="icon"][sizes]`, "href"},
	{`meta[name="msapplication-TileImage"]`, "content"},
}

// Extract pulls the brand, SEO and services signals out of a landing page.
// It performs no I/O; relative references are resolved against pageURL.
func Extract(html string, pageURL *url.URL) (*models.SiteProfile, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("probe parse html: %v: %w", err, apperr.ErrFetch)
	}

	profile := &models.SiteProfile{
		Brand: models.Brand{
			Name: brandName(doc, pageURL),
			Logo: iconURL(doc, pageURL),
		},
		SEO: models.SEO{
			TopicTheme:  topicTheme(doc),
			Description: metaDescription(doc),
		},
		Services: services(doc),
	}

	if profile.SEO.Description == "" {
		profile.SEO.Description = excerpt(html, pageURL)
	}

	return profile, nil
}

// brandName is the page title up to its first "|", or the host name when
// the page has no usable title.
func brandName(doc *goquery.Document, pageURL *url.URL) string {
	title := doc.Find("title").First().Text()
	name, _, _ := strings.Cut(title, "|")
	name = strings.TrimSpace(name)
	if name == "" {
		name = pageURL.Hostname()
	}
	return name
}

func iconURL(doc *goquery.Document, pageURL *url.URL) string {
	for _, src := range iconSources {
		ref := strings.TrimSpace(doc.Find(src.selector).First().AttrOr(src.attr, ""))
		if ref == "" {
			continue
		}
		if resolved, ok := resolve(pageURL, ref); ok {
			return resolved
		}
	}
	resolved, _ := resolve(pageURL, "/favicon.ico")
	return resolved
}

func resolve(base *url.URL, ref string) (string, bool) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", false
	}
	return base.ResolveReference(u).String(), true
}

func metaDescription(doc *goquery.Document) string {
	content, _ := doc.Find(`meta[name="description"]`).First().Attr("content")
	return strings.TrimSpace(content)
}

// topicTheme joins every h1 and h2 text, truncated to maxTopicTheme runes.
func topicTheme(doc *goquery.Document) string {
	var parts []string
	doc.Find("h1, h2").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	return truncate(strings.Join(parts, " "), maxTopicTheme)
}

// services scans h2 and h3 headings for short phrases. The scan stops after
// serviceScanCap matches and only the first maxServices are kept.
func services(doc *goquery.Document) []string {
	found := []string{}
	doc.Find("h2, h3").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(found) >= serviceScanCap {
			return false
		}
		text := strings.TrimSpace(s.Text())
		if n := utf8.RuneCountInString(text); n >= minServiceRunes && n <= maxServiceRunes {
			found = append(found, text)
		}
		return true
	})
	if len(found) > maxServices {
		found = found[:maxServices]
	}
	return found
}

// excerpt is readability's summary of the page, used when the page has no
// meta description. Failures yield an empty string.
func excerpt(html string, pageURL *url.URL) string {
	article, err := readability.FromReader(strings.NewReader(html), pageURL)
	if err != nil {
		return ""
	}
	return truncate(strings.TrimSpace(article.Excerpt), models.MaxDescriptionLen)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
