package handlers

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"blogtraffic/internal/apperr"
	"blogtraffic/internal/models"
	"blogtraffic/internal/probe"
)

// Validation limits for website and blog fields.
const (
	maxNameLen           = 200
	maxTitleLen          = 300
	maxSlugLen           = 300
	maxContentLen        = 1_000_000
	maxSEOTitleLen       = 300
	maxSEODescriptionLen = 500
	maxKeywords          = 50
	maxEndpointLen       = 2_000
)

func invalid(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, apperr.ErrValidation)...)
}

// validateWebsitePatch checks and normalizes a website patch.
func validateWebsitePatch(p *models.WebsitePatch) error {
	if p.IsEmpty() {
		return invalid("no fields to update")
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return invalid("name cannot be empty")
		}
		if utf8.RuneCountInString(name) > maxNameLen {
			return invalid("name is too long (max %d characters)", maxNameLen)
		}
		p.Name = &name
	}
	if p.URL != nil {
		if _, err := probe.ParseURL(*p.URL); err != nil {
			return err
		}
		u := models.NormalizeURL(*p.URL)
		p.URL = &u
	}
	if p.Description != nil && utf8.RuneCountInString(*p.Description) > models.MaxDescriptionLen {
		return invalid("description is too long (max %d characters)", models.MaxDescriptionLen)
	}
	if p.PublishEndpoint != nil {
		ep := strings.TrimSpace(*p.PublishEndpoint)
		if ep == "" {
			return invalid("publish endpoint cannot be empty")
		}
		if len(ep) > maxEndpointLen {
			return invalid("publish endpoint is too long")
		}
		p.PublishEndpoint = &ep
	}
	return nil
}

// validateBlogPatch checks a blog patch. Status is the only field with a
// closed set of values.
func validateBlogPatch(p *models.BlogPatch) error {
	if p.IsEmpty() {
		return invalid("no fields to update")
	}
	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return invalid("title cannot be empty")
		}
		if utf8.RuneCountInString(*p.Title) > maxTitleLen {
			return invalid("title is too long (max %d characters)", maxTitleLen)
		}
	}
	if p.Slug != nil && utf8.RuneCountInString(*p.Slug) > maxSlugLen {
		return invalid("slug is too long (max %d characters)", maxSlugLen)
	}
	if p.Content != nil && utf8.RuneCountInString(*p.Content) > maxContentLen {
		return invalid("content is too long")
	}
	if p.SEOTitle != nil && utf8.RuneCountInString(*p.SEOTitle) > maxSEOTitleLen {
		return invalid("seoTitle is too long (max %d characters)", maxSEOTitleLen)
	}
	if p.SEODescription != nil && utf8.RuneCountInString(*p.SEODescription) > maxSEODescriptionLen {
		return invalid("seoDescription is too long (max %d characters)", maxSEODescriptionLen)
	}
	if p.Keywords != nil {
		if len(*p.Keywords) > maxKeywords {
			return invalid("too many keywords (max %d)", maxKeywords)
		}
		for _, k := range *p.Keywords {
			if strings.TrimSpace(k.Name) == "" {
				return invalid("keyword name cannot be empty")
			}
			if k.Volume < 0 || k.Volume > math.MaxInt32 {
				return invalid("keyword volume must be between 0 and %d", math.MaxInt32)
			}
		}
	}
	if p.Status != nil && !p.Status.Valid() {
		return invalid("status must be one of draft, scheduled, published, failed")
	}
	return nil
}
