// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package onboarding sequences website registration: probe the landing
// page, plan a batch of post seeds with the language model, validate the
// reply, and persist the website, its scrape and the seeded blogs as one
// atomic write. It also generates the body of a single existing post.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"blogtraffic/internal/ai"
	"blogtraffic/internal/apperr"
	"blogtraffic/internal/markdown"
	"blogtraffic/internal/metrics"
	"blogtraffic/internal/models"
	"blogtraffic/internal/parser"
	"blogtraffic/internal/planner"
	"blogtraffic/internal/probe"
	"blogtraffic/internal/slug"
)

// WebsiteWriter persists a website with its scrape and blogs atomically.
type WebsiteWriter interface {
	CreateWithContent(ctx context.Context, w *models.Website, sc *models.Scrape, blogs []*models.Blog) error
}

// BlogStore reads and updates single blogs.
type BlogStore interface {
	Find(ctx context.Context, id string) (*models.Blog, error)
	Update(ctx context.Context, id string, patch *models.BlogPatch) (*models.Blog, error)
}

// ScrapeFinder loads the snapshot of a website.
type ScrapeFinder interface {
	FindByWebsite(ctx context.Context, websiteID string) (*models.Scrape, error)
}

// Prober fetches and extracts a landing page.
type Prober interface {
	Probe(ctx context.Context, rawURL string) (*probe.Result, error)
}

// Planner produces raw language-model replies.
type Planner interface {
	PlanBatch(ctx context.Context, profile *models.SiteProfile, description string) (string, error)
	WritePost(ctx context.Context, blog *models.Blog, profile *models.SiteProfile) (string, error)
}

// Moderator screens caller-supplied text. *ai.Registry satisfies it.
type Moderator interface {
	CheckPrompt(ctx context.Context, prompt string) (*ai.ModerationResult, error)
}

// Archiver keeps the raw HTML of probed pages. *storage.Client satisfies it.
type Archiver interface {
	ArchiveSnapshot(ctx context.Context, html string) (string, error)
	DeleteSnapshot(ctx context.Context, key string) error
}

// Deps are the collaborators of a Service. Moderator and Archiver are
// optional.
type Deps struct {
	Websites  WebsiteWriter
	Blogs     BlogStore
	Scrapes   ScrapeFinder
	Prober    Prober
	Planner   Planner
	Moderator Moderator
	Archiver  Archiver
}

// Service runs the onboarding pipeline and single-post generation.
type Service struct {
	websites  WebsiteWriter
	blogs     BlogStore
	scrapes   ScrapeFinder
	prober    Prober
	planner   Planner
	moderator Moderator
	archiver  Archiver
	now       func() time.Time
}

// New creates a Service from its collaborators.
func New(d Deps) *Service {
	return &Service{
		websites:  d.Websites,
		blogs:     d.Blogs,
		scrapes:   d.Scrapes,
		prober:    d.Prober,
		planner:   d.Planner,
		moderator: d.Moderator,
		archiver:  d.Archiver,
		now:       time.Now,
	}
}

// Input is a website registration request.
type Input struct {
	Name            string
	URL             string
	Description     string
	PublishEndpoint string
	OwnerID         string
}

// Result is a completed registration.
type Result struct {
	Website      *models.Website `json:"website"`
	BlogsCreated int             `json:"blogsCreated"`
}

func (in *Input) validate() error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"name", in.Name},
		{"url", in.URL},
		{"publishEndpoint", in.PublishEndpoint},
		{"userId", in.OwnerID},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s: %w", strings.Join(missing, ", "), apperr.ErrValidation)
	}
	if utf8.RuneCountInString(in.Description) > models.MaxDescriptionLen {
		return fmt.Errorf("description exceeds %d characters: %w", models.MaxDescriptionLen, apperr.ErrValidation)
	}
	return nil
}

// Onboard registers a website. Every step before the final write may fail
// and abort the run; nothing is persisted unless the website, its scrape
// and all planned blogs are written together.
func (s *Service) Onboard(ctx context.Context, in Input) (*Result, error) {
	res, err := s.onboard(ctx, in)
	outcome := "ok"
	if err != nil {
		outcome = apperr.Kind(err)
	}
	metrics.OnboardingsTotal.WithLabelValues(outcome).Inc()
	return res, err
}

func (s *Service) onboard(ctx context.Context, in Input) (*Result, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if err := s.screen(ctx, in.Description); err != nil {
		return nil, err
	}

	var probed *probe.Result
	err := timed("probe", func() (err error) {
		probed, err = s.prober.Probe(ctx, in.URL)
		return err
	})
	if err != nil {
		return nil, err
	}

	var reply string
	err = timed("plan", func() (err error) {
		reply, err = s.planner.PlanBatch(ctx, probed.Profile, in.Description)
		return err
	})
	if err != nil {
		return nil, err
	}

	var seeds []models.PostSeed
	err = timed("parse", func() (err error) {
		seeds, err = parser.ParseSeeds(reply, planner.SeedCount)
		return err
	})
	if err != nil {
		return nil, err
	}

	website := &models.Website{
		OwnerID:         strings.TrimSpace(in.OwnerID),
		Name:            strings.TrimSpace(in.Name),
		URL:             models.NormalizeURL(in.URL),
		Description:     strings.TrimSpace(in.Description),
		Logo:            probed.Profile.Brand.Logo,
		PublishEndpoint: strings.TrimSpace(in.PublishEndpoint),
	}
	scrape := models.NewScrape(probed.Profile)
	blogs := SeedBlogs(seeds, s.now())

	scrape.SnapshotKey = s.archive(ctx, probed.HTML)

	err = timed("persist", func() error {
		return s.websites.CreateWithContent(ctx, website, scrape, blogs)
	})
	if err != nil {
		s.discardSnapshot(scrape.SnapshotKey)
		return nil, err
	}

	metrics.BlogsSeededTotal.Add(float64(len(blogs)))
	slog.Info("website onboarded",
		"website_id", website.ID,
		"url", website.URL,
		"blogs", len(blogs),
	)
	return &Result{Website: website, BlogsCreated: len(blogs)}, nil
}

// SeedBlogs turns validated seeds into draft blogs scheduled one per day,
// the first at UTC midnight of the day after now. Slugs are made unique
// within the batch.
func SeedBlogs(seeds []models.PostSeed, now time.Time) []*models.Blog {
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	taken := make(map[string]bool, len(seeds))
	blogs := make([]*models.Blog, len(seeds))
	for i, seed := range seeds {
		at := today.AddDate(0, 0, i+1)
		blogs[i] = &models.Blog{
			Title:          seed.Title,
			Slug:           slug.Unique(seed.Slug, seed.Title, taken),
			SEOTitle:       seed.SEOTitle,
			SEODescription: seed.SEODescription,
			Keywords:       seed.Keywords,
			Status:         models.BlogStatusDraft,
			ScheduledFor:   &at,
		}
	}
	return blogs
}

// screen rejects a flagged description. A failing moderation service does
// not block registration.
func (s *Service) screen(ctx context.Context, description string) error {
	if s.moderator == nil || strings.TrimSpace(description) == "" {
		return nil
	}
	res, err := s.moderator.CheckPrompt(ctx, description)
	if err != nil {
		slog.Warn("moderation check failed", "error", err)
		return nil
	}
	if !res.Safe {
		return fmt.Errorf("description flagged (%s): %w", strings.Join(res.Categories, ", "), apperr.ErrValidation)
	}
	return nil
}

// archive stores the probed HTML and returns its key, or "" when archiving
// is disabled or fails.
func (s *Service) archive(ctx context.Context, html string) string {
	if s.archiver == nil || html == "" {
		return ""
	}
	key, err := s.archiver.ArchiveSnapshot(ctx, html)
	if err != nil {
		slog.Warn("snapshot archive failed", "error", err)
		return ""
	}
	return key
}

func (s *Service) discardSnapshot(key string) {
	if key == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.archiver.DeleteSnapshot(ctx, key); err != nil {
		slog.Warn("snapshot cleanup failed", "key", key, "error", err)
	}
}

// GeneratePost writes the HTML body of an existing blog and saves it. The
// snapshot of websiteID provides brand context; when websiteID is empty the
// blog's own website is used. A website without a snapshot is generated
// for without context. The blog's status is left unchanged.
func (s *Service) GeneratePost(ctx context.Context, blogID, websiteID string) (*models.Blog, error) {
	if strings.TrimSpace(blogID) == "" {
		return nil, fmt.Errorf("blog id is required: %w", apperr.ErrValidation)
	}

	blog, err := s.blogs.Find(ctx, blogID)
	if err != nil {
		return nil, err
	}

	if websiteID == "" {
		websiteID = blog.WebsiteID
	}
	var profile *models.SiteProfile
	if websiteID != "" {
		sc, err := s.scrapes.FindByWebsite(ctx, websiteID)
		switch {
		case err == nil:
			profile = sc.Profile()
		case errors.Is(err, apperr.ErrNotFound):
			slog.Info("generating without snapshot", "blog_id", blog.ID, "website_id", websiteID)
		default:
			return nil, err
		}
	}

	var reply string
	err = timed("generate", func() (err error) {
		reply, err = s.planner.WritePost(ctx, blog, profile)
		return err
	})
	if err != nil {
		return nil, err
	}

	body, err := renderBody(reply)
	if err != nil {
		return nil, err
	}

	updated, err := s.blogs.Update(ctx, blog.ID, &models.BlogPatch{Content: &body})
	if err != nil {
		return nil, err
	}
	slog.Info("post generated", "blog_id", updated.ID, "bytes", len(body))
	return updated, nil
}

// renderBody strips a code fence from a model reply and converts a
// Markdown reply to HTML.
func renderBody(reply string) (string, error) {
	body := strings.TrimSpace(parser.StripCodeFence(reply))
	if body == "" {
		return "", fmt.Errorf("empty post body: %w", apperr.ErrModel)
	}
	html, err := markdown.EnsureHTML(body)
	if err != nil {
		return "", fmt.Errorf("render post body: %w: %w", apperr.ErrParse, err)
	}
	return html, nil
}

func timed(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	return err
}
