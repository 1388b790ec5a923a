// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"blogtraffic/internal/apperr"
	"blogtraffic/internal/models"
)

// ScrapeStore reads website snapshots. Snapshots are only written as part
// of WebsiteStore.CreateWithContent.
type ScrapeStore struct {
	db *sql.DB
}

// NewScrapeStore creates a new ScrapeStore with the given database connection.
func NewScrapeStore(db *sql.DB) *ScrapeStore {
	return &ScrapeStore{db: db}
}

func insertScrape(ctx context.Context, q querier, sc *models.Scrape) error {
	services := sc.Services
	if services == nil {
		services = []string{}
	}
	servicesJSON, err := marshalJSON(services)
	if err != nil {
		return internal("encode services", err)
	}

	err = q.QueryRowContext(ctx, `
		INSERT INTO scrapes (website_id, brand_name, brand_logo, topic_theme,
		                     description, services, snapshot_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, sc.WebsiteID, sc.Brand.Name, sc.Brand.Logo, sc.SEO.TopicTheme,
		sc.SEO.Description, servicesJSON, sc.SnapshotKey,
	).Scan(&sc.ID, &sc.CreatedAt, &sc.UpdatedAt)
	if err != nil {
		return internal("insert scrape", err)
	}
	return nil
}

// FindByWebsite returns the most recent snapshot of a website.
func (s *ScrapeStore) FindByWebsite(ctx context.Context, websiteID string) (*models.Scrape, error) {
	uid, err := parseID(websiteID)
	if err != nil {
		return nil, err
	}

	sc := &models.Scrape{}
	var services []byte
	err = s.db.QueryRowContext(ctx, `
		SELECT id, website_id, brand_name, brand_logo, topic_theme, description,
		       services, snapshot_key, created_at, updated_at
		FROM scrapes
		WHERE website_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, uid).Scan(
		&sc.ID, &sc.WebsiteID, &sc.Brand.Name, &sc.Brand.Logo, &sc.SEO.TopicTheme,
		&sc.SEO.Description, &services, &sc.SnapshotKey, &sc.CreatedAt, &sc.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scrape of website %s: %w", websiteID, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, internal("find scrape", err)
	}

	if err := json.Unmarshal(services, &sc.Services); err != nil {
		return nil, internal("decode services", err)
	}
	return sc, nil
}
