// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"blogtraffic/internal/apperr"
	"blogtraffic/internal/models"
)

// websiteColumns selects a website with its derived blog count.
const websiteColumns = `
	w.id, w.owner_id, w.name, w.url, w.description, w.logo, w.publish_endpoint,
	(SELECT COUNT(*) FROM blogs b WHERE b.website_id = w.id) AS blog_count,
	w.created_at, w.updated_at`

// WebsiteStore handles website persistence, including the atomic
// registration of a website with its snapshot and seeded blogs.
type WebsiteStore struct {
	db *sql.DB
}

// NewWebsiteStore creates a new WebsiteStore with the given database connection.
func NewWebsiteStore(db *sql.DB) *WebsiteStore {
	return &WebsiteStore{db: db}
}

func scanWebsite(row rowScanner) (*models.Website, error) {
	w := &models.Website{}
	err := row.Scan(
		&w.ID, &w.OwnerID, &w.Name, &w.URL, &w.Description, &w.Logo,
		&w.PublishEndpoint, &w.BlogCount, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// CreateWithContent inserts the website, its scrape and its blogs in one
// transaction. Either every row is written or none is. IDs and timestamps
// are filled in on the passed records.
func (s *WebsiteStore) CreateWithContent(ctx context.Context, w *models.Website, sc *models.Scrape, blogs []*models.Blog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return internal("begin registration", err)
	}
	defer rollback(tx)

	err = tx.QueryRowContext(ctx, `
		INSERT INTO websites (owner_id, name, url, description, logo, publish_endpoint)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, w.OwnerID, w.Name, w.URL, w.Description, w.Logo, w.PublishEndpoint,
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("website %s already exists: %w", w.URL, apperr.ErrConflict)
		}
		return internal("insert website", err)
	}

	sc.WebsiteID = w.ID
	if err := insertScrape(ctx, tx, sc); err != nil {
		return err
	}

	for _, b := range blogs {
		b.WebsiteID = w.ID
		b.OwnerID = w.OwnerID
		if err := insertBlog(ctx, tx, b); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("website %s already exists: %w", w.URL, apperr.ErrConflict)
		}
		return internal("commit registration", err)
	}

	w.BlogCount = len(blogs)
	return nil
}

// Find retrieves a website by its ID.
func (s *WebsiteStore) Find(ctx context.Context, id string) (*models.Website, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	w, err := scanWebsite(s.db.QueryRowContext(ctx,
		`SELECT `+websiteColumns+` FROM websites w WHERE w.id = $1`, uid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("website %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, internal("find website", err)
	}
	return w, nil
}

// ListByOwner returns an owner's websites, newest first.
func (s *WebsiteStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Website, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+websiteColumns+`
		FROM websites w
		WHERE w.owner_id = $1
		ORDER BY w.created_at DESC
	`, ownerID)
	if err != nil {
		return nil, internal("list websites", err)
	}
	defer rows.Close()

	var items []models.Website
	for rows.Next() {
		w, err := scanWebsite(rows)
		if err != nil {
			return nil, internal("scan website", err)
		}
		items = append(items, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, internal("list websites", err)
	}
	return items, nil
}

// Update applies a patch to a website the owner holds. A website of another
// owner is reported as not found.
func (s *WebsiteStore) Update(ctx context.Context, id, ownerID string, patch *models.WebsitePatch) (*models.Website, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var updated string
	err = s.db.QueryRowContext(ctx, `
		UPDATE websites SET
			name             = COALESCE($3, name),
			url              = COALESCE($4, url),
			description      = COALESCE($5, description),
			logo             = COALESCE($6, logo),
			publish_endpoint = COALESCE($7, publish_endpoint),
			updated_at       = NOW()
		WHERE id = $1 AND owner_id = $2
		RETURNING id
	`, uid, ownerID, patch.Name, patch.URL, patch.Description, patch.Logo, patch.PublishEndpoint,
	).Scan(&updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("website %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("website url already registered: %w", apperr.ErrConflict)
		}
		return nil, internal("update website", err)
	}

	return s.Find(ctx, updated)
}

// Delete removes an owner's website. Its scrape and blogs go with it
// through ON DELETE CASCADE.
func (s *WebsiteStore) Delete(ctx context.Context, id, ownerID string) error {
	uid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM websites WHERE id = $1 AND owner_id = $2`, uid, ownerID)
	if err != nil {
		return internal("delete website", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return internal("delete website", err)
	}
	if n == 0 {
		return fmt.Errorf("website %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}
