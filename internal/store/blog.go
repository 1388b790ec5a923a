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

const blogColumns = `
	id, owner_id, website_id, title, slug, content, seo_title, seo_description,
	keywords, status, scheduled_for, published_at, created_at, updated_at`

// BlogStore handles blog persistence.
type BlogStore struct {
	db *sql.DB
}

// NewBlogStore creates a new BlogStore with the given database connection.
func NewBlogStore(db *sql.DB) *BlogStore {
	return &BlogStore{db: db}
}

func scanBlog(row rowScanner) (*models.Blog, error) {
	b := &models.Blog{}
	var keywords []byte
	err := row.Scan(
		&b.ID, &b.OwnerID, &b.WebsiteID, &b.Title, &b.Slug, &b.Content,
		&b.SEOTitle, &b.SEODescription, &keywords, &b.Status,
		&b.ScheduledFor, &b.PublishedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(keywords, &b.Keywords); err != nil {
		return nil, fmt.Errorf("decode keywords: %w", err)
	}
	return b, nil
}

func insertBlog(ctx context.Context, q querier, b *models.Blog) error {
	keywords := b.Keywords
	if keywords == nil {
		keywords = []models.Keyword{}
	}
	keywordsJSON, err := marshalJSON(keywords)
	if err != nil {
		return internal("encode keywords", err)
	}

	err = q.QueryRowContext(ctx, `
		INSERT INTO blogs (owner_id, website_id, title, slug, content, seo_title,
		                   seo_description, keywords, status, scheduled_for, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`, b.OwnerID, b.WebsiteID, b.Title, b.Slug, b.Content, b.SEOTitle,
		b.SEODescription, keywordsJSON, b.Status, b.ScheduledFor, b.PublishedAt,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return internal("insert blog", err)
	}
	return nil
}

// Find retrieves a blog by its ID.
func (s *BlogStore) Find(ctx context.Context, id string) (*models.Blog, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return findBlog(ctx, s.db, uid.String(), "")
}

func findBlog(ctx context.Context, q querier, id, lock string) (*models.Blog, error) {
	b, err := scanBlog(q.QueryRowContext(ctx,
		`SELECT `+blogColumns+` FROM blogs WHERE id = $1 `+lock, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("blog %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, internal("find blog", err)
	}
	return b, nil
}

// ListByWebsite returns a website's blogs in schedule order. Unscheduled
// blogs come last.
func (s *BlogStore) ListByWebsite(ctx context.Context, websiteID string) ([]models.Blog, error) {
	uid, err := parseID(websiteID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+blogColumns+`
		FROM blogs
		WHERE website_id = $1
		ORDER BY scheduled_for ASC NULLS LAST, created_at ASC
	`, uid)
	if err != nil {
		return nil, internal("list blogs", err)
	}
	defer rows.Close()

	var items []models.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, internal("scan blog", err)
		}
		items = append(items, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, internal("list blogs", err)
	}
	return items, nil
}

// Update merges a patch into a blog under a row lock and returns the
// stored result.
func (s *BlogStore) Update(ctx context.Context, id string, patch *models.BlogPatch) (*models.Blog, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, internal("begin blog update", err)
	}
	defer rollback(tx)

	b, err := findBlog(ctx, tx, uid.String(), "FOR UPDATE")
	if err != nil {
		return nil, err
	}
	patch.Apply(b)

	keywords := b.Keywords
	if keywords == nil {
		keywords = []models.Keyword{}
	}
	keywordsJSON, err := marshalJSON(keywords)
	if err != nil {
		return nil, internal("encode keywords", err)
	}

	updated, err := scanBlog(tx.QueryRowContext(ctx, `
		UPDATE blogs SET
			title = $2, slug = $3, content = $4, seo_title = $5, seo_description = $6,
			keywords = $7, status = $8, scheduled_for = $9, published_at = $10,
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+blogColumns,
		uid, b.Title, b.Slug, b.Content, b.SEOTitle, b.SEODescription,
		keywordsJSON, b.Status, b.ScheduledFor, b.PublishedAt,
	))
	if err != nil {
		return nil, internal("update blog", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, internal("commit blog update", err)
	}
	return updated, nil
}
