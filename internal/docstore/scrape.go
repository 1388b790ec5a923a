// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blogtraffic/internal/apperr"
	"blogtraffic/internal/models"
)

// ScrapeStore reads website snapshots.
type ScrapeStore struct {
	db *DB
}

// NewScrapeStore creates a new ScrapeStore on db.
func NewScrapeStore(db *DB) *ScrapeStore {
	return &ScrapeStore{db: db}
}

// FindByWebsite returns the most recent snapshot of a website.
func (s *ScrapeStore) FindByWebsite(ctx context.Context, websiteID string) (*models.Scrape, error) {
	oid, err := parseID(websiteID)
	if err != nil {
		return nil, err
	}

	var doc scrapeDoc
	err = s.db.scrapes.FindOne(ctx, bson.M{"websiteId": oid},
		options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("scrape of website %s: %w", websiteID, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, internal("find scrape", err)
	}
	return doc.model(), nil
}
