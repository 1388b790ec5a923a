// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blogtraffic/internal/apperr"
	"blogtraffic/internal/models"
)

// WebsiteStore handles website documents, including the atomic
// registration of a website with its scrape and seeded blogs.
type WebsiteStore struct {
	db *DB
}

// NewWebsiteStore creates a new WebsiteStore on db.
func NewWebsiteStore(db *DB) *WebsiteStore {
	return &WebsiteStore{db: db}
}

// CreateWithContent inserts the website, its scrape and its blogs in one
// transaction. IDs and timestamps are filled in on the passed records.
func (s *WebsiteStore) CreateWithContent(ctx context.Context, w *models.Website, sc *models.Scrape, blogs []*models.Blog) error {
	now := time.Now().UTC().Truncate(time.Millisecond)

	wdoc := &websiteDoc{
		UserID:           w.OwnerID,
		Name:             w.Name,
		URL:              w.URL,
		Description:      w.Description,
		Logo:             w.Logo,
		BlogNumber:       len(blogs),
		BlogPostEndPoint: w.PublishEndpoint,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	var (
		sdoc  *scrapeDoc
		bdocs []*blogDoc
	)

	err := s.db.withTransaction(ctx, func(tx mongo.SessionContext) error {
		wdoc.ID = primitive.NilObjectID
		res, err := s.db.websites.InsertOne(tx, wdoc)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return fmt.Errorf("website %s already exists: %w", w.URL, apperr.ErrConflict)
			}
			return internal("insert website", err)
		}
		wdoc.ID = res.InsertedID.(primitive.ObjectID)

		sdoc = newScrapeDoc(sc, wdoc.ID, now)
		sres, err := s.db.scrapes.InsertOne(tx, sdoc)
		if err != nil {
			return internal("insert scrape", err)
		}
		sdoc.ID = sres.InsertedID.(primitive.ObjectID)

		bdocs = make([]*blogDoc, len(blogs))
		docs := make([]interface{}, len(blogs))
		for i, b := range blogs {
			b.OwnerID = w.OwnerID
			bdocs[i] = newBlogDoc(b, wdoc.ID, now)
			docs[i] = bdocs[i]
		}
		if len(docs) == 0 {
			return nil
		}
		bres, err := s.db.blogs.InsertMany(tx, docs)
		if err != nil {
			return internal("insert blogs", err)
		}
		for i, id := range bres.InsertedIDs {
			bdocs[i].ID = id.(primitive.ObjectID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	*w = *wdoc.model()
	*sc = *sdoc.model()
	for i, b := range blogs {
		*b = *bdocs[i].model()
	}
	return nil
}

// Find retrieves a website by its ID.
func (s *WebsiteStore) Find(ctx context.Context, id string) (*models.Website, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc websiteDoc
	err = s.db.websites.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("website %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, internal("find website", err)
	}
	return doc.model(), nil
}

// ListByOwner returns an owner's websites, newest first.
func (s *WebsiteStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Website, error) {
	cur, err := s.db.websites.Find(ctx, bson.M{"userId": ownerID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, internal("list websites", err)
	}
	defer cur.Close(ctx)

	var items []models.Website
	for cur.Next(ctx) {
		var doc websiteDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, internal("decode website", err)
		}
		items = append(items, *doc.model())
	}
	if err := cur.Err(); err != nil {
		return nil, internal("list websites", err)
	}
	return items, nil
}

// Update applies a patch to a website the owner holds. A website of another
// owner is reported as not found.
func (s *WebsiteStore) Update(ctx context.Context, id, ownerID string, patch *models.WebsitePatch) (*models.Website, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.URL != nil {
		set["url"] = *patch.URL
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Logo != nil {
		set["logo"] = *patch.Logo
	}
	if patch.PublishEndpoint != nil {
		set["blogPostEndPoint"] = *patch.PublishEndpoint
	}

	var doc websiteDoc
	err = s.db.websites.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "userId": ownerID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("website %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("website url already registered: %w", apperr.ErrConflict)
		}
		return nil, internal("update website", err)
	}
	return doc.model(), nil
}

// Delete removes an owner's website together with its scrapes and blogs.
func (s *WebsiteStore) Delete(ctx context.Context, id, ownerID string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	return s.db.withTransaction(ctx, func(tx mongo.SessionContext) error {
		res, err := s.db.websites.DeleteOne(tx, bson.M{"_id": oid, "userId": ownerID})
		if err != nil {
			return internal("delete website", err)
		}
		if res.DeletedCount == 0 {
			return fmt.Errorf("website %s: %w", id, apperr.ErrNotFound)
		}
		if _, err := s.db.blogs.DeleteMany(tx, bson.M{"websiteId": oid}); err != nil {
			return internal("delete blogs", err)
		}
		if _, err := s.db.scrapes.DeleteMany(tx, bson.M{"websiteId": oid}); err != nil {
			return internal("delete scrapes", err)
		}
		return nil
	})
}
