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
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blogtraffic/internal/apperr"
	"blogtraffic/internal/models"
)

// BlogStore handles blog documents.
type BlogStore struct {
	db *DB
}

// NewBlogStore creates a new BlogStore on db.
func NewBlogStore(db *DB) *BlogStore {
	return &BlogStore{db: db}
}

// Find retrieves a blog by its ID.
func (s *BlogStore) Find(ctx context.Context, id string) (*models.Blog, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc blogDoc
	err = s.db.blogs.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("blog %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, internal("find blog", err)
	}
	return doc.model(), nil
}

// ListByWebsite returns a website's blogs in schedule order. Unscheduled
// blogs come last.
func (s *BlogStore) ListByWebsite(ctx context.Context, websiteID string) ([]models.Blog, error) {
	oid, err := parseID(websiteID)
	if err != nil {
		return nil, err
	}

	cur, err := s.db.blogs.Find(ctx, bson.M{"websiteId": oid},
		options.Find().SetSort(bson.D{{Key: "scheduledFor", Value: 1}, {Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, internal("list blogs", err)
	}
	defer cur.Close(ctx)

	var scheduled, unscheduled []models.Blog
	for cur.Next(ctx) {
		var doc blogDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, internal("decode blog", err)
		}
		b := doc.model()
		// Missing fields sort first in MongoDB.
		if b.ScheduledFor == nil {
			unscheduled = append(unscheduled, *b)
			continue
		}
		scheduled = append(scheduled, *b)
	}
	if err := cur.Err(); err != nil {
		return nil, internal("list blogs", err)
	}
	return append(scheduled, unscheduled...), nil
}

// Update merges a patch into a blog and returns the stored result.
func (s *BlogStore) Update(ctx context.Context, id string, patch *models.BlogPatch) (*models.Blog, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Slug != nil {
		set["slug"] = *patch.Slug
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.SEOTitle != nil {
		set["seoTitle"] = *patch.SEOTitle
	}
	if patch.SEODescription != nil {
		set["seoDescription"] = *patch.SEODescription
	}
	if patch.Keywords != nil {
		set["keywords"] = keywordDocs(*patch.Keywords)
	}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}
	if patch.ScheduledFor != nil {
		set["scheduledFor"] = *patch.ScheduledFor
	}
	if patch.PublishedAt != nil {
		set["publishedAt"] = *patch.PublishedAt
	}

	var doc blogDoc
	err = s.db.blogs.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("blog %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, internal("update blog", err)
	}
	return doc.model(), nil
}
