// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package docstore implements the MongoDB persistence of websites, scrapes
// and blogs. It is the alternative to the PostgreSQL store, selected with
// STORE_DRIVER=mongo. Collections are websites, scrapes and blogs with
// camelCase field names.
//
// Multi-document writes run in transactions, which MongoDB only supports
// on replica sets and sharded clusters.
package docstore

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blogtraffic/internal/apperr"
)

// Collection names.
const (
	websitesCollection = "websites"
	scrapesCollection  = "scrapes"
	blogsCollection    = "blogs"
)

// DB is a connected MongoDB database with the collections the stores use.
type DB struct {
	client   *mongo.Client
	websites *mongo.Collection
	scrapes  *mongo.Collection
	blogs    *mongo.Collection
}

// Connect dials uri, verifies the connection and ensures the indexes of
// database dbName exist.
func Connect(ctx context.Context, uri, dbName string) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	database := client.Database(dbName)
	d := &DB{
		client:   client,
		websites: database.Collection(websitesCollection),
		scrapes:  database.Collection(scrapesCollection),
		blogs:    database.Collection(blogsCollection),
	}

	if err := d.createIndexes(ctx); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}

	slog.Info("mongo connected", "database", dbName)
	return d, nil
}

func (d *DB) createIndexes(ctx context.Context) error {
	indexes := []struct {
		coll   *mongo.Collection
		models []mongo.IndexModel
	}{
		{d.websites, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "url", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		}},
		{d.scrapes, []mongo.IndexModel{
			{Keys: bson.D{{Key: "websiteId", Value: 1}, {Key: "createdAt", Value: -1}}},
		}},
		{d.blogs, []mongo.IndexModel{
			{Keys: bson.D{{Key: "websiteId", Value: 1}, {Key: "scheduledFor", Value: 1}}},
		}},
	}

	for _, idx := range indexes {
		if _, err := idx.coll.Indexes().CreateMany(ctx, idx.models); err != nil {
			return fmt.Errorf("mongo create indexes on %s: %w", idx.coll.Name(), err)
		}
	}
	return nil
}

// Close disconnects the client.
func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// Ping reports whether the server is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, nil)
}

// withTransaction runs fn inside a session transaction.
func (d *DB) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	sess, err := d.client.StartSession()
	if err != nil {
		return internal("start session", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid id %q: %w", id, apperr.ErrValidation)
	}
	return oid, nil
}

func internal(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, apperr.ErrInternal, err)
}
