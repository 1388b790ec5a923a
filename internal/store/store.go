// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements the PostgreSQL persistence of websites, their
// scrape snapshots and their blogs. Every method takes the request context
// and reports failures as apperr sentinels.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"blogtraffic/internal/apperr"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// querier is the subset of *sql.DB and *sql.Tx the stores query through.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// parseID rejects identifiers that are not UUIDs before they reach the
// database.
func parseID(id string) (uuid.UUID, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", id, apperr.ErrValidation)
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// internal wraps a driver error as apperr.ErrInternal, keeping the cause.
func internal(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, apperr.ErrInternal, err)
}

// rollback undoes tx unless it was already committed.
func rollback(tx *sql.Tx) {
	_ = tx.Rollback()
}

// marshalJSON encodes a JSONB column value. Callers pass non-nil slices so
// empty lists are stored as [] rather than null.
func marshalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
