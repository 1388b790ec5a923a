// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session provides Valkey-backed per-browser state. A session is
// identified by an opaque cookie and stored as JSON in Valkey with a sliding
// expiry. It remembers which website the dashboard is operating on.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "bt_session"

	// DefaultTTL is how long an idle session lives in Valkey.
	DefaultTTL = 30 * 24 * time.Hour

	keyPrefix = "session:"

	// idBytes of randomness, hex encoded in the cookie.
	idBytes = 32
)

// Data holds the session payload stored in Valkey.
type Data struct {
	CurrentWebsiteID string    `json:"current_website_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Store manages session lifecycle in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewStore creates a session store backed by the given Valkey client.
// secure marks the cookie Secure; set it when served over TLS.
func NewStore(client *redis.Client, secure bool) *Store {
	return &Store{client: client, ttl: DefaultTTL, secure: secure, now: time.Now}
}

// Get returns the request's session and extends its expiry. A missing,
// malformed or expired cookie yields (nil, nil).
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	id, ok := cookieID(r)
	if !ok {
		return nil, nil
	}

	payload, err := s.client.GetEx(ctx, keyPrefix+id, s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return &data, nil
}

// Save stores data under the request's session and refreshes the cookie.
// A new id is issued unless the cookie names a live session, so a client
// cannot pick its own session id.
func (s *Store) Save(ctx context.Context, w http.ResponseWriter, r *http.Request, data *Data) error {
	id, ok := cookieID(r)
	if ok {
		n, err := s.client.Exists(ctx, keyPrefix+id).Result()
		if err != nil {
			return fmt.Errorf("session lookup: %w", err)
		}
		ok = n == 1
	}
	if !ok {
		var err error
		if id, err = newID(); err != nil {
			return fmt.Errorf("session create: %w", err)
		}
	}

	if data.CreatedAt.IsZero() {
		data.CreatedAt = s.now().UTC()
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+id, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("session store: %w", err)
	}

	http.SetCookie(w, s.cookie(id, int(s.ttl.Seconds())))
	return nil
}

// Destroy removes the session from Valkey and expires the cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if id, ok := cookieID(r); ok {
		if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
			return fmt.Errorf("session destroy: %w", err)
		}
	}
	http.SetCookie(w, s.cookie("", -1))
	return nil
}

func (s *Store) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}

// cookieID returns the session id of r if it is well formed.
func cookieID(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || len(c.Value) != 2*idBytes {
		return "", false
	}
	if _, err := hex.DecodeString(c.Value); err != nil {
		return "", false
	}
	return c.Value, true
}

func newID() (string, error) {
	b := make([]byte, idBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
