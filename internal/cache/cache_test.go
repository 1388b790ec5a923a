// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient connects to DB 15 of the local Valkey and removes every
// response key when the test ends. The test is skipped without a server.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, responseKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestKeysCanonicalizeIDs(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"uuid upper-case", BlogsKey("5F0C3A6E-2B1D-4C8E-9A7F-1E2D3C4B5A69"), "blogs:5f0c3a6e-2b1d-4c8e-9a7f-1e2d3c4b5a69"},
		{"uuid braces", BlogsKey("{5f0c3a6e-2b1d-4c8e-9a7f-1e2d3c4b5a69}"), "blogs:5f0c3a6e-2b1d-4c8e-9a7f-1e2d3c4b5a69"},
		{"object id", BlogsKey(" 65F1A2B3C4D5E6F708091A2B "), "blogs:65f1a2b3c4d5e6f708091a2b"},
		{"other id", BlogsKey(" w1 "), "blogs:w1"},
		{"owner trimmed", WebsitesKey("\tu1 "), "websites:u1"},
		{"owner case kept", WebsitesKey("User-1"), "websites:User-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(context.Background(), host, port, "")
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestResponseCacheSetAndGet(t *testing.T) {
	client := testValkeyClient(t)
	rc := NewResponseCache(client, time.Minute)
	ctx := context.Background()

	data, ok := rc.Get(ctx, WebsitesKey("u1"))
	if ok || data != nil {
		t.Error("expected cache miss")
	}

	body := []byte(`{"websites":[]}`)
	rc.Set(ctx, WebsitesKey("u1"), body)

	data, ok = rc.Get(ctx, WebsitesKey("u1"))
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(data) != string(body) {
		t.Errorf("data mismatch: got %q, want %q", data, body)
	}
}

func TestResponseCacheInvalidate(t *testing.T) {
	client := testValkeyClient(t)
	rc := NewResponseCache(client, time.Minute)
	ctx := context.Background()

	rc.Set(ctx, WebsitesKey("u1"), []byte("a"))
	rc.Set(ctx, BlogsKey("w1"), []byte("b"))
	rc.Set(ctx, BlogsKey("w2"), []byte("c"))

	rc.Invalidate(ctx, WebsitesKey("u1"), BlogsKey("w1"))

	for _, key := range []string{WebsitesKey("u1"), BlogsKey("w1")} {
		if _, ok := rc.Get(ctx, key); ok {
			t.Errorf("expected miss for %q after Invalidate", key)
		}
	}
	if _, ok := rc.Get(ctx, BlogsKey("w2")); !ok {
		t.Error("unrelated key should survive")
	}
}

func TestResponseCacheTTL(t *testing.T) {
	client := testValkeyClient(t)
	rc := NewResponseCache(client, 0)
	if rc.ttl != DefaultResponseTTL {
		t.Errorf("expected DefaultResponseTTL (%v), got %v", DefaultResponseTTL, rc.ttl)
	}

	ctx := context.Background()
	rc.Set(ctx, BlogsKey("ttl"), []byte("x"))
	ttl := client.TTL(ctx, responseKeyPrefix+BlogsKey("ttl")).Val()
	if ttl <= 0 || ttl > DefaultResponseTTL {
		t.Errorf("ttl: got %v", ttl)
	}
}

// An unreachable Valkey must degrade to cache misses, never to errors.
func TestResponseCacheUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	rc := NewResponseCache(client, time.Minute)
	ctx := context.Background()

	rc.Set(ctx, BlogsKey("w1"), []byte("x"))
	if data, ok := rc.Get(ctx, BlogsKey("w1")); ok || data != nil {
		t.Errorf("expected miss, got %q", data)
	}
	rc.Invalidate(ctx, BlogsKey("w1"))
	rc.Invalidate(ctx)
}

func TestKeys(t *testing.T) {
	if got := WebsitesKey("u1"); got != "websites:u1" {
		t.Errorf("WebsitesKey: got %q", got)
	}
	if got := BlogsKey("w1"); got != "blogs:w1" {
		t.Errorf("BlogsKey: got %q", got)
	}
}
