// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package probe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blogtraffic/internal/apperr"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		raw     string
		wantErr bool
	}{
		{"https://acme.test", false},
		{"  http://acme.test/path  ", false},
		{"HTTPS://ACME.TEST", false},
		{"", true},
		{"   ", true},
		{"acme.test", true},
		{"ftp://acme.test", true},
		{"https://", true},
		{"://bad", true},
	}
	for _, tt := range tests {
		_, err := ParseURL(tt.raw)
		if tt.wantErr {
			if !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("ParseURL(%q): got %v, want ErrValidation", tt.raw, err)
			}
		} else if err != nil {
			t.Errorf("ParseURL(%q): unexpected error %v", tt.raw, err)
		}
	}
}

func TestProbe_FetchesOnceWithBrowserUserAgent(t *testing.T) {
	var calls int
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><head><title>Acme | Blog</title><link rel="icon" href="/fav.png"></head><body><h1>Widgets</h1></body></html>`))
	}))
	defer srv.Close()

	p := New(NewHTTPFetcher(5 * time.Second))
	res, err := p.Probe(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}

	if calls != 1 {
		t.Errorf("requests: got %d, want 1", calls)
	}
	if gotUA != UserAgent {
		t.Errorf("User-Agent: got %q", gotUA)
	}
	if res.Profile.Brand.Logo != srv.URL+"/fav.png" {
		t.Errorf("logo: got %q, want %q", res.Profile.Brand.Logo, srv.URL+"/fav.png")
	}
	if res.HTML == "" {
		t.Error("raw html should be returned")
	}
}

func TestProbe_NonSuccessStatusIsFetchError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New(NewHTTPFetcher(5*time.Second)).Probe(context.Background(), srv.URL)
	if !errors.Is(err, apperr.ErrFetch) {
		t.Fatalf("error: got %v, want ErrFetch", err)
	}
	if calls != 1 {
		t.Errorf("a failed fetch must not be retried, got %d requests", calls)
	}
}

func TestProbe_TransportFailureIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(NewHTTPFetcher(time.Second)).Probe(context.Background(), url)
	if !errors.Is(err, apperr.ErrFetch) {
		t.Fatalf("error: got %v, want ErrFetch", err)
	}
}

func TestProbe_InvalidURLNeverFetches(t *testing.T) {
	f := &countingFetcher{}
	_, err := New(f).Probe(context.Background(), "not a url")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("error: got %v, want ErrValidation", err)
	}
	if f.calls != 0 {
		t.Errorf("fetcher called %d times", f.calls)
	}
}

func TestHTTPFetcher_DecodesDeclaredCharset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		// "Café" in Latin-1.
		w.Write([]byte("<html><head><title>Caf\xe9</title></head></html>"))
	}))
	defer srv.Close()

	res, err := New(NewHTTPFetcher(5*time.Second)).Probe(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if res.Profile.Brand.Name != "Café" {
		t.Errorf("brand name: got %q, want %q", res.Profile.Brand.Name, "Café")
	}
}

type countingFetcher struct {
	calls int
}

func (f *countingFetcher) Fetch(context.Context, string) (string, error) {
	f.calls++
	return "", nil
}
