// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"blogtraffic/internal/apperr"
	"blogtraffic/internal/cache"
	"blogtraffic/internal/models"
	"blogtraffic/internal/onboarding"
)

func TestAddWebsite(t *testing.T) {
	e := newEnv(t)
	e.cache.Set(context.Background(), cache.WebsitesKey("u1"), []byte(`{"websites":[]}`))
	e.onboarder.result = &onboarding.Result{
		Website:      &models.Website{ID: "w9", OwnerID: "u1", Name: "Acme Blog", URL: "https://acme.test"},
		BlogsCreated: 15,
	}

	rr := e.do(t, http.MethodPost, "/api/website/add",
		`{"name":"Acme Blog","url":"https://acme.test","desc":"Widgets","endpoint":"/api/posts","userId":"u1"}`)
	wantStatus(t, rr, http.StatusCreated)

	got := decode[struct {
		Website      models.Website `json:"website"`
		BlogsCreated int            `json:"blogsCreated"`
	}](t, rr)
	if got.BlogsCreated != 15 || got.Website.ID != "w9" {
		t.Errorf("response: %+v", got)
	}

	want := onboarding.Input{
		Name: "Acme Blog", URL: "https://acme.test", Description: "Widgets",
		PublishEndpoint: "/api/posts", OwnerID: "u1",
	}
	if diff := cmp.Diff(want, e.onboarder.input); diff != "" {
		t.Errorf("onboarding input (-want +got):\n%s", diff)
	}
	if _, ok := e.cache.Get(context.Background(), cache.WebsitesKey("u1")); ok {
		t.Error("owner listing should be invalidated")
	}
}

func TestAddWebsiteErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"empty body", "", nil, http.StatusBadRequest, "request body is required"},
		{"malformed body", "{", nil, http.StatusBadRequest, "invalid JSON body"},
		{"missing fields", `{}`, fmt.Errorf("missing required fields: name: %w", apperr.ErrValidation), http.StatusBadRequest, "missing required fields"},
		{"duplicate", `{}`, fmt.Errorf("website exists: %w", apperr.ErrConflict), http.StatusConflict, "website exists"},
		{"shape", `{}`, fmt.Errorf("reply has 14 posts: %w", apperr.ErrShape), http.StatusInternalServerError, "malformed content"},
		{"fetch", `{}`, fmt.Errorf("status 503: %w", apperr.ErrFetch), http.StatusInternalServerError, "Could not fetch"},
		{"internal", `{}`, fmt.Errorf("insert: %w", apperr.ErrInternal), http.StatusInternalServerError, "Something went wrong"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			e.onboarder.err = tt.err

			rr := e.do(t, http.MethodPost, "/api/website/add", tt.body)
			wantStatus(t, rr, tt.wantStatus)
			msg := decode[map[string]string](t, rr)["message"]
			if !strings.Contains(msg, tt.wantMsg) {
				t.Errorf("message %q should contain %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestFetchAllWebsites(t *testing.T) {
	e := newEnv(t)

	rr := e.do(t, http.MethodGet, "/api/website/fetch-all?userId=u1", "")
	wantStatus(t, rr, http.StatusOK)
	got := decode[map[string][]models.WebsiteSummary](t, rr)
	want := []models.WebsiteSummary{{ID: "w1", Name: "Acme Blog", URL: "https://acme.test", Logo: "https://acme.test/favicon.ico"}}
	if diff := cmp.Diff(want, got["websites"]); diff != "" {
		t.Errorf("websites (-want +got):\n%s", diff)
	}
	if rr.Header().Get("X-Cache") != "MISS" {
		t.Errorf("first listing should miss the cache")
	}

	rr = e.do(t, http.MethodGet, "/api/website/fetch-all?userId=u1", "")
	if rr.Header().Get("X-Cache") != "HIT" {
		t.Errorf("second listing should hit the cache")
	}

	rr = e.do(t, http.MethodGet, "/api/website/fetch-all?userId=nobody", "")
	wantStatus(t, rr, http.StatusOK)
	if !strings.Contains(rr.Body.String(), `"websites":[]`) {
		t.Errorf("empty listing should be an empty array: %s", rr.Body.String())
	}

	rr = e.do(t, http.MethodGet, "/api/website/fetch-all", "")
	wantStatus(t, rr, http.StatusBadRequest)
}

func TestGetWebsite(t *testing.T) {
	e := newEnv(t)

	rr := e.do(t, http.MethodGet, "/api/website/w1", "")
	wantStatus(t, rr, http.StatusOK)
	got := decode[map[string]models.PublicWebsite](t, rr)
	if got["website"].Name != "Acme Blog" || got["website"].URL != "https://acme.test" {
		t.Errorf("website: %+v", got)
	}
	for _, field := range []string{`"userId"`, `"publishEndpoint"`} {
		if strings.Contains(rr.Body.String(), field) {
			t.Errorf("public website should not carry %s: %s", field, rr.Body.String())
		}
	}

	wantStatus(t, e.do(t, http.MethodGet, "/api/website/missing", ""), http.StatusNotFound)
	wantStatus(t, e.do(t, http.MethodGet, "/api/website/bad", ""), http.StatusBadRequest)
}

func TestUpdateWebsite(t *testing.T) {
	e := newEnv(t)
	e.cache.Set(context.Background(), cache.WebsitesKey("u1"), []byte("stale"))

	rr := e.do(t, http.MethodPatch, "/api/website/w1", `{"userId":"u1","name":"Acme","url":"HTTPS://ACME.TEST/"}`)
	wantStatus(t, rr, http.StatusOK)
	got := decode[models.Website](t, rr)
	if got.Name != "Acme" || got.URL != "https://acme.test/" {
		t.Errorf("updated: %+v", got)
	}
	if _, ok := e.cache.Get(context.Background(), cache.WebsitesKey("u1")); ok {
		t.Error("owner listing should be invalidated")
	}

	tests := []struct {
		name   string
		target string
		body   string
		want   int
	}{
		{"other owner", "/api/website/w1", `{"userId":"u2","name":"x"}`, http.StatusNotFound},
		{"missing owner", "/api/website/w1", `{"name":"x"}`, http.StatusBadRequest},
		{"nothing to update", "/api/website/w1", `{"userId":"u1"}`, http.StatusBadRequest},
		{"bad url", "/api/website/w1", `{"userId":"u1","url":"ftp://acme"}`, http.StatusBadRequest},
		{"unknown website", "/api/website/zz", `{"userId":"u1","name":"x"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantStatus(t, e.do(t, http.MethodPatch, tt.target, tt.body), tt.want)
		})
	}
}

func TestDeleteWebsite(t *testing.T) {
	e := newEnv(t)
	e.cache.Set(context.Background(), cache.BlogsKey("w1"), []byte("stale"))

	wantStatus(t, e.do(t, http.MethodDelete, "/api/website/w1", `{"userId":"u2"}`), http.StatusNotFound)
	wantStatus(t, e.do(t, http.MethodDelete, "/api/website/w1", ""), http.StatusBadRequest)

	rr := e.do(t, http.MethodDelete, "/api/website/w1", `{"userId":"u1"}`)
	wantStatus(t, rr, http.StatusOK)
	got := decode[map[string]any](t, rr)
	if got["success"] != true || got["message"] != "Website deleted successfully" {
		t.Errorf("response: %v", got)
	}
	if _, ok := e.cache.Get(context.Background(), cache.BlogsKey("w1")); ok {
		t.Error("blog listing should be invalidated")
	}

	wantStatus(t, e.do(t, http.MethodDelete, "/api/website/w1?userId=u1", ""), http.StatusNotFound)
}

func TestDeleteWebsiteTrimsOwner(t *testing.T) {
	e := newEnv(t)
	e.cache.Set(context.Background(), cache.WebsitesKey("u1"), []byte("stale"))

	wantStatus(t, e.do(t, http.MethodDelete, "/api/website/w1", `{"userId":"  u1 "}`), http.StatusOK)
	if _, ok := e.cache.Get(context.Background(), cache.WebsitesKey("u1")); ok {
		t.Error("owner listing should be invalidated")
	}
}

func TestWebsiteSnapshot(t *testing.T) {
	e := newEnv(t)

	rr := e.do(t, http.MethodGet, "/api/website/w1/snapshot", "")
	wantStatus(t, rr, http.StatusOK)
	got := decode[map[string]string](t, rr)
	if got["url"] != "https://s3.test/snapshots/2026/03/14/x.html?sig=1" {
		t.Errorf("url: %q", got["url"])
	}

	wantStatus(t, e.do(t, http.MethodGet, "/api/website/w2/snapshot", ""), http.StatusNotFound)
	wantStatus(t, e.do(t, http.MethodGet, "/api/website/w3/snapshot", ""), http.StatusNotFound)
}

func TestWebsiteSnapshotDisabled(t *testing.T) {
	e := newEnv(t)
	h := NewWebsites(e.websites, e.scrapes, e.onboarder, nil, nil)
	e.router.Get("/nosnap/{id}", h.Snapshot)

	wantStatus(t, e.do(t, http.MethodGet, "/nosnap/w1", ""), http.StatusNotFound)
}
