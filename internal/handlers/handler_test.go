// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides in-memory fakes of the handler dependencies and
// a router wired like the production one.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"blogtraffic/internal/apperr"
	"blogtraffic/internal/models"
	"blogtraffic/internal/onboarding"
	"blogtraffic/internal/session"
)

type fakeWebsites struct {
	mu    sync.Mutex
	sites map[string]*models.Website
}

func (f *fakeWebsites) Find(_ context.Context, id string) (*models.Website, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id == "bad" {
		return nil, fmt.Errorf("invalid id: %w", apperr.ErrValidation)
	}
	s, ok := f.sites[id]
	if !ok {
		return nil, fmt.Errorf("website %s: %w", id, apperr.ErrNotFound)
	}
	cp := *s
	return &cp, nil
}

func (f *fakeWebsites) ListByOwner(_ context.Context, ownerID string) ([]models.Website, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Website
	for _, s := range f.sites {
		if s.OwnerID == ownerID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeWebsites) Update(_ context.Context, id, ownerID string, p *models.WebsitePatch) (*models.Website, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sites[id]
	if !ok || s.OwnerID != ownerID {
		return nil, fmt.Errorf("website %s: %w", id, apperr.ErrNotFound)
	}
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.URL != nil {
		s.URL = *p.URL
	}
	cp := *s
	return &cp, nil
}

func (f *fakeWebsites) Delete(_ context.Context, id, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sites[id]
	if !ok || s.OwnerID != ownerID {
		return fmt.Errorf("website %s: %w", id, apperr.ErrNotFound)
	}
	delete(f.sites, id)
	return nil
}

type fakeBlogs struct {
	mu    sync.Mutex
	blogs map[string]*models.Blog
}

func (f *fakeBlogs) Find(_ context.Context, id string) (*models.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.blogs[id]
	if !ok {
		return nil, fmt.Errorf("blog %s: %w", id, apperr.ErrNotFound)
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBlogs) ListByWebsite(_ context.Context, websiteID string) ([]models.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Blog
	for _, id := range []string{"b1", "b2", "b3"} {
		if b, ok := f.blogs[id]; ok && b.WebsiteID == websiteID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBlogs) Update(_ context.Context, id string, p *models.BlogPatch) (*models.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.blogs[id]
	if !ok {
		return nil, fmt.Errorf("blog %s: %w", id, apperr.ErrNotFound)
	}
	p.Apply(b)
	cp := *b
	return &cp, nil
}

type fakeScrapes map[string]*models.Scrape

func (f fakeScrapes) FindByWebsite(_ context.Context, websiteID string) (*models.Scrape, error) {
	sc, ok := f[websiteID]
	if !ok {
		return nil, fmt.Errorf("scrape: %w", apperr.ErrNotFound)
	}
	return sc, nil
}

type fakeOnboarder struct {
	input  onboarding.Input
	result *onboarding.Result
	err    error
	blogs  *fakeBlogs
}

func (f *fakeOnboarder) Onboard(_ context.Context, in onboarding.Input) (*onboarding.Result, error) {
	f.input = in
	return f.result, f.err
}

func (f *fakeOnboarder) GeneratePost(ctx context.Context, blogID, _ string) (*models.Blog, error) {
	if f.err != nil {
		return nil, f.err
	}
	content := "<p>generated</p>"
	return f.blogs.Update(ctx, blogID, &models.BlogPatch{Content: &content})
}

type fakeSigner struct{}

func (fakeSigner) SnapshotURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://s3.test/" + key + "?sig=1", nil
}

// memCache is a ResponseCache held in a map.
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemCache() *memCache { return &memCache{entries: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[key]
	return b, ok
}

func (c *memCache) Set(_ context.Context, key string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = body
}

func (c *memCache) Invalidate(_ context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
}

// memSessions keeps session data keyed by cookie value.
type memSessions struct {
	mu   sync.Mutex
	data map[string]session.Data
	n    int
}

func (m *memSessions) Get(_ context.Context, r *http.Request) (*session.Data, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := r.Cookie(session.CookieName)
	if err != nil {
		return nil, nil
	}
	d, ok := m.data[c.Value]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (m *memSessions) Save(_ context.Context, w http.ResponseWriter, r *http.Request, d *session.Data) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := ""
	if c, err := r.Cookie(session.CookieName); err == nil {
		id = c.Value
	} else {
		m.n++
		id = fmt.Sprintf("s%d", m.n)
	}
	m.data[id] = *d
	http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: id, Path: "/"})
	return nil
}

func (m *memSessions) Destroy(_ context.Context, w http.ResponseWriter, r *http.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, err := r.Cookie(session.CookieName); err == nil {
		delete(m.data, c.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "", Path: "/", MaxAge: -1})
	return nil
}

type env struct {
	websites  *fakeWebsites
	blogs     *fakeBlogs
	scrapes   fakeScrapes
	onboarder *fakeOnboarder
	sessions  *memSessions
	cache     *memCache
	router    chi.Router
}

func newEnv(t *testing.T) *env {
	t.Helper()
	updated := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	day := func(n int) *time.Time {
		d := time.Date(2026, 3, 15+n, 0, 0, 0, 0, time.UTC)
		return &d
	}

	e := &env{
		websites: &fakeWebsites{sites: map[string]*models.Website{
			"w1": {ID: "w1", OwnerID: "u1", Name: "Acme Blog", URL: "https://acme.test", Logo: "https://acme.test/favicon.ico"},
			"w2": {ID: "w2", OwnerID: "u2", Name: "Other", URL: "https://other.test"},
		}},
		blogs: &fakeBlogs{blogs: map[string]*models.Blog{
			"b1": {ID: "b1", OwnerID: "u1", WebsiteID: "w1", Title: "First", Status: models.BlogStatusDraft,
				Keywords: []models.Keyword{{Name: "widgets", Volume: 10}}, ScheduledFor: day(0), UpdatedAt: updated},
			"b2": {ID: "b2", OwnerID: "u1", WebsiteID: "w1", Title: "Second", Status: models.BlogStatusDraft,
				Keywords: []models.Keyword{{Name: "gears", Volume: 5}}, ScheduledFor: day(1), UpdatedAt: updated.Add(time.Hour)},
			"b3": {ID: "b3", OwnerID: "u1", WebsiteID: "w1", Title: "Third", Status: models.BlogStatusDraft,
				Keywords: []models.Keyword{}, ScheduledFor: day(2), UpdatedAt: updated.Add(-time.Hour)},
		}},
		scrapes: fakeScrapes{
			"w1": {WebsiteID: "w1", SnapshotKey: "snapshots/2026/03/14/x.html"},
			"w2": {WebsiteID: "w2"},
		},
		sessions: &memSessions{data: map[string]session.Data{}},
		cache:    newMemCache(),
	}
	e.onboarder = &fakeOnboarder{blogs: e.blogs}

	websites := NewWebsites(e.websites, e.scrapes, e.onboarder, fakeSigner{}, e.cache)
	blogs := NewBlogs(e.blogs, e.onboarder, e.cache)
	blogs.now = func() time.Time { return time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC) }
	sess := NewSession(e.sessions, e.websites)

	r := chi.NewRouter()
	r.Post("/api/website/add", websites.Add)
	r.Get("/api/website/fetch-all", websites.FetchAll)
	r.Get("/api/website/{id}", websites.Get)
	r.Patch("/api/website/{id}", websites.Update)
	r.Delete("/api/website/{id}", websites.Delete)
	r.Get("/api/website/{id}/snapshot", websites.Snapshot)
	r.Get("/api/blogs", blogs.List)
	r.Get("/api/blogs/{id}", blogs.Get)
	r.Put("/api/blogs/{id}", blogs.Update)
	r.Post("/api/blogs/{id}/ai-generated", blogs.Generate)
	r.Get("/api/session/website", sess.GetWebsite)
	r.Put("/api/session/website", sess.SetWebsite)
	r.Delete("/api/session/website", sess.ClearWebsite)
	e.router = r
	return e
}

func (e *env) do(t *testing.T, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func wantStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status: got %d, want %d (body %s)", rr.Code, want, rr.Body.String())
	}
}
