// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"blogtraffic/internal/database"
	"blogtraffic/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses the same POSTGRES_* variables and defaults as the server.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "blogtraffic")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "blogtraffic")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, testDSN())
	if err != nil {
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testOwner returns a unique owner id whose websites are removed when the
// test finishes.
func testOwner(t *testing.T, db *sql.DB) string {
	t.Helper()
	owner := "test-" + uuid.NewString()
	t.Cleanup(func() {
		db.Exec("DELETE FROM websites WHERE owner_id = $1", owner)
	})
	return owner
}

// registration builds a website, scrape and n blogs ready for CreateWithContent.
func registration(owner, url string, n int) (*models.Website, *models.Scrape, []*models.Blog) {
	w := &models.Website{
		OwnerID:         owner,
		Name:            "Acme Blog",
		URL:             url,
		Description:     "Widgets for everyone",
		Logo:            url + "/favicon.ico",
		PublishEndpoint: "/api/posts",
	}
	sc := models.NewScrape(&models.SiteProfile{
		Brand:    models.Brand{Name: "Acme", Logo: url + "/favicon.ico"},
		SEO:      models.SEO{TopicTheme: "Widgets Pricing", Description: "Acme makes widgets"},
		Services: []string{"Pricing", "Custom widgets"},
	})

	day := time.Now().UTC().Truncate(24 * time.Hour)
	blogs := make([]*models.Blog, n)
	for i := range blogs {
		at := day.AddDate(0, 0, n-i) // inserted in reverse schedule order
		blogs[i] = &models.Blog{
			Title:          fmt.Sprintf("Post %d", i),
			Slug:           fmt.Sprintf("post-%d", i),
			SEOTitle:       "SEO",
			SEODescription: "Desc",
			Keywords:       []models.Keyword{{Name: "widgets", Volume: 100 * i}},
			Status:         models.BlogStatusDraft,
			ScheduledFor:   &at,
		}
	}
	return w, sc, blogs
}

func countRows(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.QueryRowContext(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
