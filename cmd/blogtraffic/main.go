// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the BlogTraffic API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogtraffic/internal/ai"
	"blogtraffic/internal/cache"
	"blogtraffic/internal/config"
	"blogtraffic/internal/database"
	"blogtraffic/internal/docstore"
	"blogtraffic/internal/handlers"
	"blogtraffic/internal/middleware"
	"blogtraffic/internal/onboarding"
	"blogtraffic/internal/planner"
	"blogtraffic/internal/probe"
	"blogtraffic/internal/router"
	"blogtraffic/internal/session"
	"blogtraffic/internal/storage"
	"blogtraffic/internal/store"
)

// websiteStore is the union of what the onboarding service and the website
// handlers need. Both persistence backends satisfy it.
type websiteStore interface {
	onboarding.WebsiteWriter
	handlers.WebsiteStore
}

// stores are the repositories of the selected persistence backend.
type stores struct {
	websites websiteStore
	blogs    handlers.BlogStore
	scrapes  handlers.ScrapeFinder
	close    func()
}

func main() {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON everywhere else.
	var logHandler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	if cfg.IsDev() {
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(logHandler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"store", cfg.StoreDriver,
		"renderer", cfg.ProbeRenderer,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	st, err := openStores(ctx, cfg)
	cancel()
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer st.close()

	// Connect to Valkey (Redis-compatible cache + session store).
	valkeyClient, err := cache.ConnectValkey(context.Background(), cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	responseCache := cache.NewResponseCache(valkeyClient, cache.DefaultResponseTTL)
	sessionStore := session.NewStore(valkeyClient, cfg.CookieSecure)

	// S3-compatible snapshot archive (optional: the app works without it).
	storageClient, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	var (
		archiver onboarding.Archiver
		signer   handlers.SnapshotSigner
	)
	if storageClient != nil {
		archiver, signer = storageClient, storageClient
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, landing pages will not be archived")
	}

	temp := cfg.AITemperature
	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"openai":  {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL, Temperature: temp},
		"gemini":  {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, BaseURL: cfg.GeminiBaseURL, Temperature: temp},
		"claude":  {APIKey: cfg.ClaudeKey, Model: cfg.ClaudeModel, BaseURL: cfg.ClaudeBaseURL, Temperature: temp},
		"mistral": {APIKey: cfg.MistralKey, Model: cfg.MistralModel, BaseURL: cfg.MistralBaseURL, Temperature: temp},
	})
	if !aiRegistry.HasProvider(cfg.AIProvider) {
		slog.Warn("active ai provider has no API key, generation requests will fail", "provider", cfg.AIProvider)
	}
	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	var fetcher probe.Fetcher
	if cfg.ProbeRenderer == config.RendererBrowser {
		bf := probe.NewBrowserFetcher(cfg.ProbeTimeout)
		defer bf.Close()
		fetcher = bf
	} else {
		fetcher = probe.NewHTTPFetcher(cfg.ProbeTimeout)
	}

	svc := onboarding.New(onboarding.Deps{
		Websites:  st.websites,
		Blogs:     st.blogs,
		Scrapes:   st.scrapes,
		Prober:    probe.New(fetcher),
		Planner:   planner.New(aiRegistry),
		Moderator: aiRegistry,
		Archiver:  archiver,
	})

	limiter := middleware.NewRateLimiter(cfg.RateLimit, time.Minute)
	limiter.TrustProxies(cfg.TrustedProxies...)
	defer limiter.Stop()

	r := router.New(
		handlers.NewWebsites(st.websites, st.scrapes, svc, signer, responseCache),
		handlers.NewBlogs(st.blogs, svc, responseCache),
		handlers.NewSession(sessionStore, st.websites),
		limiter,
	)

	// WriteTimeout must accommodate onboarding, which waits on a page fetch
	// and a language-model reply in sequence.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      150 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		return
	}

	slog.Info("server stopped gracefully")
}

// openStores connects to the configured backend and prepares its schema.
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.StoreDriver == config.DriverMongo {
		db, err := docstore.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		return &stores{
			websites: docstore.NewWebsiteStore(db),
			blogs:    docstore.NewBlogStore(db),
			scrapes:  docstore.NewScrapeStore(db),
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := db.Close(ctx); err != nil {
					slog.Error("mongo disconnect failed", "error", err)
				}
			},
		}, nil
	}

	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &stores{
		websites: store.NewWebsiteStore(db),
		blogs:    store.NewBlogStore(db),
		scrapes:  store.NewScrapeStore(db),
		close:    func() { db.Close() },
	}, nil
}
