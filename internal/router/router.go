// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// BlogTraffic API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"blogtraffic/internal/handlers"
	"blogtraffic/internal/metrics"
	"blogtraffic/internal/middleware"
)

// New creates and returns the configured Chi router. limiter guards the
// endpoints that call the language model.
func New(websites *handlers.Websites, blogs *handlers.Blogs, sess *handlers.Session, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/website", func(r chi.Router) {
			r.With(limiter.Middleware).Post("/add", websites.Add)
			r.Get("/fetch-all", websites.FetchAll)
			r.Get("/{id}", websites.Get)
			r.Patch("/{id}", websites.Update)
			r.Delete("/{id}", websites.Delete)
			r.Get("/{id}/snapshot", websites.Snapshot)
		})

		r.Route("/blogs", func(r chi.Router) {
			r.Get("/", blogs.List)
			r.Get("/{id}", blogs.Get)
			r.Put("/{id}", blogs.Update)
			r.With(limiter.Middleware).Post("/{id}/ai-generated", blogs.Generate)
		})

		r.Route("/session", func(r chi.Router) {
			r.Get("/website", sess.GetWebsite)
			r.Put("/website", sess.SetWebsite)
			r.Delete("/website", sess.ClearWebsite)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found"}`))
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
