// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics declares the Prometheus collectors exported on /metrics.
// Collectors are registered on the default registry at package init.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts served requests by route pattern and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogtraffic_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes request latency by route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blogtraffic_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 15, 30, 60, 90},
		},
		[]string{"method", "route"},
	)

	// OnboardingsTotal counts onboarding runs by outcome ("ok" or an error kind).
	OnboardingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogtraffic_onboardings_total",
			Help: "Website onboarding runs by outcome.",
		},
		[]string{"outcome"},
	)

	// StageDuration observes each pipeline stage (probe, plan, parse, persist, generate).
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blogtraffic_pipeline_stage_duration_seconds",
			Help:    "Duration of onboarding pipeline stages.",
			Buckets: []float64{.05, .1, .5, 1, 2, 5, 10, 20, 40, 60},
		},
		[]string{"stage"},
	)

	// LLMRequestsTotal counts language-model calls by provider and outcome.
	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogtraffic_llm_requests_total",
			Help: "Language-model completion requests.",
		},
		[]string{"provider", "outcome"},
	)

	// RateLimitedTotal counts requests rejected by the per-IP limiter.
	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blogtraffic_rate_limited_total",
			Help: "Requests rejected with 429 by the rate limiter.",
		},
	)

	// BlogsSeededTotal counts blog seeds persisted by onboarding.
	BlogsSeededTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blogtraffic_blogs_seeded_total",
			Help: "Blog seeds created by website onboarding.",
		},
	)
)

// Handler returns the Prometheus exposition handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
