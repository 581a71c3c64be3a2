// Copyright 2020, Square, Inc.

// Package metrics provides the manager's Prometheus metrics. They are
// registered with Registry, which the API exposes on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var Registry = prometheus.NewRegistry()

var (
	PlansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yarpm_plans_total",
			Help: "Number of plans created, by state.",
		},
		[]string{"state"},
	)

	ResolveTimeoutsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "yarpm_resolve_timeouts_total",
			Help: "Number of resolutions abandoned because they took too long.",
		},
	)

	ResolveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "yarpm_resolve_duration_seconds",
			Help:    "Time taken to resolve an application.",
			Buckets: prometheus.DefBuckets,
		},
	)

	MissingResources = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "yarpm_missing_resources",
			Help: "Number of requirements without a provider in the last plan.",
		},
	)

	CatalogSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "yarpm_catalog_size",
			Help: "Number of catalog entries, by kind.",
		},
		[]string{"kind"},
	)

	LoadUpdatesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "yarpm_load_updates_total",
			Help: "Number of computer load reports received.",
		},
	)
)

func init() {
	Registry.MustRegister(
		PlansTotal,
		ResolveTimeoutsTotal,
		ResolveDuration,
		MissingResources,
		CatalogSize,
		LoadUpdatesTotal,
	)
}

// Handler returns the HTTP handler that serves Registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
