// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "folio"

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "API request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "api_active_requests",
			Help:      "Number of API requests currently being served",
		},
	)

	// Storage Metrics
	StorageOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_operations_total",
			Help:      "Total number of storage operations by result (ok, not_found, error)",
		},
		[]string{"operation", "result"},
	)

	StorageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "storage_operation_duration_seconds",
			Help:      "Storage operation latency in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"operation"},
	)

	StorageBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "storage_breaker_state",
			Help:      "Storage circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	StorageBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_breaker_transitions_total",
			Help:      "Total number of storage circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	PreferencesFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "preferences_fallbacks_total",
			Help:      "Preference loads that fell back to defaults (missing, malformed, unavailable)",
		},
		[]string{"reason"},
	)

	// Reading Metrics
	SessionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reading_sessions_started_total",
			Help:      "Total number of reading sessions started",
		},
	)

	SessionsEnded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reading_sessions_ended_total",
			Help:      "Total number of reading sessions ended by outcome (completed, read, skimmed)",
		},
		[]string{"outcome"},
	)

	ActiveReadingSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reading_active_seconds",
			Help:      "Visible reading time per finished session",
			Buckets:   []float64{5, 15, 30, 60, 120, 300, 600, 1200, 3600},
		},
	)

	BookmarkToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookmark_toggles_total",
			Help:      "Bookmark toggles by resulting state (added, removed)",
		},
		[]string{"state"},
	)

	EngagementSignals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "engagement_signals_total",
			Help:      "Engagement signals recorded by type",
		},
		[]string{"signal"},
	)

	CategoryPromotions = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "category_promotions_total",
			Help:      "Categories promoted to favorite by the preference learner",
		},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommendation_duration_seconds",
			Help:      "Time spent ranking a catalog",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
	)

	RecommendationsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommendations_returned",
			Help:      "Number of recommendations returned per request",
			Buckets:   []float64{0, 1, 3, 5, 10, 20, 50},
		},
	)

	DataOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "data_operations_total",
			Help:      "Data export and erase operations",
		},
		[]string{"operation"},
	)

	// Visitor Metrics
	ActiveVisitors = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_visitors",
			Help:      "Visitor engines currently held in memory",
		},
	)

	VisitorEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "visitor_evictions_total",
			Help:      "Visitor engines evicted from memory (idle or capacity)",
		},
	)

	// Catalog Metrics
	CatalogLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_loads_total",
			Help:      "Catalog source reads by source and result",
		},
		[]string{"source", "result"},
	)

	CatalogItems = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_items",
			Help:      "Items held by the last successful catalog read",
		},
		[]string{"source"},
	)

	// Retention Metrics
	RetentionRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retention_runs_total",
			Help:      "Session retention runs by status",
		},
		[]string{"status"},
	)

	RetentionPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retention_sessions_pruned_total",
			Help:      "Reading sessions removed by the retention policy",
		},
	)
)

// RecordAPIRequest records one served request.
func RecordAPIRequest(method, route, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordStorageOp records a storage operation outcome.
func RecordStorageOp(operation string, duration time.Duration, err error, notFound bool) {
	result := "ok"
	switch {
	case notFound:
		result = "not_found"
	case err != nil:
		result = "error"
	}
	StorageOperations.WithLabelValues(operation, result).Inc()
	StorageOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordBreakerTransition records a breaker state change. An empty from
// only sets the gauge (initial state).
func RecordBreakerTransition(name, from, to string, state int) {
	StorageBreakerState.WithLabelValues(name).Set(float64(state))
	if from != "" {
		StorageBreakerTransitions.WithLabelValues(name, from, to).Inc()
	}
}

// RecordPreferencesFallback records a load that returned defaults.
func RecordPreferencesFallback(reason string) {
	PreferencesFallbacks.WithLabelValues(reason).Inc()
}

// RecordSessionStarted counts a new reading session.
func RecordSessionStarted() {
	SessionsStarted.Inc()
}

// RecordSessionEnded counts an ended session by outcome.
func RecordSessionEnded(outcome string) {
	SessionsEnded.WithLabelValues(outcome).Inc()
}

// RecordActiveReading observes the visible reading time of a finished session.
func RecordActiveReading(seconds float64) {
	ActiveReadingSeconds.Observe(seconds)
}

// RecordBookmarkToggle counts a bookmark toggle by resulting state.
func RecordBookmarkToggle(added bool) {
	state := "removed"
	if added {
		state = "added"
	}
	BookmarkToggles.WithLabelValues(state).Inc()
}

// RecordEngagement counts an engagement signal.
func RecordEngagement(signal string) {
	EngagementSignals.WithLabelValues(signal).Inc()
}

// RecordCategoryPromotion counts a learner promotion.
func RecordCategoryPromotion() {
	CategoryPromotions.Inc()
}

// RecordRecommendation records ranking latency and result size.
func RecordRecommendation(duration time.Duration, returned int) {
	RecommendationDuration.Observe(duration.Seconds())
	RecommendationsReturned.Observe(float64(returned))
}

// RecordDataOperation counts an export or clear.
func RecordDataOperation(operation string) {
	DataOperations.WithLabelValues(operation).Inc()
}

// SetActiveVisitors sets the number of in-memory visitor engines.
func SetActiveVisitors(n int) {
	ActiveVisitors.Set(float64(n))
}

// RecordVisitorEviction counts an evicted visitor engine.
func RecordVisitorEviction() {
	VisitorEvictions.Inc()
}

// RecordCatalogLoad records a catalog read. Stale marks a failed refresh
// served from the previous copy.
func RecordCatalogLoad(source string, items int, err error, stale bool) {
	switch {
	case stale:
		CatalogLoads.WithLabelValues(source, "stale").Inc()
	case err != nil:
		CatalogLoads.WithLabelValues(source, "error").Inc()
	default:
		CatalogLoads.WithLabelValues(source, "success").Inc()
		CatalogItems.WithLabelValues(source).Set(float64(items))
	}
}

// RecordRetentionRun records a retention pass and how many sessions it removed.
func RecordRetentionRun(pruned int, err error) {
	if err != nil {
		RetentionRuns.WithLabelValues("error").Inc()
		return
	}
	RetentionRuns.WithLabelValues("success").Inc()
	RetentionPruned.Add(float64(pruned))
}
