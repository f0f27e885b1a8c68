// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/stats", "200"))

	RecordAPIRequest("GET", "/api/v1/stats", "200", 5*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/stats", "200"))
	if after-before != 1 {
		t.Errorf("APIRequestsTotal delta = %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("APIActiveRequests = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("APIActiveRequests = %v, want %v", got, before)
	}
}

func TestRecordStorageOp_Results(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		notFound bool
		result   string
	}{
		{"ok", nil, false, "ok"},
		{"not found", errors.New("storage: key not found"), true, "not_found"},
		{"error", errors.New("disk full"), false, "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := StorageOperations.WithLabelValues("get", tt.result)
			before := testutil.ToFloat64(counter)
			RecordStorageOp("get", time.Millisecond, tt.err, tt.notFound)
			if got := testutil.ToFloat64(counter) - before; got != 1 {
				t.Errorf("StorageOperations{result=%s} delta = %v, want 1", tt.result, got)
			}
		})
	}
}

func TestRecordBreakerTransition(t *testing.T) {
	RecordBreakerTransition("metrics-test", "", "closed", 0)
	if got := testutil.ToFloat64(StorageBreakerState.WithLabelValues("metrics-test")); got != 0 {
		t.Errorf("StorageBreakerState = %v, want 0", got)
	}

	RecordBreakerTransition("metrics-test", "closed", "open", 2)
	if got := testutil.ToFloat64(StorageBreakerState.WithLabelValues("metrics-test")); got != 2 {
		t.Errorf("StorageBreakerState = %v, want 2", got)
	}
	if got := testutil.ToFloat64(StorageBreakerTransitions.WithLabelValues("metrics-test", "closed", "open")); got != 1 {
		t.Errorf("StorageBreakerTransitions = %v, want 1", got)
	}
}

func TestRecordBookmarkToggle(t *testing.T) {
	added := BookmarkToggles.WithLabelValues("added")
	removed := BookmarkToggles.WithLabelValues("removed")
	a0, r0 := testutil.ToFloat64(added), testutil.ToFloat64(removed)

	RecordBookmarkToggle(true)
	RecordBookmarkToggle(false)
	RecordBookmarkToggle(false)

	if got := testutil.ToFloat64(added) - a0; got != 1 {
		t.Errorf("added delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(removed) - r0; got != 2 {
		t.Errorf("removed delta = %v, want 2", got)
	}
}

func TestRecordRecommendation_Histogram(t *testing.T) {
	before := histogramCount(t, RecommendationsReturned)

	RecordRecommendation(2*time.Millisecond, 10)

	if got := histogramCount(t, RecommendationsReturned) - before; got != 1 {
		t.Errorf("RecommendationsReturned sample count delta = %d, want 1", got)
	}
}

func TestRecordRetentionRun(t *testing.T) {
	pruned := testutil.ToFloat64(RetentionPruned)
	failed := testutil.ToFloat64(RetentionRuns.WithLabelValues("error"))

	RecordRetentionRun(7, nil)
	RecordRetentionRun(3, errors.New("unavailable"))

	if got := testutil.ToFloat64(RetentionPruned) - pruned; got != 7 {
		t.Errorf("RetentionPruned delta = %v, want 7", got)
	}
	if got := testutil.ToFloat64(RetentionRuns.WithLabelValues("error")) - failed; got != 1 {
		t.Errorf("RetentionRuns{error} delta = %v, want 1", got)
	}
}

func TestMetricsRegistered(t *testing.T) {
	RecordSessionStarted()

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	found := false
	for _, mf := range families {
		if strings.HasPrefix(mf.GetName(), "folio_reading_sessions_started") {
			found = true
		}
	}
	if !found {
		t.Error("folio_reading_sessions_started_total not registered")
	}
}

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}
