// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func serveLogged(t *testing.T, slow time.Duration, handler http.HandlerFunc) map[string]interface{} {
	t.Helper()

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog(logger, slow))
	r.Get("/api/v1/stats", handler)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))

	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("no access log line written")
	}
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("access log is not JSON: %v (%s)", err, line)
	}
	return entry
}

func TestAccessLog_Fields(t *testing.T) {
	t.Parallel()

	// A tiny slow threshold lifts the line to warn, above the global level.
	entry := serveLogged(t, time.Nanosecond, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(time.Millisecond)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("hello"))
	})

	if entry["level"] != "warn" {
		t.Errorf("level = %v, want warn", entry["level"])
	}
	if entry["route"] != "/api/v1/stats" || entry["method"] != "GET" {
		t.Errorf("route/method = %v %v", entry["route"], entry["method"])
	}
	if entry["status"] != float64(http.StatusCreated) {
		t.Errorf("status = %v, want 201", entry["status"])
	}
	if entry["bytes"] != float64(5) {
		t.Errorf("bytes = %v, want 5", entry["bytes"])
	}
	if id, _ := entry["request_id"].(string); id == "" {
		t.Error("request_id missing")
	}
	if entry["component"] != "http" {
		t.Errorf("component = %v, want http", entry["component"])
	}
}

func TestAccessLog_Levels(t *testing.T) {
	t.Parallel()

	slowEntry := serveLogged(t, time.Millisecond, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(10 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})
	if slowEntry["level"] != "warn" {
		t.Errorf("slow request level = %v, want warn", slowEntry["level"])
	}

	errEntry := serveLogged(t, time.Minute, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	if errEntry["level"] != "error" {
		t.Errorf("5xx level = %v, want error", errEntry["level"])
	}
}
