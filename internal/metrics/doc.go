// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package metrics provides Prometheus instrumentation for Folio.

All collectors are registered on the default registry through promauto and
exposed by the HTTP server at /metrics:

	curl http://localhost:8080/metrics

# Available Metrics

HTTP:
  - folio_api_requests_total{method,route,status}
  - folio_api_request_duration_seconds{method,route}
  - folio_api_active_requests

Storage:
  - folio_storage_operations_total{operation,result}
  - folio_storage_operation_duration_seconds{operation}
  - folio_storage_breaker_state{name} (0 closed, 1 half-open, 2 open)
  - folio_storage_breaker_transitions_total{name,from,to}
  - folio_preferences_fallbacks_total{reason}

Reading:
  - folio_reading_sessions_started_total
  - folio_reading_sessions_ended_total{outcome}
  - folio_reading_active_seconds
  - folio_bookmark_toggles_total{state}
  - folio_engagement_signals_total{signal}
  - folio_category_promotions_total
  - folio_recommendation_duration_seconds
  - folio_recommendations_returned
  - folio_data_operations_total{operation}

Catalog:
  - folio_catalog_loads_total{source,result}
  - folio_catalog_items{source}

Visitors and retention:
  - folio_active_visitors
  - folio_visitor_evictions_total
  - folio_retention_runs_total{status}
  - folio_retention_sessions_pruned_total

The Record* helpers are the only intended write path; they keep label values
consistent across packages.
*/
package metrics
