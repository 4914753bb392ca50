package http

import (
	"fmt"
	"net/http"
	"time"
)

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.uptime).String(),
	})
}

// handleReady reports ready once templates are parsed and the dataset loads.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.withTimeout(r)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if opts, err := s.dashboard.Options(ctx); err != nil {
		checks["dataset"] = fmt.Sprintf("failed: %v", err)
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["dataset"] = map[string]interface{}{
			"path":       s.dashboard.Path(),
			"months":     len(opts.Months),
			"categories": len(opts.Categories),
			"status":     "ok",
		}
	}

	if s.cache != nil {
		checks["cache"] = map[string]interface{}{
			"entries": len(s.cache.Cached()),
			"reads":   s.cache.Reads(),
		}
	}

	checks["rate_limiter"] = map[string]interface{}{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	writeJSON(w, httpStatus, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics writes counters in the Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	securityMetrics := s.securityDetector.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	traceMetrics := s.traceMiddleware.GetMetrics()

	writeMetric := func(name, help, kind string, value interface{}) {
		fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		fmt.Fprintf(w, "# TYPE %s %s\n", name, kind)
		fmt.Fprintf(w, "%s %v\n\n", name, value)
	}

	writeMetric("http_requests_total", "Total number of HTTP requests", "counter", traceMetrics.TotalRequests)
	writeMetric("http_server_errors_total", "HTTP responses with a 5xx status", "counter", traceMetrics.ServerErrors)
	writeMetric("http_response_time_avg_microseconds", "Average response time", "gauge", traceMetrics.AverageResponseTime)
	writeMetric("dashboard_renders_total", "Dashboard page and partial renders", "counter", s.appMetrics.renders.Load())
	writeMetric("dashboard_api_requests_total", "Successful JSON API responses", "counter", s.appMetrics.apiCalls.Load())
	writeMetric("dashboard_exports_total", "CSV exports written", "counter", s.appMetrics.exports.Load())
	writeMetric("dataset_reloads_total", "Explicit dataset reloads", "counter", s.appMetrics.reloads.Load())
	writeMetric("dataset_load_errors_total", "Requests that failed to load the dataset", "counter", s.appMetrics.loadErrors.Load())
	if s.cache != nil {
		writeMetric("dataset_reads_total", "Dataset reads from disk", "counter", s.cache.Reads())
		writeMetric("dataset_cache_entries", "Datasets held in memory", "gauge", len(s.cache.Cached()))
	}
	writeMetric("rate_limit_rejections_total", "Requests rejected by the reload rate limiter", "counter", rateLimitMetrics.Rejected)
	writeMetric("active_rate_limit_clients", "Currently tracked rate limit clients", "gauge", rateLimitMetrics.ClientCount)
	writeMetric("suspicious_requests_total", "Suspicious requests detected", "counter", securityMetrics.SuspiciousRequests)
	writeMetric("uptime_seconds", "Application uptime in seconds", "gauge", fmt.Sprintf("%.0f", time.Since(s.appMetrics.uptime).Seconds()))
}
