package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"

	"upidash/internal/dataset"
	"upidash/internal/log"
	"upidash/internal/middleware/trace"
)

// allowMethods writes a 405 and returns false unless r uses one of methods.
func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	MethodNotAllowedError(strings.Join(methods, ", ")).Write(w)
	return false
}

func (s *Server) withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.requestTimeout)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// describeLoadError turns a dataset failure into a message for the error page.
func describeLoadError(err error) string {
	var le *dataset.LoadError
	switch {
	case errors.Is(err, os.ErrNotExist):
		if errors.As(err, &le) {
			return "Data file not found: " + le.Path
		}
		return "Data file not found"
	case errors.Is(err, context.DeadlineExceeded):
		return "Loading the dataset timed out"
	case errors.As(err, &le):
		return "Failed to load data: " + le.Error()
	default:
		return "Failed to load data: " + err.Error()
	}
}

func (s *Server) logLoadError(ctx context.Context, err error) {
	s.appMetrics.loadErrors.Add(1)
	log.NewStructuredLogger(log.FromContext(ctx).WithComponent(log.ComponentDashboard)).
		LogError(ctx, "Dashboard pipeline failed", err, log.OpLoad, log.LogFields{log.FieldDataPath: s.dashboard.Path()})
}

// loadErrorJSON is the API error body; request_id matches the X-Request-ID
// header and the server log line.
func loadErrorJSON(ctx context.Context, err error) map[string]string {
	body := map[string]string{"error": describeLoadError(err)}
	if id := trace.GetRequestID(ctx); id != "" {
		body["request_id"] = id
	}
	return body
}
