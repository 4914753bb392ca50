package http

import (
	"fmt"
	"net/http"

	"upidash/internal/dataset"
	"upidash/internal/log"
	"upidash/internal/middleware/trace"
)

// handleIndex renders the full page: controls, summary, charts and grid.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !allowMethods(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	ctx, cancel := s.withTimeout(r)
	defer cancel()

	view, err := s.dashboard.OnFilterChanged(ctx, ParseSelection(r.URL.Query()))
	if err != nil {
		s.logLoadError(ctx, err)
		s.renderErrorPage(w, r, describeLoadError(err))
		return
	}

	dash, err := s.newDashboardView(view, s.dashboard.TopK())
	if err != nil {
		s.renderErrorPage(w, r, "Failed to prepare charts")
		return
	}

	s.appMetrics.renders.Add(1)
	data := pageData{
		Title:     PageTitle,
		DataPath:  s.dashboard.Path(),
		Controls:  newControlsView(view.Options, view.Criteria),
		Dashboard: dash,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Index template execution failed",
			log.FieldError, err, log.FieldComponent, log.ComponentTemplate)
	}
}

// handleDashboardPartial re-runs the pipeline when a control changes and
// returns only the dashboard section.
func (s *Server) handleDashboardPartial(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	ctx, cancel := s.withTimeout(r)
	defer cancel()

	view, err := s.dashboard.OnFilterChanged(ctx, ParseSelection(r.URL.Query()))
	if err != nil {
		s.logLoadError(ctx, err)
		s.renderErrorPartial(w, r, describeLoadError(err))
		return
	}

	dash, err := s.newDashboardView(view, s.dashboard.TopK())
	if err != nil {
		s.renderErrorPartial(w, r, "Failed to prepare charts")
		return
	}

	s.appMetrics.renders.Add(1)
	// History entries point at the full page, never at this fragment.
	w.Header().Set("HX-Push-Url", dash.PageURL)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "dashboard", dash); err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Dashboard template execution failed",
			log.FieldError, err, log.FieldComponent, log.ComponentTemplate)
	}
}

func (s *Server) handleAPIOptions(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	ctx, cancel := s.withTimeout(r)
	defer cancel()

	opts, err := s.dashboard.Options(ctx)
	if err != nil {
		s.logLoadError(ctx, err)
		writeJSON(w, http.StatusInternalServerError, loadErrorJSON(ctx, err))
		return
	}
	s.appMetrics.apiCalls.Add(1)
	writeJSON(w, http.StatusOK, opts)
}

func (s *Server) handleAPIDashboard(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	ctx, cancel := s.withTimeout(r)
	defer cancel()

	view, err := s.dashboard.OnFilterChanged(ctx, ParseSelection(r.URL.Query()))
	if err != nil {
		s.logLoadError(ctx, err)
		writeJSON(w, http.StatusInternalServerError, loadErrorJSON(ctx, err))
		return
	}
	s.appMetrics.apiCalls.Add(1)
	writeJSON(w, http.StatusOK, s.newDashboardJSON(view))
}

// handleExport streams the filtered rows, newest first, as CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	ctx, cancel := s.withTimeout(r)
	defer cancel()

	rows, _, err := s.dashboard.Filtered(ctx, ParseSelection(r.URL.Query()))
	if err != nil {
		s.logLoadError(ctx, err)
		http.Error(w, describeLoadError(err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions_filtered.csv"`)
	if err := dataset.WriteCSV(w, rows); err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "CSV export failed",
			log.NewFields().WithError(err).WithOperation(log.OpExport).ToSlice()...)
		return
	}
	s.appMetrics.exports.Add(1)
}

// handleReload clears the dataset memo and reloads the page.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}

	ctx, cancel := s.withTimeout(r)
	defer cancel()

	opts, err := s.dashboard.Reload(ctx)
	if err != nil {
		s.logLoadError(ctx, err)
		InternalServerError(describeLoadError(err)).
			TriggerErrorNotification("Reload failed").
			Write(w)
		return
	}
	s.appMetrics.reloads.Add(1)

	NewHTMXResponse().
		Refresh().
		TriggerDatasetReloaded(opts.Rows).
		TriggerSuccessNotification(fmt.Sprintf("Reloaded %s", s.dashboard.Path())).
		BodyHTML(`<div class="success">Dataset reloaded</div>`).
		Write(w)
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.securityDetector.ExtractClientIP(r),
		log.FieldPath, r.URL.Path)
	TooManyRequestsError("Too many reloads. Please try again later.").Write(w)
}

func (s *Server) renderErrorPage(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	data := errorPageData{Title: PageTitle, Message: message, RequestID: trace.GetRequestID(r.Context())}
	if err := s.templates.ExecuteTemplate(w, "error.html", data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Error template execution failed", log.FieldError, err)
	}
}

func (s *Server) renderErrorPartial(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	data := errorPageData{Message: message, RequestID: trace.GetRequestID(r.Context())}
	if err := s.templates.ExecuteTemplate(w, "load_error", data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Error template execution failed", log.FieldError, err)
	}
}
