package http

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"fintrack/internal/amqp"
	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/services"
)

// effectiveOptions overlays query overrides on the service defaults, so
// equal requests share one cache entry.
func (s *Server) effectiveOptions(r *http.Request) analytics.Options {
	opts := optionsFromQuery(r)
	defaults := s.reports.Defaults()
	if opts.WindowMonths <= 0 {
		opts.WindowMonths = defaults.WindowMonths
	}
	if opts.Threshold <= 0 {
		opts.Threshold = defaults.Threshold
	}
	if opts.HorizonMonths <= 0 {
		opts.HorizonMonths = defaults.HorizonMonths
	}
	opts.Weights = defaults.Weights
	return opts
}

// getReport returns a cached report for the options or builds a fresh one.
func (s *Server) getReport(r *http.Request) (*services.Report, error) {
	opts := s.effectiveOptions(r)
	key := reportCacheKey(opts)
	if cached, ok := s.reportCache.Get(key); ok {
		return cached, nil
	}
	report, err := s.reports.BuildReport(r.Context(), opts)
	if err != nil {
		return nil, err
	}
	s.reportCache.Set(key, report)
	return report, nil
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	report, err := s.getReport(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleRequestRun enqueues an asynchronous analysis run on the broker.
func (s *Server) handleRequestRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	if s.requests == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "async analysis runs are not configured"})
		return
	}

	opts := s.effectiveOptions(r)
	msg := amqp.NewAnalysisRequestMessage(uuid.NewString(), opts.WindowMonths, opts.Threshold, opts.HorizonMonths)
	if err := s.requests.PublishAnalysisRequest(r.Context(), msg); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"run_id": msg.RunID})
}

func (s *Server) handleAggregates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	report, err := s.getReport(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"aggregates": report.Aggregates})
}

func (s *Server) handleGrowth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	report, err := s.getReport(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if category == "" {
		writeJSON(w, http.StatusOK, map[string]any{"growth": report.Growth})
		return
	}
	measure, err := measureFromQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	rates := analytics.GrowthRates(report.Aggregates, category, measure)
	writeJSON(w, http.StatusOK, map[string]any{
		"category": category,
		"measure":  measure,
		"rates":    rates,
	})
}

func (s *Server) handleAnomalies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	report, err := s.getReport(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.Anomalies)
}

func (s *Server) handleProjections(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	report, err := s.getReport(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	measure, err := measureFromQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if category != "" {
		result, err := analytics.Project(report.Aggregates, category, measure, report.Options.HorizonMonths)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}

	if measure == core.Expense {
		writeJSON(w, http.StatusOK, map[string]any{
			"projections": report.Projections,
			"unprojected": report.Unprojected,
		})
		return
	}
	results, failures := analytics.ProjectAll(report.Aggregates, measure, report.Options.HorizonMonths)
	unprojected := make(map[string]string, len(failures))
	for cat, ferr := range failures {
		unprojected[cat] = ferr.Error()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"projections": results,
		"unprojected": unprojected,
	})
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	report, err := s.getReport(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.Score)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	month, hasMonth, err := monthFromQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if !hasMonth {
		report, err := s.getReport(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, report.Insights)
		return
	}

	snap, err := s.reports.Snapshot(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.Insights(snap, month))
}
