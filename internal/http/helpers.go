package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors to HTTP statuses and emits a JSON body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	var unresolved *core.UnresolvedCategoryError
	switch {
	case errors.As(err, &unresolved):
		status = http.StatusConflict
	case errors.Is(err, analytics.ErrInsufficientHistory):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrEmptyCategory):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed", "url", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

// optionsFromQuery reads window, threshold and horizon overrides. Absent or
// unparsable values stay zero and fall back to the service defaults.
func optionsFromQuery(r *http.Request) analytics.Options {
	var opts analytics.Options
	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("window")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.WindowMonths = n
		}
	}
	if v := strings.TrimSpace(q.Get("threshold")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			opts.Threshold = f
		}
	}
	if v := strings.TrimSpace(q.Get("horizon")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.HorizonMonths = n
		}
	}
	return opts
}

// measureFromQuery reads the income/expense measure selector, defaulting to
// expense.
func measureFromQuery(r *http.Request) (core.TxType, error) {
	v := strings.TrimSpace(r.URL.Query().Get("measure"))
	if v == "" {
		return core.Expense, nil
	}
	t := core.TxType(strings.ToLower(v))
	if err := t.Validate(); err != nil {
		return "", fmt.Errorf("invalid measure %q: %w", v, err)
	}
	return t, nil
}

// monthFromQuery parses a month=YYYY-MM parameter. ok is false when absent.
func monthFromQuery(r *http.Request) (ledger.Month, bool, error) {
	v := strings.TrimSpace(r.URL.Query().Get("month"))
	if v == "" {
		return ledger.Month{}, false, nil
	}
	var year, month int
	if _, err := fmt.Sscanf(v, "%d-%d", &year, &month); err != nil {
		return ledger.Month{}, false, fmt.Errorf("invalid month %q: want YYYY-MM", v)
	}
	if month < 1 || month > 12 {
		return ledger.Month{}, false, fmt.Errorf("invalid month %q: month out of range", v)
	}
	return ledger.Month{Year: year, Month: month}, true, nil
}

// reportCacheKey identifies a cached report by its effective options.
func reportCacheKey(opts analytics.Options) string {
	return fmt.Sprintf("w%d-t%g-h%d", opts.WindowMonths, opts.Threshold, opts.HorizonMonths)
}
