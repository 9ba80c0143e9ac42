package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
)

type createTransactionRequest struct {
	Date        string `json:"date"` // YYYY-MM-DD
	Description string `json:"description"`
	Amount      string `json:"amount"` // decimal string, dot or comma separator
	Type        string `json:"type"`
	Category    string `json:"category"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	month, hasMonth, err := monthFromQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	snap, err := s.reports.Snapshot(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	txs := snap.Transactions()
	if hasMonth {
		txs = snap.ForMonth(month)
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": txs})
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	if s.appender == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "transaction creation is not configured"})
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	var year, month, day int
	if _, err := fmt.Sscanf(strings.TrimSpace(req.Date), "%d-%d-%d", &year, &month, &day); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid date, want YYYY-MM-DD"})
		return
	}
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	tx := core.Transaction{
		Date:        core.NewDate(year, month, day),
		Description: sanitizeInput(req.Description),
		Amount:      core.Money{Cents: cents},
		Type:        core.TxType(strings.ToLower(strings.TrimSpace(req.Type))),
		Category:    sanitizeInput(req.Category),
	}
	if err := tx.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	ref, err := s.appender.Append(r.Context(), tx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Cached reports are stale once the ledger changes
	s.reportCache.Clear()

	// Enqueue a fresh analysis run, best effort
	if s.requests != nil {
		d := s.reports.Defaults()
		msg := amqp.NewAnalysisRequestMessage(uuid.NewString(), d.WindowMonths, d.Threshold, d.HorizonMonths)
		if err := s.requests.PublishAnalysisRequest(r.Context(), msg); err != nil {
			slog.WarnContext(r.Context(), "Failed to request analysis after append", "error", err)
		}
	}

	writeJSON(w, http.StatusCreated, map[string]string{"ref": ref})
}

type upsertCategoryRequest struct {
	Name          string `json:"name"`
	MonthlyBudget string `json:"monthly_budget,omitempty"` // decimal string, empty clears the budget
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listCategories(w, r)
	case http.MethodPost:
		s.upsertCategory(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.reports.Categories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

func (s *Server) upsertCategory(w http.ResponseWriter, r *http.Request) {
	if s.upserter == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "category management is not configured"})
		return
	}

	var req upsertCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	cat := core.Category{Name: sanitizeInput(req.Name)}
	if v := strings.TrimSpace(req.MonthlyBudget); v != "" {
		cents, err := core.ParseDecimalToCents(v)
		if err != nil {
			writeError(w, r, err)
			return
		}
		cat.MonthlyBudget = core.Money{Cents: cents}
	}
	if err := cat.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.upserter.UpsertCategory(r.Context(), cat); err != nil {
		writeError(w, r, err)
		return
	}

	// Budgets feed the insight summaries, so cached reports are stale
	s.reportCache.Clear()

	writeJSON(w, http.StatusCreated, map[string]string{"name": cat.Name})
}

// sanitizeInput removes control characters and trims whitespace
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
