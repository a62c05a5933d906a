package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"pal-budget/internal/infer"
	"pal-budget/internal/stats"
	"pal-budget/internal/store"
)

// StatisticsHandler serves the dashboard aggregation endpoints.
type StatisticsHandler struct {
	store *store.Store
	log   zerolog.Logger
}

// NewStatisticsHandler creates the handler.
func NewStatisticsHandler(s *store.Store, log zerolog.Logger) *StatisticsHandler {
	return &StatisticsHandler{store: s, log: log}
}

// Monthly handles GET /api/statistics/monthly.
func (h *StatisticsHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	year, month, ok := yearMonth(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "invalid year or month")
		return
	}

	summary, err := stats.Monthly(h.store, store.DefaultUserID, year, month)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compute monthly stats")
		WriteError(w, http.StatusInternalServerError, "Failed to compute statistics")
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

// ByCategory handles GET /api/statistics/category.
func (h *StatisticsHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	year, month, ok := yearMonth(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "invalid year or month")
		return
	}

	txType := infer.TypeExpense
	if v := r.URL.Query().Get("type"); v != "" {
		txType = infer.TransactionType(v)
		if !txType.Valid() {
			WriteError(w, http.StatusBadRequest, "invalid type")
			return
		}
	}

	breakdown, err := stats.ByCategory(h.store, store.DefaultUserID, txType, year, month)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compute category stats")
		WriteError(w, http.StatusInternalServerError, "Failed to compute statistics")
		return
	}
	if breakdown == nil {
		breakdown = []stats.CategoryBreakdown{}
	}
	WriteJSON(w, http.StatusOK, breakdown)
}

// Trend handles GET /api/statistics/trend.
func (h *StatisticsHandler) Trend(w http.ResponseWriter, r *http.Request) {
	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			WriteError(w, http.StatusBadRequest, "invalid days")
			return
		}
		days = n
	}

	report, err := stats.Trend(h.store, store.DefaultUserID, days)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compute trend stats")
		WriteError(w, http.StatusInternalServerError, "Failed to compute statistics")
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

// yearMonth reads the year/month query parameters, defaulting to the
// current month.
func yearMonth(r *http.Request) (int, time.Month, bool) {
	now := time.Now()
	year := now.Year()
	month := now.Month()

	query := r.URL.Query()
	if v := query.Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, false
		}
		year = n
	}
	if v := query.Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			return 0, 0, false
		}
		month = time.Month(n)
	}
	return year, month, true
}
