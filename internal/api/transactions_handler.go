package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"pal-budget/internal/export"
	"pal-budget/internal/infer"
	"pal-budget/internal/store"
)

const defaultListLimit = 50

// TransactionsHandler serves the transaction CRUD and export endpoints.
// All operations are scoped to the fixed principal.
type TransactionsHandler struct {
	store *store.Store
	log   zerolog.Logger
}

// NewTransactionsHandler creates the handler.
func NewTransactionsHandler(s *store.Store, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{store: s, log: log}
}

type transactionPayload struct {
	Type        infer.TransactionType   `json:"type"`
	Amount      float64                 `json:"amount"`
	Category    string                  `json:"category"`
	Description string                  `json:"description"`
	Date        store.Date              `json:"date"`
	Source      store.TransactionSource `json:"source"`
}

// Create handles POST /api/transactions.
func (h *TransactionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !payload.Type.Valid() {
		WriteError(w, http.StatusBadRequest, "type must be income or expense")
		return
	}
	if payload.Date.IsZero() {
		WriteError(w, http.StatusBadRequest, "date is required")
		return
	}

	source := payload.Source
	if source == "" {
		source = store.SourceManual
	}

	tx := &store.Transaction{
		UserID:      store.DefaultUserID,
		Type:        payload.Type,
		Amount:      payload.Amount,
		Category:    payload.Category,
		Description: payload.Description,
		Date:        payload.Date,
		Source:      source,
	}
	if err := h.store.CreateTransaction(tx); err != nil {
		h.log.Error().Err(err).Msg("Failed to create transaction")
		WriteError(w, http.StatusInternalServerError, "Failed to create transaction")
		return
	}
	WriteJSON(w, http.StatusOK, tx)
}

// List handles GET /api/transactions.
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilter(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	txns, err := h.store.ListTransactions(store.DefaultUserID, filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list transactions")
		WriteError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}
	if txns == nil {
		txns = []*store.Transaction{}
	}
	WriteJSON(w, http.StatusOK, txns)
}

// Get handles GET /api/transactions/{id}.
func (h *TransactionsHandler) Get(w http.ResponseWriter, r *http.Request, id int64) {
	tx, err := h.store.GetTransaction(store.DefaultUserID, id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, tx)
}

// Update handles PUT /api/transactions/{id}.
func (h *TransactionsHandler) Update(w http.ResponseWriter, r *http.Request, id int64) {
	var patch store.TransactionPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if patch.Type != nil && !patch.Type.Valid() {
		WriteError(w, http.StatusBadRequest, "type must be income or expense")
		return
	}

	tx, err := h.store.UpdateTransaction(store.DefaultUserID, id, patch)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, tx)
}

// Delete handles DELETE /api/transactions/{id}.
func (h *TransactionsHandler) Delete(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.store.DeleteTransaction(store.DefaultUserID, id); err != nil {
		h.writeStoreError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "删除成功"})
}

// ExportCSV handles GET /api/transactions/export/csv.
func (h *TransactionsHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilter(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	// Export ignores pagination: the whole range goes into the file.
	filter.Skip = 0
	filter.Limit = 0

	txns, err := h.store.ListTransactions(store.DefaultUserID, filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to export transactions")
		WriteError(w, http.StatusInternalServerError, "Failed to export transactions")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=transactions.csv")
	if err := export.WriteCSV(w, txns); err != nil {
		h.log.Error().Err(err).Msg("Failed to write CSV")
	}
}

func (h *TransactionsHandler) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "交易记录不存在")
		return
	}
	h.log.Error().Err(err).Msg("Transaction store error")
	WriteError(w, http.StatusInternalServerError, "Internal server error")
}

// listFilter reads the shared query parameters of List and ExportCSV.
func listFilter(r *http.Request) (store.TransactionFilter, error) {
	query := r.URL.Query()
	filter := store.TransactionFilter{Limit: defaultListLimit}

	if v := query.Get("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, errors.New("invalid skip")
		}
		filter.Skip = n
	}
	if v := query.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, errors.New("invalid limit")
		}
		filter.Limit = n
	}
	if v := query.Get("type"); v != "" {
		t := infer.TransactionType(v)
		if !t.Valid() {
			return filter, errors.New("invalid type")
		}
		filter.Type = t
	}
	if v := query.Get("start_date"); v != "" {
		d, err := store.ParseDate(v)
		if err != nil {
			return filter, errors.New("invalid start_date format")
		}
		filter.StartDate = &d
	}
	if v := query.Get("end_date"); v != "" {
		d, err := store.ParseDate(v)
		if err != nil {
			return filter, errors.New("invalid end_date format")
		}
		filter.EndDate = &d
	}
	return filter, nil
}
