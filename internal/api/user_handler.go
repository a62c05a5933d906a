package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"pal-budget/internal/stats"
	"pal-budget/internal/store"
)

// UserHandler serves the user profile endpoints.
type UserHandler struct {
	store *store.Store
	log   zerolog.Logger
}

// NewUserHandler creates the handler.
func NewUserHandler(s *store.Store, log zerolog.Logger) *UserHandler {
	return &UserHandler{store: s, log: log}
}

// Me handles GET /api/user/me, creating the default user on first call.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.EnsureDefaultUser()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load default user")
		WriteError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// Create handles POST /api/user.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Nickname string `json:"nickname"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		WriteError(w, http.StatusBadRequest, "username is required")
		return
	}
	if req.Nickname == "" {
		req.Nickname = "记账小达人"
	}

	user, err := h.store.CreateUser(req.Username, req.Nickname)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "用户名已存在")
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// Stats handles GET /api/user/stats.
func (h *UserHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.EnsureDefaultUser()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load default user")
		WriteError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}

	totals, err := stats.ForUser(h.store, user)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compute user stats")
		WriteError(w, http.StatusInternalServerError, "Failed to compute statistics")
		return
	}
	WriteJSON(w, http.StatusOK, totals)
}
