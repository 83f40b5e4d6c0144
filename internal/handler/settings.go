package handler

import (
	"errors"
	"net/http"

	"github.com/awsl-project/dontcaught/internal/domain"
	"github.com/awsl-project/dontcaught/internal/prefsync"
	"github.com/go-chi/chi/v5"
)

// SettingsHandler exposes the settings page over HTTP
type SettingsHandler struct {
	page *prefsync.Page
}

func NewSettingsHandler(page *prefsync.Page) *SettingsHandler {
	return &SettingsHandler{page: page}
}

// List returns the state of every registered toggle
// GET /api/settings
func (h *SettingsHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.page.States())
}

// Get returns a single toggle state
// GET /api/settings/{key}
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	t, ok := h.page.Get(key)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown setting: "+key)
		return
	}
	writeJSON(w, http.StatusOK, t.State())
}

// Update changes a toggle through its synchronizer
// PUT /api/settings/{key} {"value": true}
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var body struct {
		Value *bool `json:"value"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Value == nil {
		writeError(w, http.StatusBadRequest, "value is required")
		return
	}

	state, err := h.page.Toggle(r.Context(), key, *body.Value)
	if err != nil {
		writeJSON(w, statusFor(err), map[string]any{
			"error": err.Error(),
			"state": state,
		})
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownSetting):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotInitialized):
		return http.StatusServiceUnavailable
	}
	switch domain.KindOf(err) {
	case domain.ErrorKindHostEffectFailed:
		return http.StatusBadGateway
	case domain.ErrorKindStoreUnavailable, domain.ErrorKindPersistenceFailed:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
