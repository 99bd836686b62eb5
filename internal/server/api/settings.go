// Package api provides HTTP handlers for the settings resource.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ayusman/rpsref/internal/store"
)

// SettingsHandler serves configuration overrides. Stored values apply the
// next time the referee starts.
type SettingsHandler struct {
	repo  *store.SettingsRepository
	check func(key, value string) error
}

// NewSettingsHandler creates a SettingsHandler. check validates a key/value
// pair before it is stored; nil accepts anything.
func NewSettingsHandler(repo *store.SettingsRepository, check func(key, value string) error) *SettingsHandler {
	return &SettingsHandler{repo: repo, check: check}
}

// Register adds the settings routes to r.
func (h *SettingsHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/settings", h.list).Methods(http.MethodGet)
	r.HandleFunc("/api/settings/{key}", h.get).Methods(http.MethodGet)
	r.HandleFunc("/api/settings/{key}", h.put).Methods(http.MethodPut)
	r.HandleFunc("/api/settings/{key}", h.delete).Methods(http.MethodDelete)
}

type setSettingRequest struct {
	Value string `json:"value"`
}

type listSettingsResponse struct {
	Settings []*store.Setting `json:"settings"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func (h *SettingsHandler) list(w http.ResponseWriter, r *http.Request) {
	settings, err := h.repo.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list settings")
		return
	}
	if settings == nil {
		settings = []*store.Setting{}
	}
	writeJSON(w, http.StatusOK, listSettingsResponse{Settings: settings})
}

func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	st, err := h.repo.Get(mux.Vars(r)["key"])
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "setting not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get setting")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *SettingsHandler) put(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var req setSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if h.check != nil {
		if err := h.check(key, req.Value); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	st, err := h.repo.Set(key, req.Value)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store setting")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *SettingsHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(mux.Vars(r)["key"]); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "setting not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete setting")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
