package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"

	"github.com/ayusman/rpsref/internal/store"
)

func newTestRouter(t *testing.T, check func(key, value string) error) (*mux.Router, *store.Store) {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	r := mux.NewRouter()
	NewSettingsHandler(s.Settings(), check).Register(r)
	return r, s
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSettingsHandler_ListEmpty(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	rec := do(r, http.MethodGet, "/api/settings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var response listSettingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Settings == nil || len(response.Settings) != 0 {
		t.Errorf("expected empty settings array, got %v", response.Settings)
	}
}

func TestSettingsHandler_PutGetList(t *testing.T) {
	r, s := newTestRouter(t, nil)

	rec := do(r, http.MethodPut, "/api/settings/win_threshold", `{"value":"5"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var put store.Setting
	if err := json.NewDecoder(rec.Body).Decode(&put); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if put.Key != "win_threshold" || put.Value != "5" {
		t.Errorf("PUT response = %+v", put)
	}

	rec = do(r, http.MethodGet, "/api/settings/win_threshold", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET expected status %d, got %d", http.StatusOK, rec.Code)
	}

	stored, err := s.Settings().Get("win_threshold")
	if err != nil {
		t.Fatalf("setting not persisted: %v", err)
	}
	if stored.Value != "5" {
		t.Errorf("stored value = %q, want 5", stored.Value)
	}

	rec = do(r, http.MethodGet, "/api/settings", "")
	var response listSettingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Settings) != 1 {
		t.Errorf("expected 1 setting, got %d", len(response.Settings))
	}
}

func TestSettingsHandler_PutValidation(t *testing.T) {
	check := func(key, value string) error {
		if key != "cooldown" {
			return errors.New("unknown key " + key)
		}
		return nil
	}
	r, s := newTestRouter(t, check)

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"valid", "/api/settings/cooldown", `{"value":"3s"}`, http.StatusOK},
		{"rejected key", "/api/settings/volume", `{"value":"11"}`, http.StatusBadRequest},
		{"invalid json", "/api/settings/cooldown", `{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(r, http.MethodPut, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, rec.Code)
			}
		})
	}

	if _, err := s.Settings().Get("volume"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("rejected setting was stored: %v", err)
	}
}

func TestSettingsHandler_GetNotFound(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	rec := do(r, http.MethodGet, "/api/settings/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestSettingsHandler_Delete(t *testing.T) {
	r, s := newTestRouter(t, nil)

	if _, err := s.Settings().Set("mode", "stability"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	rec := do(r, http.MethodDelete, "/api/settings/mode", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	rec = do(r, http.MethodDelete, "/api/settings/mode", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestSettingsHandler_MethodNotAllowed(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	rec := do(r, http.MethodPost, "/api/settings", `{}`)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
