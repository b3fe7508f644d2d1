package httpx_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/seanwirkus/Animal-Crossing-CE/pkg/httpx"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	httpx.JSON(w, http.StatusOK, map[string]int{"count": 160})

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if xct := w.Header().Get("X-Content-Type-Options"); xct != "nosniff" {
		t.Errorf("expected nosniff, got %q", xct)
	}
	var body map[string]int
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["count"] != 160 {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	httpx.JSONError(w, http.StatusNotFound, "record not found: fish_koi")

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.Code != http.StatusNotFound || body["error"] != "record not found: fish_koi" {
		t.Errorf("unexpected response %d %v", w.Code, body)
	}
}

func TestSafeError(t *testing.T) {
	err := errors.New("pq: relation missing")
	tests := []struct {
		status int
		hide   bool
		want   string
	}{
		{http.StatusInternalServerError, true, "Internal Server Error"},
		{http.StatusInternalServerError, false, "pq: relation missing"},
		{http.StatusNotFound, true, "pq: relation missing"},
	}
	for _, tt := range tests {
		if got := httpx.SafeError(err, tt.status, tt.hide); got != tt.want {
			t.Errorf("SafeError(%d, %v) = %q, want %q", tt.status, tt.hide, got, tt.want)
		}
	}
}
