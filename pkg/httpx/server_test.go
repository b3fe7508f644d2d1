package httpx

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
)

func TestNewRouter_Headers(t *testing.T) {
	var sawRequestID bool
	outer := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sawRequestID = middleware.GetReqID(r.Context()) != ""
			next.ServeHTTP(w, r)
		})
	}
	r := NewRouter(ServerConfig{CORSAllowedOrigins: "https://tools.example.com"}, outer)
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
	req.Header.Set("Origin", "https://tools.example.com")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !sawRequestID {
		t.Error("outer middleware ran before RequestID")
	}
	checks := map[string]string{
		"X-Content-Type-Options":      "nosniff",
		"X-Frame-Options":             "DENY",
		"Content-Security-Policy":     "default-src 'none'",
		"Access-Control-Allow-Origin": "https://tools.example.com",
	}
	for header, want := range checks {
		if got := rr.Header().Get(header); got != want {
			t.Errorf("%s: got %q, want %q", header, got, want)
		}
	}
}

func TestNewRouter_RateLimit(t *testing.T) {
	r := NewRouter(ServerConfig{RequestsPerMinute: 2})
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	var last int
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))
		last = rr.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("third request: got %d, want 429", last)
	}
}

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"*"}},
		{" , ", []string{"*"}},
		{"https://a.example, http://localhost:3000", []string{"https://a.example", "http://localhost:3000"}},
	}
	for _, tt := range tests {
		if got := parseOrigins(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseOrigins(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
