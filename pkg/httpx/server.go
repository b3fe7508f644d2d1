// Package httpx holds the HTTP plumbing of the catalog read API: router,
// server and JSON helpers.
package httpx

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"
)

// ServerConfig holds the options for NewRouter.
type ServerConfig struct {
	IsDevelopment bool
	// CORSAllowedOrigins is a comma-separated list of allowed origins; "*"
	// allows all.
	CORSAllowedOrigins string
	// RequestsPerMinute caps requests per client IP. Zero means 120.
	RequestsPerMinute int
}

// NewRouter returns a chi.Mux with the standard middleware stack. outer runs
// ahead of the chi built-ins in the order given; pass recovery first, then
// tracing and request logging.
//
// Order (outermost first): outer..., RequestID, RealIP, rate limit, CORS,
// 15 s timeout, security headers.
func NewRouter(cfg ServerConfig, outer ...func(http.Handler) http.Handler) *chi.Mux {
	sec := secure.New(secure.Options{
		STSSeconds:            63072000,
		STSIncludeSubdomains:  true,
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'none'",
		IsDevelopment:         cfg.IsDevelopment,
	})

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 120
	}

	r := chi.NewRouter()
	// RequestID sits in front of outer so the request logger sees it.
	r.Use(middleware.RequestID)
	r.Use(outer...)
	r.Use(
		middleware.RealIP,
		httprate.LimitByIP(rpm, time.Minute),
		CORSMiddleware(cfg.CORSAllowedOrigins),
		middleware.Timeout(15*time.Second),
		sec.Handler,
	)
	return r
}

// CORSMiddleware allows read-only cross-origin access from allowedOrigins.
func CORSMiddleware(allowedOrigins string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: parseOrigins(allowedOrigins),
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id", "X-Catalog-Source"},
		MaxAge:         300,
	})
}

func parseOrigins(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p := strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// NewServer returns an *http.Server with conservative timeouts.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}
