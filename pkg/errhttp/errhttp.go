// Package errhttp maps catalog sentinel errors to HTTP status codes.
package errhttp

import (
	"context"
	"errors"
	"net/http"

	"github.com/seanwirkus/Animal-Crossing-CE/pkg/httpx"
	catalogdomain "github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain"
)

// WriteError writes err as a JSON error response. Wrapped sentinels are
// matched with errors.Is; anything unrecognized is a 500, whose message is
// hidden when hideInternal is set.
func WriteError(w http.ResponseWriter, err error, hideInternal bool) {
	status := StatusOf(err)
	httpx.JSONError(w, status, httpx.SafeError(err, status, hideInternal))
}

// StatusOf returns the HTTP status for err.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, catalogdomain.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalogdomain.ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
