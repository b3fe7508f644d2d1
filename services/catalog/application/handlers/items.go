package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/seanwirkus/Animal-Crossing-CE/pkg/errhttp"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/httpx"
	appsvcs "github.com/seanwirkus/Animal-Crossing-CE/services/catalog/application/services"
	catalogdomain "github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain"
	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain/models"
)

// SourceHeader tells clients whether a record came from the cache or the store.
const SourceHeader = "X-Catalog-Source"

// CatalogReader is the read API the item handlers serve.
type CatalogReader interface {
	Get(ctx context.Context, id string) (*models.ItemRecord, appsvcs.Source, error)
	List(ctx context.Context, q appsvcs.ListQuery) (*appsvcs.Page, error)
}

// ListItemsResponse is returned by GET /catalog/items.
type ListItemsResponse struct {
	Total  int                  `json:"total"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
	Items  []*models.ItemRecord `json:"items"`
}

// ItemHandlers serves the catalog item endpoints.
type ItemHandlers struct {
	reader       CatalogReader
	hideInternal bool
}

// NewItemHandlers returns handlers backed by reader. hideInternal masks 5xx
// messages.
func NewItemHandlers(reader CatalogReader, hideInternal bool) *ItemHandlers {
	return &ItemHandlers{reader: reader, hideInternal: hideInternal}
}

// Get handles GET /catalog/items/{id}.
func (h *ItemHandlers) Get(w http.ResponseWriter, r *http.Request) {
	rec, source, err := h.reader.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errhttp.WriteError(w, err, h.hideInternal)
		return
	}
	w.Header().Set(SourceHeader, string(source))
	httpx.JSON(w, http.StatusOK, rec)
}

// List handles GET /catalog/items?category=&limit=&offset=.
func (h *ItemHandlers) List(w http.ResponseWriter, r *http.Request) {
	q := appsvcs.ListQuery{Category: models.Category(r.URL.Query().Get("category"))}
	var err error
	if q.Limit, err = intParam(r, "limit", appsvcs.DefaultListLimit); err != nil {
		errhttp.WriteError(w, err, h.hideInternal)
		return
	}
	if q.Offset, err = intParam(r, "offset", 0); err != nil {
		errhttp.WriteError(w, err, h.hideInternal)
		return
	}

	page, err := h.reader.List(r.Context(), q)
	if err != nil {
		errhttp.WriteError(w, err, h.hideInternal)
		return
	}
	w.Header().Set(SourceHeader, string(appsvcs.SourceStore))
	httpx.JSON(w, http.StatusOK, ListItemsResponse{
		Total:  page.Total,
		Limit:  q.Limit,
		Offset: q.Offset,
		Items:  page.Records,
	})
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", catalogdomain.ErrInvalidQuery, name)
	}
	return n, nil
}
