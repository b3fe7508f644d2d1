package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	appsvcs "github.com/seanwirkus/Animal-Crossing-CE/services/catalog/application/services"
	catalogdomain "github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain"
	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain/models"
)

type fakeReader struct {
	records []*models.ItemRecord
	lastQ   appsvcs.ListQuery
	listErr error
}

func (f *fakeReader) Get(_ context.Context, id string) (*models.ItemRecord, appsvcs.Source, error) {
	for _, rec := range f.records {
		if rec.ID == id {
			return rec, appsvcs.SourceCache, nil
		}
	}
	return nil, "", fmt.Errorf("%w: %s", catalogdomain.ErrRecordNotFound, id)
}

func (f *fakeReader) List(_ context.Context, q appsvcs.ListQuery) (*appsvcs.Page, error) {
	f.lastQ = q
	if f.listErr != nil {
		return nil, f.listErr
	}
	return &appsvcs.Page{Total: len(f.records), Records: f.records}, nil
}

func newRouter(reader CatalogReader) *chi.Mux {
	h := NewItemHandlers(reader, true)
	r := chi.NewRouter()
	r.Get("/catalog/items", h.List)
	r.Get("/catalog/items/{id}", h.Get)
	return r
}

func serve(r http.Handler, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, http.NoBody))
	return rr
}

func TestItemHandlers_Get(t *testing.T) {
	koi := models.NewItemRecord(models.RecordInput{
		ID: "fish_koi", Name: "Koi", Category: models.CategoryFish, BaseValue: 4000, Rarity: models.RarityUncommon,
	})
	r := newRouter(&fakeReader{records: []*models.ItemRecord{koi}})

	rr := serve(r, "/catalog/items/fish_koi")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := rr.Header().Get(SourceHeader); got != "cache" {
		t.Errorf("%s = %q", SourceHeader, got)
	}
	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["id"] != "fish_koi" || body["baseValue"] != float64(4000) {
		t.Errorf("unexpected body: %v", body)
	}

	if rr := serve(r, "/catalog/items/fish_nope"); rr.Code != http.StatusNotFound {
		t.Errorf("unknown id: expected 404, got %d", rr.Code)
	}
}

func TestItemHandlers_List(t *testing.T) {
	reader := &fakeReader{records: []*models.ItemRecord{
		models.NewItemRecord(models.RecordInput{ID: "bug_ant", Name: "Ant", Category: models.CategoryBug, Rarity: models.RarityCommon}),
	}}
	r := newRouter(reader)

	rr := serve(r, "/catalog/items?category=Bug&limit=10&offset=0")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if reader.lastQ != (appsvcs.ListQuery{Category: models.CategoryBug, Limit: 10}) {
		t.Errorf("query = %+v", reader.lastQ)
	}
	var body ListItemsResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Total != 1 || len(body.Items) != 1 || body.Items[0].ID != "bug_ant" || body.Limit != 10 {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestItemHandlers_List_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		listErr    error
		wantStatus int
		wantError  string
	}{
		{"bad limit", "/catalog/items?limit=ten", nil, http.StatusBadRequest, "invalid query: limit must be an integer"},
		{"bad offset", "/catalog/items?offset=x", nil, http.StatusBadRequest, "invalid query: offset must be an integer"},
		{"store failure", "/catalog/items", errors.New("connection reset"), http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(newRouter(&fakeReader{listErr: tt.listErr}), tt.target)
			if rr.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rr.Code)
			}
			var body map[string]string
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] != tt.wantError {
				t.Errorf("error = %q, want %q", body["error"], tt.wantError)
			}
		})
	}
}
