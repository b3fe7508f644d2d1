package services

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/seanwirkus/Animal-Crossing-CE/pkg/logger"
	catalogdomain "github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain"
	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain/models"
	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain/repositories"
)

// Source names where a record was read from.
type Source string

const (
	SourceCache Source = "cache"
	SourceStore Source = "store"
)

// List bounds.
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// recordReader is the read side of the Redis read model.
type recordReader interface {
	Get(ctx context.Context, id string) (*models.ItemRecord, error)
}

// ListQuery selects a page of stored records. An empty Category matches all.
type ListQuery struct {
	Category models.Category
	Limit    int
	Offset   int
}

// Page is one slice of a listing plus the total number of matches.
type Page struct {
	Total   int
	Records []*models.ItemRecord
}

// QueryService serves catalog reads: single records through the cache with
// the snapshot store behind it, listings from the store.
type QueryService struct {
	repo   repositories.CatalogRepository
	cache  recordReader
	log    logger.Logger
	tracer trace.Tracer
}

// NewQueryService wires the readers. Either may be nil.
func NewQueryService(repo repositories.CatalogRepository, cache recordReader, log logger.Logger) *QueryService {
	return &QueryService{repo: repo, cache: cache, log: log, tracer: otel.Tracer(tracerName)}
}

// Get returns the record with id and where it came from. A cache failure
// other than a miss is logged and the store is consulted.
func (s *QueryService) Get(ctx context.Context, id string) (*models.ItemRecord, Source, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.query.get", trace.WithAttributes(attribute.String("id", id)))
	defer span.End()

	if s.cache != nil {
		rec, err := s.cache.Get(ctx, id)
		if err == nil {
			span.SetAttributes(attribute.String("source", string(SourceCache)))
			return rec, SourceCache, nil
		}
		if !errors.Is(err, catalogdomain.ErrRecordNotFound) {
			s.log.WarnContext(ctx, "cache read failed, falling back to store", "id", id, "error", err)
		}
	}
	if s.repo == nil {
		return nil, "", fmt.Errorf("%w: %s", catalogdomain.ErrRecordNotFound, id)
	}

	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	span.SetAttributes(attribute.String("source", string(SourceStore)))
	return rec, SourceStore, nil
}

// List returns the page of stored records matching q, in catalog order.
func (s *QueryService) List(ctx context.Context, q ListQuery) (*Page, error) {
	if q.Limit == 0 {
		q.Limit = DefaultListLimit
	}
	if q.Limit < 0 || q.Limit > MaxListLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", catalogdomain.ErrInvalidQuery, MaxListLimit)
	}
	if q.Offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", catalogdomain.ErrInvalidQuery)
	}
	if s.repo == nil {
		return nil, errors.New("list: snapshot store not configured")
	}

	ctx, span := s.tracer.Start(ctx, "catalog.query.list")
	defer span.End()

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := all
	if q.Category != "" {
		matched = make([]*models.ItemRecord, 0, len(all))
		for _, rec := range all {
			if rec.Category == q.Category {
				matched = append(matched, rec)
			}
		}
	}

	page := &Page{Total: len(matched), Records: []*models.ItemRecord{}}
	if q.Offset < len(matched) {
		end := min(q.Offset+q.Limit, len(matched))
		page.Records = matched[q.Offset:end]
	}
	span.SetAttributes(attribute.Int("total", page.Total), attribute.Int("returned", len(page.Records)))
	return page, nil
}
