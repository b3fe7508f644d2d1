package services

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/seanwirkus/Animal-Crossing-CE/pkg/logger"
	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain/repositories"
)

// SnapshotService pushes a finished catalog to the optional sinks: the SQL
// snapshot store and the Redis read model. Either may be nil.
type SnapshotService struct {
	repo   repositories.CatalogRepository
	cache  repositories.CatalogCache
	log    logger.Logger
	tracer trace.Tracer

	// notifies is true when repo publishes catalog.published, leaving the
	// cache refresh to the worker.
	notifies bool
}

// NewSnapshotService wires the sinks. notifies tells the service that the
// repository emits change events, so the importer must not write the cache.
func NewSnapshotService(repo repositories.CatalogRepository, cache repositories.CatalogCache, notifies bool, log logger.Logger) *SnapshotService {
	return &SnapshotService{
		repo:     repo,
		cache:    cache,
		log:      log,
		tracer:   otel.Tracer(tracerName),
		notifies: notifies && repo != nil,
	}
}

// Enabled reports whether any sink is configured.
func (s *SnapshotService) Enabled() bool {
	return s.repo != nil || s.cache != nil
}

// Store saves snap to the snapshot store and, when no worker will be
// notified, refreshes the cache directly.
func (s *SnapshotService) Store(ctx context.Context, snap repositories.Snapshot) error {
	ctx, span := s.tracer.Start(ctx, "catalog.snapshot.store",
		trace.WithAttributes(
			attribute.String("run_id", snap.RunID.String()),
			attribute.Int("records", len(snap.Records)),
		))
	defer span.End()

	if s.repo != nil {
		if err := s.repo.Replace(ctx, snap); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("store snapshot: %w", err)
		}
		s.log.InfoContext(ctx, "snapshot stored", "run_id", snap.RunID, "records", len(snap.Records))
	}

	if s.cache != nil && !s.notifies {
		if err := s.cache.Publish(ctx, snap.ContentHash, snap.Records); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("publish cache: %w", err)
		}
		s.log.InfoContext(ctx, "cache refreshed", "run_id", snap.RunID, "records", len(snap.Records))
	}
	return nil
}

// Refresh reloads the stored catalog into the cache unless the cache already
// holds contentHash. It is safe to call repeatedly for the same event.
func (s *SnapshotService) Refresh(ctx context.Context, contentHash string) (refreshed bool, err error) {
	if s.repo == nil || s.cache == nil {
		return false, fmt.Errorf("refresh: snapshot store and cache are both required")
	}
	ctx, span := s.tracer.Start(ctx, "catalog.snapshot.refresh")
	defer span.End()

	current, err := s.cache.ContentHash(ctx)
	if err != nil {
		return false, err
	}
	if contentHash != "" && current == contentHash {
		s.log.DebugContext(ctx, "cache already current", "content_hash", contentHash)
		return false, nil
	}

	records, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("load snapshot: %w", err)
	}
	if err := s.cache.Publish(ctx, contentHash, records); err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("publish cache: %w", err)
	}
	span.SetAttributes(attribute.Int("records", len(records)))
	s.log.InfoContext(ctx, "cache refreshed from snapshot store", "records", len(records), "content_hash", contentHash)
	return true, nil
}
