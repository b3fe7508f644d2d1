package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain/models"
)

// Snapshot is a catalog produced by one run, ready to be stored.
type Snapshot struct {
	RunID       uuid.UUID
	ContentHash string
	Records     []*models.ItemRecord
}

// CatalogRepository is the persistence interface for catalog snapshots.
// The domain layer owns this interface; infrastructure implements it.
type CatalogRepository interface {
	// Replace swaps the stored catalog for snap atomically.
	Replace(ctx context.Context, snap Snapshot) error

	// Get returns one stored record by id.
	Get(ctx context.Context, id string) (*models.ItemRecord, error)

	// List returns every stored record in catalog order.
	List(ctx context.Context) ([]*models.ItemRecord, error)

	// Count reports how many records are stored.
	Count(ctx context.Context) (int, error)
}

// CatalogCache is a read model the downstream application can query without
// parsing the emitted documents.
type CatalogCache interface {
	// Publish replaces the cached catalog with records.
	Publish(ctx context.Context, contentHash string, records []*models.ItemRecord) error

	// ContentHash reports the hash of the cached catalog, "" when empty.
	ContentHash(ctx context.Context) (string, error)
}
