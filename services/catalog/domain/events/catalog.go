package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicCatalogPublished is the Watermill topic published when a catalog
// snapshot replaces the stored one.
const TopicCatalogPublished = "catalog.published"

// CatalogPublishedEvent is published in the same transaction that stores a
// catalog snapshot. Consumers reload the catalog when ContentHash changes.
type CatalogPublishedEvent struct {
	EventID     uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version     int       `json:"version"`  // Schema version; increment on breaking changes
	RunID       uuid.UUID `json:"run_id"`
	RecordCount int       `json:"record_count"`
	ContentHash string    `json:"content_hash"` // sha256 of the interchange document
	OccurredAt  time.Time `json:"occurred_at"`
}
