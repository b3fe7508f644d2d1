// Package sqlstore keeps the latest catalog snapshot in a SQL database so
// services can query records without parsing the emitted documents.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/seanwirkus/Animal-Crossing-CE/pkg/database"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/events"
	catalogdomain "github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain"
	domainevents "github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain/events"
	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain/models"
	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain/repositories"
)

const recordColumns = `id, name, category, base_value, rarity, description, season_tags, time_windows, requirements`

// runTimeLayout has fixed width so created_at sorts lexically.
const runTimeLayout = "2006-01-02T15:04:05.000000000Z"

// CatalogRepository implements repositories.CatalogRepository on top of
// database.Database.
type CatalogRepository struct {
	db  *database.Database
	bus *events.EventBus
	now func() time.Time
}

// NewCatalogRepository returns a repository on db. When bus is non-nil,
// Replace publishes a CatalogPublishedEvent in the same transaction.
func NewCatalogRepository(db *database.Database, bus *events.EventBus) *CatalogRepository {
	return &CatalogRepository{db: db, bus: bus, now: time.Now}
}

// Replace swaps the stored catalog for snap. Readers see either the old or
// the new catalog, never a mix.
func (r *CatalogRepository) Replace(ctx context.Context, snap repositories.Snapshot) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM catalog_records"); err != nil {
			return fmt.Errorf("clear records: %w", err)
		}

		insert := r.db.Rebind(`INSERT INTO catalog_records (position, run_id, ` + recordColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		stmt, err := tx.PrepareContext(ctx, insert)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close() //nolint:errcheck

		for i, rec := range snap.Records {
			row, err := toRow(rec)
			if err != nil {
				return fmt.Errorf("encode record %s: %w", rec.ID, err)
			}
			if _, err := stmt.ExecContext(ctx, i, snap.RunID.String(),
				rec.ID, rec.Name, string(rec.Category), rec.BaseValue, string(rec.Rarity),
				rec.Description, row.seasonTags, row.timeWindows, row.requirements,
			); err != nil {
				return fmt.Errorf("insert record %s: %w", rec.ID, err)
			}
		}

		occurredAt := r.now().UTC()
		if _, err := tx.ExecContext(ctx,
			r.db.Rebind(`INSERT INTO catalog_runs (run_id, content_hash, record_count, created_at) VALUES (?, ?, ?, ?)`),
			snap.RunID.String(), snap.ContentHash, len(snap.Records), occurredAt.Format(runTimeLayout),
		); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		if r.bus != nil {
			if err := r.publishReplaced(ctx, tx, snap, occurredAt); err != nil {
				return fmt.Errorf("publish catalog published: %w", err)
			}
		}
		return nil
	})
}

// Get returns one stored record. Returns ErrRecordNotFound if absent.
func (r *CatalogRepository) Get(ctx context.Context, id string) (*models.ItemRecord, error) {
	row := r.db.DB().QueryRowContext(ctx,
		r.db.Rebind(`SELECT `+recordColumns+` FROM catalog_records WHERE id = ?`), id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", catalogdomain.ErrRecordNotFound, id)
		}
		return nil, fmt.Errorf("query record: %w", err)
	}
	return rec, nil
}

// List returns every stored record in the order the run produced them.
func (r *CatalogRepository) List(ctx context.Context) ([]*models.ItemRecord, error) {
	rows, err := r.db.DB().QueryContext(ctx, `SELECT `+recordColumns+` FROM catalog_records ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []*models.ItemRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

// Count reports how many records are stored.
func (r *CatalogRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM catalog_records").Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// LatestRun returns the run id and content hash of the most recently stored
// snapshot. Both are zero when nothing has been stored yet.
func (r *CatalogRepository) LatestRun(ctx context.Context) (runID uuid.UUID, contentHash string, err error) {
	var id string
	err = r.db.DB().QueryRowContext(ctx,
		`SELECT run_id, content_hash FROM catalog_runs ORDER BY created_at DESC LIMIT 1`,
	).Scan(&id, &contentHash)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, "", nil
	}
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("query latest run: %w", err)
	}
	runID, err = uuid.Parse(id)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("parse run id: %w", err)
	}
	return runID, contentHash, nil
}

func (r *CatalogRepository) publishReplaced(ctx context.Context, tx *sql.Tx, snap repositories.Snapshot, occurredAt time.Time) error {
	event := domainevents.CatalogPublishedEvent{
		EventID:     uuid.New(),
		Version:     1,
		RunID:       snap.RunID,
		RecordCount: len(snap.Records),
		ContentHash: snap.ContentHash,
		OccurredAt:  occurredAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_id", event.EventID.String())
	msg.Metadata.Set("event_version", "1")
	return r.bus.PublishTx(ctx, tx, domainevents.TopicCatalogPublished, msg)
}

type encodedRow struct {
	seasonTags   string
	timeWindows  string
	requirements sql.NullString
}

func toRow(rec *models.ItemRecord) (encodedRow, error) {
	var row encodedRow
	tags, err := json.Marshal(rec.SeasonTags)
	if err != nil {
		return row, err
	}
	windows, err := json.Marshal(rec.TimeWindows)
	if err != nil {
		return row, err
	}
	row.seasonTags = string(tags)
	row.timeWindows = string(windows)
	if rec.Requirements != nil {
		reqs, err := json.Marshal(rec.Requirements)
		if err != nil {
			return row, err
		}
		row.requirements = sql.NullString{String: string(reqs), Valid: true}
	}
	return row, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*models.ItemRecord, error) {
	var (
		in           models.RecordInput
		category     string
		rarity       string
		seasonTags   string
		timeWindows  string
		requirements sql.NullString
	)
	if err := s.Scan(&in.ID, &in.Name, &category, &in.BaseValue, &rarity,
		&in.Description, &seasonTags, &timeWindows, &requirements); err != nil {
		return nil, err
	}
	in.Category = models.Category(category)
	in.Rarity = models.Rarity(rarity)
	if err := json.Unmarshal([]byte(seasonTags), &in.SeasonTags); err != nil {
		return nil, fmt.Errorf("decode season tags: %w", err)
	}
	if err := json.Unmarshal([]byte(timeWindows), &in.TimeWindows); err != nil {
		return nil, fmt.Errorf("decode time windows: %w", err)
	}
	if requirements.Valid {
		if err := json.Unmarshal([]byte(requirements.String), &in.Requirements); err != nil {
			return nil, fmt.Errorf("decode requirements: %w", err)
		}
		if in.Requirements == nil {
			in.Requirements = []string{}
		}
	}
	return models.NewItemRecord(in), nil
}
