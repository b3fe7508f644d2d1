// Package events carries catalog notifications over a PostgreSQL-backed
// Watermill bus.
//
// The importer writes messages inside the transaction that stores a catalog
// snapshot. They land in an outbox topic; a forwarder running in the worker
// moves them to their real topic, where the worker's subscribers pick them
// up. A message is therefore delivered only if the snapshot committed.
//
// Trace context travels in message metadata, so a worker span joins the
// importer run that caused it.
package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/seanwirkus/Animal-Crossing-CE/pkg/config"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/logger"
)

const (
	outboxTopic        = "catalog_outbox"
	forwarderGroup     = "catalog-forwarder"
	drainTimeout       = 30 * time.Second
	forwarderStartWait = 10 * time.Second
)

// ErrUnsupportedDSN is returned when the catalog database is not PostgreSQL.
// The SQL transport relies on FOR UPDATE SKIP LOCKED.
var ErrUnsupportedDSN = errors.New("events: bus requires a postgres database")

// Supported reports whether dsn can back an EventBus.
func Supported(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// EventBus publishes through the outbox and consumes real topics.
type EventBus struct {
	db         *sql.DB
	subscriber *watermillsql.Subscriber
	group      string
	log        logger.Logger
	wlog       *watermillLogger

	mu  sync.Mutex
	fwd *forwarder.Forwarder
	wg  sync.WaitGroup
}

// Open connects to cfg.DatabaseURL. Subscribers join the consumer group
// <service>-consumer, so each message is handled by one worker instance.
func Open(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	if !Supported(cfg.DatabaseURL) {
		return nil, ErrUnsupportedDSN
	}
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("events: open db: %w", err)
	}

	bus := &EventBus{
		db:    db,
		group: cfg.ServiceName + "-consumer",
		log:   log,
		wlog:  &watermillLogger{log: log},
	}
	bus.subscriber, err = bus.newSubscriber(bus.group)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return bus, nil
}

func (b *EventBus) newSubscriber(group string) (*watermillsql.Subscriber, error) {
	sub, err := watermillsql.NewSubscriber(b.db, watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    group,
	}, b.wlog)
	if err != nil {
		return nil, fmt.Errorf("events: subscriber for %s: %w", group, err)
	}
	return sub, nil
}

// Prepare creates the tables for the outbox and topics. Transactional
// publishers cannot create tables, so call it before the first PublishTx.
func (b *EventBus) Prepare(topics ...string) error {
	for _, topic := range append([]string{outboxTopic}, topics...) {
		if err := b.subscriber.SubscribeInitialize(topic); err != nil {
			return fmt.Errorf("events: initialize %s: %w", topic, err)
		}
	}
	return nil
}

// StartForwarder runs the outbox forwarder until ctx ends or Close is
// called. It returns once the forwarder is consuming.
func (b *EventBus) StartForwarder(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fwd != nil {
		return errors.New("events: forwarder already started")
	}

	sub, err := b.newSubscriber(forwarderGroup)
	if err != nil {
		return err
	}
	pub, err := watermillsql.NewPublisher(b.db, watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: true,
	}, b.wlog)
	if err != nil {
		_ = sub.Close()
		return fmt.Errorf("events: forwarder publisher: %w", err)
	}
	fwd, err := forwarder.NewForwarder(sub, pub, b.wlog, forwarder.Config{ForwarderTopic: outboxTopic})
	if err != nil {
		_ = pub.Close()
		_ = sub.Close()
		return fmt.Errorf("events: forwarder: %w", err)
	}
	b.fwd = fwd

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := fwd.Run(ctx); err != nil {
			b.log.ErrorContext(ctx, "events: forwarder stopped", "error", err)
		}
	}()

	select {
	case <-fwd.Running():
		b.log.InfoContext(ctx, "events: forwarder running", "outbox", outboxTopic)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: waiting for forwarder: %w", ctx.Err())
	case <-time.After(forwarderStartWait):
		return errors.New("events: forwarder did not start")
	}
}

// Ping checks the bus database connection.
func (b *EventBus) Ping(ctx context.Context) error {
	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops consuming, waits up to 30 s for in-flight handlers and closes
// the connection.
func (b *EventBus) Close() error {
	var errs []error
	if err := b.subscriber.Close(); err != nil {
		errs = append(errs, fmt.Errorf("events: close subscriber: %w", err))
	}
	b.mu.Lock()
	if b.fwd != nil {
		if err := b.fwd.Close(); err != nil {
			errs = append(errs, fmt.Errorf("events: close forwarder: %w", err))
		}
	}
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(drainTimeout):
		b.log.Error("events: gave up waiting for in-flight handlers")
	}

	errs = append(errs, b.db.Close())
	return errors.Join(errs...)
}
