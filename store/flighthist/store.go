// Package flighthist persists historical flight outcomes in Postgres. The
// flight specialist reads it through its route-history tool; nothing in the
// agent core depends on this package directly.
package flighthist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

var ErrNoHistory = errors.New("no route history found")

type Config struct {
	DSN          string        `envconfig:"DSN" split_words:"true" required:"true"`
	QueryTimeout time.Duration `envconfig:"QUERY_TIMEOUT" split_words:"true" default:"5s"`
}

// Store wraps a bun connection to the flights_history table.
type Store struct {
	db           *bun.DB
	queryTimeout time.Duration
}

// New opens a Postgres connection from a DSN.
func New(cfg Config) (*Store, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	timeout := cfg.QueryTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Store{db: db, queryTimeout: timeout}, nil
}

// NewWithDB wraps an existing bun connection. Tests use this with a
// sqlite-backed or mocked database.
func NewWithDB(db *bun.DB) *Store {
	return &Store{db: db, queryTimeout: 5 * time.Second}
}

// RouteHistory returns flights for an origin-destination pair departing in
// the last daysBack days, most recent first.
func (s *Store) RouteHistory(ctx context.Context, origin, destination string, daysBack int) ([]FlightRecord, error) {
	origin = strings.ToUpper(strings.TrimSpace(origin))
	destination = strings.ToUpper(strings.TrimSpace(destination))
	if origin == "" || destination == "" {
		return nil, errors.New("both origin and destination are required")
	}
	if daysBack <= 0 {
		daysBack = 30
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	since := time.Now().UTC().AddDate(0, 0, -daysBack)

	var records []FlightRecord
	err := s.db.NewSelect().
		Model(&records).
		Where("origin = ?", origin).
		Where("destination = ?", destination).
		Where("scheduled_departure >= ?", since).
		Order("scheduled_departure DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("query route history: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s-%s", ErrNoHistory, origin, destination)
	}
	return records, nil
}

// Insert stores one flight outcome.
func (s *Store) Insert(ctx context.Context, record *FlightRecord) error {
	if record == nil {
		return errors.New("record is nil")
	}
	if strings.TrimSpace(record.FlightID) == "" {
		return errors.New("flight id is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if _, err := s.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return fmt.Errorf("insert flight record: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
