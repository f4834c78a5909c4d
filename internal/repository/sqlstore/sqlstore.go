// Package sqlstore keeps state slots in a SQL table. It runs on SQLite for a
// single-machine install and on PostgreSQL when a server database is available.
package sqlstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"psrental-backend/internal/logger"
	"psrental-backend/internal/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS app_slots (
	slot_key   TEXT PRIMARY KEY,
	slot_value TEXT NOT NULL,
	updated_on TIMESTAMP NOT NULL
)`

const upsertSlot = `INSERT INTO app_slots (slot_key, slot_value, updated_on) VALUES (?, ?, ?)
	ON CONFLICT (slot_key) DO UPDATE SET slot_value = excluded.slot_value, updated_on = excluded.updated_on`

type slotRow struct {
	Key   string `db:"slot_key"`
	Value string `db:"slot_value"`
}

type Store struct {
	db *sqlx.DB
}

var _ repository.SlotRepository = (*Store)(nil)

// Open connects with the given driver ("sqlite3" or "postgres") and verifies the connection.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if driver == "sqlite3" {
		// one writer at a time; the store serialises mutations anyway
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}
	return New(db), nil
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the slot table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create app_slots table: %w", err)
	}
	return nil
}

func (s *Store) LoadSlots(ctx context.Context, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`SELECT slot_key, slot_value FROM app_slots WHERE slot_key IN (?)`, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to build slot query: %w", err)
	}
	query = s.db.Rebind(query)

	logger.PersistCall("sql.load", len(keys))
	var rows []slotRow
	err = s.db.SelectContext(ctx, &rows, query, args...)
	logger.PersistResult("sql.load", len(rows), err)
	if err != nil {
		return nil, fmt.Errorf("failed to load slots: %w", err)
	}

	for _, row := range rows {
		out[row.Key] = []byte(row.Value)
	}
	return out, nil
}

func (s *Store) SaveSlots(ctx context.Context, slots map[string][]byte) (err error) {
	if len(slots) == 0 {
		return nil
	}

	keys := make([]string, 0, len(slots))
	for k := range slots {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	logger.PersistCall("sql.save", len(keys))
	defer func() { logger.PersistResult("sql.save", len(keys), err) }()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin slot transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := tx.Rebind(upsertSlot)
	now := time.Now().UTC()
	for _, k := range keys {
		if _, err = tx.ExecContext(ctx, query, k, string(slots[k]), now); err != nil {
			return fmt.Errorf("failed to write slot %s: %w", k, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit slots: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
