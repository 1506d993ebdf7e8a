/*
Package sqlite provides a SQLite-backed implementation of store.Store.

PURPOSE:
  Keeps awards and financial-year tables in a single SQLite file, so that
  configuration edited through the API survives restarts.

KEY TABLES:
  awards:     One row per award, config_json holds the award document
  table_sets: One row per financial year, config_json holds both tables

  Config is stored in the factory document schema, the same shape used for
  import and export, so a row can be copied out and re-imported as-is.

VERSIONING:
  Every upsert bumps the row's version; created_at is kept.

CONCURRENCY:
  Uses sync.RWMutex around the connection. The pool is limited to one
  connection so ":memory:" databases are shared by every query.

USAGE:
  s, err := sqlite.New("./data/awards.db")
  if err != nil {
      return err
  }
  defer s.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - store/store.go: Interface definition
  - store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/award-engine/award"
	"github.com/warp/award-engine/factory"
	"github.com/warp/award-engine/generic"
	"github.com/warp/award-engine/pay"
	"github.com/warp/award-engine/store"
)

var _ store.Store = (*Store)(nil)

// Store implements store.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection is usable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS awards (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		config_json TEXT NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_awards_name ON awards(name);

	CREATE TABLE IF NOT EXISTS table_sets (
		year TEXT PRIMARY KEY,
		config_json TEXT NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// AWARDS
// =============================================================================

// SaveAward inserts or replaces an award after validating it.
func (s *Store) SaveAward(ctx context.Context, p award.Policy) error {
	if _, err := p.Rules(); err != nil {
		return err
	}
	config, err := json.Marshal(factory.FromPolicy(p))
	if err != nil {
		return fmt.Errorf("encode award %s: %w", p.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO awards (id, name, config_json, version, created_at, updated_at)
		VALUES (?, ?, ?, 1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			config_json = excluded.config_json,
			version = awards.version + 1,
			updated_at = excluded.updated_at
	`
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, query, string(p.ID), p.Name, string(config), now, now)
	return err
}

// GetAward retrieves an award by id.
func (s *Store) GetAward(ctx context.Context, id award.ID) (award.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var config string
	err := s.db.QueryRowContext(ctx, "SELECT config_json FROM awards WHERE id = ?", string(id)).Scan(&config)
	if errors.Is(err, sql.ErrNoRows) {
		return award.Policy{}, fmt.Errorf("%w: %s", generic.ErrAwardNotFound, id)
	}
	if err != nil {
		return award.Policy{}, err
	}
	return decodeAward(config)
}

// ListAwards returns all awards ordered by name.
func (s *Store) ListAwards(ctx context.Context) ([]award.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT config_json FROM awards ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []award.Policy
	for rows.Next() {
		var config string
		if err := rows.Scan(&config); err != nil {
			return nil, err
		}
		p, err := decodeAward(config)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeleteAward removes an award.
func (s *Store) DeleteAward(ctx context.Context, id award.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM awards WHERE id = ?", string(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", generic.ErrAwardNotFound, id)
	}
	return nil
}

// AwardVersion returns how many times an award has been saved.
func (s *Store) AwardVersion(ctx context.Context, id award.ID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var version int
	err := s.db.QueryRowContext(ctx, "SELECT version FROM awards WHERE id = ?", string(id)).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", generic.ErrAwardNotFound, id)
	}
	return version, err
}

func decodeAward(config string) (award.Policy, error) {
	var aj factory.AwardJSON
	if err := json.Unmarshal([]byte(config), &aj); err != nil {
		return award.Policy{}, fmt.Errorf("decode award: %w", err)
	}
	return factory.ToPolicy(aj)
}

// =============================================================================
// TABLE SETS
// =============================================================================

// SaveTableSet inserts or replaces the tables for one year.
func (s *Store) SaveTableSet(ctx context.Context, ts pay.TableSet) error {
	if err := ts.Validate(); err != nil {
		return err
	}
	config, err := json.Marshal(factory.FromTableSet(ts))
	if err != nil {
		return fmt.Errorf("encode tables %s: %w", ts.Year, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO table_sets (year, config_json, version, created_at, updated_at)
		VALUES (?, ?, 1, ?, ?)
		ON CONFLICT(year) DO UPDATE SET
			config_json = excluded.config_json,
			version = table_sets.version + 1,
			updated_at = excluded.updated_at
	`
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, query, ts.Year, string(config), now, now)
	return err
}

// GetTableSet retrieves the tables for a financial year.
func (s *Store) GetTableSet(ctx context.Context, year string) (pay.TableSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var config string
	err := s.db.QueryRowContext(ctx, "SELECT config_json FROM table_sets WHERE year = ?", year).Scan(&config)
	if errors.Is(err, sql.ErrNoRows) {
		return pay.TableSet{}, fmt.Errorf("%w: %s", generic.ErrTableNotFound, year)
	}
	if err != nil {
		return pay.TableSet{}, err
	}
	return decodeTableSet(config)
}

// ListTableSets returns every stored year.
func (s *Store) ListTableSets(ctx context.Context) (pay.TableSets, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT config_json FROM table_sets ORDER BY year")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(pay.TableSets)
	for rows.Next() {
		var config string
		if err := rows.Scan(&config); err != nil {
			return nil, err
		}
		ts, err := decodeTableSet(config)
		if err != nil {
			return nil, err
		}
		out[ts.Year] = ts
	}
	return out, rows.Err()
}

func decodeTableSet(config string) (pay.TableSet, error) {
	var tj factory.TableSetJSON
	if err := json.Unmarshal([]byte(config), &tj); err != nil {
		return pay.TableSet{}, fmt.Errorf("decode tables: %w", err)
	}
	return factory.ToTableSet(tj)
}

// Reset deletes all awards and tables.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"awards", "table_sets"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}
