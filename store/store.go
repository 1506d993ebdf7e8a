/*
Package store persists the configuration the engine reads: awards and
financial-year tables.

PURPOSE:
  The engine itself is stateless. Everything it needs per calculation is
  loaded here by the caller and passed in explicitly.

IMPLEMENTATIONS:
  - store/memory.go: In-memory, for tests and throwaway servers
  - store/sqlite/sqlite.go: SQLite file (or :memory:)

CONTRACT:
  - Get of a missing award returns generic.ErrAwardNotFound
  - Get of a missing year returns generic.ErrTableNotFound
  - Save is an upsert; awards and tables are validated before saving
  - List returns awards ordered by name, then id

SEE ALSO:
  - factory/: Document schema used for the stored config
  - api/handlers.go: Main consumer
*/
package store

import (
	"context"
	"fmt"

	"github.com/warp/award-engine/award"
	"github.com/warp/award-engine/pay"
)

// Store persists awards and table sets.
type Store interface {
	SaveAward(ctx context.Context, p award.Policy) error
	GetAward(ctx context.Context, id award.ID) (award.Policy, error)
	ListAwards(ctx context.Context) ([]award.Policy, error)
	DeleteAward(ctx context.Context, id award.ID) error

	SaveTableSet(ctx context.Context, ts pay.TableSet) error
	GetTableSet(ctx context.Context, year string) (pay.TableSet, error)
	ListTableSets(ctx context.Context) (pay.TableSets, error)
}

// SeedResult reports what Seed wrote.
type SeedResult struct {
	Awards    int
	TableSets int
}

// Seed stores the preset awards when no award exists, and the default
// tables when no table set exists. Existing data is never overwritten.
func Seed(ctx context.Context, s Store) (SeedResult, error) {
	var res SeedResult

	existing, err := s.ListAwards(ctx)
	if err != nil {
		return res, fmt.Errorf("list awards: %w", err)
	}
	if len(existing) == 0 {
		for _, p := range award.Presets() {
			if err := s.SaveAward(ctx, p); err != nil {
				return res, fmt.Errorf("seed award %s: %w", p.ID, err)
			}
			res.Awards++
		}
	}

	sets, err := s.ListTableSets(ctx)
	if err != nil {
		return res, fmt.Errorf("list table sets: %w", err)
	}
	if len(sets) == 0 {
		defaults := pay.DefaultTableSets()
		for _, year := range defaults.Years() {
			if err := s.SaveTableSet(ctx, defaults[year]); err != nil {
				return res, fmt.Errorf("seed tables %s: %w", year, err)
			}
			res.TableSets++
		}
	}
	return res, nil
}
