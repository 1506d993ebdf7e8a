package store

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/warp/award-engine/award"
	"github.com/warp/award-engine/generic"
	"github.com/warp/award-engine/pay"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu     sync.RWMutex
	awards map[award.ID]award.Policy
	tables pay.TableSets
}

func NewMemory() *Memory {
	return &Memory{
		awards: make(map[award.ID]award.Policy),
		tables: make(pay.TableSets),
	}
}

func (m *Memory) SaveAward(_ context.Context, p award.Policy) error {
	if _, err := p.Rules(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p.CustomAllowances = slices.Clone(p.CustomAllowances)
	m.awards[p.ID] = p
	return nil
}

func (m *Memory) GetAward(_ context.Context, id award.ID) (award.Policy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.awards[id]
	if !ok {
		return award.Policy{}, fmt.Errorf("%w: %s", generic.ErrAwardNotFound, id)
	}
	return p, nil
}

func (m *Memory) ListAwards(_ context.Context) ([]award.Policy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]award.Policy, 0, len(m.awards))
	for _, p := range m.awards {
		out = append(out, p)
	}
	sortAwards(out)
	return out, nil
}

func (m *Memory) DeleteAward(_ context.Context, id award.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.awards[id]; !ok {
		return fmt.Errorf("%w: %s", generic.ErrAwardNotFound, id)
	}
	delete(m.awards, id)
	return nil
}

func (m *Memory) SaveTableSet(_ context.Context, ts pay.TableSet) error {
	if err := ts.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[ts.Year] = pay.TableSet{
		Year:      ts.Year,
		Tax:       slices.Clone(ts.Tax),
		Repayment: slices.Clone(ts.Repayment),
	}
	return nil
}

func (m *Memory) GetTableSet(_ context.Context, year string) (pay.TableSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tables.Lookup(year)
}

func (m *Memory) ListTableSets(_ context.Context) (pay.TableSets, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(pay.TableSets, len(m.tables))
	for year, ts := range m.tables {
		out[year] = ts
	}
	return out, nil
}

// sortAwards orders awards by name, then id.
func sortAwards(ps []award.Policy) {
	sort.SliceStable(ps, func(i, j int) bool {
		if c := strings.Compare(ps[i].Name, ps[j].Name); c != 0 {
			return c < 0
		}
		return ps[i].ID < ps[j].ID
	})
}
