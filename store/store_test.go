package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/award-engine/award"
	"github.com/warp/award-engine/generic"
	"github.com/warp/award-engine/pay"
	"github.com/warp/award-engine/store"
)

func TestMemory_AwardCRUD(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	require.NoError(t, s.SaveAward(ctx, award.Manufacturing()))
	require.NoError(t, s.SaveAward(ctx, award.GeneralRetail()))

	got, err := s.GetAward(ctx, "manufacturing")
	require.NoError(t, err)
	assert.Equal(t, "Manufacturing Award", got.Name)

	list, err := s.ListAwards(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, award.ID("general-retail"), list[0].ID, "sorted by name")

	require.NoError(t, s.DeleteAward(ctx, "manufacturing"))
	_, err = s.GetAward(ctx, "manufacturing")
	assert.True(t, errors.Is(err, generic.ErrAwardNotFound))
	assert.True(t, errors.Is(s.DeleteAward(ctx, "manufacturing"), generic.ErrAwardNotFound))
}

func TestMemory_RejectsInvalidConfig(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	bad := award.Policy{ID: "bad", NightShiftStart: "nope"}
	assert.True(t, errors.Is(s.SaveAward(ctx, bad), generic.ErrInvalidConfig))

	assert.True(t, errors.Is(s.SaveTableSet(ctx, pay.TableSet{Year: "2025-2026"}), generic.ErrInvalidConfig))
}

func TestMemory_SaveCopiesCustomAllowances(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	p := award.Policy{ID: "a", CustomAllowances: []award.CustomAllowance{{Name: "tools", Amount: decimal.NewFromInt(5)}}}
	require.NoError(t, s.SaveAward(ctx, p))
	p.CustomAllowances[0].Amount = decimal.NewFromInt(99)

	got, err := s.GetAward(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "5", got.CustomAllowances[0].Amount.String())
}

func TestMemory_TableSets(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	_, err := s.GetTableSet(ctx, pay.DefaultYear)
	assert.True(t, errors.Is(err, generic.ErrTableNotFound))

	require.NoError(t, s.SaveTableSet(ctx, pay.DefaultTableSets()[pay.DefaultYear]))
	ts, err := s.GetTableSet(ctx, pay.DefaultYear)
	require.NoError(t, err)
	assert.Len(t, ts.Tax, 5)

	sets, err := s.ListTableSets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{pay.DefaultYear}, sets.Years())
}

// =============================================================================
// SEED
// =============================================================================

func TestSeed_EmptyStore(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	res, err := store.Seed(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, store.SeedResult{Awards: 3, TableSets: 1}, res)

	// Second run finds data and writes nothing
	res, err = store.Seed(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, store.SeedResult{}, res)
}

func TestSeed_KeepsExistingAwards(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	require.NoError(t, s.SaveAward(ctx, award.Policy{ID: "custom", Name: "Custom"}))

	res, err := store.Seed(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Awards)
	assert.Equal(t, 1, res.TableSets)

	list, err := s.ListAwards(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
