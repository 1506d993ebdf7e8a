package generic_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/award-engine/generic"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, time.March, 12, hour, minute, 0, 0, time.UTC)
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := generic.ParseTimeOfDay("06:30")
	require.NoError(t, err)
	assert.Equal(t, 6, tod.Hour())
	assert.Equal(t, 30, tod.Minute())
	assert.Equal(t, "06:30", tod.String())

	for _, bad := range []string{"", "6", "24:00", "12:60", "ab:cd", "12:5"} {
		_, err := generic.ParseTimeOfDay(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestWindowContains_HalfOpen(t *testing.T) {
	afternoon, err := generic.NewWindow("14:00", "22:00", generic.BoundaryHalfOpen)
	require.NoError(t, err)

	assert.True(t, afternoon.Contains(at(14, 0)), "start is inclusive")
	assert.True(t, afternoon.Contains(at(21, 59)))
	assert.False(t, afternoon.Contains(at(22, 0)), "end is exclusive")
	assert.False(t, afternoon.Contains(at(13, 59)))
}

func TestWindowContains_WrapsMidnight(t *testing.T) {
	night, err := generic.NewWindow("22:00", "06:00", generic.BoundaryHalfOpen)
	require.NoError(t, err)
	assert.True(t, night.Wraps())

	assert.True(t, night.Contains(at(22, 0)))
	assert.True(t, night.Contains(at(0, 0)))
	assert.True(t, night.Contains(at(5, 59)))
	assert.False(t, night.Contains(at(6, 0)))
	assert.False(t, night.Contains(at(12, 0)))
	assert.Equal(t, 8*time.Hour, night.Length())
}

func TestWindowContains_ClosedBoundary(t *testing.T) {
	night, err := generic.NewWindow("22:00", "06:00", generic.BoundaryClosed)
	require.NoError(t, err)
	assert.True(t, night.Contains(at(6, 0)))
	assert.False(t, night.Contains(at(6, 1)))
}

func TestNewWindow_RejectsMalformed(t *testing.T) {
	_, err := generic.NewWindow("22:00", "22:00", generic.BoundaryHalfOpen)
	assert.Error(t, err, "empty window")

	_, err = generic.NewWindow("10pm", "06:00", generic.BoundaryHalfOpen)
	assert.Error(t, err)

	_, err = generic.ParseBoundary("sideways")
	assert.Error(t, err)
}

func TestTimeOfDay_Occurrences(t *testing.T) {
	ten := generic.NewTimeOfDay(22, 0)
	six := generic.NewTimeOfDay(6, 0)

	start := ten.OnOrAfter(at(20, 0))
	assert.Equal(t, at(22, 0), start)

	// Same instant counts for OnOrAfter, not for After
	assert.Equal(t, at(22, 0), ten.OnOrAfter(at(22, 0)))
	assert.Equal(t, at(22, 0).AddDate(0, 0, 1), ten.After(at(22, 0)))

	end := six.After(start)
	assert.Equal(t, time.Date(2025, time.March, 13, 6, 0, 0, 0, time.UTC), end)
}

func TestHours(t *testing.T) {
	assert.Equal(t, "7.5", generic.Hours(7*time.Hour+30*time.Minute).String())
	assert.Equal(t, "0.25", generic.Hours(15*time.Minute).String())
	assert.Equal(t, 90*time.Minute, generic.Duration(d("1.5")))
}
