package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCurrentWeekMondayToSunday(t *testing.T) {
	// Thursday 2026-03-05 in UTC.
	now := time.Date(2026, 3, 5, 15, 30, 0, 0, time.UTC)
	r := CurrentWeek(now, time.UTC)

	require.Equal(t, time.Monday, r.From.Weekday())
	require.Equal(t, "2026-03-02", r.FromDay())
	require.Equal(t, "2026-03-08", r.ToDay())
	require.Equal(t, 0, r.From.Hour())
	require.Equal(t, 23, r.To.Hour())
}

func TestCurrentWeekOnMonday(t *testing.T) {
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	r := CurrentWeek(now, time.UTC)
	require.Equal(t, "2026-03-02", r.FromDay())
}

func TestCurrentWeekOnSunday(t *testing.T) {
	now := time.Date(2026, 3, 8, 22, 0, 0, 0, time.UTC)
	r := CurrentWeek(now, time.UTC)
	require.Equal(t, "2026-03-02", r.FromDay())
	require.Equal(t, "2026-03-08", r.ToDay())
}

func TestPreviousWeekShiftsBothEndpoints(t *testing.T) {
	now := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	r := CurrentWeek(now, time.UTC)
	prev := PreviousWeek(r)

	require.Equal(t, "2026-02-23", prev.FromDay())
	require.Equal(t, "2026-03-01", prev.ToDay())
	require.Equal(t, r.To.Sub(r.From), prev.To.Sub(prev.From))
}

func TestParseRangeExplicit(t *testing.T) {
	r, err := ParseRange("2026-01-05", "2026-01-11", time.Now(), time.UTC)
	require.NoError(t, err)
	require.Equal(t, "2026-01-05", r.FromDay())
	require.Equal(t, "2026-01-11", r.ToDay())

	inside := time.Date(2026, 1, 11, 23, 59, 59, 0, time.UTC)
	require.True(t, r.Contains(&inside))
	outside := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	require.False(t, r.Contains(&outside))
}

func TestParseRangeDefaultsToCurrentWeek(t *testing.T) {
	now := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	r, err := ParseRange("", "", now, time.UTC)
	require.NoError(t, err)
	require.Equal(t, CurrentWeek(now, time.UTC).FromDay(), r.FromDay())
}

func TestParseRangeRejectsInverted(t *testing.T) {
	_, err := ParseRange("2026-01-11", "2026-01-05", time.Now(), time.UTC)
	require.Error(t, err)
}

func TestParseRangeRejectsBadDate(t *testing.T) {
	_, err := ParseRange("05/01/2026", "2026-01-11", time.Now(), time.UTC)
	require.Error(t, err)
}

func TestRangeContainsNil(t *testing.T) {
	r, err := ParseRange("2026-01-05", "2026-01-11", time.Now(), time.UTC)
	require.NoError(t, err)
	require.False(t, r.Contains(nil))
}
