package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fieldops/reporte/internal/orders"
)

func TestClosedByDayDensifiesWholeRange(t *testing.T) {
	r := testRange("2026-01-05", "2026-01-11")
	list := []orders.Order{
		mkOrder("C1", mkVisit("Cerrada", "T1", "2026-01-05", withCloseDate("2026-01-06", 9))),
		mkOrder("C2", mkVisit("Cerrada", "T2", "2026-01-05", withCloseDate("2026-01-06", 15))),
		mkOrder("C3", mkVisit("Cerrada", "T3", "2026-01-05", withCloseDate("2026-01-09", 9))),
	}

	rows := ClosedByDay(list, r, time.UTC)
	require.Len(t, rows, 7)
	require.Equal(t, "2026-01-05", rows[0].Date)
	require.Equal(t, "2026-01-11", rows[6].Date)

	byDay := map[string]int{}
	for i := 1; i < len(rows); i++ {
		require.Greater(t, rows[i].Date, rows[i-1].Date)
		byDay[rows[i].Date] = rows[i].Count
	}
	byDay[rows[0].Date] = rows[0].Count
	require.Equal(t, 2, byDay["2026-01-06"])
	require.Equal(t, 1, byDay["2026-01-09"])
	require.Equal(t, 0, byDay["2026-01-07"])
}

func TestClosedByDayUsesMostRecentClosedVisit(t *testing.T) {
	r := testRange("2026-01-05", "2026-01-11")
	list := []orders.Order{
		mkOrder("C1",
			mkVisit("Cerrada", "T1", "2026-01-05", withCloseDate("2026-01-05", 9)),
			mkVisit("Pendiente", "T1", "2026-01-06"),
			mkVisit("Cerrada", "T1", "2026-01-07", withCloseDate("2026-01-08", 9)),
		),
	}
	rows := ClosedByDay(list, r, time.UTC)
	byDay := map[string]int{}
	for _, row := range rows {
		byDay[row.Date] = row.Count
	}
	require.Equal(t, 0, byDay["2026-01-05"])
	require.Equal(t, 1, byDay["2026-01-08"])
}

func TestClosedByDayCaseSensitive(t *testing.T) {
	r := testRange("2026-01-05", "2026-01-11")
	list := []orders.Order{
		mkOrder("C1", mkVisit("cerrada", "T1", "2026-01-05", withCloseDate("2026-01-06", 9))),
	}
	rows := ClosedByDay(list, r, time.UTC)
	for _, row := range rows {
		require.Zero(t, row.Count)
	}
}

func TestClosedByDayEmptyInputStillDensified(t *testing.T) {
	r := testRange("2024-01-01", "2024-01-07")
	rows := ClosedByDay(nil, r, time.UTC)
	require.Len(t, rows, 7)
	for _, row := range rows {
		require.Zero(t, row.Count)
	}
}

func TestClosedByDaySeriesSumsToInRangeClosures(t *testing.T) {
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	require.NoError(t, err)
	r := testRange("2024-01-01", "2024-01-07")
	// 01:00 UTC on the range's first day is still the previous local day;
	// the series must cover that day rather than drop the closure.
	list := []orders.Order{
		mkOrder("C1", mkVisit("Cerrada", "T1", "2024-01-01", withCloseDate("2024-01-01", 1))),
	}
	require.True(t, r.Contains(ts("2024-01-01", 1)))

	rows := ClosedByDay(list, r, loc)
	total := 0
	for _, row := range rows {
		total += row.Count
	}
	require.Equal(t, 1, total)
	require.Equal(t, "2023-12-31", rows[0].Date)
	require.Equal(t, 1, rows[0].Count)
}

func TestClosedByDayBucketsInReportTimezone(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*3600)
	r := testRange("2026-01-05", "2026-01-11")
	// 01:00 UTC on the 7th is still the 6th in UTC-3.
	list := []orders.Order{
		mkOrder("C1", mkVisit("Cerrada", "T1", "2026-01-05", withCloseDate("2026-01-07", 1))),
	}
	rows := ClosedByDay(list, r, loc)
	byDay := map[string]int{}
	for _, row := range rows {
		byDay[row.Date] = row.Count
	}
	require.Equal(t, 1, byDay["2026-01-06"])
	require.Equal(t, 0, byDay["2026-01-07"])
}
