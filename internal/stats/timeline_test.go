package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fieldops/reporte/internal/orders"
)

func TestStatusTimelineCollapsesConsecutiveDuplicates(t *testing.T) {
	r := testRange("2026-01-05", "2026-01-11")
	list := []orders.Order{
		mkOrder("C1",
			mkVisit("Pendiente", "T1", "2026-01-05"),
			mkVisit("Pendiente", "T1", "2026-01-06"),
			mkVisit("Cerrada", "T1", "2026-01-07"),
		),
	}
	rows := StatusTimeline(list, r, time.UTC)
	require.Equal(t, []DayStatusCount{
		{Date: "2026-01-05", Status: "Pendiente", Count: 1},
		{Date: "2026-01-07", Status: "Cerrada", Count: 1},
	}, rows)
}

func TestStatusTimelineRecurringStatusCountsAgain(t *testing.T) {
	r := testRange("2026-01-05", "2026-01-11")
	list := []orders.Order{
		mkOrder("C1",
			mkVisit("Pendiente", "T1", "2026-01-05"),
			mkVisit("Cerrada", "T1", "2026-01-06"),
			mkVisit("Pendiente", "T1", "2026-01-08"),
		),
	}
	rows := StatusTimeline(list, r, time.UTC)
	require.Len(t, rows, 3)
}

func TestStatusTimelineIdempotentOnAppendedDuplicate(t *testing.T) {
	r := testRange("2026-01-05", "2026-01-11")
	base := mkOrder("C1",
		mkVisit("Pendiente", "T1", "2026-01-05"),
		mkVisit("Cerrada", "T1", "2026-01-07"),
	)
	before := StatusTimeline([]orders.Order{base}, r, time.UTC)

	// Re-recording the unchanged status is a fixed point.
	appended := base
	appended.Visits = append(append([]orders.Visit{}, base.Visits...), mkVisit("Cerrada", "T1", "2026-01-08"))
	after := StatusTimeline([]orders.Order{appended}, r, time.UTC)

	require.Equal(t, before, after)
}

func TestStatusTimelineIgnoresOutOfRangeVisits(t *testing.T) {
	r := testRange("2024-01-01", "2024-01-07")
	// An out-of-range visit must not suppress a later in-range visit of the
	// same status; the in-range visit opens the filtered sequence.
	list := []orders.Order{
		mkOrder("C1",
			mkVisit("Pendiente", "T1", "2023-12-20"),
			mkVisit("Pendiente", "T1", "2024-01-03"),
		),
	}
	rows := StatusTimeline(list, r, time.UTC)
	require.Equal(t, []DayStatusCount{
		{Date: "2024-01-03", Status: "Pendiente", Count: 1},
	}, rows)
}

func TestStatusTimelineOrdersByEffectiveDate(t *testing.T) {
	r := testRange("2026-01-05", "2026-01-11")
	// Visits recorded out of chronological order dedup on their effective
	// dates, not on append order.
	list := []orders.Order{
		mkOrder("C1",
			mkVisit("Pendiente", "T1", "2026-01-08"),
			mkVisit("Cerrada", "T1", "2026-01-09"),
			mkVisit("Pendiente", "T1", "2026-01-06"),
		),
	}
	rows := StatusTimeline(list, r, time.UTC)
	require.Equal(t, []DayStatusCount{
		{Date: "2026-01-06", Status: "Pendiente", Count: 1},
		{Date: "2026-01-09", Status: "Cerrada", Count: 1},
	}, rows)
}

func TestStatusTimelinePrefersCloseDate(t *testing.T) {
	r := testRange("2026-01-05", "2026-01-11")
	list := []orders.Order{
		mkOrder("C1", mkVisit("Cerrada", "T1", "2026-01-05", withCloseDate("2026-01-09", 9))),
	}
	rows := StatusTimeline(list, r, time.UTC)
	require.Equal(t, "2026-01-09", rows[0].Date)
}

func TestStatusTimelineSortedByDayThenStatus(t *testing.T) {
	r := testRange("2026-01-05", "2026-01-11")
	list := []orders.Order{
		mkOrder("C1", mkVisit("Pendiente", "T1", "2026-01-08")),
		mkOrder("C2", mkVisit("Cancelada", "T2", "2026-01-08")),
		mkOrder("C3", mkVisit("Cerrada", "T3", "2026-01-06")),
	}
	rows := StatusTimeline(list, r, time.UTC)
	require.Equal(t, "2026-01-06", rows[0].Date)
	require.Equal(t, "Cancelada", rows[1].Status)
	require.Equal(t, "Pendiente", rows[2].Status)
}
