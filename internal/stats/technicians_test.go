package stats

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fieldops/reporte/internal/orders"
)

func TestTopTechniciansCountsLastVisitStatuses(t *testing.T) {
	r := testRange("2026-01-05", "2026-01-11")
	list := []orders.Order{
		mkOrder("C1", mkVisit("Cerrada", "Gómez", "2026-01-06")),
		mkOrder("C2", mkVisit("Pendiente", "Gómez", "2026-01-07")),
		mkOrder("C3", mkVisit("Cancelada", "Gómez", "2026-01-08")),
		mkOrder("C4", mkVisit("Cerrada", "Pérez", "2026-01-06")),
		// outside range
		mkOrder("C5", mkVisit("Cerrada", "Gómez", "2026-01-12")),
	}

	rows := TopTechnicians(list, r)
	require.Len(t, rows, 2)
	require.Equal(t, "Gómez", rows[0].Technician)
	require.Equal(t, 1, rows[0].Closed)
	require.Equal(t, 1, rows[0].Pending)
	require.Equal(t, 1, rows[0].Cancelled)
	require.Equal(t, 3, rows[0].Total())
	require.Equal(t, "Pérez", rows[1].Technician)
}

func TestTopTechniciansOnlyLastVisitCounts(t *testing.T) {
	r := testRange("2026-01-05", "2026-01-11")
	list := []orders.Order{
		mkOrder("C1",
			mkVisit("Pendiente", "Gómez", "2026-01-06"),
			mkVisit("Cerrada", "Gómez", "2026-01-07"),
		),
	}
	rows := TopTechnicians(list, r)
	require.Len(t, rows, 1)
	require.Equal(t, 1, rows[0].Closed)
	require.Equal(t, 0, rows[0].Pending)
}

func TestTopTechniciansCaseSensitiveStatus(t *testing.T) {
	r := testRange("2026-01-05", "2026-01-11")
	list := []orders.Order{
		mkOrder("C1", mkVisit("cerrada", "Gómez", "2026-01-06")),
	}
	rows := TopTechnicians(list, r)
	// The lowercase literal groups the technician but counts no bucket.
	require.Len(t, rows, 1)
	require.Equal(t, 0, rows[0].Closed)
	require.Equal(t, 0, rows[0].Total())
}

func TestTopTechniciansCapsAtTen(t *testing.T) {
	r := testRange("2026-01-05", "2026-01-11")
	var list []orders.Order
	for i := 0; i < 13; i++ {
		list = append(list, mkOrder("C", mkVisit("Cerrada", fmt.Sprintf("T%02d", i), "2026-01-06")))
	}
	rows := TopTechnicians(list, r)
	require.Len(t, rows, 10)
}

func TestTopTechniciansEmptyInput(t *testing.T) {
	rows := TopTechnicians(nil, testRange("2026-01-05", "2026-01-11"))
	require.NotNil(t, rows)
	require.Empty(t, rows)
}
