package stats

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fieldops/reporte/internal/orders"
)

func TestWeeklyEffectivenessCleanClose(t *testing.T) {
	r := testRange("2026-01-05", "2026-01-11")
	list := []orders.Order{
		mkOrder("C1", mkVisit("Cerrada", "Gómez", "2026-01-06", withCloseDate("2026-01-06", 12))),
	}
	rows := WeeklyEffectiveness(list, r)
	require.Len(t, rows, 1)
	require.Equal(t, 1, rows[0].TotalOrders)
	require.Equal(t, 0, rows[0].OrdersWithProblem)
	require.Equal(t, 1, rows[0].OK)
	require.Equal(t, 100.0, rows[0].Effectiveness)
}

func TestWeeklyEffectivenessProblemFlagFromAnyVisit(t *testing.T) {
	r := testRange("2026-01-05", "2026-01-11")
	list := []orders.Order{
		mkOrder("C1",
			mkVisit("Pendiente", "Gómez", "2026-01-05", withReportCode("FO-CORTE")),
			mkVisit("Cerrada", "Gómez", "2026-01-07", withCloseDate("2026-01-07", 12)),
		),
	}
	rows := WeeklyEffectiveness(list, r)
	require.Len(t, rows, 1)
	require.Equal(t, 1, rows[0].OrdersWithProblem)
	require.Equal(t, 0.0, rows[0].Effectiveness)
}

func TestWeeklyEffectivenessBounds(t *testing.T) {
	r := testRange("2026-01-05", "2026-01-11")
	list := []orders.Order{
		mkOrder("C1", mkVisit("Cerrada", "Gómez", "2026-01-06", withCloseDate("2026-01-06", 12))),
		mkOrder("C2", mkVisit("Cerrada", "Gómez", "2026-01-06", withCloseDate("2026-01-06", 13), withReportCode("FO-CORTE"))),
		mkOrder("C3", mkVisit("Cerrada", "Gómez", "2026-01-07", withCloseDate("2026-01-07", 9))),
	}
	rows := WeeklyEffectiveness(list, r)
	require.Len(t, rows, 1)
	row := rows[0]
	require.Equal(t, row.TotalOrders, row.OK+row.OrdersWithProblem)
	require.GreaterOrEqual(t, row.Effectiveness, 0.0)
	require.LessOrEqual(t, row.Effectiveness, 100.0)
	require.Equal(t, 66.67, row.Effectiveness)
}

func TestWeeklyEffectivenessUnclosedPairsExcluded(t *testing.T) {
	r := testRange("2026-01-05", "2026-01-11")
	list := []orders.Order{
		mkOrder("C1", mkVisit("Pendiente", "Gómez", "2026-01-06")),
		// lowercase literal does not close
		mkOrder("C2", mkVisit("cerrada", "Gómez", "2026-01-06", withCloseDate("2026-01-06", 12))),
	}
	require.Empty(t, WeeklyEffectiveness(list, r))
}

func TestWeeklyEffectivenessSeparateTechniciansOnSameOrder(t *testing.T) {
	r := testRange("2026-01-05", "2026-01-11")
	list := []orders.Order{
		mkOrder("C1",
			mkVisit("Pendiente", "Gómez", "2026-01-05", withReportCode("FO-CORTE")),
			mkVisit("Cerrada", "Pérez", "2026-01-07", withCloseDate("2026-01-07", 12)),
		),
	}
	rows := WeeklyEffectiveness(list, r)
	// Gómez never closed; only Pérez's clean pair survives.
	require.Len(t, rows, 1)
	require.Equal(t, "Pérez", rows[0].Technician)
	require.Equal(t, 100.0, rows[0].Effectiveness)
}

func TestWeeklyEffectivenessSortedDescending(t *testing.T) {
	r := testRange("2026-01-05", "2026-01-11")
	list := []orders.Order{
		mkOrder("C1", mkVisit("Cerrada", "Problemas", "2026-01-06", withCloseDate("2026-01-06", 12), withReportCode("FO-CORTE"))),
		mkOrder("C2", mkVisit("Cerrada", "Limpio", "2026-01-06", withCloseDate("2026-01-06", 12))),
	}
	rows := WeeklyEffectiveness(list, r)
	require.Equal(t, "Limpio", rows[0].Technician)
	require.Equal(t, "Problemas", rows[1].Technician)
}
