package stats

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/fieldops/reporte/internal/orders"
)

// EffectivenessRow is the per-technician closure-quality rollup.
type EffectivenessRow struct {
	Technician        string  `json:"technician"`
	TotalOrders       int     `json:"totalOrders"`
	OrdersWithProblem int     `json:"ordersWithProblem"`
	OK                int     `json:"ok"`
	Effectiveness     float64 `json:"effectiveness"`
}

type closurePair struct {
	hadProblem bool
	closedAt   time.Time
}

// WeeklyEffectiveness scores each technician by the share of their closed
// orders that never raised a problem report. Visits group into (order,
// technician) pairs; a pair counts when at least one of its visits is strictly
// "Cerrada", dated by the latest effective date among those closed visits, and
// it counts as problematic when any of its visits carries a report code.
// Closed pairs inside the range bucket by ISO week and then roll up per
// technician across the window. Effectiveness is round2(100*ok/total), zero
// when the technician has no closed orders. Sorted by effectiveness
// descending.
func WeeklyEffectiveness(list []orders.Order, r Range) []EffectivenessRow {
	type pairKey struct {
		order      string
		technician string
	}
	pairs := map[pairKey]*closurePair{}
	for _, order := range list {
		for _, visit := range order.Visits {
			technician := strings.TrimSpace(visit.Technician)
			if technician == "" {
				continue
			}
			key := pairKey{order: order.ID.String(), technician: technician}
			pair := pairs[key]
			if pair == nil {
				pair = &closurePair{}
				pairs[key] = pair
			}
			if strings.TrimSpace(visit.ReportCode) != "" {
				pair.hadProblem = true
			}
			if !isClosedExact(visit.Status) {
				continue
			}
			if at := visit.EffectiveDate(); at != nil && at.After(pair.closedAt) {
				pair.closedAt = *at
			}
		}
	}

	type weekKey struct {
		year       int
		week       int
		technician string
	}
	weekly := map[weekKey]*EffectivenessRow{}
	for key, pair := range pairs {
		if pair.closedAt.IsZero() || !r.Contains(&pair.closedAt) {
			continue
		}
		year, week := pair.closedAt.UTC().ISOWeek()
		wk := weekKey{year: year, week: week, technician: key.technician}
		row := weekly[wk]
		if row == nil {
			row = &EffectivenessRow{Technician: key.technician}
			weekly[wk] = row
		}
		row.TotalOrders++
		if pair.hadProblem {
			row.OrdersWithProblem++
		}
	}

	rollup := map[string]*EffectivenessRow{}
	for _, row := range weekly {
		agg := rollup[row.Technician]
		if agg == nil {
			agg = &EffectivenessRow{Technician: row.Technician}
			rollup[row.Technician] = agg
		}
		agg.TotalOrders += row.TotalOrders
		agg.OrdersWithProblem += row.OrdersWithProblem
	}

	result := make([]EffectivenessRow, 0, len(rollup))
	for _, agg := range rollup {
		agg.OK = agg.TotalOrders - agg.OrdersWithProblem
		if agg.TotalOrders > 0 {
			agg.Effectiveness = round2(100 * float64(agg.OK) / float64(agg.TotalOrders))
		}
		result = append(result, *agg)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Effectiveness != result[j].Effectiveness {
			return result[i].Effectiveness > result[j].Effectiveness
		}
		return result[i].Technician < result[j].Technician
	})
	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
