package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/fieldops/reporte/internal/orders"
)

// ResolutionRow is the legacy average-resolution metric for one technician.
type ResolutionRow struct {
	Technician string  `json:"technician"`
	AvgHours   float64 `json:"avgHours"`
	Orders     int     `json:"orders"`
}

// AvgResolutionByTechnician averages, per technician, the span between an
// order's first closed visit's visitDate and its last closed visit's
// closeDate. Only visits with status strictly "Cerrada" participate; the order
// attributes to the first closed visit's technician. Orders missing either
// date are skipped. This is the legacy unfiltered metric: no range parameter.
// Sorted by average ascending.
func AvgResolutionByTechnician(list []orders.Order) []ResolutionRow {
	type acc struct {
		total  time.Duration
		orders int
	}
	buckets := map[string]*acc{}
	for _, order := range list {
		var first, last *orders.Visit
		for i := range order.Visits {
			if !isClosedExact(order.Visits[i].Status) {
				continue
			}
			if first == nil {
				first = &order.Visits[i]
			}
			last = &order.Visits[i]
		}
		if first == nil || first.VisitDate == nil || last.CloseDate == nil {
			continue
		}
		technician := strings.TrimSpace(first.Technician)
		if technician == "" {
			continue
		}
		span := last.CloseDate.Sub(*first.VisitDate)
		if span < 0 {
			continue
		}
		bucket := buckets[technician]
		if bucket == nil {
			bucket = &acc{}
			buckets[technician] = bucket
		}
		bucket.total += span
		bucket.orders++
	}

	result := make([]ResolutionRow, 0, len(buckets))
	for technician, bucket := range buckets {
		result = append(result, ResolutionRow{
			Technician: technician,
			AvgHours:   round2(bucket.total.Hours() / float64(bucket.orders)),
			Orders:     bucket.orders,
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].AvgHours != result[j].AvgHours {
			return result[i].AvgHours < result[j].AvgHours
		}
		return result[i].Technician < result[j].Technician
	})
	return result
}
