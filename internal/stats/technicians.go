package stats

import (
	"sort"

	"github.com/fieldops/reporte/internal/orders"
)

// topLimit caps the technician and agent leaderboards.
const topLimit = 10

// TechnicianRow counts one technician's in-window orders by last-visit status.
type TechnicianRow struct {
	Technician string `json:"technician"`
	Closed     int    `json:"cerradas"`
	Pending    int    `json:"pendientes"`
	Cancelled  int    `json:"canceladas"`
}

// Total is the technician's overall visit volume in the window.
func (t TechnicianRow) Total() int {
	return t.Closed + t.Pending + t.Cancelled
}

// TopTechnicians buckets orders whose last visit's visitDate falls in the
// range by that visit's technician, counting the three known status literals
// case-sensitively. Sorted by closed count descending, capped at ten.
func TopTechnicians(list []orders.Order, r Range) []TechnicianRow {
	buckets := map[string]*TechnicianRow{}
	for _, order := range list {
		last, ok := order.LastVisit()
		if !ok || !r.Contains(last.VisitDate) {
			continue
		}
		row := buckets[last.Technician]
		if row == nil {
			row = &TechnicianRow{Technician: last.Technician}
			buckets[last.Technician] = row
		}
		switch last.Status {
		case orders.StatusClosed:
			row.Closed++
		case orders.StatusPending:
			row.Pending++
		case orders.StatusCancelled:
			row.Cancelled++
		}
	}

	result := make([]TechnicianRow, 0, len(buckets))
	for _, row := range buckets {
		result = append(result, *row)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Closed != result[j].Closed {
			return result[i].Closed > result[j].Closed
		}
		return result[i].Technician < result[j].Technician
	})
	if len(result) > topLimit {
		result = result[:topLimit]
	}
	return result
}
