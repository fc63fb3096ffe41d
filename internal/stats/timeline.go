package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/fieldops/reporte/internal/orders"
)

// DayStatusCount is one (day, status) cell of the transition timeline.
type DayStatusCount struct {
	Date   string `json:"date"`
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type datedStatus struct {
	at     time.Time
	status string
}

// StatusTimeline counts status transitions per (day, status). Each order's
// dated visits inside the range are ordered by effective date (closeDate when
// present, visitDate otherwise); consecutive visits sharing a status collapse
// into the first occurrence, so re-recording an unchanged status adds
// nothing, while a status that recurs after an intervening different status
// counts again. Out-of-range visits never participate. Rows sort by day then
// status ascending.
func StatusTimeline(list []orders.Order, r Range, loc *time.Location) []DayStatusCount {
	buckets := map[string]map[string]int{}
	for _, order := range list {
		var kept []datedStatus
		for _, visit := range order.Visits {
			status := strings.TrimSpace(visit.Status)
			if status == "" {
				continue
			}
			at := visit.EffectiveDate()
			if at == nil || !r.Contains(at) {
				continue
			}
			kept = append(kept, datedStatus{at: *at, status: status})
		}
		sort.SliceStable(kept, func(i, j int) bool {
			return kept[i].at.Before(kept[j].at)
		})

		prev := ""
		for _, v := range kept {
			if v.status == prev {
				continue
			}
			prev = v.status

			day := dayString(v.at, loc)
			if buckets[day] == nil {
				buckets[day] = map[string]int{}
			}
			buckets[day][v.status]++
		}
	}

	result := make([]DayStatusCount, 0, len(buckets))
	for day, statuses := range buckets {
		for status, count := range statuses {
			result = append(result, DayStatusCount{Date: day, Status: status, Count: count})
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		return result[i].Status < result[j].Status
	})
	return result
}
