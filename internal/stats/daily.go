package stats

import (
	"time"

	"github.com/fieldops/reporte/internal/orders"
)

// DayCount is one calendar-day bucket of a densified daily series.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// ClosedByDay buckets closures per calendar day in the report timezone. For
// each order the most recent strictly-"Cerrada" visit counts, gated on its
// closeDate. The result holds one row per day of the range, ascending and
// zero-filled, so chart consumers never interpolate over gaps.
func ClosedByDay(list []orders.Order, r Range, loc *time.Location) []DayCount {
	buckets := map[string]int{}
	for _, order := range list {
		closed, ok := lastClosedExact(order)
		if !ok || closed.CloseDate == nil {
			continue
		}
		if !r.Contains(closed.CloseDate) {
			continue
		}
		buckets[dayString(*closed.CloseDate, loc)]++
	}
	return densify(r, loc, buckets)
}

// densify expands the bucket map into one row per day between the range's
// endpoints, on the same local calendar the buckets were keyed with. A range
// whose UTC endpoints fall on an earlier or later local day still covers that
// day, so every bucketed closure lands on a row and the series sums to the
// in-range closure count.
func densify(r Range, loc *time.Location, buckets map[string]int) []DayCount {
	if loc == nil {
		loc = time.UTC
	}
	start, err := time.Parse("2006-01-02", dayString(r.From, loc))
	if err != nil {
		return []DayCount{}
	}
	end, err := time.Parse("2006-01-02", dayString(r.To, loc))
	if err != nil || end.Before(start) {
		return []DayCount{}
	}

	days := int(end.Sub(start)/(24*time.Hour)) + 1
	result := make([]DayCount, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day := d.Format("2006-01-02")
		result = append(result, DayCount{Date: day, Count: buckets[day]})
	}
	return result
}
