package stats

import (
	"sort"
	"strings"

	"github.com/fieldops/reporte/internal/orders"
)

// BucketRow is a labelled count used by the distribution aggregates.
type BucketRow struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// StatusSummary groups orders whose last visit's visitDate falls in the range
// by that visit's status string, verbatim; a blank status buckets under
// "Desconocido". Sorted by count descending.
func StatusSummary(list []orders.Order, r Range) []BucketRow {
	buckets := map[string]int{}
	for _, order := range list {
		last, ok := order.LastVisit()
		if !ok || !r.Contains(last.VisitDate) {
			continue
		}
		buckets[labelOrUnknown(last.Status)]++
	}
	return sortedBuckets(buckets)
}

// VisitTypes groups orders whose last visit's visitDate falls in the range by
// that visit's type; a blank type buckets under "Desconocido". Sorted by
// count descending.
func VisitTypes(list []orders.Order, r Range) []BucketRow {
	buckets := map[string]int{}
	for _, order := range list {
		last, ok := order.LastVisit()
		if !ok || !r.Contains(last.VisitDate) {
			continue
		}
		buckets[labelOrUnknown(last.Type)]++
	}
	return sortedBuckets(buckets)
}

func labelOrUnknown(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return LabelUnknown
	}
	return label
}

// ClosedByZone counts orders whose last visit is closed (case-insensitive)
// with a closeDate inside the range, grouped by zone. Every configured zone
// appears in its configured order even at zero; visits carrying an unknown or
// empty zone land in the "Sin zona" bucket, appended last when non-zero.
func ClosedByZone(list []orders.Order, r Range) []BucketRow {
	buckets := map[string]int{}
	for _, order := range list {
		last, ok := order.LastVisit()
		if !ok || !isClosedFold(last.Status) {
			continue
		}
		if !r.Contains(last.CloseDate) {
			continue
		}
		zone := strings.TrimSpace(last.Zona)
		if !orders.ValidZone(zone) {
			zone = orders.ZoneNone
		}
		buckets[zone]++
	}

	result := make([]BucketRow, 0, len(orders.Zones)+1)
	for _, zone := range orders.Zones {
		result = append(result, BucketRow{Label: zone, Count: buckets[zone]})
	}
	if n := buckets[orders.ZoneNone]; n > 0 {
		result = append(result, BucketRow{Label: orders.ZoneNone, Count: n})
	}
	return result
}

func sortedBuckets(buckets map[string]int) []BucketRow {
	result := make([]BucketRow, 0, len(buckets))
	for label, count := range buckets {
		result = append(result, BucketRow{Label: label, Count: count})
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Label < result[j].Label
	})
	return result
}
