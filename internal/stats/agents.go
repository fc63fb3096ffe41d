package stats

import (
	"sort"
	"strings"

	"github.com/fieldops/reporte/internal/orders"
)

// AgentRow counts closed orders attributed to the agent who closed them.
type AgentRow struct {
	Agent        string `json:"agent"`
	ClosedOrders int    `json:"closedOrders"`
}

// TopAgents counts orders whose last visit is closed (case-insensitive) with a
// closeDate inside the range, grouped by the closedBy field. Orders closed by
// a blank agent name bucket under "Desconocido". Sorted by count descending,
// capped at ten.
func TopAgents(list []orders.Order, r Range) []AgentRow {
	buckets := map[string]int{}
	for _, order := range list {
		last, ok := order.LastVisit()
		if !ok || !isClosedFold(last.Status) {
			continue
		}
		if !r.Contains(last.CloseDate) {
			continue
		}
		agent := strings.TrimSpace(last.ClosedBy)
		if agent == "" {
			agent = LabelUnknown
		}
		buckets[agent]++
	}

	result := make([]AgentRow, 0, len(buckets))
	for agent, count := range buckets {
		result = append(result, AgentRow{Agent: agent, ClosedOrders: count})
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].ClosedOrders != result[j].ClosedOrders {
			return result[i].ClosedOrders > result[j].ClosedOrders
		}
		return result[i].Agent < result[j].Agent
	})
	if len(result) > topLimit {
		result = result[:topLimit]
	}
	return result
}
