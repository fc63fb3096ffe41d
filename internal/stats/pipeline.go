package stats

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fieldops/reporte/internal/orders"
)

// LabelUnknown buckets grouped rows whose key field is blank.
const LabelUnknown = "Desconocido"

// visitEvent is one unwound visit with its owning order, the flattened form
// the multi-visit aggregates operate on.
type visitEvent struct {
	OrderID      uuid.UUID
	ClientNumber string
	Visit        orders.Visit
}

// unwind flattens every order into its visit sequence, preserving append
// order within each order.
func unwind(list []orders.Order) []visitEvent {
	events := make([]visitEvent, 0, len(list))
	for _, order := range list {
		for _, visit := range order.Visits {
			events = append(events, visitEvent{
				OrderID:      order.ID,
				ClientNumber: order.ClientNumber,
				Visit:        visit,
			})
		}
	}
	return events
}

// isClosedExact matches the canonical closed literal case-sensitively.
func isClosedExact(status string) bool {
	return status == orders.StatusClosed
}

// isClosedFold matches "cerrada" case-insensitively. Some aggregates use
// this looser rule; the drift is deliberate.
func isClosedFold(status string) bool {
	return strings.EqualFold(status, orders.StatusClosed)
}

// dayString buckets a timestamp into its calendar day in loc.
func dayString(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// lastClosedExact returns an order's most recent visit whose status is
// exactly "Cerrada".
func lastClosedExact(order orders.Order) (orders.Visit, bool) {
	for i := len(order.Visits) - 1; i >= 0; i-- {
		if isClosedExact(order.Visits[i].Status) {
			return order.Visits[i], true
		}
	}
	return orders.Visit{}, false
}
