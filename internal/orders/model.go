package orders

import (
	"time"

	"github.com/google/uuid"
)

// Visit status literals as stored. Aggregations match these either exactly or
// case-insensitively depending on the statistic; see the stats package.
const (
	StatusClosed    = "Cerrada"
	StatusPending   = "Pendiente"
	StatusCancelled = "Cancelada"
)

// ZoneNone labels closed orders whose visit carries no zone.
const ZoneNone = "Sin zona"

// Visit is one entry of an order's append-only visit log. Entries are pushed,
// never edited or removed.
type Visit struct {
	Status       string     `json:"status"`
	Type         string     `json:"type"`
	Technician   string     `json:"technician"`
	ClosedBy     string     `json:"closedBy"`
	Observation  string     `json:"observation"`
	Zona         string     `json:"zona"`
	ReportCode   string     `json:"reportCode,omitempty"`
	ReportStatus string     `json:"reportStatus,omitempty"`
	VisitDate    *time.Time `json:"visitDate,omitempty"`
	CloseDate    *time.Time `json:"closeDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// EffectiveDate returns the close date when present, falling back to the
// visit date. Nil when the visit carries neither.
func (v Visit) EffectiveDate() *time.Time {
	if v.CloseDate != nil {
		return v.CloseDate
	}
	return v.VisitDate
}

// HasReport reports whether the visit carries a problem report code.
func (v Visit) HasReport() bool {
	return v.ReportCode != ""
}

// Order is a field-service order: one client issue with its full visit history.
type Order struct {
	ID               uuid.UUID `json:"id"`
	ClientNumber     string    `json:"clientNumber"`
	ReportedToUfinet bool      `json:"reportedToUfinet"`
	Visits           []Visit   `json:"visits"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// LastVisit returns the most recent visit, the order's authoritative current
// state. Orders always hold at least one visit; the ok result guards the
// zero value.
func (o Order) LastVisit() (Visit, bool) {
	if len(o.Visits) == 0 {
		return Visit{}, false
	}
	return o.Visits[len(o.Visits)-1], true
}
