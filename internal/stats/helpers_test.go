package stats

import (
	"time"

	"github.com/google/uuid"

	"github.com/fieldops/reporte/internal/orders"
)

func ts(day string, hour int) *time.Time {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	t = t.Add(time.Duration(hour) * time.Hour)
	return &t
}

func testRange(from, to string) Range {
	r, err := ParseRange(from, to, time.Now(), time.UTC)
	if err != nil {
		panic(err)
	}
	return r
}

func mkOrder(client string, visits ...orders.Visit) orders.Order {
	return orders.Order{
		ID:           uuid.New(),
		ClientNumber: client,
		Visits:       visits,
		CreatedAt:    time.Now().UTC(),
	}
}

type visitOpt func(*orders.Visit)

func withCloseDate(day string, hour int) visitOpt {
	return func(v *orders.Visit) { v.CloseDate = ts(day, hour) }
}

func withClosedBy(agent string) visitOpt {
	return func(v *orders.Visit) { v.ClosedBy = agent }
}

func withZone(zone string) visitOpt {
	return func(v *orders.Visit) { v.Zona = zone }
}

func withType(typ string) visitOpt {
	return func(v *orders.Visit) { v.Type = typ }
}

func withReportCode(code string) visitOpt {
	return func(v *orders.Visit) { v.ReportCode = code }
}

func mkVisit(status, technician, day string, opts ...visitOpt) orders.Visit {
	v := orders.Visit{
		Status:      status,
		Technician:  technician,
		Observation: "ok",
		Zona:        orders.Zones[0],
		VisitDate:   ts(day, 10),
	}
	for _, opt := range opts {
		opt(&v)
	}
	return v
}
