// Package stats implements the reporting aggregates over the order history.
//
// Every aggregate is a pure function over (orders, range); the mongo-style
// declarative pipelines of the original system are expressed as explicit
// unwind/map/filter/group/sort stages. Per-aggregate quirks (case sensitivity
// of status matching, closeDate vs visitDate gating) are preserved on purpose:
// unifying them would change observable KPI values.
package stats

import (
	"fmt"
	"time"

	"github.com/fieldops/reporte/internal/platform/httpx"
)

// DefaultTimezone is the reporting timezone used for calendar-day bucketing.
const DefaultTimezone = "America/Argentina/Buenos_Aires"

// Range is an inclusive reporting window.
type Range struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls inside the window, inclusive on both
// ends. Nil timestamps never match.
func (r Range) Contains(t *time.Time) bool {
	if t == nil {
		return false
	}
	return !t.Before(r.From) && !t.After(r.To)
}

// FromDay and ToDay are the window endpoints as YYYY-MM-DD strings.
func (r Range) FromDay() string { return r.From.UTC().Format("2006-01-02") }
func (r Range) ToDay() string   { return r.To.UTC().Format("2006-01-02") }

// CurrentWeek returns the Monday–Sunday week containing now in the given
// location, from Monday 00:00:00.000 through Sunday 23:59:59.999. The
// Monday convention is held across every aggregate; mixing conventions
// causes off-by-one-week drift between "this week" and "previous week".
func CurrentWeek(now time.Time, loc *time.Location) Range {
	local := now.In(loc)
	offset := int(local.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset = 6 // Sunday rolls back to the previous Monday
	}
	monday := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -offset)
	end := monday.AddDate(0, 0, 7).Add(-time.Millisecond)
	return Range{From: monday, To: end}
}

// PreviousWeek shifts both endpoints of r back exactly seven days, so the
// previous window always lines up edge-to-edge with the current one.
func PreviousWeek(r Range) Range {
	return Range{
		From: r.From.AddDate(0, 0, -7),
		To:   r.To.AddDate(0, 0, -7),
	}
}

// ParseRange interprets from/to as UTC-midnight-anchored YYYY-MM-DD dates,
// inclusive of the whole to-day. When either is empty the current week in
// loc is used instead.
func ParseRange(from, to string, now time.Time, loc *time.Location) (Range, error) {
	if from == "" || to == "" {
		return CurrentWeek(now, loc), nil
	}
	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return Range{}, fmt.Errorf("%w: from inválido: %q", httpx.ErrValidation, from)
	}
	end, err := time.Parse("2006-01-02", to)
	if err != nil {
		return Range{}, fmt.Errorf("%w: to inválido: %q", httpx.ErrValidation, to)
	}
	if end.Before(start) {
		return Range{}, fmt.Errorf("%w: rango invertido", httpx.ErrValidation)
	}
	return Range{
		From: start,
		To:   end.Add(24*time.Hour - time.Millisecond),
	}, nil
}
