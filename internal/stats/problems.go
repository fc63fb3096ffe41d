package stats

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/fieldops/reporte/internal/orders"
)

// ProblemRow is one problem-reported visit inside a technician group.
type ProblemRow struct {
	Client      string     `json:"client"`
	Status      string     `json:"status"`
	Observation string     `json:"observation"`
	ReportCode  string     `json:"reportCode"`
	VisitDate   *time.Time `json:"visitDate,omitempty"`
	CloseDate   *time.Time `json:"closeDate,omitempty"`
}

// TechnicianProblems groups a technician's problem-reported visits.
type TechnicianProblems struct {
	Technician string       `json:"technician"`
	Orders     []ProblemRow `json:"orders"`
}

// ProblemsByTechnician lists every visit that carries a report code, grouped
// by the visiting technician. Visits without a technician or without a
// visitDate inside the range are skipped. Groups sort by technician name under
// Spanish collation; rows keep visitDate order within a group.
func ProblemsByTechnician(list []orders.Order, r Range) []TechnicianProblems {
	buckets := map[string][]ProblemRow{}
	for _, event := range unwind(list) {
		technician := strings.TrimSpace(event.Visit.Technician)
		if technician == "" || strings.TrimSpace(event.Visit.ReportCode) == "" {
			continue
		}
		if !r.Contains(event.Visit.VisitDate) {
			continue
		}
		buckets[technician] = append(buckets[technician], ProblemRow{
			Client:      event.ClientNumber,
			Status:      event.Visit.Status,
			Observation: event.Visit.Observation,
			ReportCode:  event.Visit.ReportCode,
			VisitDate:   event.Visit.VisitDate,
			CloseDate:   event.Visit.CloseDate,
		})
	}

	result := make([]TechnicianProblems, 0, len(buckets))
	for technician, rows := range buckets {
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].VisitDate == nil || rows[j].VisitDate == nil {
				return rows[j].VisitDate == nil && rows[i].VisitDate != nil
			}
			return rows[i].VisitDate.Before(*rows[j].VisitDate)
		})
		result = append(result, TechnicianProblems{Technician: technician, Orders: rows})
	}

	collator := collate.New(language.Spanish)
	sort.SliceStable(result, func(i, j int) bool {
		return collator.CompareString(result[i].Technician, result[j].Technician) < 0
	})
	return result
}
