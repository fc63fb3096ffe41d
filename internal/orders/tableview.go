package orders

import (
	"sort"
	"strings"
	"time"
)

// DefaultPageSize is the fixed table page size.
const DefaultPageSize = 10

// SortDirection orders the table by order creation time.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// TableFilter holds the independent predicates of the order table. All set
// predicates are ANDed; equality filters match against the last visit, date
// filters are day-exact (YYYY-MM-DD).
type TableFilter struct {
	Type         string
	Status       string
	Technician   string
	ClosedBy     string
	ReportCode   string
	ReportStatus string
	VisitDate    string
	CloseDate    string
	CreatedAt    string
	ClientSearch string
}

// IsZero reports whether no predicate is set.
func (f TableFilter) IsZero() bool {
	return f == TableFilter{}
}

// TablePage is one page of the filtered, sorted order table.
type TablePage struct {
	Orders     []Order `json:"orders"`
	Page       int     `json:"page"`
	TotalPages int     `json:"totalPages"`
	Total      int     `json:"total"`
}

// TableView filters, sorts and paginates a fetched order list in memory.
// It is a pure view over the slice it was built with; changing any filter
// resets to the first page.
type TableView struct {
	orders   []Order
	filter   TableFilter
	sortDir  SortDirection
	page     int
	pageSize int
}

// NewTableView builds a view over the given orders, newest first.
func NewTableView(list []Order) *TableView {
	return &TableView{
		orders:   list,
		sortDir:  SortDesc,
		page:     1,
		pageSize: DefaultPageSize,
	}
}

// SetFilter replaces the active filter and resets to page 1.
func (t *TableView) SetFilter(f TableFilter) {
	if t.filter != f {
		t.page = 1
	}
	t.filter = f
}

// ClearFilter drops every predicate and resets to page 1.
func (t *TableView) ClearFilter() {
	t.SetFilter(TableFilter{})
}

// SetSort switches the creation-time sort direction.
func (t *TableView) SetSort(dir SortDirection) {
	if dir == SortAsc || dir == SortDesc {
		t.sortDir = dir
	}
}

// SetPage moves to the requested page, clamped to the valid range.
func (t *TableView) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	t.page = page
}

// Page materialises the current page.
func (t *TableView) Page() TablePage {
	filtered := t.filtered()

	sort.SliceStable(filtered, func(i, j int) bool {
		if t.sortDir == SortAsc {
			return filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
		}
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	total := len(filtered)
	totalPages := (total + t.pageSize - 1) / t.pageSize
	page := t.page
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * t.pageSize
	end := start + t.pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return TablePage{
		Orders:     filtered[start:end],
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	}
}

func (t *TableView) filtered() []Order {
	result := make([]Order, 0, len(t.orders))
	for _, order := range t.orders {
		if t.matches(order) {
			result = append(result, order)
		}
	}
	return result
}

func (t *TableView) matches(order Order) bool {
	last, _ := order.LastVisit()
	f := t.filter

	if f.ClientSearch != "" &&
		!strings.Contains(strings.ToLower(order.ClientNumber), strings.ToLower(f.ClientSearch)) {
		return false
	}
	if f.Type != "" && last.Type != f.Type {
		return false
	}
	if f.Status != "" && last.Status != f.Status {
		return false
	}
	if f.Technician != "" && last.Technician != f.Technician {
		return false
	}
	if f.ClosedBy != "" && last.ClosedBy != f.ClosedBy {
		return false
	}
	if f.ReportCode != "" && last.ReportCode != f.ReportCode {
		return false
	}
	if f.ReportStatus != "" && last.ReportStatus != f.ReportStatus {
		return false
	}
	if f.VisitDate != "" && !sameDay(last.VisitDate, f.VisitDate) {
		return false
	}
	if f.CloseDate != "" && !sameDay(last.CloseDate, f.CloseDate) {
		return false
	}
	if f.CreatedAt != "" && order.CreatedAt.UTC().Format("2006-01-02") != f.CreatedAt {
		return false
	}
	return true
}

func sameDay(t *time.Time, day string) bool {
	return t != nil && t.UTC().Format("2006-01-02") == day
}
