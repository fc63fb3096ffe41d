package orders

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func tableOrder(client string, createdAt time.Time, last Visit) Order {
	return Order{
		ID:           uuid.New(),
		ClientNumber: client,
		Visits:       []Visit{last},
		CreatedAt:    createdAt,
	}
}

func tableFixture() []Order {
	base := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	visitDay := time.Date(2026, 1, 6, 10, 0, 0, 0, time.UTC)
	closeDay := time.Date(2026, 1, 7, 16, 0, 0, 0, time.UTC)
	return []Order{
		tableOrder("CL-1001", base, Visit{
			Status: StatusClosed, Type: "Service", Technician: "Gómez",
			ClosedBy: "Ana", VisitDate: &visitDay, CloseDate: &closeDay,
		}),
		tableOrder("CL-1002", base.Add(time.Hour), Visit{
			Status: StatusPending, Type: "Instalación", Technician: "Pérez",
			VisitDate: &visitDay,
		}),
		tableOrder("CL-2001", base.Add(2*time.Hour), Visit{
			Status: StatusClosed, Type: "Service", Technician: "Pérez",
			ClosedBy: "Luis", VisitDate: &visitDay, CloseDate: &closeDay,
		}),
	}
}

func TestTableViewFiltersAreANDed(t *testing.T) {
	view := NewTableView(tableFixture())
	view.SetFilter(TableFilter{Status: StatusClosed, Technician: "Pérez"})
	page := view.Page()
	require.Equal(t, 1, page.Total)
	require.Equal(t, "CL-2001", page.Orders[0].ClientNumber)
}

func TestTableViewClientSearchIsSubstringAndCaseInsensitive(t *testing.T) {
	view := NewTableView(tableFixture())
	view.SetFilter(TableFilter{ClientSearch: "cl-10"})
	require.Equal(t, 2, view.Page().Total)
}

func TestTableViewDayExactDates(t *testing.T) {
	view := NewTableView(tableFixture())

	view.SetFilter(TableFilter{VisitDate: "2026-01-06"})
	require.Equal(t, 3, view.Page().Total)

	view.SetFilter(TableFilter{CloseDate: "2026-01-07"})
	require.Equal(t, 2, view.Page().Total)

	view.SetFilter(TableFilter{CloseDate: "2026-01-06"})
	require.Equal(t, 0, view.Page().Total)
}

func TestTableViewFilterChangeResetsPage(t *testing.T) {
	var list []Order
	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	day := time.Date(2026, 1, 6, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		list = append(list, tableOrder(fmt.Sprintf("CL-%03d", i), base.Add(time.Duration(i)*time.Minute), Visit{
			Status: StatusPending, Technician: "Gómez", VisitDate: &day,
		}))
	}
	view := NewTableView(list)
	view.SetPage(3)
	require.Equal(t, 3, view.Page().Page)

	view.SetFilter(TableFilter{Technician: "Gómez"})
	require.Equal(t, 1, view.Page().Page)

	// setting the identical filter again keeps the page
	view.SetPage(2)
	view.SetFilter(TableFilter{Technician: "Gómez"})
	require.Equal(t, 2, view.Page().Page)
}

func TestTableViewPaginationFixedPageSize(t *testing.T) {
	var list []Order
	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 23; i++ {
		list = append(list, tableOrder(fmt.Sprintf("CL-%03d", i), base.Add(time.Duration(i)*time.Minute), Visit{Status: StatusPending}))
	}
	view := NewTableView(list)
	page := view.Page()
	require.Equal(t, 23, page.Total)
	require.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Orders, DefaultPageSize)

	view.SetPage(3)
	require.Len(t, view.Page().Orders, 3)

	// page beyond the end clamps to the last page
	view.SetPage(99)
	require.Equal(t, 3, view.Page().Page)
}

func TestTableViewSortByCreatedAt(t *testing.T) {
	view := NewTableView(tableFixture())
	page := view.Page()
	require.Equal(t, "CL-2001", page.Orders[0].ClientNumber, "default newest first")

	view.SetSort(SortAsc)
	page = view.Page()
	require.Equal(t, "CL-1001", page.Orders[0].ClientNumber)
}

func TestTableViewClearFilter(t *testing.T) {
	view := NewTableView(tableFixture())
	view.SetFilter(TableFilter{Status: StatusClosed})
	require.Equal(t, 2, view.Page().Total)
	view.ClearFilter()
	require.Equal(t, 3, view.Page().Total)
}
