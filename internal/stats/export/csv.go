package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/fieldops/reporte/internal/stats"
)

// WriteTechniciansCSV serialises the technician leaderboard to CSV.
func WriteTechniciansCSV(w io.Writer, rows []stats.TechnicianRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Technician", "Closed", "Pending", "Cancelled", "Total"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write([]string{
			row.Technician,
			formatInt(row.Closed),
			formatInt(row.Pending),
			formatInt(row.Cancelled),
			formatInt(row.Total()),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteAgentsCSV serialises the agent-closure leaderboard to CSV.
func WriteAgentsCSV(w io.Writer, rows []stats.AgentRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Agent", "Closed Orders"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write([]string{row.Agent, formatInt(row.ClosedOrders)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteBucketsCSV prints a labelled distribution to CSV.
func WriteBucketsCSV(w io.Writer, title string, rows []stats.BucketRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{title, "Count"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write([]string{row.Label, formatInt(row.Count)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteDailyCSV emits the densified daily closure series as CSV.
func WriteDailyCSV(w io.Writer, rows []stats.DayCount) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Date", "Closed"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write([]string{row.Date, formatInt(row.Count)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteEffectivenessCSV emits the per-technician effectiveness rollup as CSV.
func WriteEffectivenessCSV(w io.Writer, rows []stats.EffectivenessRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Technician", "Total", "Problems", "OK", "Effectiveness %"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write([]string{
			row.Technician,
			formatInt(row.TotalOrders),
			formatInt(row.OrdersWithProblem),
			formatInt(row.OK),
			formatFloat(row.Effectiveness),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
