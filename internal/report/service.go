package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fieldops/reporte/internal/orders"
	"github.com/fieldops/reporte/internal/stats"
	"github.com/fieldops/reporte/internal/stats/svg"
)

// StatsProvider is the aggregate surface the report reads from.
type StatsProvider interface {
	Location() *time.Location
	Orders(ctx context.Context) ([]orders.Order, error)
	TopTechnicians(ctx context.Context, r stats.Range) ([]stats.TechnicianRow, error)
	TopAgents(ctx context.Context, r stats.Range) ([]stats.AgentRow, error)
	StatusSummary(ctx context.Context, r stats.Range) ([]stats.BucketRow, error)
	VisitTypes(ctx context.Context, r stats.Range) ([]stats.BucketRow, error)
	ClosedByZone(ctx context.Context, r stats.Range) ([]stats.BucketRow, error)
	ClosedByDay(ctx context.Context, r stats.Range) ([]stats.DayCount, error)
	StatusTimeline(ctx context.Context, r stats.Range) ([]stats.DayStatusCount, error)
	WeeklyEffectiveness(ctx context.Context, r stats.Range) ([]stats.EffectivenessRow, error)
	ProblemsByTechnician(ctx context.Context, r stats.Range) ([]stats.TechnicianProblems, error)
}

// ChartRasterizer turns SVG markup into PNG bytes.
type ChartRasterizer interface {
	RenderPNG(ctx context.Context, svgMarkup string, width, height int) ([]byte, error)
}

// Service assembles the weekly dashboard PDF.
type Service struct {
	stats  StatsProvider
	raster ChartRasterizer
	logger *slog.Logger
}

// NewService wires the aggregate provider with the rasterizer.
func NewService(stats StatsProvider, raster ChartRasterizer, logger *slog.Logger) *Service {
	return &Service{stats: stats, raster: raster, logger: logger}
}

// reportData carries every section input. Sections that failed to load stay
// empty; the report renders around them.
type reportData struct {
	technicians     []stats.TechnicianRow
	agents          []stats.AgentRow
	statuses        []stats.BucketRow
	types           []stats.BucketRow
	zones           []stats.BucketRow
	daily           []stats.DayCount
	timeline        []stats.DayStatusCount
	effectiveness   []stats.EffectivenessRow
	problems        []stats.TechnicianProblems
	orders          []orders.Order
	prevTechnicians []stats.TechnicianRow
	prevAgents      []stats.AgentRow
}

// fetch loads every section concurrently. A failed section logs and degrades
// to its zero value; errors never cross the barrier.
func (s *Service) fetch(ctx context.Context, rng stats.Range) reportData {
	prev := stats.PreviousWeek(rng)
	var data reportData

	g, gctx := errgroup.WithContext(ctx)
	section := func(name string, load func(ctx context.Context) error) {
		g.Go(func() error {
			if err := load(gctx); err != nil {
				s.logWarn(name, err)
			}
			return nil
		})
	}

	section("technicians", func(ctx context.Context) (err error) {
		data.technicians, err = s.stats.TopTechnicians(ctx, rng)
		return err
	})
	section("agents", func(ctx context.Context) (err error) {
		data.agents, err = s.stats.TopAgents(ctx, rng)
		return err
	})
	section("statuses", func(ctx context.Context) (err error) {
		data.statuses, err = s.stats.StatusSummary(ctx, rng)
		return err
	})
	section("types", func(ctx context.Context) (err error) {
		data.types, err = s.stats.VisitTypes(ctx, rng)
		return err
	})
	section("zones", func(ctx context.Context) (err error) {
		data.zones, err = s.stats.ClosedByZone(ctx, rng)
		return err
	})
	section("daily", func(ctx context.Context) (err error) {
		data.daily, err = s.stats.ClosedByDay(ctx, rng)
		return err
	})
	section("timeline", func(ctx context.Context) (err error) {
		data.timeline, err = s.stats.StatusTimeline(ctx, rng)
		return err
	})
	section("effectiveness", func(ctx context.Context) (err error) {
		data.effectiveness, err = s.stats.WeeklyEffectiveness(ctx, rng)
		return err
	})
	section("problems", func(ctx context.Context) (err error) {
		data.problems, err = s.stats.ProblemsByTechnician(ctx, rng)
		return err
	})
	section("orders", func(ctx context.Context) (err error) {
		data.orders, err = s.stats.Orders(ctx)
		return err
	})
	section("previous technicians", func(ctx context.Context) (err error) {
		data.prevTechnicians, err = s.stats.TopTechnicians(ctx, prev)
		return err
	})
	section("previous agents", func(ctx context.Context) (err error) {
		data.prevAgents, err = s.stats.TopAgents(ctx, prev)
		return err
	})

	_ = g.Wait()
	return data
}

// Filename is the attachment name for a given range.
func Filename(rng stats.Range) string {
	return fmt.Sprintf("dashboard_%s_to_%s.pdf", rng.FromDay(), rng.ToDay())
}

// Build renders the full weekly report. Only document construction can fail;
// missing sections and charts degrade in place.
func (s *Service) Build(ctx context.Context, rng stats.Range) ([]byte, error) {
	data := s.fetch(ctx, rng)
	b := NewBuilder()

	b.Title("Reporte semanal de órdenes")
	b.Subtitle(fmt.Sprintf("Semana del %s al %s", rng.FromDay(), rng.ToDay()))
	b.Spacer(2)

	s.technicianSection(ctx, b, rng, data)
	b.Divider()
	s.agentSection(ctx, b, rng, data)
	b.Divider()
	s.distributionSection(ctx, b, data)
	b.Divider()
	s.dailySection(ctx, b, data)
	b.Divider()
	s.effectivenessSection(ctx, b, data)
	b.Divider()
	s.summarySection(b, data)

	return b.Output()
}

func (s *Service) technicianSection(ctx context.Context, b *Builder, rng stats.Range, data reportData) {
	b.SectionTitle("Órdenes por técnico")
	if len(data.technicians) == 0 {
		b.Line("Sin datos para el período.")
		return
	}

	labels := make([]string, len(data.technicians))
	closed := make([]float64, len(data.technicians))
	pending := make([]float64, len(data.technicians))
	cancelled := make([]float64, len(data.technicians))
	for i, row := range data.technicians {
		labels[i] = row.Technician
		closed[i] = float64(row.Closed)
		pending[i] = float64(row.Pending)
		cancelled[i] = float64(row.Cancelled)
	}
	markup, err := svg.StackedBars(0, 0, [][]float64{closed, pending, cancelled}, labels, svg.BarOpts{
		Title:        "Órdenes por técnico",
		SeriesLabels: []string{"Cerradas", "Pendientes", "Canceladas"},
		Colors:       []string{"#22c55e", "#eab308", "#ef4444"},
	})
	s.placeChart(ctx, b, "technicians chart", markup, err)

	for _, row := range data.technicians {
		b.Line(fmt.Sprintf("%s: %d cerradas, %d pendientes, %d canceladas (total %d)",
			row.Technician, row.Closed, row.Pending, row.Cancelled, row.Total()))
	}
	b.Spacer(2)

	for _, row := range data.technicians {
		visits := technicianVisits(data.orders, row.Technician, rng)
		if len(visits) == 0 {
			continue
		}
		b.Line(fmt.Sprintf("Visitas de %s", row.Technician))
		table := Table{
			Headers: []string{"Cliente", "Tipo", "Estado", "Zona", "Observación", "Fecha"},
			Widths:  []float64{0.14, 0.14, 0.13, 0.15, 0.32, 0.12},
		}
		for _, v := range visits {
			table.Rows = append(table.Rows, []string{
				v.client, v.visit.Type, v.visit.Status, v.visit.Zona,
				v.visit.Observation, displayDate(v.visit.VisitDate),
			})
		}
		b.DrawTable(table)
	}
}

func (s *Service) agentSection(ctx context.Context, b *Builder, rng stats.Range, data reportData) {
	b.SectionTitle("Cierres por agente")
	if len(data.agents) == 0 {
		b.Line("Sin cierres en el período.")
		return
	}

	labels := make([]string, len(data.agents))
	values := make([]float64, len(data.agents))
	for i, row := range data.agents {
		labels[i] = row.Agent
		values[i] = float64(row.ClosedOrders)
	}
	markup, err := svg.HorizontalBars(0, 0, values, labels, svg.BarOpts{
		Title:        "Cierres por agente",
		SeriesLabels: []string{"Órdenes cerradas"},
		Colors:       []string{"#0ea5e9"},
	})
	s.placeChart(ctx, b, "agents chart", markup, err)

	for _, row := range data.agents {
		closures := agentClosures(data.orders, row.Agent, rng)
		b.Line(fmt.Sprintf("%s: %d órdenes cerradas", row.Agent, row.ClosedOrders))
		if len(closures) == 0 {
			continue
		}
		table := Table{
			Headers: []string{"Cliente", "Zona", "Observación", "Cierre"},
			Widths:  []float64{0.16, 0.18, 0.50, 0.16},
		}
		for _, v := range closures {
			table.Rows = append(table.Rows, []string{
				v.client, v.visit.Zona, v.visit.Observation, displayDate(v.visit.CloseDate),
			})
		}
		b.DrawTable(table)
	}
}

func (s *Service) distributionSection(ctx context.Context, b *Builder, data reportData) {
	b.SectionTitle("Distribución de órdenes")

	s.bucketBlock(ctx, b, "Por estado", "status chart", data.statuses, "#a855f7")
	s.bucketBlock(ctx, b, "Cerradas por zona", "zone chart", data.zones, "#0ea5e9")
	s.bucketBlock(ctx, b, "Por tipo de visita", "type chart", data.types, "#f97316")
}

// bucketBlock draws one horizontal-bar distribution and then the full
// enumeration, zero-count rows included, with a grand total.
func (s *Service) bucketBlock(ctx context.Context, b *Builder, title, op string, buckets []stats.BucketRow, color string) {
	b.Line(title)
	if len(buckets) == 0 {
		b.Line("  Sin datos.")
		b.Spacer(2)
		return
	}
	labels := make([]string, len(buckets))
	values := make([]float64, len(buckets))
	for i, row := range buckets {
		labels[i] = row.Label
		values[i] = float64(row.Count)
	}
	markup, err := svg.HorizontalBars(0, 0, values, labels, svg.BarOpts{
		Title:  title,
		Colors: []string{color},
	})
	s.placeChart(ctx, b, op, markup, err)

	total := 0
	for _, row := range buckets {
		b.Line(fmt.Sprintf("  %s: %d", row.Label, row.Count))
		total += row.Count
	}
	b.Line(fmt.Sprintf("  Total: %d", total))
	b.Spacer(2)
}

func (s *Service) dailySection(ctx context.Context, b *Builder, data reportData) {
	b.SectionTitle("Cierres por día")
	if len(data.daily) == 0 {
		b.Line("Sin datos para el período.")
		return
	}
	labels := make([]string, len(data.daily))
	values := make([]float64, len(data.daily))
	total := 0
	for i, row := range data.daily {
		labels[i] = displayDay(row.Date)
		values[i] = float64(row.Count)
		total += row.Count
	}
	markup, err := svg.Line(0, 0, values, labels, svg.LineOpts{
		Title:    "Cierres por día",
		ShowDots: true,
	})
	s.placeChart(ctx, b, "daily chart", markup, err)
	b.Line(fmt.Sprintf("Total de cierres en el período: %d", total))
}

func (s *Service) effectivenessSection(ctx context.Context, b *Builder, data reportData) {
	b.SectionTitle("Efectividad por técnico")
	if len(data.effectiveness) == 0 {
		b.Line("Sin cierres en el período.")
		return
	}

	labels := make([]string, len(data.effectiveness))
	totals := make([]float64, len(data.effectiveness))
	problems := make([]float64, len(data.effectiveness))
	for i, row := range data.effectiveness {
		labels[i] = row.Technician
		totals[i] = float64(row.TotalOrders)
		problems[i] = float64(row.OrdersWithProblem)
	}
	markup, err := svg.GroupedBars(0, 0, [][]float64{totals, problems}, labels, svg.BarOpts{
		Title:        "Efectividad por técnico",
		SeriesLabels: []string{"Cerradas", "Con problema"},
		Colors:       []string{"#22c55e", "#ef4444"},
	})
	s.placeChart(ctx, b, "effectiveness chart", markup, err)

	for _, row := range data.effectiveness {
		b.Line(fmt.Sprintf("%s: %.2f%% de efectividad (%d cerradas, %d con problema)",
			row.Technician, row.Effectiveness, row.TotalOrders, row.OrdersWithProblem))
	}
	b.Spacer(2)

	for _, group := range data.problems {
		b.Line(fmt.Sprintf("Órdenes con problema de %s", group.Technician))
		table := Table{
			Headers: []string{"Cliente", "Estado", "Código", "Observación", "Visita", "Cierre"},
			Widths:  []float64{0.13, 0.12, 0.13, 0.38, 0.12, 0.12},
		}
		for _, row := range group.Orders {
			table.Rows = append(table.Rows, []string{
				row.Client, row.Status, row.ReportCode, row.Observation,
				displayDate(row.VisitDate), displayDate(row.CloseDate),
			})
		}
		b.DrawTable(table)
	}
}

// summarySection always closes the document with week-over-week deltas.
func (s *Service) summarySection(b *Builder, data reportData) {
	b.SectionTitle("Resumen ejecutivo")

	currentVisits := 0
	for _, row := range data.technicians {
		currentVisits += row.Total()
	}
	previousVisits := 0
	for _, row := range data.prevTechnicians {
		previousVisits += row.Total()
	}
	currentClosures := 0
	for _, row := range data.agents {
		currentClosures += row.ClosedOrders
	}
	previousClosures := 0
	for _, row := range data.prevAgents {
		previousClosures += row.ClosedOrders
	}

	b.Line(fmt.Sprintf("Visitas de técnicos: %d (semana anterior: %d, %s)",
		currentVisits, previousVisits, delta(currentVisits, previousVisits)))
	b.Line(fmt.Sprintf("Cierres por agentes: %d (semana anterior: %d, %s)",
		currentClosures, previousClosures, delta(currentClosures, previousClosures)))
}

func (s *Service) placeChart(ctx context.Context, b *Builder, op, markup string, renderErr error) {
	if renderErr != nil {
		s.logWarn(op, renderErr)
		return
	}
	if s.raster == nil {
		return
	}
	png, err := s.raster.RenderPNG(ctx, markup, svg.DefaultWidth, svg.DefaultHeight)
	if err != nil {
		s.logWarn(op, err)
		return
	}
	widthMM := contentWidth
	heightMM := widthMM * float64(svg.DefaultHeight) / float64(svg.DefaultWidth)
	if err := b.Image(png, widthMM, heightMM); err != nil {
		s.logWarn(op, err)
	}
}

func (s *Service) logWarn(op string, err error) {
	if s.logger == nil {
		return
	}
	s.logger.Warn("report section degraded", slog.String("section", op), slog.Any("error", err))
}

type visitRow struct {
	client string
	visit  orders.Visit
}

// technicianVisits lists every visit by the technician with a visitDate in
// range. Display rows scan all visits, unlike the count aggregate which only
// looks at the last one.
func technicianVisits(list []orders.Order, technician string, rng stats.Range) []visitRow {
	var rows []visitRow
	for _, order := range list {
		for _, visit := range order.Visits {
			if visit.Technician != technician {
				continue
			}
			if !rng.Contains(visit.VisitDate) {
				continue
			}
			rows = append(rows, visitRow{client: order.ClientNumber, visit: visit})
		}
	}
	return rows
}

// agentClosures lists orders whose last visit the agent closed inside the
// range.
func agentClosures(list []orders.Order, agent string, rng stats.Range) []visitRow {
	var rows []visitRow
	for _, order := range list {
		last, ok := order.LastVisit()
		if !ok || !strings.EqualFold(last.Status, orders.StatusClosed) {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(last.ClosedBy), agent) {
			continue
		}
		if !rng.Contains(last.CloseDate) {
			continue
		}
		rows = append(rows, visitRow{client: order.ClientNumber, visit: last})
	}
	return rows
}

func delta(current, previous int) string {
	diff := current - previous
	switch {
	case diff > 0:
		return fmt.Sprintf("+%d", diff)
	case diff < 0:
		return fmt.Sprintf("%d", diff)
	default:
		return "sin cambios"
	}
}

func displayDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("02/01/2006")
}

func displayDay(day string) string {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return day
	}
	return t.Format("02/01")
}
