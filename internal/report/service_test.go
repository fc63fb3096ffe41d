package report

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fieldops/reporte/internal/orders"
	"github.com/fieldops/reporte/internal/stats"
)

type fakeStats struct {
	technicians []stats.TechnicianRow
	agents      []stats.AgentRow
	daily       []stats.DayCount
	failAll     bool
}

func (f *fakeStats) Location() *time.Location { return time.UTC }

func (f *fakeStats) Orders(context.Context) ([]orders.Order, error) {
	if f.failAll {
		return nil, errors.New("store unavailable")
	}
	return nil, nil
}

func (f *fakeStats) TopTechnicians(context.Context, stats.Range) ([]stats.TechnicianRow, error) {
	if f.failAll {
		return nil, errors.New("store unavailable")
	}
	return f.technicians, nil
}

func (f *fakeStats) TopAgents(context.Context, stats.Range) ([]stats.AgentRow, error) {
	if f.failAll {
		return nil, errors.New("store unavailable")
	}
	return f.agents, nil
}

func (f *fakeStats) StatusSummary(context.Context, stats.Range) ([]stats.BucketRow, error) {
	return nil, nil
}

func (f *fakeStats) VisitTypes(context.Context, stats.Range) ([]stats.BucketRow, error) {
	return nil, nil
}

func (f *fakeStats) ClosedByZone(context.Context, stats.Range) ([]stats.BucketRow, error) {
	return nil, nil
}

func (f *fakeStats) ClosedByDay(context.Context, stats.Range) ([]stats.DayCount, error) {
	if f.failAll {
		return nil, errors.New("store unavailable")
	}
	return f.daily, nil
}

func (f *fakeStats) StatusTimeline(context.Context, stats.Range) ([]stats.DayStatusCount, error) {
	return nil, nil
}

func (f *fakeStats) WeeklyEffectiveness(context.Context, stats.Range) ([]stats.EffectivenessRow, error) {
	return nil, nil
}

func (f *fakeStats) ProblemsByTechnician(context.Context, stats.Range) ([]stats.TechnicianProblems, error) {
	return nil, nil
}

type failingRaster struct{}

func (failingRaster) RenderPNG(context.Context, string, int, int) ([]byte, error) {
	return nil, errors.New("browser unavailable")
}

func weekOf(t *testing.T) stats.Range {
	t.Helper()
	return stats.CurrentWeek(time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC), time.UTC)
}

func TestFilename(t *testing.T) {
	rng := weekOf(t)
	require.Equal(t, "dashboard_2026-03-02_to_2026-03-08.pdf", Filename(rng))
}

func TestBuildWithoutRasterizerStillProducesPDF(t *testing.T) {
	provider := &fakeStats{
		technicians: []stats.TechnicianRow{{Technician: "Gómez", Closed: 3, Pending: 1}},
		agents:      []stats.AgentRow{{Agent: "Ana", ClosedOrders: 2}},
		daily: []stats.DayCount{
			{Date: "2026-03-02", Count: 1},
			{Date: "2026-03-03", Count: 2},
		},
	}
	svc := NewService(provider, nil, nil)

	out, err := svc.Build(context.Background(), weekOf(t))
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestBuildSurvivesRasterFailure(t *testing.T) {
	provider := &fakeStats{
		technicians: []stats.TechnicianRow{{Technician: "Gómez", Closed: 3}},
		daily:       []stats.DayCount{{Date: "2026-03-02", Count: 1}},
	}
	svc := NewService(provider, failingRaster{}, nil)

	out, err := svc.Build(context.Background(), weekOf(t))
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestBuildSurvivesEverySectionFailing(t *testing.T) {
	svc := NewService(&fakeStats{failAll: true}, nil, nil)

	out, err := svc.Build(context.Background(), weekOf(t))
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
