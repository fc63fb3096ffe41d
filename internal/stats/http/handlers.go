package statshttp

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fieldops/reporte/internal/platform/httpx"
	"github.com/fieldops/reporte/internal/stats"
	"github.com/fieldops/reporte/internal/stats/export"
)

const requestTimeout = 5 * time.Second

// StatsService is the aggregate surface the handler serves.
type StatsService interface {
	Location() *time.Location
	TopTechnicians(ctx context.Context, r stats.Range) ([]stats.TechnicianRow, error)
	TopAgents(ctx context.Context, r stats.Range) ([]stats.AgentRow, error)
	StatusSummary(ctx context.Context, r stats.Range) ([]stats.BucketRow, error)
	VisitTypes(ctx context.Context, r stats.Range) ([]stats.BucketRow, error)
	ClosedByZone(ctx context.Context, r stats.Range) ([]stats.BucketRow, error)
	ClosedByDay(ctx context.Context, r stats.Range) ([]stats.DayCount, error)
	StatusTimeline(ctx context.Context, r stats.Range) ([]stats.DayStatusCount, error)
	WeeklyEffectiveness(ctx context.Context, r stats.Range) ([]stats.EffectivenessRow, error)
	ProblemsByTechnician(ctx context.Context, r stats.Range) ([]stats.TechnicianProblems, error)
	AvgResolutionByTechnician(ctx context.Context) ([]stats.ResolutionRow, error)
}

// Handler serves the aggregate endpoints and the CSV bundle.
type Handler struct {
	logger  *slog.Logger
	service StatsService
	csvPool sync.Pool
	now     func() time.Time
}

// NewHandler constructs the stats HTTP handler.
func NewHandler(logger *slog.Logger, service StatsService) *Handler {
	h := &Handler{
		logger:  logger,
		service: service,
		now:     time.Now,
	}
	h.csvPool.New = func() interface{} { return new(bytes.Buffer) }
	return h
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

func (h *Handler) parseRange(r *http.Request) (stats.Range, error) {
	from := strings.TrimSpace(r.URL.Query().Get("from"))
	to := strings.TrimSpace(r.URL.Query().Get("to"))
	return stats.ParseRange(from, to, h.now(), h.service.Location())
}

// serveRows runs one aggregate behind the shared parse/timeout/respond shape.
func (h *Handler) serveRows(w http.ResponseWriter, r *http.Request, op string, load func(ctx context.Context, rng stats.Range) (any, error)) {
	rng, err := h.parseRange(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid range", err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	rows, err := load(ctx, rng)
	if err != nil {
		h.logError(op, err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *Handler) handleTechnicians(w http.ResponseWriter, r *http.Request) {
	h.serveRows(w, r, "top technicians", func(ctx context.Context, rng stats.Range) (any, error) {
		return h.service.TopTechnicians(ctx, rng)
	})
}

func (h *Handler) handleAgents(w http.ResponseWriter, r *http.Request) {
	h.serveRows(w, r, "top agents", func(ctx context.Context, rng stats.Range) (any, error) {
		return h.service.TopAgents(ctx, rng)
	})
}

func (h *Handler) handleStatusSummary(w http.ResponseWriter, r *http.Request) {
	h.serveRows(w, r, "status summary", func(ctx context.Context, rng stats.Range) (any, error) {
		return h.service.StatusSummary(ctx, rng)
	})
}

func (h *Handler) handleVisitTypes(w http.ResponseWriter, r *http.Request) {
	h.serveRows(w, r, "visit types", func(ctx context.Context, rng stats.Range) (any, error) {
		return h.service.VisitTypes(ctx, rng)
	})
}

func (h *Handler) handleClosedByZone(w http.ResponseWriter, r *http.Request) {
	h.serveRows(w, r, "closed by zone", func(ctx context.Context, rng stats.Range) (any, error) {
		return h.service.ClosedByZone(ctx, rng)
	})
}

func (h *Handler) handleClosedByDay(w http.ResponseWriter, r *http.Request) {
	h.serveRows(w, r, "closed by day", func(ctx context.Context, rng stats.Range) (any, error) {
		return h.service.ClosedByDay(ctx, rng)
	})
}

func (h *Handler) handleTimeline(w http.ResponseWriter, r *http.Request) {
	h.serveRows(w, r, "status timeline", func(ctx context.Context, rng stats.Range) (any, error) {
		return h.service.StatusTimeline(ctx, rng)
	})
}

func (h *Handler) handleEffectiveness(w http.ResponseWriter, r *http.Request) {
	h.serveRows(w, r, "weekly effectiveness", func(ctx context.Context, rng stats.Range) (any, error) {
		return h.service.WeeklyEffectiveness(ctx, rng)
	})
}

func (h *Handler) handleProblems(w http.ResponseWriter, r *http.Request) {
	h.serveRows(w, r, "problems by technician", func(ctx context.Context, rng stats.Range) (any, error) {
		return h.service.ProblemsByTechnician(ctx, rng)
	})
}

func (h *Handler) handleAvgResolution(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	rows, err := h.service.AvgResolutionByTechnician(ctx)
	if err != nil {
		h.logError("avg resolution", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	rng, err := h.parseRange(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid range", err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	technicians, err := h.service.TopTechnicians(ctx, rng)
	if err != nil {
		h.logError("csv technicians", err)
		httpx.RespondError(w, err)
		return
	}
	agents, err := h.service.TopAgents(ctx, rng)
	if err != nil {
		h.logError("csv agents", err)
		httpx.RespondError(w, err)
		return
	}
	statuses, err := h.service.StatusSummary(ctx, rng)
	if err != nil {
		h.logError("csv statuses", err)
		httpx.RespondError(w, err)
		return
	}
	types, err := h.service.VisitTypes(ctx, rng)
	if err != nil {
		h.logError("csv types", err)
		httpx.RespondError(w, err)
		return
	}
	zones, err := h.service.ClosedByZone(ctx, rng)
	if err != nil {
		h.logError("csv zones", err)
		httpx.RespondError(w, err)
		return
	}
	daily, err := h.service.ClosedByDay(ctx, rng)
	if err != nil {
		h.logError("csv daily", err)
		httpx.RespondError(w, err)
		return
	}
	effectiveness, err := h.service.WeeklyEffectiveness(ctx, rng)
	if err != nil {
		h.logError("csv effectiveness", err)
		httpx.RespondError(w, err)
		return
	}

	buf := h.csvPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.csvPool.Put(buf)
	}()

	if err := export.WriteTechniciansCSV(buf, technicians); err != nil {
		h.logError("write technicians csv", err)
		httpx.RespondError(w, err)
		return
	}
	buf.WriteString("\n")
	if err := export.WriteAgentsCSV(buf, agents); err != nil {
		h.logError("write agents csv", err)
		httpx.RespondError(w, err)
		return
	}
	buf.WriteString("\n")
	if err := export.WriteBucketsCSV(buf, "Status", statuses); err != nil {
		h.logError("write status csv", err)
		httpx.RespondError(w, err)
		return
	}
	buf.WriteString("\n")
	if err := export.WriteBucketsCSV(buf, "Visit Type", types); err != nil {
		h.logError("write types csv", err)
		httpx.RespondError(w, err)
		return
	}
	buf.WriteString("\n")
	if err := export.WriteBucketsCSV(buf, "Zone", zones); err != nil {
		h.logError("write zones csv", err)
		httpx.RespondError(w, err)
		return
	}
	buf.WriteString("\n")
	if err := export.WriteDailyCSV(buf, daily); err != nil {
		h.logError("write daily csv", err)
		httpx.RespondError(w, err)
		return
	}
	buf.WriteString("\n")
	if err := export.WriteEffectivenessCSV(buf, effectiveness); err != nil {
		h.logError("write effectiveness csv", err)
		httpx.RespondError(w, err)
		return
	}

	filename := fmt.Sprintf("stats_%s_to_%s.csv", rng.FromDay(), rng.ToDay())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logError("stream csv", err)
	}
}

func (h *Handler) logError(op string, err error) {
	if h.logger == nil {
		return
	}
	h.logger.Error("stats request failed", slog.String("op", op), slog.Any("error", err))
}
