package report

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/fieldops/reporte/internal/platform/httpx"
	"github.com/fieldops/reporte/internal/stats"
)

// Handler serves the weekly PDF export.
type Handler struct {
	logger  *slog.Logger
	service *Service
	loc     *time.Location
	now     func() time.Time
}

// NewHandler constructs the report HTTP handler.
func NewHandler(logger *slog.Logger, service *Service, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{logger: logger, service: service, loc: loc, now: time.Now}
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

// MountRoutes registers the report endpoint onto the router, rate limited
// since each request spins up chart rasterization.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(5, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/weekly", h.handleWeekly)
	})
}

func (h *Handler) handleWeekly(w http.ResponseWriter, r *http.Request) {
	from := strings.TrimSpace(r.URL.Query().Get("from"))
	to := strings.TrimSpace(r.URL.Query().Get("to"))
	rng, err := stats.ParseRange(from, to, h.now(), h.loc)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid range", err.Error())
		return
	}

	pdfBytes, err := h.service.Build(r.Context(), rng)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("weekly report failed", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", Filename(rng)))
	if _, err := w.Write(pdfBytes); err != nil && h.logger != nil {
		h.logger.Error("stream pdf failed", slog.Any("error", err))
	}
}
