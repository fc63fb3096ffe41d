package statshttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// MountRoutes registers the aggregate endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/technicians", h.handleTechnicians)
	r.Get("/agents", h.handleAgents)
	r.Get("/orders/status", h.handleStatusSummary)
	r.Get("/visits/types", h.handleVisitTypes)
	r.Get("/orders/closed-by-zone", h.handleClosedByZone)
	r.Get("/closed-by-day", h.handleClosedByDay)
	r.Get("/orders-by-day", h.handleTimeline)
	r.Get("/resolution/technician-effectiveness", h.handleEffectiveness)
	r.Get("/problems-by-technician", h.handleProblems)
	r.Get("/resolution/avg-by-technician", h.handleAvgResolution)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/export.csv", h.handleCSV)
	})
}
