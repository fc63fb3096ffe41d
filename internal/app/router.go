package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/fieldops/reporte/internal/orders"
	"github.com/fieldops/reporte/internal/report"
	statshttp "github.com/fieldops/reporte/internal/stats/http"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger        *slog.Logger
	Config        *Config
	OrdersHandler *orders.Handler
	StatsHandler  *statshttp.Handler
	ReportHandler *report.Handler
}

// NewRouter constructs the chi.Router with service defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/orders", func(gr chi.Router) {
		params.OrdersHandler.MountRoutes(gr)
	})
	r.Route("/stats", func(gr chi.Router) {
		params.StatsHandler.MountRoutes(gr)
	})
	r.Route("/reports", func(gr chi.Router) {
		params.ReportHandler.MountRoutes(gr)
	})

	return r
}
