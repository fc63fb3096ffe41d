package orders

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fieldops/reporte/internal/platform/httpx"
)

// Handler exposes the order CRUD surface.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs the orders HTTP handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// MountRoutes registers order endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}/visit", h.handleAppendVisit)
	r.Get("/{id}/history", h.handleHistory)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var input CreateOrderInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	order, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.respondError(w, "create order", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "orden no encontrada")
		return
	}
	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get order", err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "orden no encontrada")
		return
	}
	history, err := h.service.History(r.Context(), id)
	if err != nil {
		h.respondError(w, "order history", err)
		return
	}
	httpx.JSON(w, http.StatusOK, history)
}

func (h *Handler) handleAppendVisit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "orden no encontrada")
		return
	}
	var input AppendVisitInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	order, err := h.service.AppendVisit(r.Context(), id, input)
	if err != nil {
		h.respondError(w, "append visit", err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

// handleList serves the raw filtered scan and, when table parameters are
// present, the in-memory table view over it.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := ListFilter{
		Technician: query.Get("technician"),
		Type:       query.Get("type"),
	}
	if from := query.Get("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "from inválido")
			return
		}
		filter.From = &t
	}
	if to := query.Get("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "to inválido")
			return
		}
		end := t.Add(24*time.Hour - time.Millisecond)
		filter.To = &end
	}

	list, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.respondError(w, "list orders", err)
		return
	}

	tableFilter := TableFilter{
		Type:         query.Get("viewType"),
		Status:       query.Get("viewStatus"),
		Technician:   query.Get("viewTechnician"),
		ClosedBy:     query.Get("viewClosedBy"),
		ReportCode:   query.Get("viewReportCode"),
		ReportStatus: query.Get("viewReportStatus"),
		VisitDate:    query.Get("viewVisitDate"),
		CloseDate:    query.Get("viewCloseDate"),
		CreatedAt:    query.Get("viewCreatedAt"),
		ClientSearch: query.Get("client"),
	}
	page := query.Get("page")
	if tableFilter.IsZero() && page == "" {
		httpx.JSON(w, http.StatusOK, list)
		return
	}

	view := NewTableView(list)
	view.SetFilter(tableFilter)
	if sortDir := query.Get("sort"); sortDir != "" {
		view.SetSort(SortDirection(sortDir))
	}
	if page != "" {
		n, err := strconv.Atoi(page)
		if err != nil || n < 1 {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "page inválida")
			return
		}
		view.SetPage(n)
	}
	httpx.JSON(w, http.StatusOK, view.Page())
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op, slog.Any("error", err))
	httpx.RespondError(w, err)
}
