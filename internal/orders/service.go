package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/fieldops/reporte/internal/platform/httpx"
)

// CacheBumper invalidates derived aggregate caches after a write.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// VisitInput is the write payload for one visit entry.
type VisitInput struct {
	Status       string     `json:"status"`
	Type         string     `json:"type"`
	Technician   string     `json:"technician"`
	ClosedBy     string     `json:"closedBy"`
	Observation  string     `json:"observation" validate:"required"`
	Zona         string     `json:"zona" validate:"required"`
	ReportCode   string     `json:"reportCode"`
	ReportStatus string     `json:"reportStatus"`
	VisitDate    *time.Time `json:"visitDate"`
	CloseDate    *time.Time `json:"closeDate"`
}

// CreateOrderInput creates an order together with its initial visit.
type CreateOrderInput struct {
	ClientNumber     string     `json:"clientNumber" validate:"required"`
	ReportedToUfinet bool       `json:"reportedToUfinet"`
	Visit            VisitInput `json:"visit"`
}

// AppendVisitInput pushes one visit onto an existing order. ReportedToUfinet
// is applied only when present.
type AppendVisitInput struct {
	ReportedToUfinet *bool      `json:"reportedToUfinet"`
	Visit            VisitInput `json:"visit"`
}

// OrderHistory is the audit-trail projection of an order.
type OrderHistory struct {
	ID           uuid.UUID `json:"id"`
	ClientNumber string    `json:"clientNumber"`
	Visits       []Visit   `json:"visits"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Service enforces the write invariants: orders are born with exactly one
// visit, visits are append-only, observation and zona are mandatory.
type Service struct {
	repo     Repository
	cache    CacheBumper
	validate *validator.Validate
	logger   *slog.Logger
}

// NewService wires the order service.
func NewService(repo Repository, cache CacheBumper, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		validate: validator.New(),
		logger:   logger,
	}
}

func (s *Service) Create(ctx context.Context, input CreateOrderInput) (*Order, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", httpx.ErrValidation, validationDetail(err))
	}
	visit, err := s.buildVisit(input.Visit)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.Create(ctx, Order{
		ClientNumber:     input.ClientNumber,
		ReportedToUfinet: input.ReportedToUfinet,
		Visits:           []Visit{visit},
	})
	if err != nil {
		return nil, fmt.Errorf("orders: create: %w", err)
	}
	s.bump(ctx)
	return order, nil
}

func (s *Service) AppendVisit(ctx context.Context, id uuid.UUID, input AppendVisitInput) (*Order, error) {
	visit, err := s.buildVisit(input.Visit)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.AppendVisit(ctx, id, visit, input.ReportedToUfinet)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: order %s", httpx.ErrNotFound, id)
		}
		return nil, fmt.Errorf("orders: append visit: %w", err)
	}
	s.bump(ctx)
	return order, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: order %s", httpx.ErrNotFound, id)
		}
		return nil, fmt.Errorf("orders: get: %w", err)
	}
	return order, nil
}

func (s *Service) History(ctx context.Context, id uuid.UUID) (*OrderHistory, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &OrderHistory{
		ID:           order.ID,
		ClientNumber: order.ClientNumber,
		Visits:       order.Visits,
		CreatedAt:    order.CreatedAt,
	}, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Order, error) {
	result, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("orders: list: %w", err)
	}
	return result, nil
}

func (s *Service) buildVisit(input VisitInput) (Visit, error) {
	if err := s.validate.Struct(input); err != nil {
		return Visit{}, fmt.Errorf("%w: %s", httpx.ErrValidation, validationDetail(err))
	}
	observation := strings.TrimSpace(input.Observation)
	if observation == "" {
		return Visit{}, fmt.Errorf("%w: la observación es obligatoria", httpx.ErrValidation)
	}
	if !ValidZone(input.Zona) {
		return Visit{}, fmt.Errorf("%w: zona %q desconocida", httpx.ErrValidation, input.Zona)
	}
	return Visit{
		Status:       input.Status,
		Type:         input.Type,
		Technician:   input.Technician,
		ClosedBy:     input.ClosedBy,
		Observation:  observation,
		Zona:         input.Zona,
		ReportCode:   input.ReportCode,
		ReportStatus: input.ReportStatus,
		VisitDate:    input.VisitDate,
		CloseDate:    input.CloseDate,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

func (s *Service) bump(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx); err != nil && s.logger != nil {
		s.logger.Warn("bump stats cache", slog.Any("error", err))
	}
}

func validationDetail(err error) string {
	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) && len(invalid) > 0 {
		fields := make([]string, 0, len(invalid))
		for _, f := range invalid {
			fields = append(fields, strings.ToLower(f.Field()))
		}
		return "campos requeridos: " + strings.Join(fields, ", ")
	}
	return err.Error()
}
