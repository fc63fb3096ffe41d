package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldops/reporte/internal/orders"
)

// Repository is the order lister the aggregation service reads from.
type Repository interface {
	List(ctx context.Context, filter orders.ListFilter) ([]orders.Order, error)
}

// Service coordinates aggregate execution with the cache layer. Pipelines gate
// on their own date fields, so the repository is always read unfiltered and
// the pure functions decide membership.
type Service struct {
	repo  Repository
	cache *Cache
	loc   *time.Location
}

// NewService wires a Repository with a Cache helper and the report timezone.
func NewService(repo Repository, cache *Cache, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, cache: cache, loc: loc}
}

// Location exposes the configured report timezone.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Orders returns the raw order list backing every pipeline.
func (s *Service) Orders(ctx context.Context) ([]orders.Order, error) {
	list, err := s.repo.List(ctx, orders.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("stats: list orders: %w", err)
	}
	return list, nil
}

func (s *Service) cached(ctx context.Context, name string, r Range, dest interface{}, compute func([]orders.Order) (interface{}, error)) error {
	loader := func(ctx context.Context) (interface{}, error) {
		list, err := s.Orders(ctx)
		if err != nil {
			return nil, err
		}
		return compute(list)
	}
	key, err := s.cache.BuildKey(ctx, keyAggregate(name, r))
	if err != nil {
		return err
	}
	return s.cache.FetchJSON(ctx, key, dest, loader)
}

// TopTechnicians resolves aggregate rows through the cache.
func (s *Service) TopTechnicians(ctx context.Context, r Range) ([]TechnicianRow, error) {
	var rows []TechnicianRow
	err := s.cached(ctx, "technicians", r, &rows, func(list []orders.Order) (interface{}, error) {
		return TopTechnicians(list, r), nil
	})
	if rows == nil {
		rows = []TechnicianRow{}
	}
	return rows, err
}

func (s *Service) TopAgents(ctx context.Context, r Range) ([]AgentRow, error) {
	var rows []AgentRow
	err := s.cached(ctx, "agents", r, &rows, func(list []orders.Order) (interface{}, error) {
		return TopAgents(list, r), nil
	})
	if rows == nil {
		rows = []AgentRow{}
	}
	return rows, err
}

func (s *Service) StatusSummary(ctx context.Context, r Range) ([]BucketRow, error) {
	var rows []BucketRow
	err := s.cached(ctx, "status", r, &rows, func(list []orders.Order) (interface{}, error) {
		return StatusSummary(list, r), nil
	})
	if rows == nil {
		rows = []BucketRow{}
	}
	return rows, err
}

func (s *Service) VisitTypes(ctx context.Context, r Range) ([]BucketRow, error) {
	var rows []BucketRow
	err := s.cached(ctx, "types", r, &rows, func(list []orders.Order) (interface{}, error) {
		return VisitTypes(list, r), nil
	})
	if rows == nil {
		rows = []BucketRow{}
	}
	return rows, err
}

func (s *Service) ClosedByZone(ctx context.Context, r Range) ([]BucketRow, error) {
	var rows []BucketRow
	err := s.cached(ctx, "zones", r, &rows, func(list []orders.Order) (interface{}, error) {
		return ClosedByZone(list, r), nil
	})
	if rows == nil {
		rows = []BucketRow{}
	}
	return rows, err
}

func (s *Service) ClosedByDay(ctx context.Context, r Range) ([]DayCount, error) {
	var rows []DayCount
	err := s.cached(ctx, "closed-by-day", r, &rows, func(list []orders.Order) (interface{}, error) {
		return ClosedByDay(list, r, s.loc), nil
	})
	if rows == nil {
		rows = []DayCount{}
	}
	return rows, err
}

func (s *Service) StatusTimeline(ctx context.Context, r Range) ([]DayStatusCount, error) {
	var rows []DayStatusCount
	err := s.cached(ctx, "timeline", r, &rows, func(list []orders.Order) (interface{}, error) {
		return StatusTimeline(list, r, s.loc), nil
	})
	if rows == nil {
		rows = []DayStatusCount{}
	}
	return rows, err
}

func (s *Service) WeeklyEffectiveness(ctx context.Context, r Range) ([]EffectivenessRow, error) {
	var rows []EffectivenessRow
	err := s.cached(ctx, "effectiveness", r, &rows, func(list []orders.Order) (interface{}, error) {
		return WeeklyEffectiveness(list, r), nil
	})
	if rows == nil {
		rows = []EffectivenessRow{}
	}
	return rows, err
}

func (s *Service) ProblemsByTechnician(ctx context.Context, r Range) ([]TechnicianProblems, error) {
	var rows []TechnicianProblems
	err := s.cached(ctx, "problems", r, &rows, func(list []orders.Order) (interface{}, error) {
		return ProblemsByTechnician(list, r), nil
	})
	if rows == nil {
		rows = []TechnicianProblems{}
	}
	return rows, err
}

// AvgResolutionByTechnician is the legacy unfiltered metric; it caches under a
// fixed key independent of any range.
func (s *Service) AvgResolutionByTechnician(ctx context.Context) ([]ResolutionRow, error) {
	loader := func(ctx context.Context) (interface{}, error) {
		list, err := s.Orders(ctx)
		if err != nil {
			return nil, err
		}
		return AvgResolutionByTechnician(list), nil
	}
	key, err := s.cache.BuildKey(ctx, "stats:resolution:all")
	if err != nil {
		return nil, err
	}
	var rows []ResolutionRow
	if err := s.cache.FetchJSON(ctx, key, &rows, loader); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []ResolutionRow{}
	}
	return rows, nil
}
