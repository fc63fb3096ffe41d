package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/fieldops/reporte/internal/stats"
)

// WarmWeekJob walks the aggregate set for one week through the stats service
// so the Monday report export hits a warm cache.
type WarmWeekJob struct {
	Stats  *stats.Service
	Logger *slog.Logger
	clock  func() time.Time
}

// NewWarmWeekJob wires dependencies for the warm handler.
func NewWarmWeekJob(statsSvc *stats.Service, logger *slog.Logger) *WarmWeekJob {
	return &WarmWeekJob{
		Stats:  statsSvc,
		Logger: logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes warm-week tasks. Each aggregate failure aborts the run so
// asynq retries it whole.
func (j *WarmWeekJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Stats == nil {
		return errors.New("warm week: handler not configured")
	}
	var payload WarmWeekPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	rng, err := stats.ParseRange(payload.From, payload.To, j.now(), j.Stats.Location())
	if err != nil {
		j.logger().Error("warm week range invalid", slog.Any("error", err))
		return asynq.SkipRetry
	}

	logger := j.logger().With(slog.String("from", rng.FromDay()), slog.String("to", rng.ToDay()))
	logger.Info("starting cache warm")
	start := j.now()

	jobCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"technicians", func(ctx context.Context) error { _, err := j.Stats.TopTechnicians(ctx, rng); return err }},
		{"agents", func(ctx context.Context) error { _, err := j.Stats.TopAgents(ctx, rng); return err }},
		{"status", func(ctx context.Context) error { _, err := j.Stats.StatusSummary(ctx, rng); return err }},
		{"types", func(ctx context.Context) error { _, err := j.Stats.VisitTypes(ctx, rng); return err }},
		{"zones", func(ctx context.Context) error { _, err := j.Stats.ClosedByZone(ctx, rng); return err }},
		{"closed-by-day", func(ctx context.Context) error { _, err := j.Stats.ClosedByDay(ctx, rng); return err }},
		{"timeline", func(ctx context.Context) error { _, err := j.Stats.StatusTimeline(ctx, rng); return err }},
		{"effectiveness", func(ctx context.Context) error { _, err := j.Stats.WeeklyEffectiveness(ctx, rng); return err }},
		{"problems", func(ctx context.Context) error { _, err := j.Stats.ProblemsByTechnician(ctx, rng); return err }},
	}
	prev := stats.PreviousWeek(rng)
	steps = append(steps,
		struct {
			name string
			run  func(context.Context) error
		}{"previous technicians", func(ctx context.Context) error { _, err := j.Stats.TopTechnicians(ctx, prev); return err }},
		struct {
			name string
			run  func(context.Context) error
		}{"previous agents", func(ctx context.Context) error { _, err := j.Stats.TopAgents(ctx, prev); return err }},
	)

	for _, step := range steps {
		if err := step.run(jobCtx); err != nil {
			logger.Error("warm step failed", slog.String("step", step.name), slog.Any("error", err))
			return err
		}
	}

	logger.Info("completed cache warm", slog.Int("steps", len(steps)), slog.Duration("duration", j.now().Sub(start)))
	return nil
}

func (j *WarmWeekJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskReportWarmWeek))
	}
	return slog.Default().With(slog.String("job", TaskReportWarmWeek))
}

func (j *WarmWeekJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
