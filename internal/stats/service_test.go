package stats

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/fieldops/reporte/internal/orders"
)

type fakeRepo struct {
	list  []orders.Order
	err   error
	calls int
}

func (f *fakeRepo) List(ctx context.Context, filter orders.ListFilter) ([]orders.Order, error) {
	f.calls++
	return f.list, f.err
}

func newTestService(t *testing.T, repo *fakeRepo) (*Service, *Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCache(client, time.Minute)
	return NewService(repo, cache, time.UTC), cache
}

func TestServiceCachesAggregates(t *testing.T) {
	repo := &fakeRepo{list: []orders.Order{
		mkOrder("C1", mkVisit("Cerrada", "Gómez", "2026-01-06")),
	}}
	svc, _ := newTestService(t, repo)
	r := testRange("2026-01-05", "2026-01-11")
	ctx := context.Background()

	first, err := svc.TopTechnicians(ctx, r)
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Equal(t, 1, repo.calls)

	second, err := svc.TopTechnicians(ctx, r)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, repo.calls, "second read must come from cache")
}

func TestServiceBumpInvalidates(t *testing.T) {
	repo := &fakeRepo{list: []orders.Order{
		mkOrder("C1", mkVisit("Cerrada", "Gómez", "2026-01-06")),
	}}
	svc, cache := newTestService(t, repo)
	r := testRange("2026-01-05", "2026-01-11")
	ctx := context.Background()

	_, err := svc.TopTechnicians(ctx, r)
	require.NoError(t, err)
	require.NoError(t, cache.Bump(ctx))

	repo.list = append(repo.list, mkOrder("C2", mkVisit("Cerrada", "Pérez", "2026-01-07")))
	rows, err := svc.TopTechnicians(ctx, r)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, 2, repo.calls)
}

func TestServiceDistinctRangesDistinctKeys(t *testing.T) {
	repo := &fakeRepo{list: []orders.Order{
		mkOrder("C1", mkVisit("Cerrada", "Gómez", "2026-01-06")),
	}}
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	inRange, err := svc.TopTechnicians(ctx, testRange("2026-01-05", "2026-01-11"))
	require.NoError(t, err)
	require.Len(t, inRange, 1)

	outOfRange, err := svc.TopTechnicians(ctx, testRange("2026-02-02", "2026-02-08"))
	require.NoError(t, err)
	require.Empty(t, outOfRange)
	require.Equal(t, 2, repo.calls)
}

func TestServiceEmptyWeekNeverNil(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := newTestService(t, repo)
	ctx := context.Background()
	r := testRange("2024-01-01", "2024-01-07")

	technicians, err := svc.TopTechnicians(ctx, r)
	require.NoError(t, err)
	require.NotNil(t, technicians)

	agents, err := svc.TopAgents(ctx, r)
	require.NoError(t, err)
	require.NotNil(t, agents)

	zones, err := svc.ClosedByZone(ctx, r)
	require.NoError(t, err)
	require.Len(t, zones, len(orders.Zones))

	daily, err := svc.ClosedByDay(ctx, r)
	require.NoError(t, err)
	require.Len(t, daily, 7)

	resolution, err := svc.AvgResolutionByTechnician(ctx)
	require.NoError(t, err)
	require.NotNil(t, resolution)
}
