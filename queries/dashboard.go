package queries

import (
	"context"
	"strconv"

	"github.com/casedesk/casedesk-go/api"
	"github.com/casedesk/casedesk-go/querycache"
)

// DashboardQueries is the cache-backed view of the dashboard aggregates.
type DashboardQueries struct {
	cache *querycache.Cache
	api   *api.Client
}

func (q *DashboardQueries) Stats(ctx context.Context) (*api.DashboardStats, error) {
	fp := querycache.NewFingerprint("dashboard/stats", nil)
	return read(ctx, q.cache, fp, func(ctx context.Context) (*api.DashboardStats, error) {
		return q.api.Dashboard().Stats(ctx)
	})
}

// UpcomingDeadlines lists deadlines within the next `days` days.
func (q *DashboardQueries) UpcomingDeadlines(ctx context.Context, days int) ([]api.Deadline, error) {
	fp := querycache.NewFingerprint("dashboard/deadlines", map[string]string{"days": strconv.Itoa(days)})
	return read(ctx, q.cache, fp, func(ctx context.Context) ([]api.Deadline, error) {
		return q.api.Dashboard().UpcomingDeadlines(ctx, days)
	})
}

// RecentActivity returns the newest activity entries, capped at limit.
func (q *DashboardQueries) RecentActivity(ctx context.Context, limit int) ([]api.Activity, error) {
	fp := querycache.NewFingerprint("dashboard/activity", map[string]string{"limit": strconv.Itoa(limit)})
	return read(ctx, q.cache, fp, func(ctx context.Context) ([]api.Activity, error) {
		return q.api.Dashboard().RecentActivity(ctx, limit)
	})
}
