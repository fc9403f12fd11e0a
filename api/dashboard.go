package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DashboardStats are the headline aggregates on the landing page.
type DashboardStats struct {
	OpenCases     int `json:"open_cases"`
	ActiveClients int `json:"active_clients"`
	PendingTasks  int `json:"pending_tasks"`
	OverdueTasks  int `json:"overdue_tasks"`
}

// Deadline is an upcoming case or task deadline.
type Deadline struct {
	Kind    string    `json:"kind"`
	Title   string    `json:"title"`
	CaseID  *int64    `json:"case,omitempty"`
	DueDate time.Time `json:"due_date"`
}

// Activity is one entry of the recent-activity feed.
type Activity struct {
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Subject   string    `json:"subject"`
	Timestamp time.Time `json:"timestamp"`
}

// DashboardAPI covers the read-only dashboard aggregates.
type DashboardAPI struct {
	c *Client
}

func (a *DashboardAPI) Stats(ctx context.Context) (*DashboardStats, error) {
	out := &DashboardStats{}
	if err := a.c.do(ctx, http.MethodGet, "/dashboard/stats/", nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpcomingDeadlines lists deadlines falling within the next `days` days.
func (a *DashboardAPI) UpcomingDeadlines(ctx context.Context, days int) ([]Deadline, error) {
	query := url.Values{"days": []string{strconv.Itoa(days)}}
	var out []Deadline
	if err := a.c.do(ctx, http.MethodGet, "/dashboard/upcoming-deadlines/", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecentActivity returns the newest activity entries, capped at limit.
func (a *DashboardAPI) RecentActivity(ctx context.Context, limit int) ([]Activity, error) {
	query := url.Values{"limit": []string{strconv.Itoa(limit)}}
	var out []Activity
	if err := a.c.do(ctx, http.MethodGet, "/dashboard/recent-activity/", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
