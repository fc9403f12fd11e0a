package api

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Task is a unit of work, optionally tied to a case and an assignee.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority,omitempty"`
	CaseID      *int64     `json:"case,omitempty"`
	AssigneeID  *int64     `json:"assignee,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// TaskList is a paginated task listing.
type TaskList struct {
	Count   int    `json:"count"`
	Next    string `json:"next,omitempty"`
	Results []Task `json:"results"`
}

// TaskInput creates or patches a task; nil fields are left unchanged on
// patch.
type TaskInput struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	CaseID      *int64     `json:"case,omitempty"`
	AssigneeID  *int64     `json:"assignee,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// TasksAPI covers the task endpoints.
type TasksAPI struct {
	c *Client
}

func (a *TasksAPI) List(ctx context.Context, params map[string]string) (*TaskList, error) {
	out := &TaskList{}
	if err := a.c.do(ctx, http.MethodGet, "/tasks/", toQuery(params), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyTasks lists only tasks assigned to the current user.
func (a *TasksAPI) MyTasks(ctx context.Context, params map[string]string) (*TaskList, error) {
	out := &TaskList{}
	if err := a.c.do(ctx, http.MethodGet, "/tasks/my-tasks/", toQuery(params), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *TasksAPI) Get(ctx context.Context, id int64) (*Task, error) {
	out := &Task{}
	if err := a.c.do(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d/", id), nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *TasksAPI) Create(ctx context.Context, input TaskInput) (*Task, error) {
	out := &Task{}
	if err := a.c.do(ctx, http.MethodPost, "/tasks/", nil, input, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies a partial update.
func (a *TasksAPI) Update(ctx context.Context, id int64, input TaskInput) (*Task, error) {
	out := &Task{}
	if err := a.c.do(ctx, http.MethodPatch, fmt.Sprintf("/tasks/%d/", id), nil, input, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *TasksAPI) Delete(ctx context.Context, id int64) error {
	return a.c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d/", id), nil, nil, nil)
}

// Complete marks the task done.
func (a *TasksAPI) Complete(ctx context.Context, id int64) (*Task, error) {
	out := &Task{}
	if err := a.c.do(ctx, http.MethodPost, fmt.Sprintf("/tasks/%d/complete/", id), nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}
