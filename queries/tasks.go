package queries

import (
	"context"
	"fmt"

	"github.com/casedesk/casedesk-go/api"
	"github.com/casedesk/casedesk-go/querycache"
)

// TasksQueries is the cache-backed view of the task endpoints.
type TasksQueries struct {
	cache *querycache.Cache
	api   *api.Client
}

func (q *TasksQueries) List(ctx context.Context, filters map[string]string) (*api.TaskList, error) {
	fp := querycache.NewFingerprint("tasks/list", filters)
	return read(ctx, q.cache, fp, func(ctx context.Context) (*api.TaskList, error) {
		return q.api.Tasks().List(ctx, filters)
	})
}

// Mine lists only tasks assigned to the current user.
func (q *TasksQueries) Mine(ctx context.Context, filters map[string]string) (*api.TaskList, error) {
	fp := querycache.NewFingerprint("tasks/mine", filters)
	return read(ctx, q.cache, fp, func(ctx context.Context) (*api.TaskList, error) {
		return q.api.Tasks().MyTasks(ctx, filters)
	})
}

func (q *TasksQueries) Get(ctx context.Context, id int64) (*api.Task, error) {
	fp := querycache.NewFingerprint(fmt.Sprintf("tasks/%d", id), nil)
	return read(ctx, q.cache, fp, func(ctx context.Context) (*api.Task, error) {
		return q.api.Tasks().Get(ctx, id)
	})
}

func (q *TasksQueries) Create(ctx context.Context, input api.TaskInput) (*api.Task, error) {
	return mutate(ctx, q.cache, querycache.MutationTaskCreate, nil, func(ctx context.Context) (*api.Task, error) {
		return q.api.Tasks().Create(ctx, input)
	})
}

func (q *TasksQueries) Update(ctx context.Context, id int64, input api.TaskInput) (*api.Task, error) {
	return mutate(ctx, q.cache, querycache.MutationTaskUpdate, nil, func(ctx context.Context) (*api.Task, error) {
		return q.api.Tasks().Update(ctx, id, input)
	})
}

func (q *TasksQueries) Delete(ctx context.Context, id int64) error {
	_, err := q.cache.Mutate(ctx, querycache.MutationTaskDelete, nil, func(ctx context.Context) (any, error) {
		return nil, q.api.Tasks().Delete(ctx, id)
	})
	return err
}

// Complete marks the task done.
func (q *TasksQueries) Complete(ctx context.Context, id int64) (*api.Task, error) {
	return mutate(ctx, q.cache, querycache.MutationTaskComplete, nil, func(ctx context.Context) (*api.Task, error) {
		return q.api.Tasks().Complete(ctx, id)
	})
}
