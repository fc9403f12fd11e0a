package queries

import (
	"context"
	"fmt"

	"github.com/casedesk/casedesk-go/api"
	"github.com/casedesk/casedesk-go/querycache"
)

// ClientsQueries is the cache-backed view of the client endpoints.
type ClientsQueries struct {
	cache *querycache.Cache
	api   *api.Client
}

func (q *ClientsQueries) List(ctx context.Context, filters map[string]string) (*api.ClientList, error) {
	fp := querycache.NewFingerprint("clients/list", filters)
	return read(ctx, q.cache, fp, func(ctx context.Context) (*api.ClientList, error) {
		return q.api.Clients().List(ctx, filters)
	})
}

// Options returns the slim id/name listing used to populate pickers.
func (q *ClientsQueries) Options(ctx context.Context, filters map[string]string) ([]api.ClientOption, error) {
	fp := querycache.NewFingerprint("clients/select", filters)
	return read(ctx, q.cache, fp, func(ctx context.Context) ([]api.ClientOption, error) {
		return q.api.Clients().Select(ctx, filters)
	})
}

func (q *ClientsQueries) Get(ctx context.Context, id int64) (*api.ClientRecord, error) {
	fp := querycache.NewFingerprint(fmt.Sprintf("clients/%d", id), nil)
	return read(ctx, q.cache, fp, func(ctx context.Context) (*api.ClientRecord, error) {
		return q.api.Clients().Get(ctx, id)
	})
}

func (q *ClientsQueries) Create(ctx context.Context, input api.ClientInput) (*api.ClientRecord, error) {
	return mutate(ctx, q.cache, querycache.MutationClientCreate, nil, func(ctx context.Context) (*api.ClientRecord, error) {
		return q.api.Clients().Create(ctx, input)
	})
}

func (q *ClientsQueries) Update(ctx context.Context, id int64, input api.ClientInput) (*api.ClientRecord, error) {
	return mutate(ctx, q.cache, querycache.MutationClientUpdate, nil, func(ctx context.Context) (*api.ClientRecord, error) {
		return q.api.Clients().Update(ctx, id, input)
	})
}

func (q *ClientsQueries) Delete(ctx context.Context, id int64) error {
	_, err := q.cache.Mutate(ctx, querycache.MutationClientDelete, nil, func(ctx context.Context) (any, error) {
		return nil, q.api.Clients().Delete(ctx, id)
	})
	return err
}
