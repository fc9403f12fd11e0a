// Package queries offers typed, cache-backed accessors over the API client.
// Reads go through the query cache (deduplicated, staleness-window aware);
// writes go through Mutate so the invalidation graph marks dependent reads
// stale.
package queries

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/casedesk/casedesk-go/api"
	interrors "github.com/casedesk/casedesk-go/internal/errors"
	"github.com/casedesk/casedesk-go/querycache"
)

// Families with staleness windows that differ from the cache default.
const (
	FamilyCaseTypes querycache.Family = "case-types"
	FamilyDashboard querycache.Family = "dashboard/"
)

// DefaultCacheOptions returns the staleness windows the typed helpers
// assume: the case-type lookup table stays fresh for five minutes and the
// dashboard aggregates for one minute. List resources use the cache
// default.
func DefaultCacheOptions() []querycache.CacheOption {
	return []querycache.CacheOption{
		querycache.WithStalenessWindow(FamilyCaseTypes, 5*time.Minute),
		querycache.WithStalenessWindow(FamilyDashboard, time.Minute),
	}
}

// Queries bundles the query cache with the typed API client.
type Queries struct {
	cache *querycache.Cache
	api   *api.Client
}

// New creates the query layer over a cache and an API client.
func New(cache *querycache.Cache, client *api.Client) (*Queries, error) {
	if cache == nil {
		return nil, errors.New("[New] cache is required")
	}
	if client == nil {
		return nil, errors.New("[New] api client is required")
	}
	return &Queries{cache: cache, api: client}, nil
}

// Cache exposes the underlying query cache for subscriptions and manual
// invalidation.
func (q *Queries) Cache() *querycache.Cache {
	return q.cache
}

func (q *Queries) Cases() *CasesQueries {
	return &CasesQueries{cache: q.cache, api: q.api}
}

func (q *Queries) CaseTypes() *CaseTypesQueries {
	return &CaseTypesQueries{cache: q.cache, api: q.api}
}

func (q *Queries) Clients() *ClientsQueries {
	return &ClientsQueries{cache: q.cache, api: q.api}
}

func (q *Queries) Tasks() *TasksQueries {
	return &TasksQueries{cache: q.cache, api: q.api}
}

func (q *Queries) Documents() *DocumentsQueries {
	return &DocumentsQueries{cache: q.cache, api: q.api}
}

func (q *Queries) Dashboard() *DashboardQueries {
	return &DashboardQueries{cache: q.cache, api: q.api}
}

func (q *Queries) Firms() *FirmsQueries {
	return &FirmsQueries{cache: q.cache, api: q.api}
}

// read runs a typed fetch through the cache for fp.
func read[T any](ctx context.Context, cache *querycache.Cache, fp querycache.Fingerprint, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	value, err := cache.Read(ctx, fp, 0, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return zero, err
	}

	result, ok := value.(T)
	if !ok {
		return zero, interrors.Wrapf(interrors.ErrInternal, "[read] cached value for %q has type %T", fp, value)
	}
	return result, nil
}

// mutate runs a typed write through the cache so the invalidation graph
// fires on success.
func mutate[T any](ctx context.Context, cache *querycache.Cache, kind querycache.MutationKind, args map[string]string, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	value, err := cache.Mutate(ctx, kind, args, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return zero, err
	}

	result, ok := value.(T)
	if !ok {
		return zero, interrors.Wrapf(interrors.ErrInternal, "[mutate] result of %q has type %T", kind, value)
	}
	return result, nil
}

func caseArgs(caseID int64) map[string]string {
	return map[string]string{"case_id": strconv.FormatInt(caseID, 10)}
}
