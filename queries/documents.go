package queries

import (
	"context"
	"fmt"

	"github.com/casedesk/casedesk-go/api"
	"github.com/casedesk/casedesk-go/querycache"
)

// DocumentsQueries is the cache-backed view of the document endpoints.
// Downloads bypass the cache: file content is fetched on demand, only the
// metadata listings are cached.
type DocumentsQueries struct {
	cache *querycache.Cache
	api   *api.Client
}

func (q *DocumentsQueries) List(ctx context.Context, filters map[string]string) (*api.DocumentList, error) {
	fp := querycache.NewFingerprint("documents/list", filters)
	return read(ctx, q.cache, fp, func(ctx context.Context) (*api.DocumentList, error) {
		return q.api.Documents().List(ctx, filters)
	})
}

func (q *DocumentsQueries) Get(ctx context.Context, id int64) (*api.Document, error) {
	fp := querycache.NewFingerprint(fmt.Sprintf("documents/%d", id), nil)
	return read(ctx, q.cache, fp, func(ctx context.Context) (*api.Document, error) {
		return q.api.Documents().Get(ctx, id)
	})
}

func (q *DocumentsQueries) Versions(ctx context.Context, id int64) ([]api.Document, error) {
	fp := querycache.NewFingerprint(fmt.Sprintf("documents/%d/versions", id), nil)
	return read(ctx, q.cache, fp, func(ctx context.Context) ([]api.Document, error) {
		return q.api.Documents().Versions(ctx, id)
	})
}

func (q *DocumentsQueries) Upload(ctx context.Context, input api.DocumentUpload) (*api.Document, error) {
	return mutate(ctx, q.cache, querycache.MutationDocumentUpload, nil, func(ctx context.Context) (*api.Document, error) {
		return q.api.Documents().Upload(ctx, input)
	})
}

func (q *DocumentsQueries) Rename(ctx context.Context, id int64, name string) (*api.Document, error) {
	return mutate(ctx, q.cache, querycache.MutationDocumentUpdate, nil, func(ctx context.Context) (*api.Document, error) {
		return q.api.Documents().Rename(ctx, id, name)
	})
}

func (q *DocumentsQueries) Delete(ctx context.Context, id int64) error {
	_, err := q.cache.Mutate(ctx, querycache.MutationDocumentDelete, nil, func(ctx context.Context) (any, error) {
		return nil, q.api.Documents().Delete(ctx, id)
	})
	return err
}

// Download returns the raw file bytes, always from the server.
func (q *DocumentsQueries) Download(ctx context.Context, id int64) ([]byte, error) {
	return q.api.Documents().Download(ctx, id)
}
