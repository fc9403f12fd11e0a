package queries

import (
	"context"
	"fmt"

	"github.com/casedesk/casedesk-go/api"
	"github.com/casedesk/casedesk-go/querycache"
)

// CasesQueries is the cache-backed view of the case endpoints.
type CasesQueries struct {
	cache *querycache.Cache
	api   *api.Client
}

func (q *CasesQueries) List(ctx context.Context, filters map[string]string) (*api.CaseList, error) {
	fp := querycache.NewFingerprint("cases/list", filters)
	return read(ctx, q.cache, fp, func(ctx context.Context) (*api.CaseList, error) {
		return q.api.Cases().List(ctx, filters)
	})
}

func (q *CasesQueries) Get(ctx context.Context, id int64) (*api.Case, error) {
	fp := querycache.NewFingerprint(fmt.Sprintf("cases/%d", id), nil)
	return read(ctx, q.cache, fp, func(ctx context.Context) (*api.Case, error) {
		return q.api.Cases().Get(ctx, id)
	})
}

func (q *CasesQueries) Notes(ctx context.Context, caseID int64) ([]api.CaseNote, error) {
	fp := querycache.NewFingerprint(fmt.Sprintf("cases/%d/notes", caseID), nil)
	return read(ctx, q.cache, fp, func(ctx context.Context) ([]api.CaseNote, error) {
		return q.api.Cases().Notes(ctx, caseID)
	})
}

func (q *CasesQueries) Assignments(ctx context.Context, caseID int64) ([]api.CaseAssignment, error) {
	fp := querycache.NewFingerprint(fmt.Sprintf("cases/%d/assignments", caseID), nil)
	return read(ctx, q.cache, fp, func(ctx context.Context) ([]api.CaseAssignment, error) {
		return q.api.Cases().Assignments(ctx, caseID)
	})
}

func (q *CasesQueries) Create(ctx context.Context, input api.CaseInput) (*api.Case, error) {
	return mutate(ctx, q.cache, querycache.MutationCaseCreate, nil, func(ctx context.Context) (*api.Case, error) {
		return q.api.Cases().Create(ctx, input)
	})
}

func (q *CasesQueries) Update(ctx context.Context, id int64, input api.CaseInput) (*api.Case, error) {
	return mutate(ctx, q.cache, querycache.MutationCaseUpdate, caseArgs(id), func(ctx context.Context) (*api.Case, error) {
		return q.api.Cases().Update(ctx, id, input)
	})
}

func (q *CasesQueries) Delete(ctx context.Context, id int64) error {
	_, err := q.cache.Mutate(ctx, querycache.MutationCaseDelete, caseArgs(id), func(ctx context.Context) (any, error) {
		return nil, q.api.Cases().Delete(ctx, id)
	})
	return err
}

func (q *CasesQueries) AddNote(ctx context.Context, caseID int64, body string) (*api.CaseNote, error) {
	return mutate(ctx, q.cache, querycache.MutationCaseNoteAdd, caseArgs(caseID), func(ctx context.Context) (*api.CaseNote, error) {
		return q.api.Cases().AddNote(ctx, caseID, body)
	})
}

func (q *CasesQueries) DeleteNote(ctx context.Context, caseID, noteID int64) error {
	_, err := q.cache.Mutate(ctx, querycache.MutationCaseNoteDelete, caseArgs(caseID), func(ctx context.Context) (any, error) {
		return nil, q.api.Cases().DeleteNote(ctx, caseID, noteID)
	})
	return err
}

func (q *CasesQueries) AddAssignment(ctx context.Context, caseID int64, input api.CaseAssignmentInput) (*api.CaseAssignment, error) {
	return mutate(ctx, q.cache, querycache.MutationCaseAssignmentAdd, caseArgs(caseID), func(ctx context.Context) (*api.CaseAssignment, error) {
		return q.api.Cases().AddAssignment(ctx, caseID, input)
	})
}

func (q *CasesQueries) RemoveAssignment(ctx context.Context, caseID, assignmentID int64) error {
	_, err := q.cache.Mutate(ctx, querycache.MutationCaseAssignmentRemove, caseArgs(caseID), func(ctx context.Context) (any, error) {
		return nil, q.api.Cases().RemoveAssignment(ctx, caseID, assignmentID)
	})
	return err
}

// CaseTypesQueries is the cache-backed view of the case-type lookup table.
// Case types change rarely, so the family carries a long staleness window.
type CaseTypesQueries struct {
	cache *querycache.Cache
	api   *api.Client
}

func (q *CaseTypesQueries) List(ctx context.Context) ([]api.CaseType, error) {
	fp := querycache.NewFingerprint("case-types", nil)
	return read(ctx, q.cache, fp, func(ctx context.Context) ([]api.CaseType, error) {
		return q.api.CaseTypes().List(ctx)
	})
}

func (q *CaseTypesQueries) Create(ctx context.Context, name string) (*api.CaseType, error) {
	return mutate(ctx, q.cache, querycache.MutationCaseTypeCreate, nil, func(ctx context.Context) (*api.CaseType, error) {
		return q.api.CaseTypes().Create(ctx, name)
	})
}

func (q *CaseTypesQueries) Delete(ctx context.Context, id int64) error {
	_, err := q.cache.Mutate(ctx, querycache.MutationCaseTypeDelete, nil, func(ctx context.Context) (any, error) {
		return nil, q.api.CaseTypes().Delete(ctx, id)
	})
	return err
}
