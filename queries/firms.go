package queries

import (
	"context"
	"fmt"

	"github.com/casedesk/casedesk-go/api"
	"github.com/casedesk/casedesk-go/querycache"
)

// FirmsQueries is the cache-backed view of the firm and roster endpoints.
type FirmsQueries struct {
	cache *querycache.Cache
	api   *api.Client
}

func (q *FirmsQueries) Get(ctx context.Context, id int64) (*api.Firm, error) {
	fp := querycache.NewFingerprint(fmt.Sprintf("firms/%d", id), nil)
	return read(ctx, q.cache, fp, func(ctx context.Context) (*api.Firm, error) {
		return q.api.Firms().Get(ctx, id)
	})
}

func (q *FirmsQueries) Members(ctx context.Context, firmID int64) ([]api.FirmMember, error) {
	fp := querycache.NewFingerprint(fmt.Sprintf("firms/%d/members", firmID), nil)
	return read(ctx, q.cache, fp, func(ctx context.Context) ([]api.FirmMember, error) {
		return q.api.Firms().Members(ctx, firmID)
	})
}

func (q *FirmsQueries) Update(ctx context.Context, id int64, name string) (*api.Firm, error) {
	return mutate(ctx, q.cache, querycache.MutationFirmUpdate, nil, func(ctx context.Context) (*api.Firm, error) {
		return q.api.Firms().Update(ctx, id, name)
	})
}

func (q *FirmsQueries) InviteMember(ctx context.Context, firmID int64, input api.FirmMemberInput) (*api.FirmMember, error) {
	return mutate(ctx, q.cache, querycache.MutationFirmMemberInvite, nil, func(ctx context.Context) (*api.FirmMember, error) {
		return q.api.Firms().InviteMember(ctx, firmID, input)
	})
}

func (q *FirmsQueries) UpdateMember(ctx context.Context, firmID, userID int64, input api.FirmMemberInput) (*api.FirmMember, error) {
	return mutate(ctx, q.cache, querycache.MutationFirmMemberUpdate, nil, func(ctx context.Context) (*api.FirmMember, error) {
		return q.api.Firms().UpdateMember(ctx, firmID, userID, input)
	})
}

func (q *FirmsQueries) RemoveMember(ctx context.Context, firmID, userID int64) error {
	_, err := q.cache.Mutate(ctx, querycache.MutationFirmMemberRemove, nil, func(ctx context.Context) (any, error) {
		return nil, q.api.Firms().RemoveMember(ctx, firmID, userID)
	})
	return err
}
