package swipe

import (
	"context"

	"github.com/oggyb/muzz-interest/internal/model"
	"github.com/oggyb/muzz-interest/internal/utils/pagination"
)

// GetActionHistory lists actor's actions newest first, undone ones included.
func (e *Engine) GetActionHistory(ctx context.Context, actorID uint64, limit, offset int) ([]model.ActionRecord, error) {
	if actorID == 0 {
		return nil, ErrInvalidUsers
	}
	p := pagination.Normalize(limit, offset)
	out, err := e.store.ListActions(ctx, actorID, p.Limit, p.Offset)
	return out, persistence(err)
}

// GetUsersWhoLikedMe lists live likes and super-likes sent to userID by
// people userID has not acted on yet.
func (e *Engine) GetUsersWhoLikedMe(ctx context.Context, userID uint64, limit, offset int) ([]model.ActionRecord, error) {
	if userID == 0 {
		return nil, ErrInvalidUsers
	}
	p := pagination.Normalize(limit, offset)
	out, err := e.store.ListLikers(ctx, userID, p.Limit, p.Offset)
	return out, persistence(err)
}

// CountUsersWhoLikedMe is the unpaged size of GetUsersWhoLikedMe.
func (e *Engine) CountUsersWhoLikedMe(ctx context.Context, userID uint64) (int64, error) {
	if userID == 0 {
		return 0, ErrInvalidUsers
	}
	n, err := e.store.CountLikers(ctx, userID)
	return n, persistence(err)
}

// GetMutualMatches lists userID's active matches, most recent first.
func (e *Engine) GetMutualMatches(ctx context.Context, userID uint64, limit, offset int) ([]model.MatchRecord, error) {
	if userID == 0 {
		return nil, ErrInvalidUsers
	}
	p := pagination.Normalize(limit, offset)
	out, err := e.store.ListActiveMatches(ctx, userID, p.Limit, p.Offset)
	return out, persistence(err)
}

// NextCandidates ranks userID's queue and returns the top limit entries.
func (e *Engine) NextCandidates(ctx context.Context, userID uint64, limit int) ([]model.QueueEntry, error) {
	if userID == 0 {
		return nil, ErrInvalidUsers
	}
	out, err := e.ranker.Next(ctx, userID, pagination.Normalize(limit, 0).Limit)
	return out, persistence(err)
}
