package swipe

import (
	"context"
	"time"

	"github.com/oggyb/muzz-interest/internal/compat"
	"github.com/oggyb/muzz-interest/internal/model"
	"github.com/oggyb/muzz-interest/internal/ratelimit"
)

// Tx is the persistence surface available inside one transaction.
type Tx interface {
	// LockPair row-locks the pair until the transaction ends. It must be the
	// first statement so later reads see every earlier writer's commit.
	// The lock row must exist, see Store.EnsurePairLock.
	LockPair(ctx context.Context, pair model.Pair) error

	FindActiveAction(ctx context.Context, actorID, targetID uint64) (*model.ActionRecord, error)
	// InsertAction returns model.ErrConflict when a live action already
	// exists for the ordered pair.
	InsertAction(ctx context.Context, rec model.ActionRecord) error
	HasActiveInterest(ctx context.Context, actorID, targetID uint64) (bool, error)
	LatestUndoableAction(ctx context.Context, actorID uint64) (*model.ActionRecord, error)
	// MarkActionUndone returns false when the action is already undone.
	MarkActionUndone(ctx context.Context, id string, at time.Time) (bool, error)

	FindMatch(ctx context.Context, pair model.Pair) (*model.MatchRecord, error)
	// InsertMatch returns model.ErrConflict when the pair already has a row,
	// leaving the transaction usable.
	InsertMatch(ctx context.Context, m model.MatchRecord) error
	UpdateMatch(ctx context.Context, m model.MatchRecord) error

	InsertBlock(ctx context.Context, blockerID, blockedID uint64, reason string, at time.Time) error
}

// Store is the action/match persistence provider.
type Store interface {
	Tx
	ratelimit.CounterSource

	// WithTx runs fn in a transaction; an error from fn rolls it back.
	WithTx(ctx context.Context, fn func(tx Tx) error) error
	// EnsurePairLock creates the pair's lock row if missing. It runs outside
	// any transaction.
	EnsurePairLock(ctx context.Context, pair model.Pair) error

	ListActions(ctx context.Context, actorID uint64, limit, offset int) ([]model.ActionRecord, error)
	ListLikers(ctx context.Context, userID uint64, limit, offset int) ([]model.ActionRecord, error)
	CountLikers(ctx context.Context, userID uint64) (int64, error)
	ListActiveMatches(ctx context.Context, userID uint64, limit, offset int) ([]model.MatchRecord, error)
}

// QueueStore holds per-user candidate queues.
type QueueStore interface {
	RemoveEntry(ctx context.Context, userID, candidateID uint64) error
	InsertEntryIfAbsent(ctx context.Context, e model.QueueEntry) (bool, error)
	ListEntries(ctx context.Context, userID uint64, limit int) ([]model.QueueEntry, error)
}

// Profiles is the profile provider the engine reads and touches.
type Profiles interface {
	GetProfile(ctx context.Context, userID uint64) (*model.Profile, error)
	TouchLastActive(ctx context.Context, userID uint64, at time.Time) error
}

// Scorer recomputes a candidate's compatibility.
type Scorer interface {
	Score(ctx context.Context, actorID, targetID uint64, base float64) (float64, compat.Breakdown)
}

// LikeCountInvalidator drops cached liked-me counts.
type LikeCountInvalidator interface {
	InvalidateLikeCounts(ctx context.Context, userIDs ...uint64) error
}
