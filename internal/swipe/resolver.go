package swipe

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oggyb/muzz-interest/internal/model"
)

// MatchOutcome is what CheckAndCreate decided for a pair.
type MatchOutcome struct {
	Matched bool
	Match   model.MatchRecord
	// Created is true for a new row or a reactivation, false when the match
	// was already active.
	Created bool
}

// MatchResolver turns reciprocal interest into a single canonical match.
type MatchResolver struct {
	now   func() time.Time
	newID func() string
	log   *slog.Logger
}

// CheckAndCreate matches actor and target when target already has a live
// like or super-like on actor. An existing inactive match is reactivated;
// an active one is returned untouched.
func (r *MatchResolver) CheckAndCreate(ctx context.Context, tx Tx, actorID, targetID uint64) (MatchOutcome, error) {
	reciprocal, err := tx.HasActiveInterest(ctx, targetID, actorID)
	if err != nil {
		return MatchOutcome{}, err
	}
	if !reciprocal {
		return MatchOutcome{}, nil
	}

	pair := model.CanonicalPair(actorID, targetID)
	existing, err := tx.FindMatch(ctx, pair)
	if err != nil {
		return MatchOutcome{}, err
	}
	if existing != nil {
		return r.reactivate(ctx, tx, *existing)
	}

	now := r.now()
	m := model.MatchRecord{
		ID:             r.newID(),
		UserLowID:      pair.Low,
		UserHighID:     pair.High,
		Status:         model.MatchActive,
		MatchedAt:      now,
		LastActivityAt: now,
	}
	err = tx.InsertMatch(ctx, m)
	if errors.Is(err, model.ErrConflict) {
		// Another writer created the pair first.
		r.log.DebugContext(ctx, "match insert conflict, re-reading", "low", pair.Low, "high", pair.High)
		existing, err = tx.FindMatch(ctx, pair)
		if err != nil {
			return MatchOutcome{}, err
		}
		if existing == nil {
			return MatchOutcome{}, model.ErrConflict
		}
		return r.reactivate(ctx, tx, *existing)
	}
	if err != nil {
		return MatchOutcome{}, err
	}
	return MatchOutcome{Matched: true, Match: m, Created: true}, nil
}

func (r *MatchResolver) reactivate(ctx context.Context, tx Tx, m model.MatchRecord) (MatchOutcome, error) {
	if m.IsActive() {
		return MatchOutcome{Matched: true, Match: m}, nil
	}
	now := r.now()
	m.Status = model.MatchActive
	m.MatchedAt = now
	m.LastActivityAt = now
	if err := tx.UpdateMatch(ctx, m); err != nil {
		return MatchOutcome{}, err
	}
	return MatchOutcome{Matched: true, Match: m, Created: true}, nil
}

// Deactivate sets the pair's match inactive. It reports whether an active
// match was changed; a missing or inactive match is a no-op.
func (r *MatchResolver) Deactivate(ctx context.Context, tx Tx, a, b uint64) (bool, error) {
	m, err := tx.FindMatch(ctx, model.CanonicalPair(a, b))
	if err != nil || m == nil || !m.IsActive() {
		return false, err
	}
	m.Status = model.MatchInactive
	m.LastActivityAt = r.now()
	if err := tx.UpdateMatch(ctx, *m); err != nil {
		return false, err
	}
	return true, nil
}
