package queue

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/oggyb/muzz-interest/internal/logger"
	"github.com/oggyb/muzz-interest/internal/model"
)

// Rank applies boosts and orders entries by final score descending. Ties
// keep their input order. The input slice is not modified.
func Rank(entries []model.QueueEntry, boosts BoostInputs) []model.QueueEntry {
	out := make([]model.QueueEntry, len(entries))
	for i, e := range entries {
		e.BoostScore = boosts.Candidates[e.CandidateID].Boost(boosts.Now)
		out[i] = e
	}
	slices.SortStableFunc(out, func(a, b model.QueueEntry) int {
		return cmp.Compare(b.FinalScore(), a.FinalScore())
	})
	return out
}

// EntrySource lists a user's stored queue in insertion order.
type EntrySource interface {
	ListEntries(ctx context.Context, userID uint64, limit int) ([]model.QueueEntry, error)
}

// ProfileSource resolves candidate profiles.
type ProfileSource interface {
	GetProfile(ctx context.Context, userID uint64) (*model.Profile, error)
}

// BehavioralBooster is an optional per-candidate boost provider.
type BehavioralBooster interface {
	BehavioralBoost(ctx context.Context, ownerID, candidateID uint64) (float64, error)
}

// Ranker re-ranks a user's queue on read.
type Ranker struct {
	entries  EntrySource
	profiles ProfileSource
	booster  BehavioralBooster
	now      func() time.Time
	log      *slog.Logger
}

type RankerOption func(*Ranker)

func WithBooster(b BehavioralBooster) RankerOption { return func(r *Ranker) { r.booster = b } }

func WithRankerClock(now func() time.Time) RankerOption {
	return func(r *Ranker) { r.now = now }
}

func WithRankerLogger(l *slog.Logger) RankerOption { return func(r *Ranker) { r.log = l } }

func NewRanker(entries EntrySource, profiles ProfileSource, opts ...RankerOption) *Ranker {
	r := &Ranker{entries: entries, profiles: profiles, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	if r.log == nil {
		r.log = logger.L()
	}
	return r
}

// Next returns up to limit ranked candidates for userID. Candidates whose
// profile is gone or inactive are skipped. limit <= 0 returns everything.
//
// The stored queue is fed to Rank priority first (higher Priority, then
// insertion order), so a requeued candidate leads its score ties.
func (r *Ranker) Next(ctx context.Context, userID uint64, limit int) ([]model.QueueEntry, error) {
	stored, err := r.entries.ListEntries(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	inputs := BoostInputs{Now: r.now(), Candidates: make(map[uint64]CandidateSignals, len(stored))}
	live := stored[:0:0]
	for _, e := range stored {
		p, err := r.profiles.GetProfile(ctx, e.CandidateID)
		if errors.Is(err, model.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if !p.Active {
			continue
		}
		sig := CandidateSignals{LastActiveAt: p.LastActiveAt, MembershipTier: p.MembershipTier}
		if r.booster != nil {
			if b, err := r.booster.BehavioralBoost(ctx, userID, e.CandidateID); err == nil {
				sig.BehavioralBoost = b
			} else {
				r.log.DebugContext(ctx, "behavioral boost unavailable", "user_id", userID, "candidate_id", e.CandidateID, "error", err)
			}
		}
		inputs.Candidates[e.CandidateID] = sig
		live = append(live, e)
	}

	slices.SortStableFunc(live, func(a, b model.QueueEntry) int {
		return cmp.Compare(b.Priority, a.Priority)
	})
	ranked := Rank(live, inputs)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
