// Package ratelimit decides whether an actor may take another action.
//
// The per-minute window slides (the trailing 60 seconds before now) while the
// daily windows reset at the actor's local midnight. Evaluation never mutates
// anything: counts are derived from persisted actions, so a denied request
// costs nothing.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/oggyb/muzz-interest/internal/model"
)

// Reason is the machine-readable cause of a denial.
type Reason string

const (
	ReasonMinute          Reason = "rate_limit_minute"
	ReasonDailyLikes      Reason = "daily_likes_exceeded"
	ReasonDailySuperLikes Reason = "daily_super_likes_exceeded"
)

// Limits are the thresholds; a count equal to the limit is denied.
type Limits struct {
	PerMinute       int
	DailyLikes      int
	DailySuperLikes int
}

// DefaultLimits are 10 actions a minute, 100 likes and 5 super-likes a day.
func DefaultLimits() Limits {
	return Limits{PerMinute: 10, DailyLikes: 100, DailySuperLikes: 5}
}

// Counts are the actor's recent activity.
type Counts struct {
	LastMinute      int64
	LikesToday      int64
	SuperLikesToday int64
}

// Decision is Allowed, or denied with a Reason.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision             { return Decision{Allowed: true} }
func deny(r Reason) Decision      { return Decision{Reason: r} }
func (d Decision) String() string { return fmt.Sprintf("allowed=%t reason=%s", d.Allowed, d.Reason) }

// Evaluate applies limits to counts for an action of type t.
func Evaluate(l Limits, c Counts, t model.ActionType) Decision {
	if c.LastMinute >= int64(l.PerMinute) {
		return deny(ReasonMinute)
	}
	switch t {
	case model.ActionLike:
		if c.LikesToday >= int64(l.DailyLikes) {
			return deny(ReasonDailyLikes)
		}
	case model.ActionSuperLike:
		if c.SuperLikesToday >= int64(l.DailySuperLikes) {
			return deny(ReasonDailySuperLikes)
		}
	}
	return allow()
}

// StartOfDay returns local midnight of now's calendar day in loc.
func StartOfDay(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// CounterSource reads activity counts from persisted actions.
type CounterSource interface {
	// CountActionsSince counts all actions (undone included) created after since.
	CountActionsSince(ctx context.Context, actorID uint64, since time.Time) (int64, error)
	// CountActiveActionsSince counts live actions of type t created at or after since.
	CountActiveActionsSince(ctx context.Context, actorID uint64, t model.ActionType, since time.Time) (int64, error)
}

// Limiter gathers counts and evaluates them.
type Limiter struct {
	limits Limits
	src    CounterSource
}

func NewLimiter(limits Limits, src CounterSource) *Limiter {
	return &Limiter{limits: limits, src: src}
}

// Limits returns the configured thresholds.
func (l *Limiter) Limits() Limits { return l.limits }

// Check decides whether actorID may take an action of type t at now. loc is
// the actor's timezone for the daily windows. Errors come only from the
// counter source.
func (l *Limiter) Check(ctx context.Context, actorID uint64, t model.ActionType, now time.Time, loc *time.Location) (Decision, error) {
	var c Counts
	var err error

	c.LastMinute, err = l.src.CountActionsSince(ctx, actorID, now.Add(-time.Minute))
	if err != nil {
		return Decision{}, fmt.Errorf("count recent actions: %w", err)
	}
	if c.LastMinute >= int64(l.limits.PerMinute) {
		return deny(ReasonMinute), nil
	}

	midnight := StartOfDay(now, loc)
	switch t {
	case model.ActionLike:
		c.LikesToday, err = l.src.CountActiveActionsSince(ctx, actorID, model.ActionLike, midnight)
	case model.ActionSuperLike:
		c.SuperLikesToday, err = l.src.CountActiveActionsSince(ctx, actorID, model.ActionSuperLike, midnight)
	}
	if err != nil {
		return Decision{}, fmt.Errorf("count daily %s: %w", t, err)
	}
	return Evaluate(l.limits, c, t), nil
}
