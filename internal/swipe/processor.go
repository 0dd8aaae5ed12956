package swipe

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/oggyb/muzz-interest/internal/events"
	"github.com/oggyb/muzz-interest/internal/model"
)

// Result is the outcome of a successful Process call.
type Result struct {
	ActionID string
	IsMatch  bool
	MatchID  string
}

// Process validates, rate-limits and records actor's action on target, then
// resolves a match for likes and super-likes.
//
// Checks run in order and the first failure wins: invalid_users,
// invalid_action, the rate limiter's reason, action_exists, invalid_target.
// Nothing is written before all of them pass. The insert, block-list
// append and match resolution commit together.
func (e *Engine) Process(ctx context.Context, actorID, targetID uint64, t model.ActionType, metadata map[string]any) (res Result, err error) {
	ctx, span := e.tracer.Start(ctx, "swipe.Process", trace.WithAttributes(
		attribute.Int64("actor_id", int64(actorID)),
		attribute.Int64("target_id", int64(targetID)),
		attribute.String("action", string(t)),
	))
	defer func() { endSpan(span, err) }()

	log := e.log.With("actor_id", actorID, "target_id", targetID, "action", string(t))

	if actorID == 0 || targetID == 0 || actorID == targetID {
		return Result{}, ErrInvalidUsers
	}
	if !t.IsValid() {
		return Result{}, ErrInvalidAction
	}

	defer e.locks.Lock(actorKey(actorID))()
	defer e.locks.Lock(pairKey(actorID, targetID))()

	now := e.nowFn()
	decision, err := e.limiter.Check(ctx, actorID, t, now, e.actorLocation(ctx, actorID))
	if err != nil {
		return Result{}, persistence(err)
	}
	if !decision.Allowed {
		log.DebugContext(ctx, "action rate limited", "reason", decision.Reason)
		return Result{}, rateLimited(decision.Reason)
	}

	existing, err := e.store.FindActiveAction(ctx, actorID, targetID)
	if err != nil {
		return Result{}, persistence(err)
	}
	if existing != nil {
		return Result{}, ErrActionExists
	}

	target, err := e.profiles.GetProfile(ctx, targetID)
	if errors.Is(err, model.ErrNotFound) {
		return Result{}, ErrInvalidTarget
	}
	if err != nil {
		return Result{}, persistence(err)
	}
	if !target.Active {
		return Result{}, ErrInvalidTarget
	}

	rec := model.ActionRecord{
		ID:        e.newID(),
		ActorID:   actorID,
		TargetID:  targetID,
		Type:      t,
		Metadata:  metadata,
		CreatedAt: now,
	}

	var outcome MatchOutcome
	err = e.pairTx(ctx, actorID, targetID, func(tx Tx) error {
		if err := tx.InsertAction(ctx, rec); err != nil {
			if errors.Is(err, model.ErrConflict) {
				return ErrActionExists
			}
			return err
		}
		if t == model.ActionBlock {
			if err := tx.InsertBlock(ctx, actorID, targetID, rec.MetadataString(MetaReason), now); err != nil {
				return err
			}
		}
		if t.IsInterest() {
			var err error
			outcome, err = e.resolver.CheckAndCreate(ctx, tx, actorID, targetID)
			return err
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrActionExists) {
			log.ErrorContext(ctx, "action not recorded", "error", err)
		}
		return Result{}, persistence(err)
	}

	res = Result{ActionID: rec.ID, IsMatch: outcome.Matched}
	if outcome.Matched {
		res.MatchID = outcome.Match.ID
	}
	log.InfoContext(ctx, "action recorded", "action_id", rec.ID, "is_match", res.IsMatch, "match_id", res.MatchID)

	e.afterProcess(context.WithoutCancel(ctx), rec, outcome)
	return res, nil
}

// afterProcess runs the post-commit side effects. Failures are logged and
// never change the caller's result.
func (e *Engine) afterProcess(ctx context.Context, rec model.ActionRecord, outcome MatchOutcome) {
	at := rec.CreatedAt
	switch {
	case outcome.Matched:
		m := outcome.Match
		e.publish(ctx, func() (events.Event, error) {
			return events.NewMatchCreated(m.ID, m.UserLowID, m.UserHighID, at)
		})
	case rec.Type == model.ActionSuperLike:
		e.publish(ctx, func() (events.Event, error) {
			return events.NewSuperLikeReceived(rec.TargetID, rec.ActorID, at)
		})
	case rec.Type == model.ActionBlock:
		e.publish(ctx, func() (events.Event, error) {
			return events.NewUserBlocked(rec.ActorID, rec.TargetID, rec.MetadataString(MetaReason), at)
		})
	case rec.Type == model.ActionReport:
		e.publish(ctx, func() (events.Event, error) {
			return events.NewUserReported(rec.TargetID, rec.ActorID,
				rec.MetadataString(MetaReason), rec.MetadataString(MetaDescription), at)
		})
	}

	if e.queue != nil {
		if err := e.queue.RemoveEntry(ctx, rec.ActorID, rec.TargetID); err != nil {
			e.log.WarnContext(ctx, "queue removal failed", "user_id", rec.ActorID, "candidate_id", rec.TargetID, "error", err)
		}
	}
	if err := e.profiles.TouchLastActive(ctx, rec.ActorID, at); err != nil {
		e.log.WarnContext(ctx, "touch last active failed", "user_id", rec.ActorID, "error", err)
	}
	e.invalidateCounts(ctx, rec.ActorID, rec.TargetID)
}

func (e *Engine) publish(ctx context.Context, build func() (events.Event, error)) {
	if e.events == nil {
		return
	}
	ev, err := build()
	if err != nil {
		e.log.WarnContext(ctx, "event build failed", "error", err)
		return
	}
	if err := e.events.Publish(ctx, ev); err != nil {
		e.log.WarnContext(ctx, "event publish failed", "event_type", ev.Type, "event_id", ev.ID, "error", err)
	}
}

func (e *Engine) invalidateCounts(ctx context.Context, userIDs ...uint64) {
	if e.counts == nil {
		return
	}
	if err := e.counts.InvalidateLikeCounts(ctx, userIDs...); err != nil {
		e.log.WarnContext(ctx, "like count invalidation failed", "users", userIDs, "error", err)
	}
}

// actorLocation is the actor's profile zone, else the default.
func (e *Engine) actorLocation(ctx context.Context, actorID uint64) *time.Location {
	p, err := e.profiles.GetProfile(ctx, actorID)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			e.log.WarnContext(ctx, "actor profile lookup failed", "actor_id", actorID, "error", err)
		}
		return e.defaultLoc
	}
	return p.Location(e.defaultLoc)
}

func (e *Engine) Like(ctx context.Context, actorID, targetID uint64) (Result, error) {
	return e.Process(ctx, actorID, targetID, model.ActionLike, nil)
}

func (e *Engine) Dislike(ctx context.Context, actorID, targetID uint64) (Result, error) {
	return e.Process(ctx, actorID, targetID, model.ActionDislike, nil)
}

func (e *Engine) SuperLike(ctx context.Context, actorID, targetID uint64) (Result, error) {
	return e.Process(ctx, actorID, targetID, model.ActionSuperLike, nil)
}

func (e *Engine) Pass(ctx context.Context, actorID, targetID uint64) (Result, error) {
	return e.Process(ctx, actorID, targetID, model.ActionPass, nil)
}

// Block records a block and appends target to actor's block list.
func (e *Engine) Block(ctx context.Context, actorID, targetID uint64, reason string) (Result, error) {
	return e.Process(ctx, actorID, targetID, model.ActionBlock, withReason(reason, ""))
}

// Report records a report and publishes user.reported.
func (e *Engine) Report(ctx context.Context, actorID, targetID uint64, reason, description string) (Result, error) {
	return e.Process(ctx, actorID, targetID, model.ActionReport, withReason(reason, description))
}

func withReason(reason, description string) map[string]any {
	md := map[string]any{}
	if reason != "" {
		md[MetaReason] = reason
	}
	if description != "" {
		md[MetaDescription] = description
	}
	if len(md) == 0 {
		return nil
	}
	return md
}

// CheckAndCreate resolves a match for the pair in its own transaction.
func (e *Engine) CheckAndCreate(ctx context.Context, actorID, targetID uint64) (isMatch bool, matchID string, err error) {
	if actorID == 0 || targetID == 0 || actorID == targetID {
		return false, "", ErrInvalidUsers
	}
	defer e.locks.Lock(pairKey(actorID, targetID))()

	var outcome MatchOutcome
	err = e.pairTx(ctx, actorID, targetID, func(tx Tx) error {
		var err error
		outcome, err = e.resolver.CheckAndCreate(ctx, tx, actorID, targetID)
		return err
	})
	if err != nil {
		return false, "", persistence(err)
	}
	return outcome.Matched, outcome.Match.ID, nil
}

// Deactivate sets the pair's match inactive; absent matches are a no-op.
func (e *Engine) Deactivate(ctx context.Context, actorID, targetID uint64) error {
	if actorID == 0 || targetID == 0 || actorID == targetID {
		return ErrInvalidUsers
	}
	defer e.locks.Lock(pairKey(actorID, targetID))()

	err := e.pairTx(ctx, actorID, targetID, func(tx Tx) error {
		_, err := e.resolver.Deactivate(ctx, tx, actorID, targetID)
		return err
	})
	return persistence(err)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.SetAttributes(attribute.String("swipe.code", string(CodeOf(err))))
		if IsFault(err) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}
