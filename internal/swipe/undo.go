package swipe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/oggyb/muzz-interest/internal/model"
)

// UndoResult describes the action Undo reversed.
type UndoResult struct {
	UndoneActionID string
	TargetID       uint64
	ActionType     model.ActionType
}

// ReinsertPriority is the tie-break hint given to candidates returned to
// the queue by Undo.
const ReinsertPriority = 1

// Undo reverses the actor's most recent live like, dislike, super-like or
// pass if it is no older than the undo window. A match created by the
// action is deactivated in the same transaction; afterwards the target is
// re-queued with a fresh score.
func (e *Engine) Undo(ctx context.Context, actorID uint64) (res UndoResult, err error) {
	ctx, span := e.tracer.Start(ctx, "swipe.Undo", trace.WithAttributes(
		attribute.Int64("actor_id", int64(actorID)),
	))
	defer func() { endSpan(span, err) }()

	if actorID == 0 {
		return UndoResult{}, ErrInvalidUsers
	}
	defer e.locks.Lock(actorKey(actorID))()

	now := e.nowFn()
	rec, err := e.store.LatestUndoableAction(ctx, actorID)
	if err != nil {
		return UndoResult{}, persistence(err)
	}
	if rec == nil {
		return UndoResult{}, ErrNoActionToUndo
	}
	if now.Sub(rec.CreatedAt) > e.undoWindow {
		return UndoResult{}, ErrUndoExpired
	}

	defer e.locks.Lock(pairKey(actorID, rec.TargetID))()

	var deactivated bool
	err = e.pairTx(ctx, actorID, rec.TargetID, func(tx Tx) error {
		ok, err := tx.MarkActionUndone(ctx, rec.ID, now)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNoActionToUndo
		}
		if rec.Type.IsInterest() {
			deactivated, err = e.resolver.Deactivate(ctx, tx, actorID, rec.TargetID)
		}
		return err
	})
	if err != nil {
		return UndoResult{}, persistence(err)
	}

	e.log.InfoContext(ctx, "action undone",
		"actor_id", actorID, "target_id", rec.TargetID, "action_id", rec.ID,
		"action", string(rec.Type), "match_deactivated", deactivated)

	e.afterUndo(context.WithoutCancel(ctx), *rec, now)
	return UndoResult{UndoneActionID: rec.ID, TargetID: rec.TargetID, ActionType: rec.Type}, nil
}

// afterUndo re-queues the target. Like the other post-commit effects it
// only logs on failure.
func (e *Engine) afterUndo(ctx context.Context, rec model.ActionRecord, now time.Time) {
	if e.queue != nil {
		base := e.base.BaseScore(ctx, rec.ActorID, rec.TargetID)
		score := base
		if e.scorer != nil {
			score, _ = e.scorer.Score(ctx, rec.ActorID, rec.TargetID, base)
		}
		inserted, err := e.queue.InsertEntryIfAbsent(ctx, model.QueueEntry{
			UserID:             rec.ActorID,
			CandidateID:        rec.TargetID,
			CompatibilityScore: score,
			Priority:           ReinsertPriority,
			InsertedAt:         now,
		})
		if err != nil {
			e.log.WarnContext(ctx, "queue reinsertion failed", "user_id", rec.ActorID, "candidate_id", rec.TargetID, "error", err)
		} else {
			e.log.DebugContext(ctx, "candidate requeued", "user_id", rec.ActorID, "candidate_id", rec.TargetID,
				"score", score, "inserted", inserted)
		}
	}
	e.invalidateCounts(ctx, rec.ActorID, rec.TargetID)
}
