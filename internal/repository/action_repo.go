package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/muzz-interest/internal/db"
	"github.com/oggyb/muzz-interest/internal/model"
	"github.com/oggyb/muzz-interest/internal/swipe"
)

var interestTypes = typeNames([]model.ActionType{model.ActionLike, model.ActionSuperLike})

// ActionRepository provides data access for actions, matches and blocks.
// A repository bound to a transaction handle (see WithTx) runs every method
// inside that transaction.
type ActionRepository struct {
	db *gorm.DB
}

var _ swipe.Store = (*ActionRepository)(nil)

// NewActionRepository creates a new repository bound to the given DB connection.
func NewActionRepository(database *gorm.DB) *ActionRepository {
	return &ActionRepository{db: database}
}

// WithTx runs fn inside one database transaction. Returning an error from fn
// rolls back everything fn wrote.
func (r *ActionRepository) WithTx(ctx context.Context, fn func(tx swipe.Tx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ActionRepository{db: tx})
	})
}

// EnsurePairLock inserts the pair's lock row unless it exists. Called
// outside a transaction so the insert never holds locks LockPair waits on.
func (r *ActionRepository) EnsurePairLock(ctx context.Context, pair model.Pair) error {
	row := db.PairLock{UserLowID: pair.Low, UserHighID: pair.High}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_low_id"}, {Name: "user_high_id"}},
			DoNothing: true,
		}).
		Create(&row).Error
}

// LockPair selects the pair's lock row FOR UPDATE. SQLite has no row locks
// and the driver drops the clause; its single writer serialises instead.
func (r *ActionRepository) LockPair(ctx context.Context, pair model.Pair) error {
	var row db.PairLock
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("user_low_id = ? AND user_high_id = ?", pair.Low, pair.High).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ErrNotFound
	}
	return err
}

// FindActiveAction returns the live (not undone) action actor -> target, or nil.
func (r *ActionRepository) FindActiveAction(ctx context.Context, actorID, targetID uint64) (*model.ActionRecord, error) {
	var row db.Action
	err := r.db.WithContext(ctx).
		Where("actor_id = ? AND target_id = ? AND undone_at IS NULL", actorID, targetID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec := toActionRecord(row)
	return &rec, nil
}

// InsertAction stores a new live action.
//
// Behavior:
//   - active_pair is set to "actor:target", so a second live action for the
//     same ordered pair violates ux_actions_active_pair.
//   - That violation is reported as model.ErrConflict.
func (r *ActionRepository) InsertAction(ctx context.Context, rec model.ActionRecord) error {
	row := db.Action{
		ID:         rec.ID,
		ActorID:    rec.ActorID,
		TargetID:   rec.TargetID,
		Type:       string(rec.Type),
		ActivePair: activePairKey(rec.ActorID, rec.TargetID),
		CreatedAt:  rec.CreatedAt.UTC(),
	}
	if len(rec.Metadata) > 0 {
		row.Metadata = rec.Metadata
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isConflict(err) {
			return model.ErrConflict
		}
		return err
	}
	return nil
}

// HasActiveInterest checks whether actor has a live like or super-like on target.
func (r *ActionRepository) HasActiveInterest(ctx context.Context, actorID, targetID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Action{}).
		Where("actor_id = ? AND target_id = ? AND type IN ? AND undone_at IS NULL", actorID, targetID, interestTypes).
		Count(&count).Error
	return count > 0, err
}

// LatestUndoableAction returns the actor's most recent live like, dislike,
// super-like or pass, or nil when there is none.
func (r *ActionRepository) LatestUndoableAction(ctx context.Context, actorID uint64) (*model.ActionRecord, error) {
	var row db.Action
	err := r.db.WithContext(ctx).
		Where("actor_id = ? AND undone_at IS NULL AND type IN ?", actorID, typeNames(model.UndoableTypes())).
		Order("created_at DESC, id DESC").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec := toActionRecord(row)
	return &rec, nil
}

// MarkActionUndone flips a live action to undone and frees its active_pair
// slot. It returns false when the action was already undone.
func (r *ActionRepository) MarkActionUndone(ctx context.Context, id string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db.Action{}).
		Where("id = ? AND undone_at IS NULL", id).
		Updates(map[string]any{"undone_at": at.UTC(), "active_pair": nil})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindMatch returns the match row for the canonical pair, or nil.
func (r *ActionRepository) FindMatch(ctx context.Context, pair model.Pair) (*model.MatchRecord, error) {
	var row db.Match
	err := r.db.WithContext(ctx).
		Where("user_low_id = ? AND user_high_id = ?", pair.Low, pair.High).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m := toMatchRecord(row)
	return &m, nil
}

// InsertMatch creates a match row inside a savepoint so a pair conflict
// leaves the surrounding transaction usable. Conflicts return model.ErrConflict.
func (r *ActionRepository) InsertMatch(ctx context.Context, m model.MatchRecord) error {
	if m.UserLowID > m.UserHighID {
		return fmt.Errorf("match %s is not canonical", m.ID)
	}
	row := fromMatchRecord(m)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&row).Error
	})
	if isConflict(err) {
		return model.ErrConflict
	}
	return err
}

// UpdateMatch persists status and timestamps of an existing match.
func (r *ActionRepository) UpdateMatch(ctx context.Context, m model.MatchRecord) error {
	res := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("id = ?", m.ID).
		Updates(map[string]any{
			"status":           string(m.Status),
			"matched_at":       m.MatchedAt.UTC(),
			"last_activity_at": m.LastActivityAt.UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// InsertBlock appends blocked to blocker's block list. Re-blocking is a no-op.
func (r *ActionRepository) InsertBlock(ctx context.Context, blockerID, blockedID uint64, reason string, at time.Time) error {
	row := db.Block{BlockerID: blockerID, BlockedID: blockedID, Reason: reason, CreatedAt: at.UTC()}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "blocker_id"}, {Name: "blocked_id"}},
			DoNothing: true,
		}).
		Create(&row).Error
}

// CountActionsSince counts every action (undone included) the actor created
// after since.
func (r *ActionRepository) CountActionsSince(ctx context.Context, actorID uint64, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Action{}).
		Where("actor_id = ? AND created_at > ?", actorID, since.UTC()).
		Count(&count).Error
	return count, err
}

// CountActiveActionsSince counts live actions of one type created at or after since.
func (r *ActionRepository) CountActiveActionsSince(ctx context.Context, actorID uint64, t model.ActionType, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Action{}).
		Where("actor_id = ? AND type = ? AND undone_at IS NULL AND created_at >= ?", actorID, string(t), since.UTC()).
		Count(&count).Error
	return count, err
}

// ListActions returns the actor's history, newest first, undone rows included.
func (r *ActionRepository) ListActions(ctx context.Context, actorID uint64, limit, offset int) ([]model.ActionRecord, error) {
	var rows []db.Action
	err := r.db.WithContext(ctx).
		Where("actor_id = ?", actorID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toActionRecords(rows), nil
}

// ListLikers returns live likes / super-likes sent to userID by people
// userID has not acted on yet.
//
// Behavior:
//   - Only rows where target_id = X, type is like or super_like, not undone.
//   - Excludes senders X already has a live action for (like, pass, block...).
//   - Ordered by created_at DESC, actor_id DESC.
func (r *ActionRepository) ListLikers(ctx context.Context, userID uint64, limit, offset int) ([]model.ActionRecord, error) {
	var rows []db.Action
	err := r.likersQuery(ctx, userID).
		Order("a.created_at DESC, a.actor_id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toActionRecords(rows), nil
}

// CountLikers counts the rows ListLikers would return without paging.
func (r *ActionRepository) CountLikers(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	if err := r.likersQuery(ctx, userID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ActionRepository) likersQuery(ctx context.Context, userID uint64) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("actions a").
		Where("a.target_id = ? AND a.type IN ? AND a.undone_at IS NULL", userID, interestTypes).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM actions a2
				WHERE a2.actor_id = ?
				  AND a2.target_id = a.actor_id
				  AND a2.undone_at IS NULL
			)`, userID)
}

// ListActiveMatches returns the user's active matches, most recent first.
func (r *ActionRepository) ListActiveMatches(ctx context.Context, userID uint64, limit, offset int) ([]model.MatchRecord, error) {
	var rows []db.Match
	err := r.db.WithContext(ctx).
		Where("status = ? AND (user_low_id = ? OR user_high_id = ?)", string(model.MatchActive), userID, userID).
		Order("matched_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]model.MatchRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, toMatchRecord(row))
	}
	return out, nil
}

func toActionRecords(rows []db.Action) []model.ActionRecord {
	out := make([]model.ActionRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, toActionRecord(row))
	}
	return out
}
