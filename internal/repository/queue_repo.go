package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/muzz-interest/internal/db"
	"github.com/oggyb/muzz-interest/internal/model"
)

// QueueRepository stores per-user discovery queues.
type QueueRepository struct {
	db *gorm.DB
}

func NewQueueRepository(database *gorm.DB) *QueueRepository {
	return &QueueRepository{db: database}
}

// RemoveEntry drops candidateID from userID's queue. Missing entries are fine.
func (r *QueueRepository) RemoveEntry(ctx context.Context, userID, candidateID uint64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND candidate_id = ?", userID, candidateID).
		Delete(&db.QueueEntry{}).Error
}

// InsertEntryIfAbsent adds the entry unless the pair is already queued.
// It reports whether a row was written.
func (r *QueueRepository) InsertEntryIfAbsent(ctx context.Context, e model.QueueEntry) (bool, error) {
	row := db.QueueEntry{
		UserID:             e.UserID,
		CandidateID:        e.CandidateID,
		CompatibilityScore: e.CompatibilityScore,
		BoostScore:         e.BoostScore,
		Priority:           e.Priority,
		InsertedAt:         e.InsertedAt.UTC(),
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "candidate_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListEntries returns the user's queue in insertion order. limit <= 0 means all.
func (r *QueueRepository) ListEntries(ctx context.Context, userID uint64, limit int) ([]model.QueueEntry, error) {
	var rows []db.QueueEntry
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("inserted_at ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]model.QueueEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, toQueueEntry(row))
	}
	return out, nil
}
