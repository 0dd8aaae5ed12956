package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/muzz-interest/internal/db"
	"github.com/oggyb/muzz-interest/internal/model"
)

// ProfileRepository reads profiles, behaviour stats and learned preferences.
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

// GetProfile returns the user's profile or model.ErrNotFound.
func (r *ProfileRepository) GetProfile(ctx context.Context, userID uint64) (*model.Profile, error) {
	var row db.User
	err := r.db.WithContext(ctx).Take(&row, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p := toProfile(row)
	return &p, nil
}

// GetBehaviorStats returns stats computed at or after since, or
// model.ErrUnavailable when none are fresh enough.
func (r *ProfileRepository) GetBehaviorStats(ctx context.Context, userID uint64, since time.Time) (*model.BehaviorStats, error) {
	var row db.BehaviorStat
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND computed_at >= ?", userID, since.UTC()).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrUnavailable
	}
	if err != nil {
		return nil, err
	}
	s := toBehaviorStats(row)
	return &s, nil
}

// GetLearnedPreferences returns the user's feature weights or
// model.ErrUnavailable.
func (r *ProfileRepository) GetLearnedPreferences(ctx context.Context, userID uint64) (map[string]float64, error) {
	var row db.LearnedPreference
	err := r.db.WithContext(ctx).Take(&row, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrUnavailable
	}
	if err != nil {
		return nil, err
	}
	w := row.Weights.Data()
	if len(w) == 0 {
		return nil, model.ErrUnavailable
	}
	return w, nil
}

// TouchLastActive records when the user last did something.
func (r *ProfileRepository) TouchLastActive(ctx context.Context, userID uint64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", userID).
		Update("last_active_at", at.UTC()).Error
}
