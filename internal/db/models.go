package db

import (
	"time"

	"gorm.io/datatypes"
)

// User table. Profile fields feed the compatibility scorer and queue boosts.
type User struct {
	ID                uint64 `gorm:"primaryKey;autoIncrement"`
	Username          string `gorm:"uniqueIndex;size:64;not null"`
	Email             string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash      string `gorm:"size:255;not null"`
	Active            bool   `gorm:"not null"`
	Gender            string `gorm:"size:16;not null"`
	Age               int
	MembershipTier    string  `gorm:"size:16;not null"`
	Timezone          string  `gorm:"size:64"`
	ProfileCompletion float64 `gorm:"not null;default:0"`
	ResponseRate      float64 `gorm:"not null;default:0"`
	Interests         datatypes.JSONSlice[string]
	Latitude          *float64
	Longitude         *float64
	LastLoginAt       time.Time
	LastActiveAt      *time.Time
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

// BehaviorStat holds aggregated usage numbers produced by an offline job.
// ActiveHours has 24 buckets, WeeklyActivity 168.
type BehaviorStat struct {
	UserID              uint64 `gorm:"primaryKey;autoIncrement:false"`
	ActionCount         int64  `gorm:"not null;default:0"`
	LikeCount           int64  `gorm:"not null;default:0"`
	ActiveHours         datatypes.JSONSlice[float64]
	AvgResponseSeconds  float64
	AvgSessionSeconds   float64
	MessageCount        int64 `gorm:"not null;default:0"`
	AvgMessageLength    float64
	MessagesPerDay      float64
	EmojiRate           float64
	QuestionRatio       float64
	WeeklyActivity      datatypes.JSONSlice[float64]
	AvgRelationshipDays float64
	ComputedAt          time.Time `gorm:"not null;index"`
}

// LearnedPreference stores per-feature weights in [0,1] learned for a user.
type LearnedPreference struct {
	UserID    uint64 `gorm:"primaryKey;autoIncrement:false"`
	Weights   datatypes.JSONType[map[string]float64]
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Action is an actor's decision about a target.
//
// ActivePair is "actor:target" while the action is live and NULL once it is
// undone. Its unique index allows at most one live action per ordered pair
// while keeping every undone row for history; NULLs never collide.
//
// Indexes:
//   - idx_actions_actor_created(actor_id, created_at DESC)
//     history, undo lookup and rate-limit counts.
//   - idx_actions_target_type(target_id, type, actor_id)
//     "who liked me" and reverse-like checks.
type Action struct {
	ID         string `gorm:"primaryKey;size:26"`
	ActorID    uint64 `gorm:"not null;index:idx_actions_actor_created,priority:1"`
	TargetID   uint64 `gorm:"not null;index:idx_actions_target_type,priority:1"`
	Type       string `gorm:"size:16;not null;index:idx_actions_target_type,priority:2"`
	Metadata   datatypes.JSONMap
	ActivePair *string   `gorm:"size:48;uniqueIndex:ux_actions_active_pair"`
	CreatedAt  time.Time `gorm:"not null;index:idx_actions_actor_created,priority:2,sort:desc"`
	UndoneAt   *time.Time
}

// Match is mutual interest between two users, stored with the lower user id
// first. The composite unique index is the one-row-per-pair guarantee.
type Match struct {
	ID             string    `gorm:"primaryKey;size:26"`
	UserLowID      uint64    `gorm:"not null;uniqueIndex:ux_matches_pair,priority:1"`
	UserHighID     uint64    `gorm:"not null;uniqueIndex:ux_matches_pair,priority:2;index"`
	Status         string    `gorm:"size:16;not null;index"`
	MatchedAt      time.Time `gorm:"not null"`
	LastActivityAt time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// QueueEntry is a candidate waiting in a user's discovery queue.
type QueueEntry struct {
	ID                 uint64    `gorm:"primaryKey;autoIncrement"`
	UserID             uint64    `gorm:"not null;uniqueIndex:ux_queue_pair,priority:1"`
	CandidateID        uint64    `gorm:"not null;uniqueIndex:ux_queue_pair,priority:2"`
	CompatibilityScore float64   `gorm:"not null"`
	BoostScore         float64   `gorm:"not null;default:0"`
	Priority           int       `gorm:"not null;default:0"`
	InsertedAt         time.Time `gorm:"not null"`
}

// Block is an entry in the blocker's block list.
type Block struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	BlockerID uint64    `gorm:"not null;uniqueIndex:ux_blocks_pair,priority:1"`
	BlockedID uint64    `gorm:"not null;uniqueIndex:ux_blocks_pair,priority:2"`
	Reason    string    `gorm:"size:255"`
	CreatedAt time.Time `gorm:"not null"`
}

// PairLock is one row per canonical user pair. Transactions that read or
// change a pair's actions or match lock it FOR UPDATE before anything else,
// which serialises them across processes.
type PairLock struct {
	UserLowID  uint64    `gorm:"primaryKey;autoIncrement:false"`
	UserHighID uint64    `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// AllModels lists every table for AutoMigrate.
func AllModels() []any {
	return []any{
		&User{},
		&BehaviorStat{},
		&LearnedPreference{},
		&Action{},
		&Match{},
		&QueueEntry{},
		&Block{},
		&PairLock{},
	}
}
