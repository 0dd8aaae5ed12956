package model

import (
	"fmt"
	"time"
)

// Membership tiers.
const (
	TierFree     = "free"
	TierBasic    = "basic"
	TierGold     = "gold"
	TierPlatinum = "platinum"
)

// Profile is the subset of a user's profile the engine reads.
type Profile struct {
	ID                uint64
	Username          string
	Active            bool
	Gender            string
	Age               int
	MembershipTier    string
	Timezone          string
	ProfileCompletion float64
	ResponseRate      float64
	Interests         []string
	Latitude          *float64
	Longitude         *float64
	LastActiveAt      time.Time
}

// HasLocation reports whether both coordinates are known.
func (p Profile) HasLocation() bool { return p.Latitude != nil && p.Longitude != nil }

// Location resolves the profile's timezone, falling back to def when the
// zone is empty or unknown.
func (p Profile) Location(def *time.Location) *time.Location {
	if p.Timezone == "" {
		return def
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return def
	}
	return loc
}

// Features is the sparse feature vector learned preferences are matched
// against.
func (p Profile) Features() map[string]float64 {
	f := make(map[string]float64, len(p.Interests)+2)
	for _, in := range p.Interests {
		f["interest:"+in] = 1
	}
	if p.MembershipTier != "" {
		f["tier:"+p.MembershipTier] = 1
	}
	if p.Age > 0 {
		lo := p.Age / 5 * 5
		f[fmt.Sprintf("age:%d-%d", lo, lo+4)] = 1
	}
	return f
}

// BehaviorStats are aggregated usage statistics for one user.
type BehaviorStats struct {
	UserID              uint64
	ActionCount         int64
	LikeCount           int64
	ActiveHours         []float64 // 24 buckets, local hour of day
	AvgResponseSeconds  float64
	AvgSessionSeconds   float64
	MessageCount        int64
	AvgMessageLength    float64
	MessagesPerDay      float64
	EmojiRate           float64
	QuestionRatio       float64
	WeeklyActivity      []float64 // 168 buckets, hour of week
	AvgRelationshipDays float64
	ComputedAt          time.Time
}

// LikeRatio is the share of the user's actions that were likes.
func (s BehaviorStats) LikeRatio() float64 {
	if s.ActionCount <= 0 {
		return 0
	}
	r := float64(s.LikeCount) / float64(s.ActionCount)
	if r > 1 {
		return 1
	}
	return r
}
