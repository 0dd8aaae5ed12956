package compat

import (
	"context"
	"math"

	"github.com/oggyb/muzz-interest/internal/model"
)

// DefaultBaseScore is used when either profile cannot be loaded.
const DefaultBaseScore = 0.5

// BaseScorer produces the profile-matching score the pipeline blends onto.
type BaseScorer interface {
	BaseScore(ctx context.Context, actorID, targetID uint64) float64
}

// ProfileGetter resolves a single profile.
type ProfileGetter interface {
	GetProfile(ctx context.Context, userID uint64) (*model.Profile, error)
}

// ProfileBaseScorer is a plain profile match: shared interests 0.5, age
// closeness 0.3, average profile completion 0.2.
type ProfileBaseScorer struct {
	Profiles ProfileGetter
}

func (b ProfileBaseScorer) BaseScore(ctx context.Context, actorID, targetID uint64) float64 {
	if b.Profiles == nil {
		return DefaultBaseScore
	}
	a, err := b.Profiles.GetProfile(ctx, actorID)
	if err != nil {
		return DefaultBaseScore
	}
	t, err := b.Profiles.GetProfile(ctx, targetID)
	if err != nil {
		return DefaultBaseScore
	}

	age := neutral
	if a.Age > 0 && t.Age > 0 {
		// ten years apart scores zero
		age = math.Max(0, 1-math.Abs(float64(a.Age-t.Age))/10)
	}
	completion := clamp01((a.ProfileCompletion + t.ProfileCompletion) / 2)
	return clamp01(0.5*jaccard(a.Interests, t.Interests) + 0.3*age + 0.2*completion)
}
