package queue

import (
	"time"

	"github.com/oggyb/muzz-interest/internal/model"
)

const (
	// MaxRecencyBoost is awarded to a candidate active right now.
	MaxRecencyBoost = 0.3
	// RecencyHorizon is where the recency boost reaches zero.
	RecencyHorizon = 24 * time.Hour
)

var membershipBoosts = map[string]float64{
	model.TierFree:     0,
	model.TierBasic:    0.1,
	model.TierGold:     0.2,
	model.TierPlatinum: 0.3,
}

// RecencyBoost decays linearly from 0.3 at lastActive=now to 0 at 24h.
// An unknown last-active time gets nothing.
func RecencyBoost(lastActive, now time.Time) float64 {
	if lastActive.IsZero() {
		return 0
	}
	elapsed := now.Sub(lastActive)
	if elapsed <= 0 {
		return MaxRecencyBoost
	}
	if elapsed >= RecencyHorizon {
		return 0
	}
	return MaxRecencyBoost * (1 - float64(elapsed)/float64(RecencyHorizon))
}

// MembershipBoost looks up the tier's fixed boost; unknown tiers get 0.
func MembershipBoost(tier string) float64 {
	return membershipBoosts[tier]
}

// CandidateSignals is what the ranker knows about one candidate.
type CandidateSignals struct {
	LastActiveAt    time.Time
	MembershipTier  string
	BehavioralBoost float64
}

// Boost sums the three boosts, each floored at zero.
func (c CandidateSignals) Boost(now time.Time) float64 {
	return RecencyBoost(c.LastActiveAt, now) + MembershipBoost(c.MembershipTier) + max(c.BehavioralBoost, 0)
}

// BoostInputs keys candidate signals by candidate id. Candidates without an
// entry get no boost.
type BoostInputs struct {
	Now        time.Time
	Candidates map[uint64]CandidateSignals
}
