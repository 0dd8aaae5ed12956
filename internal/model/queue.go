package model

import "time"

// QueueEntry is a candidate waiting for the owner's decision.
type QueueEntry struct {
	UserID             uint64
	CandidateID        uint64
	CompatibilityScore float64
	BoostScore         float64
	Priority           int
	InsertedAt         time.Time
}

// FinalScore is the ranking key: compatibility scaled by the summed boosts.
func (e QueueEntry) FinalScore() float64 {
	return e.CompatibilityScore * (1 + e.BoostScore)
}
