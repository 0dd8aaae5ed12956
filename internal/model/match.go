package model

import "time"

// MatchStatus is the lifecycle state of a match.
type MatchStatus string

const (
	MatchActive   MatchStatus = "active"
	MatchInactive MatchStatus = "inactive"
)

// Pair is an unordered user pair stored low id first.
type Pair struct {
	Low  uint64
	High uint64
}

// CanonicalPair orders a and b so that Low <= High. Every lookup and
// uniqueness key for matches goes through this function.
func CanonicalPair(a, b uint64) Pair {
	if a <= b {
		return Pair{Low: a, High: b}
	}
	return Pair{Low: b, High: a}
}

// Contains reports whether id is one of the pair's members.
func (p Pair) Contains(id uint64) bool { return p.Low == id || p.High == id }

// MatchRecord represents mutual interest between two users.
type MatchRecord struct {
	ID             string
	UserLowID      uint64
	UserHighID     uint64
	Status         MatchStatus
	MatchedAt      time.Time
	LastActivityAt time.Time
}

// Pair returns the canonical pair of the match.
func (m MatchRecord) Pair() Pair { return Pair{Low: m.UserLowID, High: m.UserHighID} }

// Partner returns the other member of the match relative to userID.
func (m MatchRecord) Partner(userID uint64) uint64 {
	if m.UserLowID == userID {
		return m.UserHighID
	}
	return m.UserLowID
}

// IsActive reports whether the match is currently active.
func (m MatchRecord) IsActive() bool { return m.Status == MatchActive }
