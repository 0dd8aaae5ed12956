package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	TypeMatchCreated      = "match.created"
	TypeSuperLikeReceived = "super_like.received"
	TypeUserBlocked       = "user.blocked"
	TypeUserReported      = "user.reported"
)

// Event is the envelope put on the bus.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Decode unmarshals the payload into v.
func (e Event) Decode(v any) error { return json.Unmarshal(e.Payload, v) }

// Publisher emits domain events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type MatchCreated struct {
	MatchID string `json:"match_id"`
	User1   string `json:"user1"`
	User2   string `json:"user2"`
}

type SuperLikeReceived struct {
	RecipientID string `json:"recipient_id"`
	SenderID    string `json:"sender_id"`
}

type UserBlocked struct {
	ActorID  string `json:"actor_id"`
	TargetID string `json:"target_id"`
	Reason   string `json:"reason,omitempty"`
}

type UserReported struct {
	TargetID    string `json:"target_id"`
	ActorID     string `json:"actor_id"`
	Reason      string `json:"reason,omitempty"`
	Description string `json:"description,omitempty"`
}

// New wraps payload in a fresh envelope.
func New(typ string, payload any, at time.Time) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		OccurredAt: at.UTC(),
		Payload:    raw,
	}, nil
}

func id(v uint64) string { return strconv.FormatUint(v, 10) }

// NewMatchCreated builds a match.created event; user1 is the lower id.
func NewMatchCreated(matchID string, user1, user2 uint64, at time.Time) (Event, error) {
	return New(TypeMatchCreated, MatchCreated{MatchID: matchID, User1: id(user1), User2: id(user2)}, at)
}

func NewSuperLikeReceived(recipientID, senderID uint64, at time.Time) (Event, error) {
	return New(TypeSuperLikeReceived, SuperLikeReceived{RecipientID: id(recipientID), SenderID: id(senderID)}, at)
}

func NewUserBlocked(actorID, targetID uint64, reason string, at time.Time) (Event, error) {
	return New(TypeUserBlocked, UserBlocked{ActorID: id(actorID), TargetID: id(targetID), Reason: reason}, at)
}

func NewUserReported(targetID, actorID uint64, reason, description string, at time.Time) (Event, error) {
	return New(TypeUserReported, UserReported{
		TargetID:    id(targetID),
		ActorID:     id(actorID),
		Reason:      reason,
		Description: description,
	}, at)
}
