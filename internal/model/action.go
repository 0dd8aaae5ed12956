// Package model defines the domain types shared by the interest engine:
// actions one user takes on another, matches, queue entries and the
// profile data the scorer reads.
package model

import "time"

// ActionType is the kind of decision an actor makes about a target.
type ActionType string

const (
	ActionLike      ActionType = "like"
	ActionDislike   ActionType = "dislike"
	ActionSuperLike ActionType = "super_like"
	ActionPass      ActionType = "pass"
	ActionBlock     ActionType = "block"
	ActionReport    ActionType = "report"
)

// IsValid reports whether t is one of the six known action types.
func (t ActionType) IsValid() bool {
	switch t {
	case ActionLike, ActionDislike, ActionSuperLike, ActionPass, ActionBlock, ActionReport:
		return true
	}
	return false
}

// IsInterest reports whether t can produce a match.
func (t ActionType) IsInterest() bool {
	return t == ActionLike || t == ActionSuperLike
}

// Undoable reports whether t may be reversed by Undo.
// Block and Report are permanent.
func (t ActionType) Undoable() bool {
	switch t {
	case ActionLike, ActionDislike, ActionSuperLike, ActionPass:
		return true
	}
	return false
}

// UndoableTypes lists the action types Undo considers, in a stable order.
func UndoableTypes() []ActionType {
	return []ActionType{ActionLike, ActionDislike, ActionSuperLike, ActionPass}
}

// UndoState is either active or undone at a point in time.
// The zero value is active.
type UndoState struct {
	undoneAt *time.Time
}

// Active returns the state of a record that has not been undone.
func Active() UndoState { return UndoState{} }

// Undone returns the state of a record undone at t.
func Undone(at time.Time) UndoState {
	t := at
	return UndoState{undoneAt: &t}
}

// IsUndone reports whether the record has been reversed.
func (s UndoState) IsUndone() bool { return s.undoneAt != nil }

// UndoneAt returns when the record was undone, if it was.
func (s UndoState) UndoneAt() (time.Time, bool) {
	if s.undoneAt == nil {
		return time.Time{}, false
	}
	return *s.undoneAt, true
}

// ActionRecord is one user's decision about another.
type ActionRecord struct {
	ID        string
	ActorID   uint64
	TargetID  uint64
	Type      ActionType
	Metadata  map[string]any
	CreatedAt time.Time
	State     UndoState
}

// MetadataString returns metadata[key] as a string, or "" when absent.
func (r ActionRecord) MetadataString(key string) string {
	if r.Metadata == nil {
		return ""
	}
	if v, ok := r.Metadata[key].(string); ok {
		return v
	}
	return ""
}
