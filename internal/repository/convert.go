package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/oggyb/muzz-interest/internal/db"
	"github.com/oggyb/muzz-interest/internal/model"
)

func toActionRecord(row db.Action) model.ActionRecord {
	rec := model.ActionRecord{
		ID:        row.ID,
		ActorID:   row.ActorID,
		TargetID:  row.TargetID,
		Type:      model.ActionType(row.Type),
		CreatedAt: row.CreatedAt.UTC(),
	}
	if len(row.Metadata) > 0 {
		rec.Metadata = map[string]any(row.Metadata)
	}
	if row.UndoneAt != nil {
		rec.State = model.Undone(row.UndoneAt.UTC())
	}
	return rec
}

func toMatchRecord(row db.Match) model.MatchRecord {
	return model.MatchRecord{
		ID:             row.ID,
		UserLowID:      row.UserLowID,
		UserHighID:     row.UserHighID,
		Status:         model.MatchStatus(row.Status),
		MatchedAt:      row.MatchedAt.UTC(),
		LastActivityAt: row.LastActivityAt.UTC(),
	}
}

func fromMatchRecord(m model.MatchRecord) db.Match {
	return db.Match{
		ID:             m.ID,
		UserLowID:      m.UserLowID,
		UserHighID:     m.UserHighID,
		Status:         string(m.Status),
		MatchedAt:      m.MatchedAt.UTC(),
		LastActivityAt: m.LastActivityAt.UTC(),
	}
}

func toQueueEntry(row db.QueueEntry) model.QueueEntry {
	return model.QueueEntry{
		UserID:             row.UserID,
		CandidateID:        row.CandidateID,
		CompatibilityScore: row.CompatibilityScore,
		BoostScore:         row.BoostScore,
		Priority:           row.Priority,
		InsertedAt:         row.InsertedAt.UTC(),
	}
}

func toProfile(row db.User) model.Profile {
	p := model.Profile{
		ID:                row.ID,
		Username:          row.Username,
		Active:            row.Active,
		Gender:            row.Gender,
		Age:               row.Age,
		MembershipTier:    row.MembershipTier,
		Timezone:          row.Timezone,
		ProfileCompletion: row.ProfileCompletion,
		ResponseRate:      row.ResponseRate,
		Interests:         []string(row.Interests),
		Latitude:          row.Latitude,
		Longitude:         row.Longitude,
	}
	if row.LastActiveAt != nil {
		p.LastActiveAt = row.LastActiveAt.UTC()
	}
	return p
}

func toBehaviorStats(row db.BehaviorStat) model.BehaviorStats {
	return model.BehaviorStats{
		UserID:              row.UserID,
		ActionCount:         row.ActionCount,
		LikeCount:           row.LikeCount,
		ActiveHours:         []float64(row.ActiveHours),
		AvgResponseSeconds:  row.AvgResponseSeconds,
		AvgSessionSeconds:   row.AvgSessionSeconds,
		MessageCount:        row.MessageCount,
		AvgMessageLength:    row.AvgMessageLength,
		MessagesPerDay:      row.MessagesPerDay,
		EmojiRate:           row.EmojiRate,
		QuestionRatio:       row.QuestionRatio,
		WeeklyActivity:      []float64(row.WeeklyActivity),
		AvgRelationshipDays: row.AvgRelationshipDays,
		ComputedAt:          row.ComputedAt.UTC(),
	}
}

func activePairKey(actorID, targetID uint64) *string {
	k := fmt.Sprintf("%d:%d", actorID, targetID)
	return &k
}

func typeNames(types []model.ActionType) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, string(t))
	}
	return out
}

// isConflict reports whether err is a unique-key violation. TranslateError
// covers the gorm drivers; the message checks catch raw driver errors.
func isConflict(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}
