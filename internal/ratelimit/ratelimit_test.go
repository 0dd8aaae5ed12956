package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/muzz-interest/internal/model"
)

func TestEvaluate(t *testing.T) {
	l := DefaultLimits()

	tests := []struct {
		name   string
		counts Counts
		action model.ActionType
		want   Decision
	}{
		{"fresh actor", Counts{}, model.ActionLike, Decision{Allowed: true}},
		{"ninth in minute", Counts{LastMinute: 9}, model.ActionPass, Decision{Allowed: true}},
		{"tenth in minute", Counts{LastMinute: 10}, model.ActionPass, Decision{Reason: ReasonMinute}},
		{"100th like", Counts{LikesToday: 99}, model.ActionLike, Decision{Allowed: true}},
		{"101st like", Counts{LikesToday: 100}, model.ActionLike, Decision{Reason: ReasonDailyLikes}},
		{"likes do not cap passes", Counts{LikesToday: 500}, model.ActionPass, Decision{Allowed: true}},
		{"5th super like", Counts{SuperLikesToday: 4}, model.ActionSuperLike, Decision{Allowed: true}},
		{"6th super like", Counts{SuperLikesToday: 5}, model.ActionSuperLike, Decision{Reason: ReasonDailySuperLikes}},
		{"minute wins over daily", Counts{LastMinute: 10, LikesToday: 100}, model.ActionLike, Decision{Reason: ReasonMinute}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(l, tt.counts, tt.action))
		})
	}
}

func TestStartOfDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 03:00 UTC on 2 March is still 1 March in New York.
	now := time.Date(2025, 3, 2, 3, 0, 0, 0, time.UTC)
	got := StartOfDay(now, ny)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, ny), got)
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), StartOfDay(now, nil))
}

type fakeCounts struct {
	minute     int64
	byType     map[model.ActionType]int64
	minuteFrom time.Time
	dailyFrom  time.Time
	err        error
}

func (f *fakeCounts) CountActionsSince(_ context.Context, _ uint64, since time.Time) (int64, error) {
	f.minuteFrom = since
	return f.minute, f.err
}

func (f *fakeCounts) CountActiveActionsSince(_ context.Context, _ uint64, t model.ActionType, since time.Time) (int64, error) {
	f.dailyFrom = since
	return f.byType[t], nil
}

func TestLimiterCheck(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 2, 15, 30, 0, 0, time.UTC)

	src := &fakeCounts{minute: 3, byType: map[model.ActionType]int64{model.ActionLike: 100}}
	l := NewLimiter(DefaultLimits(), src)

	d, err := l.Check(ctx, 1, model.ActionLike, now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, ReasonDailyLikes, d.Reason)
	assert.Equal(t, now.Add(-time.Minute), src.minuteFrom)
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), src.dailyFrom)

	d, err = l.Check(ctx, 1, model.ActionDislike, now, time.UTC)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestLimiterCheckSourceError(t *testing.T) {
	l := NewLimiter(DefaultLimits(), &fakeCounts{err: errors.New("db down")})
	_, err := l.Check(context.Background(), 1, model.ActionLike, time.Now(), time.UTC)
	assert.ErrorContains(t, err, "db down")
}
