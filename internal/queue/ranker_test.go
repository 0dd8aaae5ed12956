package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/muzz-interest/internal/logger"
	"github.com/oggyb/muzz-interest/internal/model"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func candidates(entries []model.QueueEntry) []uint64 {
	ids := make([]uint64, len(entries))
	for i, e := range entries {
		ids[i] = e.CandidateID
	}
	return ids
}

func TestRecencyBoost(t *testing.T) {
	assert.Equal(t, MaxRecencyBoost, RecencyBoost(now, now))
	assert.InDelta(t, 0.15, RecencyBoost(now.Add(-12*time.Hour), now), 1e-12)
	assert.Equal(t, 0.0, RecencyBoost(now.Add(-24*time.Hour), now))
	assert.Equal(t, 0.0, RecencyBoost(now.Add(-72*time.Hour), now))
	assert.Equal(t, 0.0, RecencyBoost(time.Time{}, now))
}

func TestMembershipBoost(t *testing.T) {
	assert.Equal(t, 0.0, MembershipBoost(model.TierFree))
	assert.Equal(t, 0.1, MembershipBoost(model.TierBasic))
	assert.Equal(t, 0.2, MembershipBoost(model.TierGold))
	assert.Equal(t, 0.3, MembershipBoost(model.TierPlatinum))
	assert.Equal(t, 0.0, MembershipBoost("diamond"))
}

func TestRank(t *testing.T) {
	t.Run("ties keep insertion order", func(t *testing.T) {
		in := []model.QueueEntry{
			{CandidateID: 1, CompatibilityScore: 0.5},
			{CandidateID: 2, CompatibilityScore: 0.5},
			{CandidateID: 3, CompatibilityScore: 0.5},
		}
		assert.Equal(t, []uint64{1, 2, 3}, candidates(Rank(in, BoostInputs{Now: now})))
	})

	t.Run("priority does not reorder score ties", func(t *testing.T) {
		in := []model.QueueEntry{
			{CandidateID: 1, CompatibilityScore: 0.5},
			{CandidateID: 2, CompatibilityScore: 0.5, Priority: 1},
		}
		assert.Equal(t, []uint64{1, 2}, candidates(Rank(in, BoostInputs{Now: now})))
	})

	t.Run("boosts are summed", func(t *testing.T) {
		in := []model.QueueEntry{
			{CandidateID: 1, CompatibilityScore: 0.6},
			{CandidateID: 2, CompatibilityScore: 0.5},
		}
		out := Rank(in, BoostInputs{Now: now, Candidates: map[uint64]CandidateSignals{
			2: {LastActiveAt: now, MembershipTier: model.TierPlatinum, BehavioralBoost: 0.1},
		}})
		require.Len(t, out, 2)
		assert.Equal(t, uint64(2), out[0].CandidateID)
		assert.InDelta(t, 0.7, out[0].BoostScore, 1e-12)
		assert.InDelta(t, 0.85, out[0].FinalScore(), 1e-12)
		assert.Zero(t, out[1].BoostScore)
		assert.Zero(t, in[1].BoostScore, "input untouched")
	})

	t.Run("negative behavioral boost ignored", func(t *testing.T) {
		out := Rank([]model.QueueEntry{{CandidateID: 1, CompatibilityScore: 1}}, BoostInputs{
			Now:        now,
			Candidates: map[uint64]CandidateSignals{1: {BehavioralBoost: -5}},
		})
		assert.Zero(t, out[0].BoostScore)
	})
}

type fakeEntries []model.QueueEntry

func (f fakeEntries) ListEntries(context.Context, uint64, int) ([]model.QueueEntry, error) {
	return f, nil
}

type fakeProfiles map[uint64]*model.Profile

func (f fakeProfiles) GetProfile(_ context.Context, id uint64) (*model.Profile, error) {
	if p, ok := f[id]; ok {
		return p, nil
	}
	return nil, model.ErrNotFound
}

type fakeBooster map[uint64]float64

func (f fakeBooster) BehavioralBoost(_ context.Context, _, id uint64) (float64, error) {
	if b, ok := f[id]; ok {
		return b, nil
	}
	return 0, errors.New("no data")
}

func TestRanker_Next(t *testing.T) {
	entries := fakeEntries{
		{UserID: 9, CandidateID: 1, CompatibilityScore: 0.5},
		{UserID: 9, CandidateID: 2, CompatibilityScore: 0.5},
		{UserID: 9, CandidateID: 3, CompatibilityScore: 0.9},
		{UserID: 9, CandidateID: 4, CompatibilityScore: 0.9},
		{UserID: 9, CandidateID: 5, CompatibilityScore: 0.1},
	}
	profiles := fakeProfiles{
		1: {ID: 1, Active: true, MembershipTier: model.TierFree},
		2: {ID: 2, Active: true, MembershipTier: model.TierGold, LastActiveAt: now},
		3: {ID: 3, Active: false},
		5: {ID: 5, Active: true},
	}
	r := NewRanker(entries, profiles,
		WithBooster(fakeBooster{5: 9}),
		WithRankerClock(func() time.Time { return now }),
		WithRankerLogger(logger.Discard()))

	got, err := r.Next(context.Background(), 9, 0)
	require.NoError(t, err)
	// 2: 0.5*1.5, 5: 0.1*10, 1: 0.5; 3 inactive, 4 missing.
	assert.Equal(t, []uint64{5, 2, 1}, candidates(got))

	got, err = r.Next(context.Background(), 9, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint64{5, 2}, candidates(got))
}

func TestRanker_NextRequeuedLeadsTies(t *testing.T) {
	entries := fakeEntries{
		{UserID: 9, CandidateID: 1, CompatibilityScore: 0.5},
		{UserID: 9, CandidateID: 2, CompatibilityScore: 0.5, Priority: 1},
		{UserID: 9, CandidateID: 3, CompatibilityScore: 0.5},
		{UserID: 9, CandidateID: 4, CompatibilityScore: 0.2, Priority: 1},
	}
	profiles := fakeProfiles{
		1: {ID: 1, Active: true},
		2: {ID: 2, Active: true},
		3: {ID: 3, Active: true},
		4: {ID: 4, Active: true},
	}
	r := NewRanker(entries, profiles,
		WithRankerClock(func() time.Time { return now }),
		WithRankerLogger(logger.Discard()))

	got, err := r.Next(context.Background(), 9, 0)
	require.NoError(t, err)
	// priority only orders within equal scores; 4 stays last.
	assert.Equal(t, []uint64{2, 1, 3, 4}, candidates(got))
	assert.Equal(t, uint64(1), entries[0].CandidateID, "stored queue untouched")
}
