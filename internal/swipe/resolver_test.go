package swipe

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/muzz-interest/internal/logger"
	"github.com/oggyb/muzz-interest/internal/model"
)

// racingTx simulates another writer inserting the match between our read
// and our insert.
type racingTx struct {
	Tx
	interest bool
	stored   *model.MatchRecord
	finds    int
	updated  []model.MatchRecord
}

func (r *racingTx) HasActiveInterest(context.Context, uint64, uint64) (bool, error) {
	return r.interest, nil
}

func (r *racingTx) FindMatch(context.Context, model.Pair) (*model.MatchRecord, error) {
	r.finds++
	if r.finds == 1 {
		return nil, nil
	}
	m := *r.stored
	return &m, nil
}

func (r *racingTx) InsertMatch(context.Context, model.MatchRecord) error { return model.ErrConflict }

func (r *racingTx) UpdateMatch(_ context.Context, m model.MatchRecord) error {
	r.updated = append(r.updated, m)
	return nil
}

func newTestResolver(now time.Time) *MatchResolver {
	return &MatchResolver{
		now:   func() time.Time { return now },
		newID: func() string { return "new" },
		log:   logger.Discard(),
	}
}

func TestResolver_InsertConflictRereads(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	r := newTestResolver(now)

	tx := &racingTx{interest: true, stored: &model.MatchRecord{ID: "theirs", UserLowID: 1, UserHighID: 2, Status: model.MatchActive}}
	out, err := r.CheckAndCreate(context.Background(), tx, 2, 1)
	require.NoError(t, err)
	assert.True(t, out.Matched)
	assert.False(t, out.Created)
	assert.Equal(t, "theirs", out.Match.ID)
	assert.Empty(t, tx.updated)

	tx = &racingTx{interest: true, stored: &model.MatchRecord{ID: "old", UserLowID: 1, UserHighID: 2, Status: model.MatchInactive}}
	out, err = r.CheckAndCreate(context.Background(), tx, 1, 2)
	require.NoError(t, err)
	assert.True(t, out.Created)
	require.Len(t, tx.updated, 1)
	assert.Equal(t, model.MatchActive, tx.updated[0].Status)
	assert.Equal(t, now, tx.updated[0].MatchedAt)
}

func TestResolver_NoReciprocalInterest(t *testing.T) {
	r := newTestResolver(time.Now())
	out, err := r.CheckAndCreate(context.Background(), &racingTx{}, 1, 2)
	require.NoError(t, err)
	assert.False(t, out.Matched)
}

func TestKeyedLocks(t *testing.T) {
	k := NewKeyedLocks()
	assert.Equal(t, pairKey(1, 2), pairKey(2, 1))

	var inside, peak atomic.Int32
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock(pairKey(1, 2))
			n := inside.Add(1)
			if n > peak.Load() {
				peak.Store(n)
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), peak.Load())
	assert.Zero(t, k.Len())
}
