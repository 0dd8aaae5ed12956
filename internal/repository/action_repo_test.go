package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/muzz-interest/internal/db"
	"github.com/oggyb/muzz-interest/internal/db/dbtest"
	"github.com/oggyb/muzz-interest/internal/model"
	"github.com/oggyb/muzz-interest/internal/repository"
	"github.com/oggyb/muzz-interest/internal/swipe"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func action(id string, actor, target uint64, typ model.ActionType, at time.Time) model.ActionRecord {
	return model.ActionRecord{ID: id, ActorID: actor, TargetID: target, Type: typ, CreatedAt: at}
}

func TestInsertAction_OneLivePerPair(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewActionRepository(dbtest.Open(t))

	require.NoError(t, repo.InsertAction(ctx, action("a1", 1, 2, model.ActionLike, t0)))

	err := repo.InsertAction(ctx, action("a2", 1, 2, model.ActionPass, t0.Add(time.Second)))
	assert.ErrorIs(t, err, model.ErrConflict)

	// the reverse direction is a different ordered pair
	require.NoError(t, repo.InsertAction(ctx, action("a3", 2, 1, model.ActionLike, t0)))

	got, err := repo.FindActiveAction(ctx, 1, 2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a1", got.ID)
	assert.Equal(t, model.ActionLike, got.Type)
	assert.False(t, got.State.IsUndone())

	ok, err := repo.MarkActionUndone(ctx, "a1", t0.Add(2*time.Second))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkActionUndone(ctx, "a1", t0.Add(3*time.Second))
	require.NoError(t, err)
	assert.False(t, ok, "second undo is a no-op")

	got, err = repo.FindActiveAction(ctx, 1, 2)
	require.NoError(t, err)
	assert.Nil(t, got)

	// slot is free again
	require.NoError(t, repo.InsertAction(ctx, action("a4", 1, 2, model.ActionDislike, t0.Add(4*time.Second))))
}

func TestInsertAction_Metadata(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewActionRepository(dbtest.Open(t))

	rec := action("r1", 1, 2, model.ActionReport, t0)
	rec.Metadata = map[string]any{"reason": "spam", "description": "bot"}
	require.NoError(t, repo.InsertAction(ctx, rec))

	got, err := repo.FindActiveAction(ctx, 1, 2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "spam", got.MetadataString("reason"))
	assert.Equal(t, "bot", got.MetadataString("description"))
}

func TestLatestUndoableAction(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewActionRepository(dbtest.Open(t))

	got, err := repo.LatestUndoableAction(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.InsertAction(ctx, action("a1", 1, 2, model.ActionLike, t0)))
	require.NoError(t, repo.InsertAction(ctx, action("a2", 1, 3, model.ActionPass, t0.Add(time.Second))))
	require.NoError(t, repo.InsertAction(ctx, action("a3", 1, 4, model.ActionBlock, t0.Add(2*time.Second))))

	got, err = repo.LatestUndoableAction(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a2", got.ID, "blocks are never undoable")

	_, err = repo.MarkActionUndone(ctx, "a2", t0.Add(3*time.Second))
	require.NoError(t, err)

	got, err = repo.LatestUndoableAction(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a1", got.ID)
}

func TestHasActiveInterest(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewActionRepository(dbtest.Open(t))

	require.NoError(t, repo.InsertAction(ctx, action("a1", 1, 2, model.ActionSuperLike, t0)))
	require.NoError(t, repo.InsertAction(ctx, action("a2", 1, 3, model.ActionDislike, t0)))

	ok, err := repo.HasActiveInterest(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.HasActiveInterest(ctx, 1, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.HasActiveInterest(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCountActions(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewActionRepository(dbtest.Open(t))

	require.NoError(t, repo.InsertAction(ctx, action("a1", 1, 2, model.ActionLike, t0)))
	require.NoError(t, repo.InsertAction(ctx, action("a2", 1, 3, model.ActionLike, t0.Add(time.Second))))
	require.NoError(t, repo.InsertAction(ctx, action("a3", 1, 4, model.ActionPass, t0.Add(2*time.Second))))
	_, err := repo.MarkActionUndone(ctx, "a2", t0.Add(3*time.Second))
	require.NoError(t, err)

	// strictly after since, undone rows included
	n, err := repo.CountActionsSince(ctx, 1, t0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	// at-or-after since, live rows of one type only
	n, err = repo.CountActiveActionsSince(ctx, 1, model.ActionLike, t0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestListActions_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewActionRepository(dbtest.Open(t))

	ids := []string{"a1", "a2", "a3"}
	for i, target := range []uint64{2, 3, 4} {
		at := t0.Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.InsertAction(ctx, action(ids[i], 1, target, model.ActionLike, at)))
	}
	_, err := repo.MarkActionUndone(ctx, "a3", t0.Add(time.Minute))
	require.NoError(t, err)

	page, err := repo.ListActions(ctx, 1, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "a3", page[0].ID)
	assert.True(t, page[0].State.IsUndone())
	assert.Equal(t, "a2", page[1].ID)

	page, err = repo.ListActions(ctx, 1, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "a1", page[0].ID)
}

func TestListLikers(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewActionRepository(dbtest.Open(t))

	// 1, 2 and 3 show interest in 99; 4 passes
	require.NoError(t, repo.InsertAction(ctx, action("a1", 1, 99, model.ActionLike, t0)))
	require.NoError(t, repo.InsertAction(ctx, action("a2", 2, 99, model.ActionSuperLike, t0.Add(time.Second))))
	require.NoError(t, repo.InsertAction(ctx, action("a3", 3, 99, model.ActionLike, t0.Add(2*time.Second))))
	require.NoError(t, repo.InsertAction(ctx, action("a4", 4, 99, model.ActionPass, t0.Add(3*time.Second))))
	// 99 already answered 2
	require.NoError(t, repo.InsertAction(ctx, action("a5", 99, 2, model.ActionDislike, t0.Add(4*time.Second))))

	likers, err := repo.ListLikers(ctx, 99, 10, 0)
	require.NoError(t, err)
	require.Len(t, likers, 2)
	assert.EqualValues(t, 3, likers[0].ActorID)
	assert.EqualValues(t, 1, likers[1].ActorID)

	n, err := repo.CountLikers(ctx, 99)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	// undoing the answer brings 2 back
	_, err = repo.MarkActionUndone(ctx, "a5", t0.Add(5*time.Second))
	require.NoError(t, err)
	n, err = repo.CountLikers(ctx, 99)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestMatches(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewActionRepository(dbtest.Open(t))

	m := model.MatchRecord{ID: "m1", UserLowID: 1, UserHighID: 2, Status: model.MatchActive, MatchedAt: t0, LastActivityAt: t0}
	require.NoError(t, repo.InsertMatch(ctx, m))

	dup := m
	dup.ID = "m2"
	assert.ErrorIs(t, repo.InsertMatch(ctx, dup), model.ErrConflict)

	bad := model.MatchRecord{ID: "m3", UserLowID: 5, UserHighID: 4, Status: model.MatchActive, MatchedAt: t0}
	assert.Error(t, repo.InsertMatch(ctx, bad))

	got, err := repo.FindMatch(ctx, model.CanonicalPair(2, 1))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "m1", got.ID)
	assert.True(t, got.IsActive())

	got, err = repo.FindMatch(ctx, model.CanonicalPair(1, 3))
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.InsertMatch(ctx, model.MatchRecord{
		ID: "m4", UserLowID: 2, UserHighID: 3, Status: model.MatchActive, MatchedAt: t0.Add(time.Hour), LastActivityAt: t0.Add(time.Hour),
	}))

	list, err := repo.ListActiveMatches(ctx, 2, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "m4", list[0].ID)

	m.Status = model.MatchInactive
	m.LastActivityAt = t0.Add(2 * time.Hour)
	require.NoError(t, repo.UpdateMatch(ctx, m))

	list, err = repo.ListActiveMatches(ctx, 1, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)

	missing := model.MatchRecord{ID: "nope", Status: model.MatchActive, MatchedAt: t0, LastActivityAt: t0}
	assert.ErrorIs(t, repo.UpdateMatch(ctx, missing), model.ErrNotFound)
}

func TestBlocks(t *testing.T) {
	ctx := context.Background()
	gdb := dbtest.Open(t)
	repo := repository.NewActionRepository(gdb)

	require.NoError(t, repo.InsertBlock(ctx, 1, 2, "rude", t0))
	require.NoError(t, repo.InsertBlock(ctx, 1, 2, "again", t0.Add(time.Second)), "re-blocking is a no-op")
	require.NoError(t, repo.InsertBlock(ctx, 2, 1, "", t0))

	var rows []db.Block
	require.NoError(t, gdb.Order("id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, "rude", rows[0].Reason)
	assert.EqualValues(t, 2, rows[1].BlockerID)
}

func TestWithTx_RollsBack(t *testing.T) {
	ctx := context.Background()
	gdb := dbtest.Open(t)
	repo := repository.NewActionRepository(gdb)
	boom := errors.New("boom")

	err := repo.WithTx(ctx, func(tx swipe.Tx) error {
		require.NoError(t, tx.InsertAction(ctx, action("a1", 1, 2, model.ActionLike, t0)))
		require.NoError(t, tx.InsertBlock(ctx, 1, 2, "", t0))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, gdb.Model(&db.Action{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, gdb.Model(&db.Block{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestWithTx_MatchConflictKeepsTxUsable(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewActionRepository(dbtest.Open(t))

	m := model.MatchRecord{ID: "m1", UserLowID: 1, UserHighID: 2, Status: model.MatchActive, MatchedAt: t0, LastActivityAt: t0}
	require.NoError(t, repo.InsertMatch(ctx, m))

	err := repo.WithTx(ctx, func(tx swipe.Tx) error {
		dup := m
		dup.ID = "m2"
		if err := tx.InsertMatch(ctx, dup); !errors.Is(err, model.ErrConflict) {
			return err
		}
		return tx.InsertAction(ctx, action("a1", 1, 2, model.ActionLike, t0))
	})
	require.NoError(t, err)

	got, err := repo.FindActiveAction(ctx, 1, 2)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestPairLock(t *testing.T) {
	ctx := context.Background()
	gdb := dbtest.Open(t)
	repo := repository.NewActionRepository(gdb)
	pair := model.CanonicalPair(9, 4)

	err := repo.WithTx(ctx, func(tx swipe.Tx) error { return tx.LockPair(ctx, pair) })
	assert.ErrorIs(t, err, model.ErrNotFound, "lock row must be created first")

	require.NoError(t, repo.EnsurePairLock(ctx, pair))
	require.NoError(t, repo.EnsurePairLock(ctx, pair), "idempotent")

	err = repo.WithTx(ctx, func(tx swipe.Tx) error {
		if err := tx.LockPair(ctx, pair); err != nil {
			return err
		}
		return tx.InsertAction(ctx, action("a1", 9, 4, model.ActionLike, t0))
	})
	require.NoError(t, err)

	var rows []db.PairLock
	require.NoError(t, gdb.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 4, rows[0].UserLowID)
	assert.EqualValues(t, 9, rows[0].UserHighID)
}
