// Package dbtest opens isolated in-memory SQLite databases for tests.
package dbtest

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oggyb/muzz-interest/internal/db"
)

var seq atomic.Int64

// Open returns a migrated, shared-cache in-memory database private to t.
// The pool is pinned to one connection so transactions serialize instead of
// tripping SQLite's table locks.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	name := fmt.Sprintf("file:dbtest_%d?mode=memory&cache=shared", seq.Add(1))
	database, err := gorm.Open(sqlite.Open(name), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(database))
	return database
}

// User is a compact description of a test profile.
type User struct {
	ID        uint64
	Tier      string
	Timezone  string
	Interests []string
	Inactive  bool
}

// SeedUsers inserts complete, active profiles for the given ids.
func SeedUsers(t *testing.T, gdb *gorm.DB, ids ...uint64) {
	t.Helper()
	users := make([]User, 0, len(ids))
	for _, id := range ids {
		users = append(users, User{ID: id})
	}
	SeedProfiles(t, gdb, users...)
}

// SeedProfiles inserts the described users.
func SeedProfiles(t *testing.T, gdb *gorm.DB, users ...User) {
	t.Helper()
	for _, u := range users {
		tier := u.Tier
		if tier == "" {
			tier = "free"
		}
		row := db.User{
			ID:                u.ID,
			Username:          fmt.Sprintf("user%d", u.ID),
			Email:             fmt.Sprintf("user%d@test.com", u.ID),
			PasswordHash:      "x",
			Active:            !u.Inactive,
			Gender:            "x",
			Age:               30,
			MembershipTier:    tier,
			Timezone:          u.Timezone,
			ProfileCompletion: 0.8,
			ResponseRate:      0.5,
			Interests:         datatypes.JSONSlice[string](u.Interests),
		}
		require.NoError(t, gdb.Create(&row).Error)
	}
}
