package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_DSN", "")
	t.Setenv("MYSQL_DSN", "")

	cfg := New()
	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Contains(t, cfg.DB.DSN, "@tcp(localhost:3306)/muzz")
	assert.Equal(t, 30*time.Second, cfg.Swipe.UndoWindow)
	assert.Equal(t, 10, cfg.Swipe.ActionsPerMinute)
	assert.Equal(t, 100, cfg.Swipe.DailyLikeLimit)
	assert.Equal(t, 5, cfg.Swipe.DailySuperLikeLimit)
	assert.InDelta(t, 0.7, cfg.Swipe.MLWeightThreshold, 1e-9)
	assert.Equal(t, time.UTC, cfg.DefaultLocation())
}

func TestNewOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "")
	t.Setenv("MYSQL_DSN", "")
	t.Setenv("DB_HOST", "pg")
	t.Setenv("UNDO_WINDOW_SECONDS", "45")
	t.Setenv("ML_WEIGHT_THRESHOLD", "0.5")
	t.Setenv("LIKE_COUNT_TTL", "10m")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("DEFAULT_TIMEZONE", "Europe/London")
	t.Setenv("TRACING_ENABLED", "yes")

	cfg := New()
	assert.Contains(t, cfg.DB.DSN, "host=pg port=5432")
	assert.Equal(t, 45*time.Second, cfg.Swipe.UndoWindow)
	assert.InDelta(t, 0.5, cfg.Swipe.MLWeightThreshold, 1e-9)
	assert.Equal(t, 10*time.Minute, cfg.Swipe.LikeCountTTL)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, "Europe/London", cfg.DefaultLocation().String())
	assert.True(t, cfg.Tracing.Enabled)
}

func TestExplicitDSNWins(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("MYSQL_DSN", "u:p@tcp(db:3306)/x")
	assert.Equal(t, "u:p@tcp(db:3306)/x", New().DB.DSN)
}
