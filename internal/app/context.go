package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/oggyb/muzz-interest/internal/cache"
	"github.com/oggyb/muzz-interest/internal/compat"
	"github.com/oggyb/muzz-interest/internal/config"
	"github.com/oggyb/muzz-interest/internal/events"
	"github.com/oggyb/muzz-interest/internal/ratelimit"
	"github.com/oggyb/muzz-interest/internal/repository"
	"github.com/oggyb/muzz-interest/internal/swipe"
)

// AppContext holds shared dependencies (DB, Redis, Logger, engine, etc.)
type AppContext struct {
	Config     *config.Config
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Events     events.Publisher
	Logger     *slog.Logger

	Actions  *repository.ActionRepository
	Profiles *repository.ProfileRepository
	Queue    *repository.QueueRepository
	Scorer   *compat.Scorer
	Engine   *swipe.Engine
}

// New creates a new AppContext and wires the interest engine over the
// repositories. rdb and bus may be nil; the engine then skips counter
// invalidation and event publication.
func New(cfg *config.Config, db *gorm.DB, rdb *cache.RedisCache, bus events.Publisher, logger *slog.Logger, opts ...swipe.Option) *AppContext {
	a := &AppContext{
		Config:     cfg,
		DB:         db,
		RedisCache: rdb,
		Events:     bus,
		Logger:     logger,
		Actions:    repository.NewActionRepository(db),
		Profiles:   repository.NewProfileRepository(db),
		Queue:      repository.NewQueueRepository(db),
	}

	sc := cfg.Swipe
	a.Scorer = compat.NewScorer(a.Profiles,
		compat.WithThreshold(sc.MLWeightThreshold),
		compat.WithLookback(sc.BehaviorLookback),
		compat.WithLogger(logger.With("component", "compat")),
	)

	engineOpts := []swipe.Option{
		swipe.WithLogger(logger.With("component", "swipe")),
		swipe.WithUndoWindow(sc.UndoWindow),
		swipe.WithLimits(ratelimit.Limits{
			PerMinute:       sc.ActionsPerMinute,
			DailyLikes:      sc.DailyLikeLimit,
			DailySuperLikes: sc.DailySuperLikeLimit,
		}),
		swipe.WithDefaultLocation(cfg.DefaultLocation()),
		swipe.WithScorer(a.Scorer),
	}
	if bus != nil {
		engineOpts = append(engineOpts, swipe.WithPublisher(bus))
	}
	if rdb != nil {
		engineOpts = append(engineOpts, swipe.WithLikeCountInvalidator(rdb))
	}
	a.Engine = swipe.New(a.Actions, a.Queue, a.Profiles, append(engineOpts, opts...)...)
	return a
}
