// Package swipe is the interest engine: it records actions between users,
// resolves mutual matches, enforces rate limits and reverses recent
// decisions.
package swipe

import (
	"context"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/oggyb/muzz-interest/internal/compat"
	"github.com/oggyb/muzz-interest/internal/events"
	"github.com/oggyb/muzz-interest/internal/logger"
	"github.com/oggyb/muzz-interest/internal/model"
	"github.com/oggyb/muzz-interest/internal/queue"
	"github.com/oggyb/muzz-interest/internal/ratelimit"
)

// DefaultUndoWindow is how long an action stays reversible.
const DefaultUndoWindow = 30 * time.Second

// Metadata keys read by Block and Report.
const (
	MetaReason      = "reason"
	MetaDescription = "description"
)

// Engine composes the rate limiter, match resolver, undo manager and queue
// ranker over the injected stores.
type Engine struct {
	store    Store
	queue    QueueStore
	profiles Profiles
	scorer   Scorer
	base     compat.BaseScorer
	limiter  *ratelimit.Limiter
	ranker   *queue.Ranker
	resolver *MatchResolver
	events   events.Publisher
	counts   LikeCountInvalidator

	locks      *KeyedLocks
	undoWindow time.Duration
	defaultLoc *time.Location
	now        func() time.Time
	newID      func() string
	log        *slog.Logger
	tracer     trace.Tracer
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.log = l } }

func WithUndoWindow(d time.Duration) Option { return func(e *Engine) { e.undoWindow = d } }

func WithLimits(l ratelimit.Limits) Option {
	return func(e *Engine) { e.limiter = ratelimit.NewLimiter(l, e.store) }
}

// WithDefaultLocation sets the zone used for daily limits when the actor's
// profile has none.
func WithDefaultLocation(loc *time.Location) Option {
	return func(e *Engine) { e.defaultLoc = loc }
}

func WithPublisher(p events.Publisher) Option { return func(e *Engine) { e.events = p } }

func WithScorer(s Scorer) Option { return func(e *Engine) { e.scorer = s } }

func WithBaseScorer(b compat.BaseScorer) Option { return func(e *Engine) { e.base = b } }

func WithLikeCountInvalidator(c LikeCountInvalidator) Option {
	return func(e *Engine) { e.counts = c }
}

func WithRanker(r *queue.Ranker) Option { return func(e *Engine) { e.ranker = r } }

// WithIDGenerator overrides ULID generation for action and match ids.
func WithIDGenerator(f func() string) Option { return func(e *Engine) { e.newID = f } }

// New builds an Engine. Without WithScorer the reinsertion score after undo
// is the base score alone.
func New(store Store, q QueueStore, profiles Profiles, opts ...Option) *Engine {
	e := &Engine{
		store:      store,
		queue:      q,
		profiles:   profiles,
		locks:      NewKeyedLocks(),
		undoWindow: DefaultUndoWindow,
		defaultLoc: time.UTC,
		now:        time.Now,
		newID:      func() string { return ulid.Make().String() },
		tracer:     otel.Tracer("github.com/oggyb/muzz-interest/internal/swipe"),
	}
	e.limiter = ratelimit.NewLimiter(ratelimit.DefaultLimits(), store)
	for _, o := range opts {
		o(e)
	}
	if e.log == nil {
		e.log = logger.L()
	}
	if e.base == nil {
		e.base = compat.ProfileBaseScorer{Profiles: e.profiles}
	}
	if e.ranker == nil {
		e.ranker = queue.NewRanker(q, profiles, queue.WithRankerClock(e.nowFn), queue.WithRankerLogger(e.log))
	}
	e.resolver = &MatchResolver{now: e.nowFn, newID: e.newID, log: e.log}
	return e
}

func (e *Engine) nowFn() time.Time { return e.now().UTC() }

// pairTx runs fn in a transaction holding the pair's row lock. The
// in-process pair lock must already be held.
func (e *Engine) pairTx(ctx context.Context, a, b uint64, fn func(tx Tx) error) error {
	pair := model.CanonicalPair(a, b)
	if err := e.store.EnsurePairLock(ctx, pair); err != nil {
		return err
	}
	return e.store.WithTx(ctx, func(tx Tx) error {
		if err := tx.LockPair(ctx, pair); err != nil {
			return err
		}
		return fn(tx)
	})
}

func (e *Engine) Limiter() *ratelimit.Limiter { return e.limiter }

func (e *Engine) Resolver() *MatchResolver { return e.resolver }
