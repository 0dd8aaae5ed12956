package compat

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/oggyb/muzz-interest/internal/logger"
	"github.com/oggyb/muzz-interest/internal/model"
)

const (
	// DefaultMLWeightThreshold is the confidence at which the blended score
	// is pulled toward the base score.
	DefaultMLWeightThreshold = 0.7
	// ConfidenceActions is the per-user action count at which confidence
	// saturates.
	ConfidenceActions = 50
	// DefaultBehaviorLookback bounds how stale behaviour stats may be.
	DefaultBehaviorLookback = 90 * 24 * time.Hour
)

// DataSource is the read-only profile/behaviour provider.
type DataSource interface {
	GetProfile(ctx context.Context, userID uint64) (*model.Profile, error)
	GetBehaviorStats(ctx context.Context, userID uint64, since time.Time) (*model.BehaviorStats, error)
	GetLearnedPreferences(ctx context.Context, userID uint64) (map[string]float64, error)
}

// SignalScore is one breakdown row. Value is nil when the signal had no data.
type SignalScore struct {
	Value  *float64 `json:"value"`
	Weight float64  `json:"weight"`
}

// Breakdown explains how a final score was produced.
type Breakdown struct {
	Signals    map[string]SignalScore `json:"signals"`
	Base       float64                `json:"base"`
	Enhanced   float64                `json:"enhanced"`
	UsedWeight float64                `json:"used_weight"`
	Blended    float64                `json:"blended"`
	Confidence float64                `json:"confidence"`
	MLApplied  bool                   `json:"ml_applied"`
	Final      float64                `json:"final"`
}

// Confidence is the data-sufficiency proxy min(1, min(a, b)/50).
func Confidence(actorActions, targetActions int64) float64 {
	n := min(actorActions, targetActions)
	if n <= 0 {
		return 0
	}
	return math.Min(1.0, float64(n)/ConfidenceActions)
}

// Combine blends computed signal values with the base score. values holds an
// entry only for signals that produced data; signals missing from values are
// reported as null in the breakdown.
func Combine(base float64, signals []WeightedSignal, values map[string]float64, confidence, threshold float64) Breakdown {
	bd := Breakdown{
		Signals:    make(map[string]SignalScore, len(signals)),
		Base:       base,
		Confidence: confidence,
	}
	for _, s := range signals {
		name := s.Source.Name()
		v, ok := values[name]
		if !ok {
			bd.Signals[name] = SignalScore{Weight: s.Weight}
			continue
		}
		v = clamp01(v)
		bd.Signals[name] = SignalScore{Value: &v, Weight: s.Weight}
		bd.Enhanced += v * s.Weight
		bd.UsedWeight += s.Weight
	}
	bd.Blended = base*(1-bd.UsedWeight) + bd.Enhanced

	final := bd.Blended
	if confidence >= threshold {
		// blended*c + base*(1-c), written so c=0 or blended=base is exact.
		final = base + confidence*(bd.Blended-base)
		bd.MLApplied = true
	}
	bd.Final = clamp01(final)
	return bd
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithThreshold sets the ML confidence threshold.
func WithThreshold(t float64) Option { return func(s *Scorer) { s.threshold = t } }

// WithLookback sets the behaviour stats freshness window.
func WithLookback(d time.Duration) Option { return func(s *Scorer) { s.lookback = d } }

// WithSignals replaces the signal set.
func WithSignals(signals ...WeightedSignal) Option {
	return func(s *Scorer) { s.signals = signals }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(s *Scorer) { s.now = now } }

// WithLogger sets the scorer logger.
func WithLogger(l *slog.Logger) Option { return func(s *Scorer) { s.log = l } }

// Scorer is the compatibility pipeline. It never fails: missing data only
// removes signals from the blend.
type Scorer struct {
	src       DataSource
	signals   []WeightedSignal
	threshold float64
	lookback  time.Duration
	now       func() time.Time
	log       *slog.Logger
	tracer    trace.Tracer
}

func NewScorer(src DataSource, opts ...Option) *Scorer {
	s := &Scorer{
		src:       src,
		signals:   DefaultSignals(),
		threshold: DefaultMLWeightThreshold,
		lookback:  DefaultBehaviorLookback,
		now:       time.Now,
		tracer:    otel.Tracer("github.com/oggyb/muzz-interest/internal/compat"),
	}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = logger.L()
	}
	return s
}

// Score returns the final compatibility of target for actor, given the base
// score from profile matching.
func (s *Scorer) Score(ctx context.Context, actorID, targetID uint64, base float64) (float64, Breakdown) {
	ctx, span := s.tracer.Start(ctx, "compat.Score",
		trace.WithAttributes(
			attribute.Int64("actor_id", int64(actorID)),
			attribute.Int64("target_id", int64(targetID)),
		))
	defer span.End()

	in := s.load(ctx, actorID, targetID)
	values := make(map[string]float64, len(s.signals))
	for _, sig := range s.signals {
		if v, ok := sig.Source.Compute(in); ok {
			values[sig.Source.Name()] = v
		}
	}

	var actorActions, targetActions int64
	if in.Actor.Stats != nil {
		actorActions = in.Actor.Stats.ActionCount
	}
	if in.Target.Stats != nil {
		targetActions = in.Target.Stats.ActionCount
	}
	bd := Combine(base, s.signals, values, Confidence(actorActions, targetActions), s.threshold)

	span.SetAttributes(
		attribute.Float64("score.final", bd.Final),
		attribute.Float64("score.used_weight", bd.UsedWeight),
		attribute.Bool("score.ml_applied", bd.MLApplied),
	)
	return bd.Final, bd
}

// load fetches both users' inputs concurrently. Failed lookups leave the
// corresponding field nil.
func (s *Scorer) load(ctx context.Context, actorID, targetID uint64) Inputs {
	var in Inputs
	if s.src == nil {
		return in
	}
	since := s.now().Add(-s.lookback)

	var g errgroup.Group
	g.Go(func() error {
		in.Actor = s.subject(ctx, actorID, since)
		return nil
	})
	g.Go(func() error {
		in.Target = s.subject(ctx, targetID, since)
		return nil
	})
	_ = g.Wait()
	return in
}

func (s *Scorer) subject(ctx context.Context, userID uint64, since time.Time) Subject {
	var sub Subject
	if p, err := s.src.GetProfile(ctx, userID); err == nil {
		sub.Profile = p
	} else {
		s.lookupFailed(ctx, "profile", userID, err)
	}
	if st, err := s.src.GetBehaviorStats(ctx, userID, since); err == nil {
		sub.Stats = st
	} else {
		s.lookupFailed(ctx, "behavior_stats", userID, err)
	}
	if prefs, err := s.src.GetLearnedPreferences(ctx, userID); err == nil {
		sub.Preferences = prefs
	} else {
		s.lookupFailed(ctx, "preferences", userID, err)
	}
	return sub
}

func (s *Scorer) lookupFailed(ctx context.Context, what string, userID uint64, err error) {
	if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrUnavailable) {
		s.log.DebugContext(ctx, "compat input unavailable", "input", what, "user_id", userID)
		return
	}
	s.log.WarnContext(ctx, "compat input lookup failed", "input", what, "user_id", userID, "error", err)
}
