package compat

import (
	"math"

	"github.com/oggyb/muzz-interest/internal/model"
)

// neutral stands in for a component whose data is missing inside an
// otherwise computable signal.
const neutral = 0.5

// Subject is everything known about one side of the pair. Nil fields are
// unavailable.
type Subject struct {
	Profile     *model.Profile
	Stats       *model.BehaviorStats
	Preferences map[string]float64
}

// Inputs are the loaded data for an (actor, target) pair.
type Inputs struct {
	Actor  Subject
	Target Subject
}

// SignalSource computes one sub-score in [0,1]. ok=false means there is not
// enough data and the signal is excluded from the blend.
type SignalSource interface {
	Name() string
	Compute(in Inputs) (value float64, ok bool)
}

// WeightedSignal is a source with its outer blend weight.
type WeightedSignal struct {
	Source SignalSource
	Weight float64
}

// Signal names.
const (
	SignalBehavioral    = "behavioral"
	SignalPreference    = "preference"
	SignalCommunication = "communication"
	SignalTemporal      = "temporal"
	SignalSocial        = "social"
	SignalSuccess       = "success"
)

// DefaultSignals returns the six production signals with their weights.
func DefaultSignals() []WeightedSignal {
	return []WeightedSignal{
		{Source: Behavioral{}, Weight: 0.25},
		{Source: Preference{}, Weight: 0.20},
		{Source: Communication{}, Weight: 0.15},
		{Source: Temporal{}, Weight: 0.10},
		{Source: Social{}, Weight: 0.15},
		{Source: Success{}, Weight: 0.15},
	}
}

// Behavioral compares how selective, when, how fast and how long both users
// swipe: 0.30 selectivity, 0.30 active-hour overlap, 0.20 response time,
// 0.20 session length.
type Behavioral struct{}

func (Behavioral) Name() string { return SignalBehavioral }

func (Behavioral) Compute(in Inputs) (float64, bool) {
	a, b := in.Actor.Stats, in.Target.Stats
	if a == nil || b == nil {
		return 0, false
	}
	selectivity := 1 - math.Abs(a.LikeRatio()-b.LikeRatio())
	hours := neutral
	if v, ok := overlap(a.ActiveHours, b.ActiveHours); ok {
		hours = v
	}
	response := ratioSimilarity(a.AvgResponseSeconds, b.AvgResponseSeconds)
	session := ratioSimilarity(a.AvgSessionSeconds, b.AvgSessionSeconds)
	return clamp01(0.30*selectivity + 0.30*hours + 0.20*response + 0.20*session), true
}

// Preference averages how well each user fits the other's learned weights.
type Preference struct{}

func (Preference) Name() string { return SignalPreference }

func (Preference) Compute(in Inputs) (float64, bool) {
	var sum float64
	var n int
	if v, ok := affinity(in.Actor.Preferences, in.Target.Profile); ok {
		sum += v
		n++
	}
	if v, ok := affinity(in.Target.Preferences, in.Actor.Profile); ok {
		sum += v
		n++
	}
	if n == 0 {
		return 0, false
	}
	return clamp01(sum / float64(n)), true
}

// affinity is the weight-normalised share of the rater's preferred features
// the candidate has.
func affinity(prefs map[string]float64, candidate *model.Profile) (float64, bool) {
	if len(prefs) == 0 || candidate == nil {
		return 0, false
	}
	features := candidate.Features()
	var num, den float64
	for k, w := range prefs {
		if w <= 0 {
			continue
		}
		num += w * features[k]
		den += w
	}
	if den == 0 {
		return 0, false
	}
	return clamp01(num / den), true
}

// Communication compares messaging style: 0.25 message length, 0.35
// frequency, 0.20 emoji usage, 0.20 question ratio.
type Communication struct{}

func (Communication) Name() string { return SignalCommunication }

func (Communication) Compute(in Inputs) (float64, bool) {
	a, b := in.Actor.Stats, in.Target.Stats
	if a == nil || b == nil || a.MessageCount <= 0 || b.MessageCount <= 0 {
		return 0, false
	}
	length := ratioSimilarity(a.AvgMessageLength, b.AvgMessageLength)
	frequency := ratioSimilarity(a.MessagesPerDay, b.MessagesPerDay)
	emoji := 1 - math.Abs(clamp01(a.EmojiRate)-clamp01(b.EmojiRate))
	questions := 1 - math.Abs(clamp01(a.QuestionRatio)-clamp01(b.QuestionRatio))
	return clamp01(0.25*length + 0.35*frequency + 0.20*emoji + 0.20*questions), true
}

// Temporal is the overlap of both users' 168-hour weekly activity.
type Temporal struct{}

func (Temporal) Name() string { return SignalTemporal }

func (Temporal) Compute(in Inputs) (float64, bool) {
	a, b := in.Actor.Stats, in.Target.Stats
	if a == nil || b == nil || len(a.WeeklyActivity) != 168 || len(b.WeeklyActivity) != 168 {
		return 0, false
	}
	return overlap(a.WeeklyActivity, b.WeeklyActivity)
}

// Social blends shared interests (0.7) with proximity (0.3), capped at 1.
type Social struct{}

func (Social) Name() string { return SignalSocial }

func (Social) Compute(in Inputs) (float64, bool) {
	a, b := in.Actor.Profile, in.Target.Profile
	if a == nil || b == nil {
		return 0, false
	}
	interests := jaccard(a.Interests, b.Interests)
	var location float64
	if a.HasLocation() && b.HasLocation() {
		km := haversineKm(*a.Latitude, *a.Longitude, *b.Latitude, *b.Longitude)
		location = math.Exp(-km / 50)
	}
	return math.Min(1.0, interests*0.7+location*0.3), true
}

// Success blends relationship-duration similarity (0.40), average response
// rate (0.35) and average profile completion (0.25), re-normalised over the
// parts that have data.
type Success struct{}

func (Success) Name() string { return SignalSuccess }

func (Success) Compute(in Inputs) (float64, bool) {
	var sum, weight float64
	as, bs := in.Actor.Stats, in.Target.Stats
	if as != nil && bs != nil && as.AvgRelationshipDays > 0 && bs.AvgRelationshipDays > 0 {
		sum += 0.40 * ratioSimilarity(as.AvgRelationshipDays, bs.AvgRelationshipDays)
		weight += 0.40
	}
	ap, bp := in.Actor.Profile, in.Target.Profile
	if ap != nil && bp != nil {
		sum += 0.35 * clamp01((ap.ResponseRate+bp.ResponseRate)/2)
		sum += 0.25 * clamp01((ap.ProfileCompletion+bp.ProfileCompletion)/2)
		weight += 0.35 + 0.25
	}
	if weight == 0 {
		return 0, false
	}
	return clamp01(sum / weight), true
}

// Constant is a fixed-value source, used as a stand-in where a real signal is
// not wired and in tests. Absent makes it report no data.
type Constant struct {
	Label  string
	Value  float64
	Absent bool
}

func (c Constant) Name() string { return c.Label }

func (c Constant) Compute(Inputs) (float64, bool) {
	if c.Absent {
		return 0, false
	}
	return clamp01(c.Value), true
}

// --- math helpers ---

// ratioSimilarity is min/max of two non-negative magnitudes; missing (zero)
// values give the neutral score.
func ratioSimilarity(a, b float64) float64 {
	if a <= 0 || b <= 0 {
		return neutral
	}
	return math.Min(a, b) / math.Max(a, b)
}

// overlap is the weighted Jaccard Σmin/Σmax of two histograms.
func overlap(a, b []float64) (float64, bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}
	var lo, hi float64
	for i := range a {
		x, y := math.Max(a[i], 0), math.Max(b[i], 0)
		lo += math.Min(x, y)
		hi += math.Max(x, y)
	}
	if hi == 0 {
		return 0, false
	}
	return lo / hi, true
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	inter := 0
	seen := make(map[string]struct{}, len(b))
	for _, s := range b {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		if _, ok := set[s]; ok {
			inter++
		}
	}
	union := len(set) + len(seen) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadius * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
