package scoring

import (
	"math"
	"math/rand"
	"time"

	"villainstrike/internal/difficulty"
	"villainstrike/internal/hitzone"
)

// Score tuning constants.
const (
	BasePoint          = 5   // base points per hit
	FaceBonus          = 2.0 // fallback face-region multiplier
	ComboMultiplier    = 0.1 // added multiplier per combo step
	MaxComboBonus      = 3.0 // total multiplier cap from combos (base 1.0 + 2.0)
	CriticalChance     = 0.1
	CriticalMultiplier = 2.0
)

// ComboState tracks consecutive hits within the profile's combo window.
type ComboState struct {
	Combo     int
	MaxCombo  int
	LastHitAt time.Time // zero = no prior hit
}

// Reset clears the combo chain.
func (c *ComboState) Reset() {
	*c = ComboState{}
}

// HitRecord is one append-only audit entry per hit. Records are immutable
// once appended and are used for later integrity validation.
type HitRecord struct {
	Time     time.Time `json:"time"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Score    int       `json:"score"`
	Combo    int       `json:"combo"`
	Critical bool      `json:"critical"`
	Accurate bool      `json:"accurate"`
}

// ScoreState is the per-session score accumulator. Score is monotonically
// non-decreasing while a session is active.
type ScoreState struct {
	Score        int
	HitCount     int
	AccurateHits int
	HitLog       []HitRecord
	StartedAt    time.Time
	EndedAt      time.Time
}

// Begin zeroes the state for a new run.
func (s *ScoreState) Begin(now time.Time) {
	*s = ScoreState{StartedAt: now}
}

// End stamps the run's end time.
func (s *ScoreState) End(now time.Time) {
	s.EndedAt = now
}

// AccuracyRate returns the fraction of hits that landed on the face or a
// feature, in [0, 1].
func (s *ScoreState) AccuracyRate() float64 {
	if s.HitCount == 0 {
		return 0
	}
	return float64(s.AccurateHits) / float64(s.HitCount)
}

// PlayTime returns the elapsed play duration. Before End it measures
// against now.
func (s *ScoreState) PlayTime(now time.Time) time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	end := s.EndedAt
	if end.IsZero() {
		end = now
	}
	return end.Sub(s.StartedAt)
}

// Result is the outcome of scoring a single hit.
type Result struct {
	BasePoints   int             `json:"basePoints"`
	Multiplier   float64         `json:"multiplier"`
	FinalScore   int             `json:"finalScore"`
	IsCritical   bool            `json:"isCritical"`
	IsAccurate   bool            `json:"isAccurate"`
	ComboCount   int             `json:"comboCount"`
	HitFeature   hitzone.Feature `json:"hitFeature,omitempty"`
	FeatureBonus float64         `json:"featureBonus"`
}

// Engine converts resolved hits into score deltas. The critical roll is
// injectable so tests can force or suppress criticals.
type Engine struct {
	roll func() float64
}

// NewEngine returns an engine using the package-level random source for
// critical rolls. Pass a non-nil roll to make criticals deterministic.
func NewEngine(roll func() float64) *Engine {
	if roll == nil {
		roll = rand.Float64
	}
	return &Engine{roll: roll}
}

// Score applies one hit at (x, y) observed at now, mutating combo and state.
// The step order is a contract: combo bonus is additive on the base
// multiplier, then accuracy, critical and difficulty multiply in sequence,
// and the delta is floored. It never fails; out-of-range coordinates simply
// resolve to a miss.
func (e *Engine) Score(x, y float64, now time.Time, profile difficulty.Profile, resolver *hitzone.Resolver, combo *ComboState, state *ScoreState) Result {
	result := Result{BasePoints: BasePoint, Multiplier: 1.0, FeatureBonus: 1.0}

	// 1. Combo update.
	if !combo.LastHitAt.IsZero() && now.Sub(combo.LastHitAt) < profile.ComboWindow {
		combo.Combo++
	} else {
		combo.Combo = 0
	}
	result.ComboCount = combo.Combo

	// 2. Combo bonus, capped at MaxComboBonus total (base 1.0 included).
	if combo.Combo > 0 {
		bonus := float64(combo.Combo) * ComboMultiplier
		if bonus > MaxComboBonus-1 {
			bonus = MaxComboBonus - 1
		}
		result.Multiplier += bonus
	}

	// 3. Accuracy bonus: feature zones beat the fallback region.
	resolution := resolver.Resolve(x, y)
	switch resolution.Kind {
	case hitzone.KindFeature:
		result.FeatureBonus = resolution.Feature.Bonus()
		result.Multiplier *= result.FeatureBonus
		result.IsAccurate = true
		result.HitFeature = resolution.Feature
		state.AccurateHits++
	case hitzone.KindFaceRegion:
		result.Multiplier *= FaceBonus
		result.IsAccurate = true
		state.AccurateHits++
	}

	// 4. Critical roll.
	if e.roll() < CriticalChance {
		result.Multiplier *= CriticalMultiplier
		result.IsCritical = true
	}

	// 5. Difficulty scaling.
	result.Multiplier *= profile.ScoreMultiplier

	result.FinalScore = int(math.Floor(float64(result.BasePoints) * result.Multiplier))

	// 6. Side effects.
	state.Score += result.FinalScore
	combo.LastHitAt = now
	if combo.Combo > combo.MaxCombo {
		combo.MaxCombo = combo.Combo
	}
	state.HitLog = append(state.HitLog, HitRecord{
		Time:     now,
		X:        x,
		Y:        y,
		Score:    result.FinalScore,
		Combo:    combo.Combo,
		Critical: result.IsCritical,
		Accurate: result.IsAccurate,
	})

	return result
}
