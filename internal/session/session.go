package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"villainstrike/internal/difficulty"
	"villainstrike/internal/events"
	"villainstrike/internal/hitzone"
	"villainstrike/internal/scoring"
)

// Phase is the state-machine phase of one session.
type Phase string

const (
	PhaseIdle      = Phase("idle")
	PhaseUploading = Phase("uploading")
	PhaseCountdown = Phase("countdown")
	PhaseActive    = Phase("active")
	PhaseEnded     = Phase("ended")
)

// EndReason distinguishes the two terminal triggers.
type EndReason string

const (
	EndedByKO      = EndReason("ko")
	EndedByTimeout = EndReason("timeout")
)

type Config struct {
	GameDuration  int // seconds
	CountdownSecs int
}

func DefaultConfig() Config {
	return Config{
		GameDuration:  15,
		CountdownSecs: 3,
	}
}

// Session owns the state of one game: phase, level, timer, combo and score.
// A single mutex serializes taps against timer ticks; no method blocks on
// I/O. The caller owns scheduling: it drives the countdown, calls Tick once
// per second while active, and routes taps to Tap.
type Session struct {
	mu         sync.Mutex
	id         string
	generation string // run id; bumped on reset so stale timers and late detector results are discarded

	phase         Phase
	level         int
	timeRemaining int
	endedBy       EndReason

	profile  difficulty.Profile
	combo    scoring.ComboState
	score    scoring.ScoreState
	resolver hitzone.Resolver
	damage   damageTracker
	engine   *scoring.Engine
	cfg      Config
	bus      *events.Bus

	playerName  string
	villainName string

	imageAttached bool
	koPending     bool
	detectDone    chan struct{}

	createdAt time.Time
}

// New creates an idle session for the given difficulty tier. An unknown key
// falls back to Normal.
func New(key difficulty.Key, cfg Config, engine *scoring.Engine, bus *events.Bus) *Session {
	if engine == nil {
		engine = scoring.NewEngine(nil)
	}
	if bus == nil {
		bus = events.NewBus()
	}
	return &Session{
		id:         uuid.New().String(),
		generation: uuid.New().String(),
		phase:      PhaseIdle,
		profile:    difficulty.Get(key),
		engine:     engine,
		cfg:        cfg,
		bus:        bus,
		createdAt:  time.Now(),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Bus() *events.Bus { return s.bus }

func (s *Session) CreatedAt() time.Time { return s.createdAt }

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) Profile() difficulty.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

func (s *Session) SetNames(player, villain string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playerName = player
	s.villainName = villain
}

// Generation returns the current run id. Callers hold it across async work
// and pass it back; a mismatch means the session was reset in between.
func (s *Session) Generation() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// AttachImage registers the displayed image dimensions, derives the fallback
// face region and moves Idle -> Uploading. It returns the generation to key
// the asynchronous detection call with.
func (s *Session) AttachImage(width, height float64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseIdle {
		return "", fmt.Errorf("cannot attach image in phase %q", s.phase)
	}

	region := hitzone.RegionFor(width, height)
	s.resolver = hitzone.Resolver{Region: &region}
	s.imageAttached = true
	s.detectDone = make(chan struct{})
	s.setPhase(PhaseUploading, "")
	return s.generation, nil
}

// SetLandmarks installs the detector result for the image attached under
// gen. Zone radii are derived exactly once here and stay immutable for the
// run. A nil lm records a failed detection; either way the countdown gate
// opens. Late results from a previous run are discarded.
func (s *Session) SetLandmarks(gen string, lm *hitzone.Landmarks) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation || s.detectDone == nil {
		return false
	}
	if lm != nil {
		zones := hitzone.ZonesFor(*lm)
		s.resolver.Landmarks = lm
		s.resolver.Zones = &zones
	}
	select {
	case <-s.detectDone:
	default:
		close(s.detectDone)
	}
	return true
}

// DetectionDone returns a channel closed once detection has resolved (with
// landmarks or a recorded failure), or nil when no image is attached.
func (s *Session) DetectionDone() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detectDone
}

// HasLandmarks reports whether feature zones are installed.
func (s *Session) HasLandmarks() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolver.Landmarks != nil
}

// BeginCountdown moves Uploading -> Countdown. The countdown itself is not
// interactive; the caller waits it out and then calls Activate with the
// returned generation.
func (s *Session) BeginCountdown() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseUploading {
		return "", fmt.Errorf("cannot start countdown in phase %q", s.phase)
	}
	s.setPhase(PhaseCountdown, "")
	return s.generation, nil
}

// Activate moves Countdown -> Active, zeroing score, combo, level, damage
// markers and starting the timer at the configured duration. A stale
// generation is a no-op.
func (s *Session) Activate(gen string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation || s.phase != PhaseCountdown {
		return false
	}
	s.score.Begin(now)
	s.combo.Reset()
	s.damage.reset()
	s.level = 0
	s.koPending = false
	s.endedBy = ""
	s.timeRemaining = s.cfg.GameDuration
	s.setPhase(PhaseActive, "")
	return true
}

// TapResult is the outcome of one processed tap.
type TapResult struct {
	scoring.Result
	Score     int         `json:"score"`
	HitCount  int         `json:"hitCount"`
	Level     int         `json:"level"`
	LeveledUp bool        `json:"leveledUp"`
	KO        bool        `json:"ko"`
	Unlocked  []Milestone `json:"unlocked,omitempty"`
}

// Tap scores one hit. Only valid while Active; taps in any other phase are
// rejected. KO does not end the session synchronously: the caller schedules
// End after its presentation delay, and hits keep scoring until then.
func (s *Session) Tap(x, y float64, now time.Time) (TapResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseActive {
		return TapResult{}, fmt.Errorf("tap ignored in phase %q", s.phase)
	}

	s.score.HitCount++
	result := s.engine.Score(x, y, now, s.profile, &s.resolver, &s.combo, &s.score)

	tap := TapResult{
		Result:   result,
		Score:    s.score.Score,
		HitCount: s.score.HitCount,
		Level:    s.level,
	}
	s.bus.PublishHit(events.HitEvent{
		X: x, Y: y, Result: result,
		Score: s.score.Score, Hits: s.score.HitCount,
	})

	for _, m := range s.damage.advance(s.score.Score) {
		tap.Unlocked = append(tap.Unlocked, m)
		s.bus.PublishDamage(events.DamageMarkerEvent{Threshold: m.Threshold, Markers: m.Markers})
	}

	if newLevel := s.profile.Level(s.score.HitCount); newLevel > s.level {
		s.level = newLevel
		tap.Level = newLevel
		tap.LeveledUp = true
		s.bus.PublishLevelUp(events.LevelUpEvent{
			Level:  newLevel,
			Status: difficulty.StatusForLevel(newLevel).Text,
		})
	}

	if !s.koPending && s.profile.IsKO(s.score.HitCount) {
		s.koPending = true
		tap.KO = true
	}

	return tap, nil
}

// Tick advances the countdown timer by one second. Returns the remaining
// time and whether the session is still active. When the timer reaches zero
// a pending KO wins over the timeout: the terminal reason is "ko" if the KO
// threshold was already met this run.
func (s *Session) Tick(gen string, now time.Time) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation || s.phase != PhaseActive {
		return 0, false
	}

	s.timeRemaining--
	if s.timeRemaining < 0 {
		s.timeRemaining = 0
	}
	s.bus.PublishTimer(events.TimerEvent{Remaining: s.timeRemaining})

	if s.timeRemaining == 0 {
		reason := EndedByTimeout
		if s.koPending {
			reason = EndedByKO
		}
		s.end(reason, now)
		return 0, false
	}
	return s.timeRemaining, true
}

// End terminates an active run. Used by the caller's KO presentation delay;
// a stale generation (the session was reset meanwhile) is a no-op.
func (s *Session) End(gen string, reason EndReason, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation || s.phase != PhaseActive {
		return false
	}
	s.end(reason, now)
	return true
}

// end finalizes the run. Caller holds the mutex.
func (s *Session) end(reason EndReason, now time.Time) {
	s.endedBy = reason
	s.score.End(now)
	s.setPhase(PhaseEnded, string(reason))
}

// Reset zeroes all per-run state and bumps the generation, cancelling any
// in-flight countdown, timer or detection effect. With keepImage the session
// returns to Uploading ("play again" with the same villain); otherwise to
// Idle ("new villain").
func (s *Session) Reset(keepImage bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation = uuid.New().String()
	s.score = scoring.ScoreState{}
	s.combo.Reset()
	s.damage.reset()
	s.level = 0
	s.timeRemaining = 0
	s.koPending = false
	s.endedBy = ""

	if keepImage && s.imageAttached {
		s.setPhase(PhaseUploading, "")
		return
	}
	s.resolver = hitzone.Resolver{}
	s.imageAttached = false
	s.detectDone = nil
	s.setPhase(PhaseIdle, "")
}

// setPhase publishes the transition. Caller holds the mutex.
func (s *Session) setPhase(p Phase, endedBy string) {
	s.phase = p
	s.bus.PublishPhaseChange(events.PhaseChangeEvent{Phase: string(p), EndedBy: endedBy})
}

// Snapshot is a read-only view of the session for API responses.
type Snapshot struct {
	ID            string         `json:"id"`
	Phase         Phase          `json:"phase"`
	Level         int            `json:"level"`
	TimeRemaining int            `json:"timeRemaining"`
	Score         int            `json:"score"`
	HitCount      int            `json:"hitCount"`
	Combo         int            `json:"combo"`
	MaxCombo      int            `json:"maxCombo"`
	AccuracyRate  float64        `json:"accuracyRate"`
	Difficulty    difficulty.Key `json:"difficulty"`
	PlayerName    string         `json:"playerName,omitempty"`
	VillainName   string         `json:"villainName,omitempty"`
	Stage         int            `json:"stage"`
	HasLandmarks  bool           `json:"hasLandmarks"`
	EndedBy       EndReason      `json:"endedBy,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:            s.id,
		Phase:         s.phase,
		Level:         s.level,
		TimeRemaining: s.timeRemaining,
		Score:         s.score.Score,
		HitCount:      s.score.HitCount,
		Combo:         s.combo.Combo,
		MaxCombo:      s.combo.MaxCombo,
		AccuracyRate:  s.score.AccuracyRate(),
		Difficulty:    s.profile.Key,
		PlayerName:    s.playerName,
		VillainName:   s.villainName,
		Stage:         scoring.StageFor(s.score.Score),
		HasLandmarks:  s.resolver.Landmarks != nil,
		EndedBy:       s.endedBy,
	}
}

// Summary is the finalized result of an ended run, ready to become a
// leaderboard entry. Score and hit log stay frozen until reset.
type Summary struct {
	PlayerName   string         `json:"playerName"`
	VillainName  string         `json:"villainName"`
	Score        int            `json:"score"`
	HitCount     int            `json:"hitCount"`
	MaxCombo     int            `json:"maxCombo"`
	Difficulty   difficulty.Key `json:"difficulty"`
	AccuracyRate float64        `json:"accuracyRate"`
	PlayTime     time.Duration  `json:"playTime"`
	Grade        string         `json:"grade"`
	EndedBy      EndReason      `json:"endedBy"`
}

// Summary returns the frozen run result. Only meaningful once Ended.
func (s *Session) Summary() (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseEnded {
		return Summary{}, fmt.Errorf("no summary in phase %q", s.phase)
	}
	return Summary{
		PlayerName:   s.playerName,
		VillainName:  s.villainName,
		Score:        s.score.Score,
		HitCount:     s.score.HitCount,
		MaxCombo:     s.combo.MaxCombo,
		Difficulty:   s.profile.Key,
		AccuracyRate: s.score.AccuracyRate(),
		PlayTime:     s.score.PlayTime(time.Now()),
		Grade:        scoring.Grade(s.score.Score, s.profile.Key),
		EndedBy:      s.endedBy,
	}, nil
}

// HitLog returns a copy of the append-only hit records.
func (s *Session) HitLog() []scoring.HitRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	log := make([]scoring.HitRecord, len(s.score.HitLog))
	copy(log, s.score.HitLog)
	return log
}
