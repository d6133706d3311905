package events

import "villainstrike/internal/scoring"

// PhaseChangeEvent fires on every session phase transition.
type PhaseChangeEvent struct {
	Phase string `json:"phase"`
	// EndedBy is "ko" or "timeout" when Phase is "ended", empty otherwise.
	EndedBy string `json:"endedBy,omitempty"`
}

// LevelUpEvent fires once per level transition during a run.
type LevelUpEvent struct {
	Level  int    `json:"level"`
	Status string `json:"status"`
}

// DamageMarkerEvent fires once per unlocked damage milestone.
type DamageMarkerEvent struct {
	Threshold int      `json:"threshold"`
	Markers   []string `json:"markers"`
}

// HitEvent carries the scoring result of one tap.
type HitEvent struct {
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
	Result scoring.Result `json:"result"`
	Score  int            `json:"score"`
	Hits   int            `json:"hits"`
}

// TimerEvent carries the remaining seconds after a tick.
type TimerEvent struct {
	Remaining int `json:"remaining"`
}

// Bus carries session events to the broadcast layer. Publishing never
// blocks: a full channel drops the event rather than stalling hit
// processing.
type Bus struct {
	PhaseChanges chan PhaseChangeEvent
	LevelUps     chan LevelUpEvent
	Damage       chan DamageMarkerEvent
	Hits         chan HitEvent
	Timer        chan TimerEvent
}

func NewBus() *Bus {
	return &Bus{
		PhaseChanges: make(chan PhaseChangeEvent, 10),
		LevelUps:     make(chan LevelUpEvent, 10),
		Damage:       make(chan DamageMarkerEvent, 10),
		Hits:         make(chan HitEvent, 64),
		Timer:        make(chan TimerEvent, 10),
	}
}

func (b *Bus) PublishPhaseChange(ev PhaseChangeEvent) {
	select {
	case b.PhaseChanges <- ev:
	default:
	}
}

func (b *Bus) PublishLevelUp(ev LevelUpEvent) {
	select {
	case b.LevelUps <- ev:
	default:
	}
}

func (b *Bus) PublishDamage(ev DamageMarkerEvent) {
	select {
	case b.Damage <- ev:
	default:
	}
}

func (b *Bus) PublishHit(ev HitEvent) {
	select {
	case b.Hits <- ev:
	default:
	}
}

func (b *Bus) PublishTimer(ev TimerEvent) {
	select {
	case b.Timer <- ev:
	default:
	}
}
