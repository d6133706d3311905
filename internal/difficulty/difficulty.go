package difficulty

import "time"

// Key identifies a difficulty tier.
type Key string

const (
	Easy   = Key("EASY")
	Normal = Key("NORMAL")
	Hard   = Key("HARD")
)

// Profile holds the tunables for one difficulty tier. Profiles are defined
// once at startup and selected per session, never mutated.
type Profile struct {
	Key             Key
	Name            string
	KOThreshold     int    // cumulative hits that end the session in a knockout
	LevelThresholds [3]int // hit counts marking level 1, 2, 3 (3 = KO)
	ScoreMultiplier float64
	ComboWindow     time.Duration // max gap between hits to continue a combo
	Description     string
	Color           string
}

var profiles = map[Key]Profile{
	Easy: {
		Key:             Easy,
		Name:            "Easy",
		KOThreshold:     40,
		LevelThresholds: [3]int{7, 18, 40},
		ScoreMultiplier: 0.8,
		ComboWindow:     700 * time.Millisecond,
		Description:     "Beginner friendly - take your time",
		Color:           "#00ff00",
	},
	Normal: {
		Key:             Normal,
		Name:            "Normal",
		KOThreshold:     60,
		LevelThresholds: [3]int{10, 30, 60},
		ScoreMultiplier: 1.0,
		ComboWindow:     500 * time.Millisecond,
		Description:     "Standard difficulty - a balanced challenge",
		Color:           "#ffff00",
	},
	Hard: {
		Key:             Hard,
		Name:            "Hard",
		KOThreshold:     100,
		LevelThresholds: [3]int{15, 45, 100},
		ScoreMultiplier: 1.5,
		ComboWindow:     350 * time.Millisecond,
		Description:     "For veterans - the real deal",
		Color:           "#ff0000",
	},
}

// Get returns the profile for key, falling back to Normal for an
// unrecognized key. Never fails.
func Get(key Key) Profile {
	if p, ok := profiles[key]; ok {
		return p
	}
	return profiles[Normal]
}

// Valid reports whether key names a defined profile.
func Valid(key Key) bool {
	_, ok := profiles[key]
	return ok
}

// Keys returns all defined keys ordered by rank.
func Keys() []Key {
	return []Key{Easy, Normal, Hard}
}

// Rank orders tiers for sorting; unknown keys rank as Normal.
func Rank(key Key) int {
	switch key {
	case Easy:
		return 0
	case Hard:
		return 2
	default:
		return 1
	}
}

// Level computes the damage level for a hit count: 0 = no damage, 3 = KO.
// It is a monotonic step function of hitCount for a fixed profile.
func (p Profile) Level(hitCount int) int {
	switch {
	case hitCount >= p.LevelThresholds[2]:
		return 3
	case hitCount >= p.LevelThresholds[1]:
		return 2
	case hitCount >= p.LevelThresholds[0]:
		return 1
	default:
		return 0
	}
}

// IsKO reports whether hitCount has reached the knockout threshold.
func (p Profile) IsKO(hitCount int) bool {
	return hitCount >= p.KOThreshold
}

// HitsToNextLevel returns how many more hits reach the next level threshold,
// or 0 when already at KO.
func (p Profile) HitsToNextLevel(hitCount int) int {
	for _, threshold := range p.LevelThresholds {
		if hitCount < threshold {
			return threshold - hitCount
		}
	}
	return 0
}

// Progress returns progress toward KO in [0, 1].
func (p Profile) Progress(hitCount int) float64 {
	progress := float64(hitCount) / float64(p.KOThreshold)
	if progress > 1 {
		return 1
	}
	return progress
}

// LevelStatus describes a damage level for display.
type LevelStatus struct {
	Text  string
	Color string
}

var levelStatuses = [4]LevelStatus{
	{Text: "READY", Color: "#00ff00"},
	{Text: "HURT!", Color: "#ffff00"},
	{Text: "DAMAGED!", Color: "#ff8800"},
	{Text: "K.O.!", Color: "#ff0000"},
}

// StatusForLevel returns the display status for a level, clamping out-of-range
// levels to READY.
func StatusForLevel(level int) LevelStatus {
	if level < 0 || level >= len(levelStatuses) {
		return levelStatuses[0]
	}
	return levelStatuses[level]
}
