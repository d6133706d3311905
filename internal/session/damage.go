package session

// Milestone is a one-time cosmetic damage unlock at a cumulative score
// threshold.
type Milestone struct {
	Threshold int      `json:"threshold"`
	Markers   []string `json:"markers"`
}

// Damage markers in unlock order. Thresholds fire at most once per run even
// when the score jumps past several of them in a single hit.
var milestones = []Milestone{
	{Threshold: 100, Markers: []string{"bruise"}},
	{Threshold: 150, Markers: []string{"bruise"}},
	{Threshold: 250, Markers: []string{"swelling"}},
	{Threshold: 350, Markers: []string{"bandage"}},
	{Threshold: 450, Markers: []string{"blackEye"}},
	{Threshold: 550, Markers: []string{"bruise", "bruise"}},
	{Threshold: 650, Markers: []string{"fallingHair", "fallingHair"}},
	{Threshold: 750, Markers: []string{"blackEye"}},
	{Threshold: 850, Markers: []string{"bruise", "bruise", "swelling", "bandage", "fallingHair", "koStars"}},
}

// damageTracker remembers which milestones have fired this run.
type damageTracker struct {
	fired [9]bool
}

func (d *damageTracker) reset() {
	d.fired = [9]bool{}
}

// advance returns the milestones newly unlocked by score. It is a pure
// function of (score, fired) and is idempotent: re-checking at the same or
// a higher score never returns an already-fired milestone again.
func (d *damageTracker) advance(score int) []Milestone {
	var unlocked []Milestone
	for i, m := range milestones {
		if d.fired[i] || score < m.Threshold {
			continue
		}
		d.fired[i] = true
		unlocked = append(unlocked, m)
	}
	return unlocked
}
