package scoring

import "villainstrike/internal/difficulty"

// Per-difficulty grade cutoffs, highest first.
type gradeCutoffs struct {
	S, A, B, C int
}

var gradeTable = map[difficulty.Key]gradeCutoffs{
	difficulty.Easy:   {S: 3000, A: 2000, B: 1000, C: 500},
	difficulty.Normal: {S: 5000, A: 3500, B: 2000, C: 1000},
	difficulty.Hard:   {S: 10000, A: 7000, B: 4000, C: 2000},
}

// Grade rates a final score against the tier's cutoffs: S, A, B, C or D.
// Unknown keys use the Normal cutoffs.
func Grade(score int, key difficulty.Key) string {
	cutoffs, ok := gradeTable[key]
	if !ok {
		cutoffs = gradeTable[difficulty.Normal]
	}

	switch {
	case score >= cutoffs.S:
		return "S"
	case score >= cutoffs.A:
		return "A"
	case score >= cutoffs.B:
		return "B"
	case score >= cutoffs.C:
		return "C"
	default:
		return "D"
	}
}

// ComboLevel buckets a combo count for effect intensity.
func ComboLevel(combo int) string {
	switch {
	case combo >= 30:
		return "legendary"
	case combo >= 20:
		return "super"
	case combo >= 10:
		return "fire"
	case combo >= 5:
		return "good"
	default:
		return "normal"
	}
}

// Stages for the cosmetic image transform, chosen by cumulative score.
const (
	Stage1 = 1 // startled
	Stage2 = 2 // hurting
	Stage3 = 3 // wrecked
)

// StageFor picks the transform stage for a cumulative score.
func StageFor(score int) int {
	switch {
	case score < 300:
		return Stage1
	case score < 700:
		return Stage2
	default:
		return Stage3
	}
}
