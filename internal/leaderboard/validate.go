package leaderboard

import "fmt"

// minMillisPerHit is the floor on plausible tap rate. A run claiming more
// than one hit per 30ms is rejected as tampered.
const minMillisPerHit = 30

// Validate checks an entry's integrity and plausibility. It returns the
// list of failed checks; an empty list means the entry is trusted.
func Validate(e Entry) []string {
	var reasons []string

	if e.Hash != HashFor(e) {
		reasons = append(reasons, "hash mismatch")
	}
	if e.Score < 0 {
		reasons = append(reasons, fmt.Sprintf("negative score %d", e.Score))
	}
	if e.HitCount < 0 {
		reasons = append(reasons, fmt.Sprintf("negative hit count %d", e.HitCount))
	}
	if e.MaxCombo < 0 {
		reasons = append(reasons, fmt.Sprintf("negative max combo %d", e.MaxCombo))
	}
	if e.PlayTime < 0 {
		reasons = append(reasons, fmt.Sprintf("negative play time %d", e.PlayTime))
	}
	if e.AccuracyRate < 0 || e.AccuracyRate > 1 {
		reasons = append(reasons, fmt.Sprintf("accuracy %v out of range", e.AccuracyRate))
	}
	if e.HitCount > 0 && e.PlayTime < int64(e.HitCount)*minMillisPerHit {
		reasons = append(reasons, fmt.Sprintf("%d hits implausible in %dms", e.HitCount, e.PlayTime))
	}

	return reasons
}
