package session

import "testing"

func thresholdsOf(ms []Milestone) []int {
	out := make([]int, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Threshold)
	}
	return out
}

func TestDamageTracker_FiresOncePerThreshold(t *testing.T) {
	var d damageTracker

	// 0 -> 120: only the 100 milestone.
	fired := d.advance(120)
	if got := thresholdsOf(fired); len(got) != 1 || got[0] != 100 {
		t.Fatalf("advance(120) fired %v, want [100]", got)
	}

	// 120 -> 160: only the 150 milestone; 100 must not re-fire.
	fired = d.advance(160)
	if got := thresholdsOf(fired); len(got) != 1 || got[0] != 150 {
		t.Fatalf("advance(160) fired %v, want [150]", got)
	}

	// 160 -> 900: everything else exactly once.
	fired = d.advance(900)
	want := []int{250, 350, 450, 550, 650, 750, 850}
	got := thresholdsOf(fired)
	if len(got) != len(want) {
		t.Fatalf("advance(900) fired %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("advance(900) fired %v, want %v", got, want)
		}
	}
}

func TestDamageTracker_Idempotent(t *testing.T) {
	var d damageTracker

	d.advance(400)
	if fired := d.advance(400); len(fired) != 0 {
		t.Errorf("re-checking unchanged score fired %v, want none", thresholdsOf(fired))
	}
	if fired := d.advance(399); len(fired) != 0 {
		t.Errorf("lower score fired %v, want none", thresholdsOf(fired))
	}
}

func TestDamageTracker_JumpPastSeveralThresholds(t *testing.T) {
	var d damageTracker

	fired := d.advance(500)
	want := []int{100, 150, 250, 350, 450}
	got := thresholdsOf(fired)
	if len(got) != len(want) {
		t.Fatalf("advance(500) fired %v, want %v", got, want)
	}
}

func TestDamageTracker_Reset(t *testing.T) {
	var d damageTracker

	d.advance(900)
	d.reset()

	fired := d.advance(120)
	if got := thresholdsOf(fired); len(got) != 1 || got[0] != 100 {
		t.Errorf("after reset advance(120) fired %v, want [100]", got)
	}
}

func TestMilestones_FinalUnlockHasKOStars(t *testing.T) {
	var d damageTracker
	fired := d.advance(850)

	last := fired[len(fired)-1]
	if last.Threshold != 850 {
		t.Fatalf("last threshold = %d, want 850", last.Threshold)
	}
	found := false
	for _, m := range last.Markers {
		if m == "koStars" {
			found = true
		}
	}
	if !found {
		t.Errorf("850 markers = %v, want koStars included", last.Markers)
	}
}
