package hitzone

import "testing"

func testLandmarks() Landmarks {
	return Landmarks{
		LeftEye:  Point{X: 100, Y: 100},
		RightEye: Point{X: 200, Y: 100},
		Nose:     Point{X: 150, Y: 150},
		Mouth:    Point{X: 150, Y: 200},
		FaceBox:  Box{X: 50, Y: 50, Width: 200, Height: 250},
	}
}

func TestZonesFor_UsesLargerBoxDimension(t *testing.T) {
	lm := testLandmarks() // height 250 > width 200

	z := ZonesFor(lm)

	if z.LeftEye != 250*0.08 {
		t.Errorf("LeftEye radius = %v, want %v", z.LeftEye, 250*0.08)
	}
	if z.RightEye != 250*0.08 {
		t.Errorf("RightEye radius = %v, want %v", z.RightEye, 250*0.08)
	}
	if z.Nose != 250*0.10 {
		t.Errorf("Nose radius = %v, want %v", z.Nose, 250*0.10)
	}
	if z.Mouth != 250*0.12 {
		t.Errorf("Mouth radius = %v, want %v", z.Mouth, 250*0.12)
	}
}

func TestRegionFor(t *testing.T) {
	r := RegionFor(600, 400)

	want := Box{X: 150, Y: 60, Width: 300, Height: 200}
	if r != want {
		t.Errorf("RegionFor(600, 400) = %+v, want %+v", r, want)
	}
}

func TestResolve_FeatureHit(t *testing.T) {
	lm := testLandmarks()
	z := ZonesFor(lm)
	r := &Resolver{Landmarks: &lm, Zones: &z}

	res := r.Resolve(150, 200) // dead center of mouth
	if res.Kind != KindFeature || res.Feature != Mouth {
		t.Errorf("Resolve(mouth center) = %+v, want mouth feature", res)
	}

	res = r.Resolve(100, 100)
	if res.Kind != KindFeature || res.Feature != LeftEye {
		t.Errorf("Resolve(left eye center) = %+v, want leftEye feature", res)
	}
}

func TestResolve_EdgeOfZoneIsHit(t *testing.T) {
	lm := testLandmarks()
	z := ZonesFor(lm)
	r := &Resolver{Landmarks: &lm, Zones: &z}

	// Exactly on the radius boundary counts as a hit.
	res := r.Resolve(150+z.Nose, 150)
	if res.Kind != KindFeature || res.Feature != Nose {
		t.Errorf("Resolve(nose edge) = %+v, want nose feature", res)
	}
}

func TestResolve_PriorityOrderBeatsDistance(t *testing.T) {
	// Nose sits almost on top of the left eye so their zones overlap. A tap
	// nearer the nose center but inside both zones must still resolve to the
	// left eye by list order.
	lm := Landmarks{
		LeftEye:  Point{X: 100, Y: 100},
		RightEye: Point{X: 300, Y: 100},
		Nose:     Point{X: 110, Y: 100},
		Mouth:    Point{X: 200, Y: 250},
		FaceBox:  Box{X: 0, Y: 0, Width: 400, Height: 400},
	}
	z := ZonesFor(lm) // eye radius 32, nose radius 40
	r := &Resolver{Landmarks: &lm, Zones: &z}

	res := r.Resolve(112, 100) // 12 from left eye, 2 from nose
	if res.Kind != KindFeature || res.Feature != LeftEye {
		t.Errorf("Resolve(overlap) = %+v, want leftEye (priority order)", res)
	}
}

func TestResolve_FallbackRegion(t *testing.T) {
	region := RegionFor(600, 400)
	r := &Resolver{Region: &region}

	res := r.Resolve(300, 150)
	if res.Kind != KindFaceRegion {
		t.Errorf("Resolve(inside region) = %+v, want face region", res)
	}

	res = r.Resolve(10, 10)
	if res.Kind != KindMiss {
		t.Errorf("Resolve(outside region) = %+v, want miss", res)
	}
}

func TestResolve_LandmarkMissFallsThroughToRegion(t *testing.T) {
	lm := testLandmarks()
	z := ZonesFor(lm)
	region := RegionFor(600, 400)
	r := &Resolver{Landmarks: &lm, Zones: &z, Region: &region}

	// Inside the region rectangle but outside every feature zone.
	res := r.Resolve(420, 240)
	if res.Kind != KindFaceRegion {
		t.Errorf("Resolve(region, no feature) = %+v, want face region", res)
	}
}

func TestResolve_NoInputs(t *testing.T) {
	r := &Resolver{}

	if res := r.Resolve(100, 100); res.Kind != KindMiss {
		t.Errorf("Resolve with no inputs = %+v, want miss", res)
	}
	if res := r.Resolve(-50, -50); res.Kind != KindMiss {
		t.Errorf("Resolve(negative coords) = %+v, want miss", res)
	}
}

func TestFeatureBonus(t *testing.T) {
	tests := []struct {
		feature Feature
		bonus   float64
	}{
		{LeftEye, 3.0},
		{RightEye, 3.0},
		{Nose, 2.5},
		{Mouth, 2.0},
		{Feature("ear"), 1.0},
	}
	for _, tt := range tests {
		if got := tt.feature.Bonus(); got != tt.bonus {
			t.Errorf("%s bonus = %v, want %v", tt.feature, got, tt.bonus)
		}
	}
}
