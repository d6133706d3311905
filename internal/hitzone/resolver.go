package hitzone

import "math"

// Feature names a facial landmark with a bonus zone.
type Feature string

const (
	LeftEye  = Feature("leftEye")
	RightEye = Feature("rightEye")
	Nose     = Feature("nose")
	Mouth    = Feature("mouth")
)

// Fixed test order. Eyes beat nose and mouth by list position, not by
// distance; a tap inside two overlapping zones resolves to the earlier one.
var featurePriority = [4]Feature{LeftEye, RightEye, Nose, Mouth}

// Bonus returns the score multiplier for hitting a feature.
func (f Feature) Bonus() float64 {
	switch f {
	case LeftEye, RightEye:
		return 3.0
	case Nose:
		return 2.5
	case Mouth:
		return 2.0
	default:
		return 1.0
	}
}

// Kind classifies where a tap landed.
type Kind int

const (
	KindMiss Kind = iota
	KindFaceRegion
	KindFeature
)

// Resolution is the outcome of resolving one tap.
type Resolution struct {
	Kind    Kind
	Feature Feature // set only when Kind == KindFeature
}

// Resolver maps tap coordinates to features, the fallback face region, or a
// miss. Landmarks and Zones are nil until detection completes; Region is nil
// until an image is attached. Absent inputs degrade to region/miss, never an
// error.
type Resolver struct {
	Landmarks *Landmarks
	Zones     *Zones
	Region    *Box
}

// Resolve classifies a tap at (x, y). Specific beats general: features are
// tested first in priority order, then the fallback region.
func (r *Resolver) Resolve(x, y float64) Resolution {
	if r.Landmarks != nil && r.Zones != nil {
		for _, feature := range featurePriority {
			point, radius := r.zone(feature)
			if radius <= 0 {
				continue
			}
			if math.Hypot(x-point.X, y-point.Y) <= radius {
				return Resolution{Kind: KindFeature, Feature: feature}
			}
		}
	}

	if r.Region != nil && r.Region.Contains(x, y) {
		return Resolution{Kind: KindFaceRegion}
	}

	return Resolution{Kind: KindMiss}
}

func (r *Resolver) zone(f Feature) (Point, float64) {
	switch f {
	case LeftEye:
		return r.Landmarks.LeftEye, r.Zones.LeftEye
	case RightEye:
		return r.Landmarks.RightEye, r.Zones.RightEye
	case Nose:
		return r.Landmarks.Nose, r.Zones.Nose
	default:
		return r.Landmarks.Mouth, r.Zones.Mouth
	}
}
