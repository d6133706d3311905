package hitzone

// Point is a coordinate in displayed-image space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box is an axis-aligned rectangle in displayed-image space.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether (x, y) lies inside the box, edges included.
func (b Box) Contains(x, y float64) bool {
	return x >= b.X && x <= b.X+b.Width && y >= b.Y && y <= b.Y+b.Height
}

// Landmarks are the named facial points produced by the external detector
// for one uploaded image.
type Landmarks struct {
	LeftEye  Point `json:"leftEye"`
	RightEye Point `json:"rightEye"`
	Nose     Point `json:"nose"`
	Mouth    Point `json:"mouth"`
	FaceBox  Box   `json:"faceBox"`
}

// Zones holds the hit radius for each named feature. Computed exactly once
// per image and immutable for the session.
type Zones struct {
	LeftEye  float64
	RightEye float64
	Nose     float64
	Mouth    float64
}

// Per-feature radius factors, scaled by the larger face box dimension.
const (
	eyeZoneFactor   = 0.08
	noseZoneFactor  = 0.10
	mouthZoneFactor = 0.12
)

// ZonesFor derives the feature hit radii from the detected face box.
func ZonesFor(lm Landmarks) Zones {
	faceSize := lm.FaceBox.Width
	if lm.FaceBox.Height > faceSize {
		faceSize = lm.FaceBox.Height
	}
	return Zones{
		LeftEye:  faceSize * eyeZoneFactor,
		RightEye: faceSize * eyeZoneFactor,
		Nose:     faceSize * noseZoneFactor,
		Mouth:    faceSize * mouthZoneFactor,
	}
}

// RegionFor returns the fallback face region for a displayed image: the
// central 50% width x 50% height, offset 25% from the left and 15% from
// the top.
func RegionFor(width, height float64) Box {
	return Box{
		X:      width * 0.25,
		Y:      height * 0.15,
		Width:  width * 0.5,
		Height: height * 0.5,
	}
}
