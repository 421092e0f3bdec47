package pose

import (
	"github.com/chewxy/math32"
)

type Vec2 struct {
	X float32
	Y float32
}

// Vec returns the 2D vector from landmark a to landmark b.
func Vec(a, b Landmark) Vec2 {
	return Vec2{X: b.X - a.X, Y: b.Y - a.Y}
}

func (v Vec2) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vec2) Dot(b Vec2) float32 {
	return v.X*b.X + v.Y*b.Y
}

// AngleBetween returns the angle between two vectors in degrees, in [0..180].
// Returns false if either vector has zero length.
func AngleBetween(a, b Vec2) (float32, bool) {
	la := a.Length()
	lb := b.Length()
	if la == 0 || lb == 0 {
		return 0, false
	}
	cos := a.Dot(b) / (la * lb)
	// clamp against float error before acos
	cos = math32.Max(-1, math32.Min(1, cos))
	return math32.Acos(cos) * 180 / math32.Pi, true
}
