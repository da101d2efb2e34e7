package meshgradient

import "math"

// Vec2 is a 2D point or vector.
type Vec2 struct {
	X, Y float64
}

// V2 is a convenience function to create a Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns the vector sum.
func (p Vec2) Add(q Vec2) Vec2 {
	return Vec2{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the vector difference.
func (p Vec2) Sub(q Vec2) Vec2 {
	return Vec2{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the vector scaled by s.
func (p Vec2) Mul(s float64) Vec2 {
	return Vec2{X: p.X * s, Y: p.Y * s}
}

// DistanceSquared returns the squared Euclidean distance to q.
func (p Vec2) DistanceSquared(q Vec2) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

// Distance returns the Euclidean distance to q.
func (p Vec2) Distance(q Vec2) float64 {
	return math.Sqrt(p.DistanceSquared(q))
}

// IsFinite reports whether both components are finite.
func (p Vec2) IsFinite() bool {
	return isFinite(p.X) && isFinite(p.Y)
}
