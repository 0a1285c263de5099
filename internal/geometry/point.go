// internal/geometry/point.go
//
// Plane geometry helpers used by the triangle generator and classifier.
// Points are plain values; nothing here holds state.

package geometry

import "math"

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Distance returns the Euclidean distance between p and q.
func Distance(p, q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// SideLengths holds the three sides of a triangle v1,v2,v3:
//   - A: v1–v2
//   - B: v2–v3
//   - C: v3–v1
type SideLengths struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
}

// Sides measures the triangle v1,v2,v3 using the A/B/C convention.
func Sides(v1, v2, v3 Point) SideLengths {
	return SideLengths{
		A: Distance(v1, v2),
		B: Distance(v2, v3),
		C: Distance(v3, v1),
	}
}

// Rounded returns a copy with each side rounded to the given decimal places.
func (s SideLengths) Rounded(places int) SideLengths {
	return SideLengths{A: Round(s.A, places), B: Round(s.B, places), C: Round(s.C, places)}
}

// Area returns the unsigned area of the triangle v1,v2,v3 (shoelace formula).
func Area(v1, v2, v3 Point) float64 {
	return math.Abs((v2.X-v1.X)*(v3.Y-v1.Y)-(v3.X-v1.X)*(v2.Y-v1.Y)) / 2
}

// Collinear reports whether the three points span an area of at most eps.
func Collinear(v1, v2, v3 Point, eps float64) bool {
	return Area(v1, v2, v3) <= eps
}

// Round rounds x half away from zero to the given number of decimal places.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
