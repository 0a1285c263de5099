// internal/triangle/types.go
//
// Core type definitions for the triangle engine.
// Defines:
//   - Category: classification by side-length equality pattern.
//   - Triangle: three vertices plus the category they were generated for.

package triangle

import (
	"fmt"
	"strings"

	"github.com/robalobadob/trianglequiz/internal/geometry"
)

// Category is the classification of a triangle by its sides.
//   - "equilateral": all three sides equal.
//   - "isosceles":   exactly two sides equal.
//   - "scalene":     no two sides equal.
type Category string

const (
	Equilateral Category = "equilateral"
	Isosceles   Category = "isosceles"
	Scalene     Category = "scalene"
)

// Categories lists every category in canonical order.
var Categories = []Category{Equilateral, Isosceles, Scalene}

// DefaultWeights are the relative draw probabilities for Categories.
var DefaultWeights = []float64{0.3, 0.4, 0.3}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case Equilateral, Isosceles, Scalene:
		return true
	}
	return false
}

// Title returns the capitalized display name ("Equilateral").
func (c Category) Title() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// ParseCategory accepts any casing and surrounding whitespace.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("triangle: unknown category %q", s)
	}
	return c, nil
}

// Triangle is a generated triangle. Category is the ground truth it was
// built to satisfy, not a later measurement.
type Triangle struct {
	Vertices [3]geometry.Point `json:"vertices"`
	Category Category          `json:"category"`
}

// Sides measures the triangle: A = v1–v2, B = v2–v3, C = v3–v1.
func (t Triangle) Sides() geometry.SideLengths {
	return geometry.Sides(t.Vertices[0], t.Vertices[1], t.Vertices[2])
}

// Area returns the triangle's area.
func (t Triangle) Area() float64 {
	return geometry.Area(t.Vertices[0], t.Vertices[1], t.Vertices[2])
}
