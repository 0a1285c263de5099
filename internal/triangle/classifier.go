package triangle

import (
	"math"
	"sort"

	"github.com/robalobadob/trianglequiz/internal/geometry"
)

// DefaultTolerance is the absolute difference below which two sides count
// as equal. It is in the same units as the side lengths.
const DefaultTolerance = 0.1

// Classifier derives a category from measured side lengths.
type Classifier struct {
	Tolerance float64
}

// Classify applies the rule with DefaultTolerance.
func Classify(a, b, c float64) Category {
	return Classifier{Tolerance: DefaultTolerance}.Classify(a, b, c)
}

// ClassifySides classifies measured sides with DefaultTolerance.
func ClassifySides(s geometry.SideLengths) Category {
	return Classify(s.A, s.B, s.C)
}

// Classify returns the category of the sides a, b, c. The rule is checked
// in this order, with strict comparisons:
//  1. |a−b| < t and |b−c| < t: Equilateral
//  2. any pair closer than t:  Isosceles
//  3. otherwise:               Scalene
//
// Sides are sorted first, so b is always the middle length and the result
// does not depend on argument order. The sides are not checked against the
// triangle inequality.
func (cl Classifier) Classify(a, b, c float64) Category {
	s := []float64{a, b, c}
	sort.Float64s(s)
	a, b, c = s[0], s[1], s[2]

	t := cl.Tolerance
	switch {
	case math.Abs(a-b) < t && math.Abs(b-c) < t:
		return Equilateral
	case math.Abs(a-b) < t || math.Abs(b-c) < t || math.Abs(a-c) < t:
		return Isosceles
	default:
		return Scalene
	}
}
