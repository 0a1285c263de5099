// internal/random/chooser.go
//
// Weighted category selection.
//
// Two strategies share the Chooser interface:
//   - Linear: draw r = Float64()*sum, subtract weights in order, return the
//     first index where r drops to <= 0. If rounding leaves r positive after
//     the last item, the last index is returned. Seedable; the default.
//   - Cumulative: inverse-CDF sampling via mroth/weightedrand (binary search
//     over running totals). Weights are scaled to integers.
//
// Neither strategy normalizes bad input: empty, negative, NaN/Inf or
// all-zero weights are rejected with ErrInvalidWeights.

package random

import (
	"errors"
	"fmt"
	"math"

	wrand "github.com/mroth/weightedrand/v2"
)

// ErrInvalidWeights signals a precondition violation in a weighted draw.
var ErrInvalidWeights = errors.New("random: invalid weights")

// Chooser picks an index into weights with probability proportional to weight.
type Chooser interface {
	Choose(weights []float64) (int, error)
}

// Pick draws one of items using c. items and weights must have equal length.
func Pick[T any](c Chooser, items []T, weights []float64) (T, error) {
	var zero T
	if len(items) != len(weights) {
		return zero, fmt.Errorf("%w: %d items, %d weights", ErrInvalidWeights, len(items), len(weights))
	}
	i, err := c.Choose(weights)
	if err != nil {
		return zero, err
	}
	return items[i], nil
}

// checkWeights validates weights and returns their sum.
func checkWeights(weights []float64) (float64, error) {
	if len(weights) == 0 {
		return 0, fmt.Errorf("%w: empty", ErrInvalidWeights)
	}
	var sum float64
	for i, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return 0, fmt.Errorf("%w: weight[%d]=%v", ErrInvalidWeights, i, w)
		}
		sum += w
	}
	if sum == 0 {
		return 0, fmt.Errorf("%w: all zero", ErrInvalidWeights)
	}
	return sum, nil
}

// Linear is the subtract-and-scan chooser.
type Linear struct {
	Source Source
}

// NewLinear returns a Linear chooser drawing from src.
func NewLinear(src Source) *Linear { return &Linear{Source: src} }

func (l *Linear) Choose(weights []float64) (int, error) {
	sum, err := checkWeights(weights)
	if err != nil {
		return 0, err
	}
	r := l.Source.Float64() * sum
	for i, w := range weights {
		r -= w
		if r <= 0 {
			return i, nil
		}
	}
	return len(weights) - 1, nil
}

// cumulativeScale converts float weights into integer weights for weightedrand.
const cumulativeScale = 1_000_000

// Cumulative is an inverse-CDF chooser backed by weightedrand. It draws from
// weightedrand's own generator, so it is not reproducible from a seed.
type Cumulative struct{}

// NewCumulative returns a Cumulative chooser.
func NewCumulative() *Cumulative { return &Cumulative{} }

func (Cumulative) Choose(weights []float64) (int, error) {
	if _, err := checkWeights(weights); err != nil {
		return 0, err
	}
	choices := make([]wrand.Choice[int, uint64], 0, len(weights))
	for i, w := range weights {
		choices = append(choices, wrand.NewChoice(i, uint64(math.Round(w*cumulativeScale))))
	}
	ch, err := wrand.NewChooser(choices...)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidWeights, err)
	}
	return ch.Pick(), nil
}
