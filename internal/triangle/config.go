package triangle

import "fmt"

// Range is a half-open interval [Min, Max).
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Width returns Max-Min.
func (r Range) Width() float64 { return r.Max - r.Min }

// Config bounds the random draws of a Generator.
type Config struct {
	EquilateralSide Range `yaml:"equilateral_side" json:"equilateralSide"`
	IsoscelesLeg    Range `yaml:"isosceles_leg" json:"isoscelesLeg"`
	IsoscelesBase   Range `yaml:"isosceles_base" json:"isoscelesBase"`
	ScaleneSide     Range `yaml:"scalene_side" json:"scaleneSide"`

	// MinSideGap is the smallest allowed difference between sides that must
	// read as unequal: every scalene pair, and an isosceles base vs. its legs.
	MinSideGap float64 `yaml:"min_side_gap" json:"minSideGap"`

	// Center bounds both coordinates of the triangle's anchor point.
	Center Range `yaml:"center" json:"center"`

	// MaxAttempts caps every rejection-sampling loop.
	MaxAttempts int `yaml:"max_attempts" json:"maxAttempts"`
}

// DefaultConfig returns the ranges used by live play.
func DefaultConfig() Config {
	return Config{
		EquilateralSide: Range{Min: 3, Max: 6},
		IsoscelesLeg:    Range{Min: 3, Max: 6},
		IsoscelesBase:   Range{Min: 2, Max: 4},
		ScaleneSide:     Range{Min: 2, Max: 6},
		MinSideGap:      0.5,
		Center:          Range{Min: -2, Max: 2},
		MaxAttempts:     10000,
	}
}

// Validate checks that every category can be generated from c.
func (c Config) Validate() error {
	ranges := []struct {
		name string
		r    Range
	}{
		{"equilateral_side", c.EquilateralSide},
		{"isosceles_leg", c.IsoscelesLeg},
		{"isosceles_base", c.IsoscelesBase},
		{"scalene_side", c.ScaleneSide},
	}
	for _, x := range ranges {
		if x.r.Min <= 0 || x.r.Max <= x.r.Min {
			return fmt.Errorf("%w: %s must satisfy 0 < min < max, got [%v, %v)", ErrInvalidConfig, x.name, x.r.Min, x.r.Max)
		}
	}
	if c.Center.Max < c.Center.Min {
		return fmt.Errorf("%w: center min > max", ErrInvalidConfig)
	}
	if c.MinSideGap <= 0 {
		return fmt.Errorf("%w: min_side_gap must be positive", ErrInvalidConfig)
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("%w: max_attempts must be positive", ErrInvalidConfig)
	}
	// Every leg must exceed half of every base, or the height is imaginary.
	if c.IsoscelesLeg.Min <= c.IsoscelesBase.Max/2 {
		return fmt.Errorf("%w: isosceles leg min %v must exceed half the base max %v",
			ErrDegenerate, c.IsoscelesLeg.Min, c.IsoscelesBase.Max)
	}
	// Three sides pairwise more than a gap apart need a range wider than two gaps.
	if c.ScaleneSide.Width() <= 2*c.MinSideGap {
		return fmt.Errorf("%w: scalene_side width %v leaves no room for three sides %v apart",
			ErrInvalidConfig, c.ScaleneSide.Width(), c.MinSideGap)
	}
	return nil
}
