// internal/triangle/generator.go
//
// Procedural triangle generation.
// Responsibilities:
//   - Pick a category by weight when none is requested.
//   - Draw a size and an anchor point inside the configured ranges.
//   - Place three vertices that satisfy the category exactly (up to
//     floating-point error).
//
// Placement:
//   - Equilateral: apex height/3 above the center, base corners at
//     ±side/2 and height/6 below it (height = side·√3/2).
//   - Isosceles: apex height/2 above the center, base corners at ±base/2
//     and height/2 below it (height = √(leg² − (base/2)²)).
//   - Scalene: v1 at the center, v2 at +a along x, v3 at distance b and
//     the law-of-cosines angle from v1.
//
// Every rejection-sampling loop is capped by Config.MaxAttempts. Running
// out returns a *GenerationError wrapping ErrNonTerminating.
package triangle

import (
	"fmt"
	"math"

	"github.com/robalobadob/trianglequiz/internal/geometry"
	"github.com/robalobadob/trianglequiz/internal/random"
)

// collinearEps is the smallest area accepted as a real triangle.
const collinearEps = 1e-9

// Generator produces triangles from a random source.
// A Generator is as safe for concurrent use as its Source.
type Generator struct {
	cfg     Config
	src     random.Source
	chooser random.Chooser
	weights []float64
}

// Option customizes a Generator.
type Option func(*Generator)

// WithChooser replaces the default linear chooser.
func WithChooser(c random.Chooser) Option {
	return func(g *Generator) { g.chooser = c }
}

// WithWeights replaces DefaultWeights; order follows Categories.
func WithWeights(w []float64) Option {
	return func(g *Generator) { g.weights = append([]float64(nil), w...) }
}

// NewGenerator validates cfg and returns a Generator drawing from src.
func NewGenerator(cfg Config, src random.Source, opts ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &Generator{
		cfg:     cfg,
		src:     src,
		chooser: random.NewLinear(src),
		weights: append([]float64(nil), DefaultWeights...),
	}
	for _, o := range opts {
		o(g)
	}
	if len(g.weights) != len(Categories) {
		return nil, fmt.Errorf("%w: want %d weights, got %d", random.ErrInvalidWeights, len(Categories), len(g.weights))
	}
	return g, nil
}

// Config returns the generator's ranges.
func (g *Generator) Config() Config { return g.cfg }

// Random draws a category by weight and generates a triangle of it.
func (g *Generator) Random() (Triangle, error) {
	cat, err := random.Pick(g.chooser, Categories, g.weights)
	if err != nil {
		return Triangle{}, err
	}
	return g.Generate(cat)
}

// Generate builds a fresh triangle of category cat.
func (g *Generator) Generate(cat Category) (Triangle, error) {
	var (
		v   [3]geometry.Point
		err error
	)
	switch cat {
	case Equilateral:
		v = g.equilateral()
	case Isosceles:
		v, err = g.isosceles()
	case Scalene:
		v, err = g.scalene()
	default:
		return Triangle{}, fmt.Errorf("%w: %q", ErrUnknownCategory, cat)
	}
	if err != nil {
		return Triangle{}, err
	}
	if geometry.Collinear(v[0], v[1], v[2], collinearEps) {
		return Triangle{}, &GenerationError{Category: cat, Attempts: 1, Err: ErrDegenerate}
	}
	return Triangle{Vertices: v, Category: cat}, nil
}

func (g *Generator) uniform(r Range) float64 {
	return random.Uniform(g.src, r.Min, r.Max)
}

func (g *Generator) center() geometry.Point {
	x := g.uniform(g.cfg.Center)
	y := g.uniform(g.cfg.Center)
	return geometry.Point{X: x, Y: y}
}

func (g *Generator) equilateral() [3]geometry.Point {
	side := g.uniform(g.cfg.EquilateralSide)
	return PlaceEquilateral(g.center(), side)
}

func (g *Generator) isosceles() ([3]geometry.Point, error) {
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		leg := g.uniform(g.cfg.IsoscelesLeg)
		base := g.uniform(g.cfg.IsoscelesBase)
		if math.Abs(leg-base) <= g.cfg.MinSideGap {
			continue // base would read as a third equal side
		}
		v, err := PlaceIsosceles(g.center(), leg, base)
		if err != nil {
			return v, &GenerationError{Category: Isosceles, Attempts: attempt, Err: err}
		}
		return v, nil
	}
	return [3]geometry.Point{}, &GenerationError{Category: Isosceles, Attempts: g.cfg.MaxAttempts, Err: ErrNonTerminating}
}

func (g *Generator) scalene() ([3]geometry.Point, error) {
	c := g.center()
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		a := g.uniform(g.cfg.ScaleneSide)
		b := g.uniform(g.cfg.ScaleneSide)
		cc := g.uniform(g.cfg.ScaleneSide)
		if !ValidScaleneSides(a, b, cc, g.cfg.MinSideGap) {
			continue
		}
		return PlaceScalene(c, a, b, cc)
	}
	return [3]geometry.Point{}, &GenerationError{Category: Scalene, Attempts: g.cfg.MaxAttempts, Err: ErrNonTerminating}
}

// PlaceEquilateral returns the vertices of an equilateral triangle with the
// given side, centered on c (apex first).
func PlaceEquilateral(c geometry.Point, side float64) [3]geometry.Point {
	h := side * math.Sqrt(3) / 2
	return [3]geometry.Point{
		c.Add(0, h/3),
		c.Add(-side/2, -h/6),
		c.Add(side/2, -h/6),
	}
}

// PlaceIsosceles returns the vertices of an isosceles triangle with two legs
// of length leg and a base of length base, apex first. It fails with
// ErrDegenerate before taking the square root when leg <= base/2.
func PlaceIsosceles(c geometry.Point, leg, base float64) ([3]geometry.Point, error) {
	half := base / 2
	if leg <= half || base <= 0 {
		return [3]geometry.Point{}, fmt.Errorf("%w: leg %v, base %v", ErrDegenerate, leg, base)
	}
	h := math.Sqrt(leg*leg - half*half)
	return [3]geometry.Point{
		c.Add(0, h/2),
		c.Add(-half, -h/2),
		c.Add(half, -h/2),
	}, nil
}

// PlaceScalene lays out sides a (v1–v2) and b (v1–v3) around the angle at v1
// given by the law of cosines, so that v2–v3 has length c.
func PlaceScalene(v1 geometry.Point, a, b, c float64) ([3]geometry.Point, error) {
	if !(a+b > c && a+c > b && b+c > a) {
		return [3]geometry.Point{}, fmt.Errorf("%w: sides %v, %v, %v violate the triangle inequality", ErrDegenerate, a, b, c)
	}
	cos := (a*a + b*b - c*c) / (2 * a * b)
	angle := math.Acos(math.Max(-1, math.Min(1, cos)))
	return [3]geometry.Point{
		v1,
		v1.Add(a, 0),
		v1.Add(b*math.Cos(angle), b*math.Sin(angle)),
	}, nil
}

// ValidScaleneSides reports whether a, b, c strictly satisfy the triangle
// inequality and every pair differs by more than gap.
func ValidScaleneSides(a, b, c, gap float64) bool {
	if a+b <= c || a+c <= b || b+c <= a {
		return false
	}
	return math.Abs(a-b) > gap && math.Abs(b-c) > gap && math.Abs(a-c) > gap
}
