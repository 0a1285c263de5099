package triangle

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/trianglequiz/internal/geometry"
	"github.com/robalobadob/trianglequiz/internal/random"
)

const trials = 500

func newTestGenerator(t *testing.T, seed uint64, opts ...Option) *Generator {
	t.Helper()
	g, err := NewGenerator(DefaultConfig(), random.NewSeeded(seed), opts...)
	require.NoError(t, err)
	return g
}

func pairwise(s geometry.SideLengths) [3]float64 {
	return [3]float64{math.Abs(s.A - s.B), math.Abs(s.B - s.C), math.Abs(s.A - s.C)}
}

func TestEquilateralSidesEqual(t *testing.T) {
	g := newTestGenerator(t, 1)
	for i := 0; i < trials; i++ {
		tri, err := g.Generate(Equilateral)
		require.NoError(t, err)
		require.Equal(t, Equilateral, tri.Category)
		for _, d := range pairwise(tri.Sides()) {
			require.Less(t, d, 1e-6)
		}
		s := tri.Sides()
		require.GreaterOrEqual(t, s.A, 3.0-1e-9)
		require.Less(t, s.A, 6.0+1e-9)
	}
}

func TestIsoscelesExactlyTwoEqual(t *testing.T) {
	g := newTestGenerator(t, 2)
	for i := 0; i < trials; i++ {
		tri, err := g.Generate(Isosceles)
		require.NoError(t, err)
		d := pairwise(tri.Sides())
		equal := 0
		for _, x := range d {
			if x < 1e-6 {
				equal++
			} else {
				require.Greater(t, x, DefaultTolerance)
			}
		}
		require.Equal(t, 1, equal, "exactly one pair of sides must match: %+v", tri.Sides())
	}
}

func TestScaleneSidesFarApart(t *testing.T) {
	g := newTestGenerator(t, 3)
	for i := 0; i < trials; i++ {
		tri, err := g.Generate(Scalene)
		require.NoError(t, err)
		for _, d := range pairwise(tri.Sides()) {
			require.Greater(t, d, 0.5)
		}
	}
}

func TestGeneratedTrianglesAreNonCollinear(t *testing.T) {
	g := newTestGenerator(t, 4)
	for i := 0; i < trials; i++ {
		tri, err := g.Random()
		require.NoError(t, err)
		require.Greater(t, tri.Area(), 1e-6)
	}
}

func TestGeneratorAndClassifierAgree(t *testing.T) {
	g := newTestGenerator(t, 5)
	for _, cat := range Categories {
		for i := 0; i < trials; i++ {
			tri, err := g.Generate(cat)
			require.NoError(t, err)
			require.Equal(t, cat, ClassifySides(tri.Sides()), "sides %+v", tri.Sides())
		}
	}
}

func TestSeededGenerationIsReproducible(t *testing.T) {
	a := newTestGenerator(t, 99)
	b := newTestGenerator(t, 99)
	for i := 0; i < 50; i++ {
		x, err := a.Random()
		require.NoError(t, err)
		y, err := b.Random()
		require.NoError(t, err)
		require.Equal(t, x, y)
	}
}

func TestRandomUsesWeights(t *testing.T) {
	g := newTestGenerator(t, 6, WithWeights([]float64{0, 0, 1}))
	for i := 0; i < 200; i++ {
		tri, err := g.Random()
		require.NoError(t, err)
		require.Equal(t, Scalene, tri.Category)
	}

	g = newTestGenerator(t, 6, WithChooser(random.NewCumulative()), WithWeights([]float64{0, 1, 0}))
	for i := 0; i < 200; i++ {
		tri, err := g.Random()
		require.NoError(t, err)
		require.Equal(t, Isosceles, tri.Category)
	}
}

func TestRandomDrawsEveryCategory(t *testing.T) {
	g := newTestGenerator(t, 7)
	seen := map[Category]int{}
	for i := 0; i < 1000; i++ {
		tri, err := g.Random()
		require.NoError(t, err)
		seen[tri.Category]++
	}
	assert.Len(t, seen, 3)
	assert.Greater(t, seen[Isosceles], seen[Equilateral]/2)
}

func TestNewGeneratorRejectsBadWeights(t *testing.T) {
	_, err := NewGenerator(DefaultConfig(), random.NewSeeded(1), WithWeights([]float64{1, 1}))
	assert.ErrorIs(t, err, random.ErrInvalidWeights)

	g := newTestGenerator(t, 1, WithWeights([]float64{0, 0, 0}))
	_, err = g.Random()
	assert.ErrorIs(t, err, random.ErrInvalidWeights)
}

func TestGenerateUnknownCategory(t *testing.T) {
	g := newTestGenerator(t, 1)
	_, err := g.Generate(Category("obtuse"))
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestScaleneGenerationIsBounded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxAttempts = 5
	// A constant draw makes all three sides equal, so no candidate passes.
	src := random.NewSequence(0.5)
	g, err := NewGenerator(cfg, src)
	require.NoError(t, err)

	_, err = g.Generate(Scalene)
	require.ErrorIs(t, err, ErrNonTerminating)

	var gerr *GenerationError
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, Scalene, gerr.Category)
	assert.Equal(t, 5, gerr.Attempts)
	assert.True(t, gerr.Retryable())
	// center (2 draws) + 5 attempts of 3 sides
	assert.Equal(t, 2+5*3, src.Drawn())
}

func TestIsoscelesGenerationIsBounded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxAttempts = 3
	// Every attempt draws leg 3.6 and base 3.6, which is never far enough apart.
	src := random.NewSequence(0.2, 0.8)
	g, err := NewGenerator(cfg, src)
	require.NoError(t, err)

	_, err = g.Generate(Isosceles)
	assert.ErrorIs(t, err, ErrNonTerminating)
}

func TestPlaceIsoscelesRejectsDegenerate(t *testing.T) {
	_, err := PlaceIsosceles(geometry.Point{}, 1, 2)
	assert.ErrorIs(t, err, ErrDegenerate, "leg equal to half the base is flat")

	_, err = PlaceIsosceles(geometry.Point{}, 1, 3)
	assert.ErrorIs(t, err, ErrDegenerate)

	v, err := PlaceIsosceles(geometry.Point{X: 1, Y: 1}, 5, 6)
	require.NoError(t, err)
	s := geometry.Sides(v[0], v[1], v[2])
	assert.InDelta(t, 5, s.A, 1e-9)
	assert.InDelta(t, 6, s.B, 1e-9)
	assert.InDelta(t, 5, s.C, 1e-9)
}

func TestPlaceScalene(t *testing.T) {
	v, err := PlaceScalene(geometry.Point{X: -1, Y: 2}, 3, 4, 5)
	require.NoError(t, err)
	s := geometry.Sides(v[0], v[1], v[2])
	assert.InDelta(t, 3, s.A, 1e-9)
	assert.InDelta(t, 5, s.B, 1e-9)
	assert.InDelta(t, 4, s.C, 1e-9)

	_, err = PlaceScalene(geometry.Point{}, 1, 2, 3)
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestPlaceEquilateralCentroid(t *testing.T) {
	c := geometry.Point{X: 0.5, Y: -1.5}
	v := PlaceEquilateral(c, 4)
	cx := (v[0].X + v[1].X + v[2].X) / 3
	cy := (v[0].Y + v[1].Y + v[2].Y) / 3
	assert.InDelta(t, c.X, cx, 1e-9)
	assert.InDelta(t, c.Y, cy, 1e-9)
}

func TestValidScaleneSides(t *testing.T) {
	assert.True(t, ValidScaleneSides(3, 4, 5, 0.5))
	assert.False(t, ValidScaleneSides(3, 3.4, 5, 0.5), "gap too small")
	assert.False(t, ValidScaleneSides(2, 3, 5, 0.5), "flat")
	assert.False(t, ValidScaleneSides(2, 3, 6, 0.5), "inequality")
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.IsoscelesLeg = Range{Min: 1, Max: 6}
	assert.ErrorIs(t, cfg.Validate(), ErrDegenerate)

	cfg = DefaultConfig()
	cfg.ScaleneSide = Range{Min: 2, Max: 2.9}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.MaxAttempts = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.EquilateralSide = Range{Min: 6, Max: 3}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	_, err := NewGenerator(cfg, random.NewSeeded(1))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestClassifyRules(t *testing.T) {
	cases := []struct {
		a, b, c float64
		want    Category
	}{
		{5, 5, 5, Equilateral},
		{5, 5, 3, Isosceles},
		{3, 5, 5, Isosceles},
		{5, 3, 5, Isosceles},
		{3, 4, 5, Scalene},
		{5.0, 5.05, 5.11, Equilateral},
		// 5.1-5.0 is just below 0.1 in binary floating point, 5.2-5.1 just above.
		{5.0, 5.1, 5.2, Isosceles},
		// Not a real triangle; classification does not care.
		{1, 1, 10, Isosceles},
		{0, 0, 0, Equilateral},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.a, tc.b, tc.c), "classify(%v, %v, %v)", tc.a, tc.b, tc.c)
	}
}

// A gap exactly equal to the tolerance is not "equal".
func TestClassifyGapAtToleranceIsUnequal(t *testing.T) {
	cl := Classifier{Tolerance: 0.25}
	assert.Equal(t, Scalene, cl.Classify(1, 1.25, 1.5))
	assert.Equal(t, Isosceles, cl.Classify(1, 1.125, 1.5))
	assert.Equal(t, Equilateral, cl.Classify(1, 1.125, 1.25))
}

func TestClassifyPermutationInvariant(t *testing.T) {
	src := random.NewSeeded(11)
	for i := 0; i < 2000; i++ {
		// Cluster sides so all three categories show up.
		a := 5 + random.Uniform(src, -0.2, 0.2)
		b := 5 + random.Uniform(src, -0.2, 0.2)
		c := 5 + random.Uniform(src, -0.2, 0.2)
		want := Classify(a, b, c)
		require.Equal(t, want, Classify(b, c, a))
		require.Equal(t, want, Classify(c, a, b))
		require.Equal(t, want, Classify(b, a, c))
		require.Equal(t, want, Classify(a, b, c), "idempotent")
	}
	// The middle side anchors the equilateral check whatever its position.
	assert.Equal(t, Classify(0, 0.09, 0.18), Classify(0.09, 0.18, 0))
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("  Scalene ")
	require.NoError(t, err)
	assert.Equal(t, Scalene, c)
	assert.Equal(t, "Scalene", c.Title())

	_, err = ParseCategory("right")
	assert.Error(t, err)
}
