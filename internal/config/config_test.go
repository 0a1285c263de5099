package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/trianglequiz/internal/random"
	"github.com/robalobadob/trianglequiz/internal/triangle"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("GAME_CONFIG", "")
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "5175", c.Port)
	assert.Equal(t, []float64{0.3, 0.4, 0.3}, c.Game.Weights)
	assert.Equal(t, 2*time.Second, c.Game.AdvanceDelay)
	assert.Equal(t, triangle.DefaultConfig(), c.Game.Triangle)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_EXPIRES_DAYS", "3")
	t.Setenv("APP_ENV", "production")
	t.Setenv("GAME_CONFIG", "")
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, 3, c.JWTExpiresDays)
	assert.True(t, c.Production)

	t.Setenv("JWT_EXPIRES_DAYS", "soon")
	_, err = Load("")
	assert.Error(t, err)

	t.Setenv("JWT_EXPIRES_DAYS", "")
	t.Setenv("PORT", "http")
	_, err = Load("")
	assert.Error(t, err)
}

func TestParseGameOverlaysDefaults(t *testing.T) {
	g, err := ParseGame([]byte(`
weights: [1, 0, 0]
chooser: cumulative
advance_delay: 500ms
triangle:
  scalene_side: {min: 2, max: 8}
  max_attempts: 50
`))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 0}, g.Weights)
	assert.Equal(t, "cumulative", g.Chooser)
	assert.Equal(t, 500*time.Millisecond, g.AdvanceDelay)
	assert.Equal(t, triangle.Range{Min: 2, Max: 8}, g.Triangle.ScaleneSide)
	assert.Equal(t, 50, g.Triangle.MaxAttempts)
	assert.Equal(t, triangle.Range{Min: 3, Max: 6}, g.Triangle.EquilateralSide, "untouched keys keep defaults")

	gen, err := g.NewGenerator(random.NewSeeded(1))
	require.NoError(t, err)
	tri, err := gen.Random()
	require.NoError(t, err)
	assert.Equal(t, triangle.Equilateral, tri.Category)
}

func TestParseGameRejectsBadTuning(t *testing.T) {
	bad := []string{
		"weights: [1, 1]",
		"weights: [1, -1, 1]",
		"chooser: binary",
		"triangle: {isosceles_leg: {min: 1, max: 6}}",
		"advance_delay: 0s",
	}
	for _, doc := range bad {
		_, err := ParseGame([]byte(doc))
		assert.Error(t, err, doc)
	}
}

func TestLoadGameFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	require.NoError(t, os.WriteFile(path, []byte("weights: [0, 0, 1]\n"), 0o644))
	t.Setenv("GAME_CONFIG", path)
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 1}, c.Game.Weights)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
