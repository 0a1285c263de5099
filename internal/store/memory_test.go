package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/trianglequiz/internal/game"
	"github.com/robalobadob/trianglequiz/internal/random"
	"github.com/robalobadob/trianglequiz/internal/triangle"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	gen, err := triangle.NewGenerator(triangle.DefaultConfig(), random.NewSeeded(1))
	require.NoError(t, err)

	st := NewMemoryStore()
	g := game.New(gen, game.Options{})
	require.NoError(t, st.Save(ctx, g))

	got, err := st.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Same(t, g, got)

	_, err = st.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.Delete(ctx, g.ID))
	_, err = st.Get(ctx, g.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, st.Delete(ctx, g.ID), ErrNotFound)
}
