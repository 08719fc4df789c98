package generator

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/starroute/internal/catalog"
)

func TestGenerateIsDeterministic(t *testing.T) {
	cfg := Config{Count: 200, Radius: 20, Seed: 7, Dataset: "test", IncludeSol: true}

	a, err := New(cfg).Generate(context.Background())
	require.NoError(t, err)
	b, err := New(cfg).Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 200)
	assert.Equal(t, "Sol", a[0].Name)
}

func TestGenerateProducesValidStars(t *testing.T) {
	stars, err := New(Config{Count: 500, Radius: 10, Seed: 3}).Generate(context.Background())
	require.NoError(t, err)

	names := make(map[string]bool, len(stars))
	for _, s := range stars {
		assert.False(t, names[s.Name], "duplicate name %q", s.Name)
		names[s.Name] = true
		assert.LessOrEqual(t, s.X*s.X+s.Y*s.Y+s.Z*s.Z, 10.1*10.1)
		require.NotEmpty(t, s.SpectralClass)
		assert.Contains(t, "OBAFGKM", s.SpectralClass[:1])
	}
}

func TestGenerateHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Config{Count: 10, Seed: 1}).Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteStarsRoundTripsThroughCatalog(t *testing.T) {
	stars, err := New(Config{Count: 20, Seed: 11, Dataset: "demo", IncludeSol: true}).Generate(context.Background())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "stars.json")
	require.NoError(t, WriteStars(stars, path))

	file, err := catalog.LoadFile(path)
	require.NoError(t, err)
	loaded, err := file.ListStars(context.Background(), "demo")
	require.NoError(t, err)
	assert.Len(t, loaded, 20)

	sol, err := file.FindStar(context.Background(), "demo", "Sol")
	require.NoError(t, err)
	assert.Equal(t, "Terran", sol.Polity)
}
