package routegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/starroute/internal/domain"
)

func transit(a, b string, distance float64) domain.TransitEdge {
	return domain.TransitEdge{
		Source:   domain.StarNode{ID: "id-" + a, Name: a},
		Target:   domain.StarNode{ID: "id-" + b, Name: b},
		Distance: distance,
		Valid:    true,
	}
}

func pathNames(paths []Path) [][]string {
	out := make([][]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, p.Nodes)
	}
	return out
}

func TestBuildSkipsInvalidAndSelfLoops(t *testing.T) {
	invalid := transit("A", "C", 1)
	invalid.Valid = false

	g := Build([]domain.TransitEdge{
		transit("A", "B", 1),
		transit("A", "A", 0),
		invalid,
		transit("B", "C", -2),
	})

	assert.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, []string{"A", "B"}, g.Vertices())
	assert.False(t, g.HasVertex("C"))
}

func TestBuildFirstDuplicateWins(t *testing.T) {
	g := Build([]domain.TransitEdge{
		transit("A", "B", 1),
		transit("B", "A", 7),
	})

	w, ok := g.EdgeWeight("B", "A")
	require.True(t, ok)
	assert.Equal(t, 1.0, w)
	assert.Equal(t, 1, g.EdgeCount())
}

func TestEdgeWeightTrimsNames(t *testing.T) {
	g := Build([]domain.TransitEdge{transit("Sol", "Alpha", 4.37)})

	w, ok := g.EdgeWeight(" Sol ", "Alpha")
	require.True(t, ok)
	assert.InDelta(t, 4.37, w, 1e-9)

	_, ok = g.EdgeWeight("Sol", "Sirius")
	assert.False(t, ok)
}

func TestIsConnectedIsSymmetric(t *testing.T) {
	g := Build([]domain.TransitEdge{
		transit("A", "B", 1),
		transit("B", "C", 1),
		transit("X", "Y", 1),
	})

	assert.True(t, g.IsConnected("A", "C"))
	assert.True(t, g.IsConnected("C", "A"))
	assert.False(t, g.IsConnected("A", "Y"))
	assert.False(t, g.IsConnected("Y", "A"))
	assert.False(t, g.IsConnected("A", "Missing"))
}

func TestKShortestPathsDiamond(t *testing.T) {
	g := Build([]domain.TransitEdge{
		transit("A", "B", 1),
		transit("B", "D", 1),
		transit("A", "C", 2),
		transit("C", "D", 2),
		transit("A", "D", 5),
	})

	paths := g.KShortestPaths("A", "D", 2)
	require.Len(t, paths, 2)
	assert.Equal(t, [][]string{{"A", "B", "D"}, {"A", "C", "D"}}, pathNames(paths))
	assert.InDelta(t, 2.0, paths[0].Weight, 1e-9)
	assert.InDelta(t, 4.0, paths[1].Weight, 1e-9)
}

func TestKShortestPathsReturnsAllWhenFewerExist(t *testing.T) {
	g := Build([]domain.TransitEdge{
		transit("A", "B", 1),
		transit("B", "D", 1),
		transit("A", "C", 2),
		transit("C", "D", 2),
		transit("A", "D", 5),
	})

	paths := g.KShortestPaths("A", "D", 10)
	require.Len(t, paths, 3)
	for i := 1; i < len(paths); i++ {
		assert.LessOrEqual(t, paths[i-1].Weight, paths[i].Weight)
	}
	assert.Equal(t, []string{"A", "D"}, paths[2].Nodes)
}

func TestKShortestPathsAreSimpleAndDistinct(t *testing.T) {
	g := Build([]domain.TransitEdge{
		transit("C", "D", 3),
		transit("C", "E", 2),
		transit("D", "F", 4),
		transit("E", "D", 1),
		transit("E", "F", 2),
		transit("E", "G", 3),
		transit("F", "G", 2),
		transit("F", "H", 1),
		transit("G", "H", 2),
	})

	paths := g.KShortestPaths("C", "H", 6)
	require.Len(t, paths, 6)
	assert.Equal(t, []string{"C", "E", "F", "H"}, paths[0].Nodes)
	assert.InDelta(t, 5.0, paths[0].Weight, 1e-9)

	seen := make(map[string]bool)
	for i, p := range paths {
		assert.False(t, seen[p.key()], "duplicate path %v", p.Nodes)
		seen[p.key()] = true

		visited := make(map[string]bool)
		for _, n := range p.Nodes {
			assert.False(t, visited[n], "path %v revisits %s", p.Nodes, n)
			visited[n] = true
		}
		assert.InDelta(t, g.pathWeight(p.Nodes), p.Weight, 1e-9)
		if i > 0 {
			assert.False(t, p.less(paths[i-1]), "paths out of order at %d", i)
		}
	}
}

func TestKShortestPathsTieBreak(t *testing.T) {
	g := Build([]domain.TransitEdge{
		transit("A", "C", 1),
		transit("C", "D", 1),
		transit("A", "B", 1),
		transit("B", "D", 1),
		transit("A", "D", 2),
	})

	for i := 0; i < 5; i++ {
		paths := g.KShortestPaths("A", "D", 3)
		require.Len(t, paths, 3)
		assert.Equal(t, [][]string{{"A", "D"}, {"A", "B", "D"}, {"A", "C", "D"}}, pathNames(paths))
	}
}

func TestKShortestPathsEdgeCases(t *testing.T) {
	g := Build([]domain.TransitEdge{
		transit("A", "B", 1),
		transit("X", "Y", 1),
	})

	assert.Empty(t, g.KShortestPaths("A", "B", 0))
	assert.Empty(t, g.KShortestPaths("A", "Unknown", 3))
	assert.Empty(t, g.KShortestPaths("A", "Y", 3))
	assert.Empty(t, g.KShortestPaths("A", "A", 3))
}

func TestShortestPathLinearChain(t *testing.T) {
	g := Build([]domain.TransitEdge{
		transit("Sol", "Alpha", 4),
		transit("Alpha", "Sirius", 4),
	})

	path, ok := g.ShortestPath("Sol", "Sirius")
	require.True(t, ok)
	assert.Equal(t, []string{"Sol", "Alpha", "Sirius"}, path.Nodes)
	assert.Equal(t, 2, path.Hops())
	assert.InDelta(t, 8.0, path.Weight, 1e-9)
}
