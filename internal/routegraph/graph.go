// Package routegraph holds the weighted, undirected star graph used for
// automatic route search.
package routegraph

import (
	"math"
	"sort"
	"strings"

	"github.com/vanshika/starroute/internal/domain"
)

// Graph is a simple undirected graph keyed by star name. Parallel edges and
// self-loops are never stored.
type Graph struct {
	weights   map[string]map[string]float64
	neighbors map[string][]string
	edges     int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		weights:   make(map[string]map[string]float64),
		neighbors: make(map[string][]string),
	}
}

// Build creates a graph from transits. Invalid transits, self-loops and
// negative distances are skipped, and the first transit between a pair wins.
func Build(transits []domain.TransitEdge) *Graph {
	g := New()
	for _, transit := range transits {
		if !transit.Valid || transit.SelfLoop() {
			continue
		}
		g.AddEdge(transit.Source.Name, transit.Target.Name, transit.Distance)
	}
	return g
}

// AddEdge inserts an undirected edge and reports whether it was stored.
func (g *Graph) AddEdge(a, b string, weight float64) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" || a == b {
		return false
	}
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return false
	}
	if _, exists := g.weights[a][b]; exists {
		return false
	}
	g.link(a, b, weight)
	g.link(b, a, weight)
	g.edges++
	return true
}

func (g *Graph) link(from, to string, weight float64) {
	adj, ok := g.weights[from]
	if !ok {
		adj = make(map[string]float64)
		g.weights[from] = adj
	}
	adj[to] = weight

	list := g.neighbors[from]
	idx := sort.SearchStrings(list, to)
	list = append(list, "")
	copy(list[idx+1:], list[idx:])
	list[idx] = to
	g.neighbors[from] = list
}

// HasVertex reports whether name appears on any edge.
func (g *Graph) HasVertex(name string) bool {
	_, ok := g.weights[strings.TrimSpace(name)]
	return ok
}

// EdgeWeight returns the weight of the edge between a and b.
func (g *Graph) EdgeWeight(a, b string) (float64, bool) {
	w, ok := g.weights[strings.TrimSpace(a)][strings.TrimSpace(b)]
	return w, ok
}

// Vertices returns every vertex name in ascending order.
func (g *Graph) Vertices() []string {
	out := make([]string, 0, len(g.weights))
	for name := range g.weights {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int {
	return len(g.weights)
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// IsConnected reports whether b is reachable from a.
func (g *Graph) IsConnected(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if !g.HasVertex(a) || !g.HasVertex(b) {
		return false
	}
	if a == b {
		return true
	}

	visited := map[string]bool{a: true}
	queue := []string{a}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range g.neighbors[current] {
			if next == b {
				return true
			}
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}
