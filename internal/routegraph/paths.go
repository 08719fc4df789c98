package routegraph

import (
	"container/heap"
	"math"
	"strings"
)

// weightEpsilon is the tolerance under which two path weights are treated as equal.
const weightEpsilon = 1e-9

// Path is one simple path through the graph.
type Path struct {
	Nodes  []string
	Weight float64
}

// Hops returns the number of edges on the path.
func (p Path) Hops() int {
	if len(p.Nodes) == 0 {
		return 0
	}
	return len(p.Nodes) - 1
}

// less orders paths by weight, then by hop count, then by the node-name sequence.
func (p Path) less(other Path) bool {
	if d := p.Weight - other.Weight; math.Abs(d) > weightEpsilon {
		return d < 0
	}
	if len(p.Nodes) != len(other.Nodes) {
		return len(p.Nodes) < len(other.Nodes)
	}
	for i := range p.Nodes {
		if p.Nodes[i] != other.Nodes[i] {
			return p.Nodes[i] < other.Nodes[i]
		}
	}
	return false
}

func (p Path) tail() string {
	return p.Nodes[len(p.Nodes)-1]
}

func (p Path) key() string {
	return strings.Join(p.Nodes, "\x00")
}

type pathQueue []Path

func (q pathQueue) Len() int           { return len(q) }
func (q pathQueue) Less(i, j int) bool { return q[i].less(q[j]) }
func (q pathQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *pathQueue) Push(x any) {
	*q = append(*q, x.(Path))
}

func (q *pathQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

type edgeKey struct{ a, b string }

func newEdgeKey(a, b string) edgeKey {
	if b < a {
		a, b = b, a
	}
	return edgeKey{a: a, b: b}
}

// ShortestPath returns the lowest-weight path from origin to destination.
func (g *Graph) ShortestPath(origin, destination string) (Path, bool) {
	return g.shortest(strings.TrimSpace(origin), strings.TrimSpace(destination), nil, nil)
}

// shortest is Dijkstra over the graph minus the blocked vertices and edges.
// Labels carry the whole path so that equal-weight ties resolve the same way
// as the k-shortest ordering.
func (g *Graph) shortest(origin, destination string, blockedNodes map[string]bool, blockedEdges map[edgeKey]bool) (Path, bool) {
	if !g.HasVertex(origin) || !g.HasVertex(destination) {
		return Path{}, false
	}

	best := map[string]Path{origin: {Nodes: []string{origin}}}
	settled := make(map[string]bool)
	frontier := &pathQueue{best[origin]}

	for frontier.Len() > 0 {
		current := heap.Pop(frontier).(Path)
		node := current.tail()
		if settled[node] {
			continue
		}
		settled[node] = true
		if node == destination {
			return current, true
		}

		for _, next := range g.neighbors[node] {
			if settled[next] || blockedNodes[next] || blockedEdges[newEdgeKey(node, next)] {
				continue
			}
			nodes := make([]string, len(current.Nodes), len(current.Nodes)+1)
			copy(nodes, current.Nodes)
			candidate := Path{
				Nodes:  append(nodes, next),
				Weight: current.Weight + g.weights[node][next],
			}
			if prev, ok := best[next]; ok && !candidate.less(prev) {
				continue
			}
			best[next] = candidate
			heap.Push(frontier, candidate)
		}
	}
	return Path{}, false
}

// KShortestPaths returns up to k distinct simple paths from origin to
// destination, cheapest first. Equal weights fall back to fewer hops and then
// to the lexicographically smaller sequence of star names.
func (g *Graph) KShortestPaths(origin, destination string, k int) []Path {
	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)
	if k < 1 || origin == destination {
		return nil
	}

	first, ok := g.shortest(origin, destination, nil, nil)
	if !ok {
		return nil
	}

	accepted := []Path{first}
	seen := map[string]bool{first.key(): true}
	candidates := &pathQueue{}

	for len(accepted) < k {
		previous := accepted[len(accepted)-1]

		for i := 0; i < len(previous.Nodes)-1; i++ {
			spur := previous.Nodes[i]
			root := previous.Nodes[:i+1]

			blockedEdges := make(map[edgeKey]bool)
			for _, p := range accepted {
				if len(p.Nodes) > i+1 && samePrefix(p.Nodes, root) {
					blockedEdges[newEdgeKey(p.Nodes[i], p.Nodes[i+1])] = true
				}
			}
			blockedNodes := make(map[string]bool, i)
			for _, n := range root[:i] {
				blockedNodes[n] = true
			}

			spurPath, ok := g.shortest(spur, destination, blockedNodes, blockedEdges)
			if !ok {
				continue
			}

			nodes := make([]string, 0, i+len(spurPath.Nodes))
			nodes = append(nodes, root[:i]...)
			nodes = append(nodes, spurPath.Nodes...)
			candidate := Path{Nodes: nodes, Weight: g.pathWeight(nodes)}
			if seen[candidate.key()] {
				continue
			}
			seen[candidate.key()] = true
			heap.Push(candidates, candidate)
		}

		if candidates.Len() == 0 {
			break
		}
		accepted = append(accepted, heap.Pop(candidates).(Path))
	}
	return accepted
}

func (g *Graph) pathWeight(nodes []string) float64 {
	var total float64
	for i := 1; i < len(nodes); i++ {
		total += g.weights[nodes[i-1]][nodes[i]]
	}
	return total
}

func samePrefix(nodes, prefix []string) bool {
	if len(nodes) < len(prefix) {
		return false
	}
	for i := range prefix {
		if nodes[i] != prefix[i] {
			return false
		}
	}
	return true
}
