package service

import (
	"sort"
	"strings"

	"github.com/vanshika/starroute/internal/domain"
	"github.com/vanshika/starroute/internal/routegraph"
)

const (
	defaultRouteColor = "#00ffff"
	defaultLineWidth  = 0.5
)

// alternatePalette colours ranks 2..k in order, skipping the caller's colour.
var alternatePalette = []string{
	"#ff6347",
	"#7fff00",
	"#1e90ff",
	"#ffd700",
	"#ff69b4",
	"#9370db",
	"#ffa500",
	"#00ced1",
}

// RankColor returns the display colour of the path with the given 1-based rank.
func RankColor(base string, rank int) string {
	if base == "" {
		base = defaultRouteColor
	}
	if rank <= 1 {
		return base
	}
	choices := make([]string, 0, len(alternatePalette))
	for _, c := range alternatePalette {
		if !strings.EqualFold(c, base) {
			choices = append(choices, c)
		}
	}
	return choices[(rank-2)%len(choices)]
}

type measuredPath struct {
	path  routegraph.Path
	total float64
}

func rankPaths(query domain.RouteQuery, graph *routegraph.Graph, paths []routegraph.Path, stars []domain.StarNode) []domain.RankedPath {
	byName := make(map[string]domain.StarNode, len(stars))
	for _, s := range stars {
		name := strings.TrimSpace(s.Name)
		if _, dup := byName[name]; !dup {
			byName[name] = s
		}
	}

	measured := make([]measuredPath, 0, len(paths))
	for _, p := range paths {
		var total float64
		for i := 1; i < len(p.Nodes); i++ {
			w, _ := graph.EdgeWeight(p.Nodes[i-1], p.Nodes[i])
			total += w
		}
		measured = append(measured, measuredPath{path: p, total: total})
	}
	sort.SliceStable(measured, func(i, j int) bool {
		return measured[i].total < measured[j].total
	})

	lineWidth := query.LineWidth
	if lineWidth <= 0 {
		lineWidth = defaultLineWidth
	}

	ranked := make([]domain.RankedPath, 0, len(measured))
	for i, m := range measured {
		rank := i + 1
		shape := buildShape(query, rank, lineWidth, m.path.Nodes, graph, byName)
		ranked = append(ranked, domain.RankedPath{
			Rank:        rank,
			Path:        append([]string(nil), m.path.Nodes...),
			TotalLength: m.total,
			Segments:    m.path.Hops(),
			Shape:       shape,
		})
	}
	return ranked
}

func buildShape(query domain.RouteQuery, rank int, lineWidth float64, nodes []string, graph *routegraph.Graph, byName map[string]domain.StarNode) domain.RouteShape {
	name := domain.RouteName(strings.TrimSpace(query.Origin), strings.TrimSpace(query.Destination), rank)
	shape := domain.NewRouteShape(name, RankColor(query.Color, rank), lineWidth)
	shape.Notes = strings.Join(nodes, " -> ")

	var previous *domain.StarNode
	for _, n := range nodes {
		star, ok := byName[n]
		if !ok {
			shape.Visibility = domain.VisibilityPartial
			continue
		}
		var length float64
		if previous != nil {
			if w, ok := graph.EdgeWeight(previous.Name, star.Name); ok {
				length = w
			} else {
				length = previous.Position.DistanceTo(star.Position)
			}
		}
		_ = shape.AddLink(star, length)
		current := star
		previous = &current
	}
	shape.Freeze()
	return *shape
}
