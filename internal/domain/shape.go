package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Visibility records whether every star of a route could be placed.
type Visibility string

const (
	VisibilityFull    Visibility = "FULL"
	VisibilityPartial Visibility = "PARTIAL"
)

// ErrShapeFrozen is returned when a completed route shape is modified.
var ErrShapeFrozen = errors.New("route shape is frozen")

// RouteShape accumulates the geometry of one route, one hop at a time.
//
// len(Coordinates) == len(StarIDs) == len(StarNames) and
// len(SegmentLengths) == len(Coordinates)-1 for any non-empty shape.
type RouteShape struct {
	ID         uuid.UUID
	Name       string
	Notes      string
	Color      string
	LineWidth  float64
	Visibility Visibility

	StarIDs        []string
	StarNames      []string
	Coordinates    []Point3D
	SegmentLengths []float64

	Frozen bool
}

// NewRouteShape returns an empty, unfrozen shape with a fresh identifier.
func NewRouteShape(name, color string, lineWidth float64) *RouteShape {
	return &RouteShape{
		ID:         uuid.New(),
		Name:       name,
		Color:      color,
		LineWidth:  lineWidth,
		Visibility: VisibilityFull,
	}
}

// RouteName formats the display name given to search results.
func RouteName(origin, destination string, rank int) string {
	return fmt.Sprintf("Route %s to %s, path %d", origin, destination, rank)
}

// AddLink appends a star. length is the distance from the previous star and is
// ignored for the first one.
func (r *RouteShape) AddLink(star StarNode, length float64) error {
	if r.Frozen {
		return ErrShapeFrozen
	}
	if len(r.Coordinates) > 0 {
		r.SegmentLengths = append(r.SegmentLengths, length)
	}
	r.StarIDs = append(r.StarIDs, star.ID)
	r.StarNames = append(r.StarNames, star.Name)
	r.Coordinates = append(r.Coordinates, star.Position)
	return nil
}

// RemoveLast drops the most recent star and its segment. It reports whether
// the shape is back to at most its seed star.
func (r *RouteShape) RemoveLast() (bool, error) {
	if r.Frozen {
		return false, ErrShapeFrozen
	}
	n := len(r.Coordinates)
	if n > 1 {
		r.StarIDs = r.StarIDs[:n-1]
		r.StarNames = r.StarNames[:n-1]
		r.Coordinates = r.Coordinates[:n-1]
		r.SegmentLengths = r.SegmentLengths[:n-2]
	}
	return len(r.Coordinates) <= 1, nil
}

// Freeze marks the shape as complete.
func (r *RouteShape) Freeze() {
	r.Frozen = true
}

// Len returns the number of stars on the route.
func (r *RouteShape) Len() int {
	return len(r.Coordinates)
}

// Segments returns the number of hops on the route.
func (r *RouteShape) Segments() int {
	return len(r.SegmentLengths)
}

// TotalLength sums the segment lengths.
func (r *RouteShape) TotalLength() float64 {
	var total float64
	for _, l := range r.SegmentLengths {
		total += l
	}
	return total
}

// Last returns the most recently added star name and position.
func (r *RouteShape) Last() (string, Point3D, bool) {
	n := len(r.Coordinates)
	if n == 0 {
		return "", Point3D{}, false
	}
	return r.StarNames[n-1], r.Coordinates[n-1], true
}

// Clone returns a deep copy that shares no slices with r.
func (r *RouteShape) Clone() RouteShape {
	out := *r
	out.StarIDs = append([]string(nil), r.StarIDs...)
	out.StarNames = append([]string(nil), r.StarNames...)
	out.Coordinates = append([]Point3D(nil), r.Coordinates...)
	out.SegmentLengths = append([]float64(nil), r.SegmentLengths...)
	return out
}
