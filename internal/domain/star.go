package domain

import (
	"math"
	"strings"
)

// Point3D is a position in the star field, in light years.
type Point3D struct {
	X float64
	Y float64
	Z float64
}

// DistanceTo returns the Euclidean distance between two points.
func (p Point3D) DistanceTo(other Point3D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	dz := p.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// StarNode is a routable star as supplied by the caller's catalog.
type StarNode struct {
	ID            string
	Name          string
	Position      Point3D
	SpectralClass string
	Polity        string
}

// IsZero reports whether the node is an empty placeholder entry.
func (s StarNode) IsZero() bool {
	return strings.TrimSpace(s.Name) == ""
}

// SpectralType returns the leading character of the spectral class, or "" when unknown.
func (s StarNode) SpectralType() string {
	class := strings.TrimSpace(s.SpectralClass)
	if class == "" {
		return ""
	}
	for _, r := range class {
		return string(r)
	}
	return ""
}

// TransitEdge is a candidate connection between two stars produced by a distance provider.
type TransitEdge struct {
	Source   StarNode
	Target   StarNode
	Distance float64
	Valid    bool
}

// SelfLoop reports whether both ends of the transit refer to the same star.
func (t TransitEdge) SelfLoop() bool {
	if t.Source.ID != "" && t.Source.ID == t.Target.ID {
		return true
	}
	return strings.TrimSpace(t.Source.Name) == strings.TrimSpace(t.Target.Name)
}

// FindStar returns the first non-empty star with the given name.
func FindStar(stars []StarNode, name string) (StarNode, bool) {
	name = strings.TrimSpace(name)
	for _, star := range stars {
		if star.IsZero() {
			continue
		}
		if strings.TrimSpace(star.Name) == name {
			return star, true
		}
	}
	return StarNode{}, false
}
