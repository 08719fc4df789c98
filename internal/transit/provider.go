// Package transit computes the candidate connections between stars that fall
// inside a distance window.
package transit

import (
	"context"
	"fmt"

	"github.com/vanshika/starroute/internal/domain"
)

// Bounds is the inclusive distance window a transit must fall in.
type Bounds struct {
	Lower float64
	Upper float64
}

// Contains reports whether d lies inside the window.
func (b Bounds) Contains(d float64) bool {
	return d >= b.Lower && d <= b.Upper
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%.2f, %.2f]", b.Lower, b.Upper)
}

// Provider returns the transits between stars that lie within bounds. Every
// unordered pair is reported at most once.
type Provider interface {
	CalculateDistances(ctx context.Context, bounds Bounds, stars []domain.StarNode) ([]domain.TransitEdge, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, bounds Bounds, stars []domain.StarNode) ([]domain.TransitEdge, error)

// CalculateDistances implements Provider.
func (f ProviderFunc) CalculateDistances(ctx context.Context, bounds Bounds, stars []domain.StarNode) ([]domain.TransitEdge, error) {
	return f(ctx, bounds, stars)
}

// BruteForce compares every pair of stars.
type BruteForce struct{}

// CalculateDistances implements Provider.
func (BruteForce) CalculateDistances(ctx context.Context, bounds Bounds, stars []domain.StarNode) ([]domain.TransitEdge, error) {
	stars = compact(stars)
	var transits []domain.TransitEdge
	for i := range stars {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := i + 1; j < len(stars); j++ {
			if t, ok := newTransit(bounds, stars[i], stars[j]); ok {
				transits = append(transits, t)
			}
		}
	}
	return transits, nil
}

// Auto uses BruteForce for small star sets and KDTree above Threshold stars.
type Auto struct {
	Threshold int
}

// DefaultKDTreeThreshold is the star count above which Auto switches to KDTree.
const DefaultKDTreeThreshold = 1000

// CalculateDistances implements Provider.
func (a Auto) CalculateDistances(ctx context.Context, bounds Bounds, stars []domain.StarNode) ([]domain.TransitEdge, error) {
	threshold := a.Threshold
	if threshold <= 0 {
		threshold = DefaultKDTreeThreshold
	}
	if len(stars) > threshold {
		return KDTree{}.CalculateDistances(ctx, bounds, stars)
	}
	return BruteForce{}.CalculateDistances(ctx, bounds, stars)
}

func newTransit(bounds Bounds, a, b domain.StarNode) (domain.TransitEdge, bool) {
	if a.Name == b.Name {
		return domain.TransitEdge{}, false
	}
	d := a.Position.DistanceTo(b.Position)
	if !bounds.Contains(d) {
		return domain.TransitEdge{}, false
	}
	return domain.TransitEdge{Source: a, Target: b, Distance: d, Valid: true}, true
}

func compact(stars []domain.StarNode) []domain.StarNode {
	out := make([]domain.StarNode, 0, len(stars))
	for _, s := range stars {
		if !s.IsZero() {
			out = append(out, s)
		}
	}
	return out
}
