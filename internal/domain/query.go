package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidQuery is wrapped by every RouteQuery validation failure.
var ErrInvalidQuery = errors.New("invalid route query")

// RouteQuery describes one automatic route search.
type RouteQuery struct {
	Origin             string
	Destination        string
	UpperBound         float64
	LowerBound         float64
	NumberOfPaths      int
	SpectralExclusions []string
	PolityExclusions   []string

	// Presentation hints. They never take part in cache identity.
	Color     string
	LineWidth float64
}

// Validate checks the query for values no search could satisfy.
func (q RouteQuery) Validate() error {
	switch {
	case strings.TrimSpace(q.Origin) == "":
		return fmt.Errorf("%w: origin is required", ErrInvalidQuery)
	case strings.TrimSpace(q.Destination) == "":
		return fmt.Errorf("%w: destination is required", ErrInvalidQuery)
	case strings.TrimSpace(q.Origin) == strings.TrimSpace(q.Destination):
		return fmt.Errorf("%w: origin and destination must differ", ErrInvalidQuery)
	case !finite(q.LowerBound) || !finite(q.UpperBound):
		return fmt.Errorf("%w: distance bounds must be finite numbers", ErrInvalidQuery)
	case q.LowerBound < 0 || q.UpperBound < 0:
		return fmt.Errorf("%w: distance bounds must not be negative", ErrInvalidQuery)
	case q.LowerBound > q.UpperBound:
		return fmt.Errorf("%w: lower bound %.2f exceeds upper bound %.2f", ErrInvalidQuery, q.LowerBound, q.UpperBound)
	case q.NumberOfPaths < 1:
		return fmt.Errorf("%w: number of paths must be at least 1", ErrInvalidQuery)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
