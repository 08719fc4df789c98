package domain

import (
	"fmt"
	"strings"
)

// RankedPath is one candidate route returned by a search.
type RankedPath struct {
	Rank        int
	Path        []string
	TotalLength float64
	Segments    int
	Shape       RouteShape
}

// Description renders the path as "A -> B -> C".
func (p RankedPath) Description() string {
	return strings.Join(p.Path, " -> ")
}

// SearchResult is the outcome of one route search. Values are never modified after construction.
type SearchResult struct {
	Success bool
	Paths   []RankedPath
	Message string
}

// Succeeded builds a successful result holding the ranked paths.
func Succeeded(paths []RankedPath) SearchResult {
	return SearchResult{
		Success: true,
		Paths:   paths,
		Message: fmt.Sprintf("found %d route(s)", len(paths)),
	}
}

// Failed builds a failed result with a formatted message.
func Failed(format string, args ...any) SearchResult {
	return SearchResult{Message: fmt.Sprintf(format, args...)}
}
