package service

import (
	"strings"

	"github.com/vanshika/starroute/internal/domain"
)

// PruneStars drops stars whose spectral type or polity is excluded, keeping
// the input order. Empty entries are skipped. A star without a spectral class
// or polity is never excluded by that rule.
func PruneStars(stars []domain.StarNode, spectralExclusions, polityExclusions []string) []domain.StarNode {
	spectral := exclusionSet(spectralExclusions)
	polities := exclusionSet(polityExclusions)

	out := make([]domain.StarNode, 0, len(stars))
	for _, star := range stars {
		if star.IsZero() {
			continue
		}
		if t := star.SpectralType(); t != "" && spectral[t] {
			continue
		}
		if p := strings.TrimSpace(star.Polity); p != "" && polities[p] {
			continue
		}
		out = append(out, star)
	}
	return out
}

func exclusionSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			set[v] = true
		}
	}
	return set
}
