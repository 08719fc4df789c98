package routecache

import (
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/vanshika/starroute/internal/domain"
)

// Key is the normalized identity of a route query. Two queries describing the
// same search produce equal keys regardless of exclusion order or colour.
type Key struct {
	Origin             string
	Destination        string
	UpperBound         int64 // hundredths of a light year
	LowerBound         int64
	NumberOfPaths      int
	SpectralExclusions string
	PolityExclusions   string
	Stars              uint64
}

// NewKey derives the cache key for query over the given star set.
func NewKey(query domain.RouteQuery, stars []domain.StarNode) Key {
	return Key{
		Origin:             strings.TrimSpace(query.Origin),
		Destination:        strings.TrimSpace(query.Destination),
		UpperBound:         hundredths(query.UpperBound),
		LowerBound:         hundredths(query.LowerBound),
		NumberOfPaths:      query.NumberOfPaths,
		SpectralExclusions: canonicalSet(query.SpectralExclusions),
		PolityExclusions:   canonicalSet(query.PolityExclusions),
		Stars:              StarsFingerprint(stars),
	}
}

// Hash returns a 64-bit FNV-1a hash of the key.
func (k Key) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(k.String()))
	return h.Sum64()
}

func (k Key) String() string {
	return fmt.Sprintf("%s->%s[%d..%d]k=%d spectral={%s} polity={%s} stars=%x",
		k.Origin, k.Destination, k.LowerBound, k.UpperBound, k.NumberOfPaths,
		k.SpectralExclusions, k.PolityExclusions, k.Stars)
}

// StarsFingerprint hashes every star's name, id, position, spectral class and
// polity, sorted, so that the same set in any order yields the same value and
// two datasets sharing names but not coordinates do not collide.
func StarsFingerprint(stars []domain.StarNode) uint64 {
	entries := make([]string, 0, len(stars))
	for _, s := range stars {
		if s.IsZero() {
			continue
		}
		entries = append(entries, strings.Join([]string{
			strings.TrimSpace(s.Name),
			s.ID,
			strconv.FormatFloat(s.Position.X, 'g', -1, 64),
			strconv.FormatFloat(s.Position.Y, 'g', -1, 64),
			strconv.FormatFloat(s.Position.Z, 'g', -1, 64),
			s.SpectralClass,
			s.Polity,
		}, "\x1f"))
	}
	sort.Strings(entries)

	h := fnv.New64a()
	for _, e := range entries {
		_, _ = h.Write([]byte(e))
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

func hundredths(v float64) int64 {
	return int64(math.Round(v * 100))
}

func canonicalSet(values []string) string {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return strings.Join(out, ",")
}
