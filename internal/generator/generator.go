package generator

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/vanshika/starroute/internal/catalog"
)

// Generator produces synthetic star fields in the catalog file format.
type Generator struct {
	cfg  Config
	rand *rand.Rand
	used map[string]int
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	defaults := DefaultConfig()
	if cfg.Count <= 0 {
		cfg.Count = defaults.Count
	}
	if cfg.Radius <= 0 {
		cfg.Radius = defaults.Radius
	}
	if cfg.UnclaimedRate < 0 || cfg.UnclaimedRate > 1 {
		cfg.UnclaimedRate = defaults.UnclaimedRate
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:  cfg,
		rand: rand.New(rand.NewSource(cfg.Seed)),
		used: make(map[string]int),
	}
}

// Generate synthesises cfg.Count stars uniformly distributed in a sphere.
// Names are unique. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) ([]catalog.StarRecord, error) {
	stars := make([]catalog.StarRecord, 0, g.cfg.Count)

	if g.cfg.IncludeSol {
		g.used["Sol"] = 1
		stars = append(stars, catalog.StarRecord{
			ID:            "STAR-000000",
			Name:          "Sol",
			SpectralClass: "G2V",
			Polity:        "Terran",
			Dataset:       g.cfg.Dataset,
		})
	}

	for i := len(stars); i < g.cfg.Count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		x, y, z := g.randomPosition()
		stars = append(stars, catalog.StarRecord{
			ID:            fmt.Sprintf("STAR-%06d", i),
			Name:          g.uniqueName(),
			X:             x,
			Y:             y,
			Z:             z,
			SpectralClass: g.randomSpectralClass(),
			Polity:        g.randomPolity(),
			Dataset:       g.cfg.Dataset,
		})
	}

	return stars, nil
}

func (g *Generator) randomPosition() (float64, float64, float64) {
	for {
		x := g.rand.Float64()*2 - 1
		y := g.rand.Float64()*2 - 1
		z := g.rand.Float64()*2 - 1
		if x*x+y*y+z*z <= 1 {
			return round2(x * g.cfg.Radius), round2(y * g.cfg.Radius), round2(z * g.cfg.Radius)
		}
	}
}

func (g *Generator) uniqueName() string {
	base := fmt.Sprintf("%s %s",
		greekLetters[g.rand.Intn(len(greekLetters))],
		constellations[g.rand.Intn(len(constellations))])
	g.used[base]++
	if n := g.used[base]; n > 1 {
		return fmt.Sprintf("%s %d", base, n)
	}
	return base
}

// randomSpectralClass follows the rough main-sequence population mix.
func (g *Generator) randomSpectralClass() string {
	roll := g.rand.Float64()
	cumulative := 0.0
	class := spectralMix[len(spectralMix)-1].class
	for _, s := range spectralMix {
		cumulative += s.share
		if roll < cumulative {
			class = s.class
			break
		}
	}
	return fmt.Sprintf("%s%dV", class, g.rand.Intn(10))
}

func (g *Generator) randomPolity() string {
	if g.rand.Float64() < g.cfg.UnclaimedRate {
		return ""
	}
	return polities[g.rand.Intn(len(polities))]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var spectralMix = []struct {
	class string
	share float64
}{
	{"O", 0.0001},
	{"B", 0.0013},
	{"A", 0.006},
	{"F", 0.03},
	{"G", 0.076},
	{"K", 0.121},
	{"M", 0.7656},
}

var greekLetters = []string{
	"Alpha", "Beta", "Gamma", "Delta", "Epsilon", "Zeta", "Eta", "Theta", "Iota", "Kappa",
	"Lambda", "Mu", "Nu", "Xi", "Omicron", "Pi", "Rho", "Sigma", "Tau", "Upsilon",
}

var constellations = []string{
	"Centauri", "Eridani", "Ceti", "Draconis", "Lyrae", "Cygni", "Aquilae", "Orionis",
	"Pavonis", "Tucanae", "Hydri", "Indi", "Leonis", "Bootis", "Ursae Majoris", "Cassiopeiae",
}

var polities = []string{"Terran", "Ktor", "Arat Kur", "Slaasriithi", "Hkh'Rkh"}
