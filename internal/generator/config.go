package generator

// Config drives the synthetic star-field generator.
type Config struct {
	Count         int
	Radius        float64 // light years from the origin
	Seed          int64
	Dataset       string
	IncludeSol    bool
	UnclaimedRate float64 // share of stars with no polity
}

// DefaultConfig returns settings that give a field dense enough for 8 ly jumps.
func DefaultConfig() Config {
	return Config{
		Count:         1000,
		Radius:        50,
		Seed:          42,
		Dataset:       "synthetic",
		IncludeSol:    true,
		UnclaimedRate: 0.4,
	}
}
