package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vanshika/starroute/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		count       = flag.Int("count", cfg.Count, "number of stars to generate")
		radius      = flag.Float64("radius", cfg.Radius, "radius of the star field in light years")
		seed        = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		dataset     = flag.String("dataset", cfg.Dataset, "dataset name stamped on every star")
		unclaimed   = flag.Float64("unclaimed", cfg.UnclaimedRate, "share of stars with no polity")
		withoutSol  = flag.Bool("no-sol", false, "do not place Sol at the origin")
		outputPath  = flag.String("out", "data/stars.json", "file to write the star list to")
		writeStdout = flag.Bool("stdout", false, "write stars to stdout instead of a file")
	)
	flag.Parse()

	genCfg := generator.Config{
		Count:         *count,
		Radius:        *radius,
		Seed:          *seed,
		Dataset:       *dataset,
		IncludeSol:    !*withoutSol,
		UnclaimedRate: clampProbability(*unclaimed),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	stars, err := generator.New(genCfg).Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout {
		if err := json.NewEncoder(os.Stdout).Encode(stars); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write stars to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := generator.WriteStars(stars, *outputPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write stars: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d stars into %s\n", len(stars), *outputPath)
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
