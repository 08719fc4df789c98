package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/vanshika/starroute/internal/catalog"
	"github.com/vanshika/starroute/internal/config"
	"github.com/vanshika/starroute/internal/domain"
	"github.com/vanshika/starroute/internal/logging"
	"github.com/vanshika/starroute/internal/service"
	"github.com/vanshika/starroute/internal/transit"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var (
		starsFile       = flag.String("stars", cfg.Routing.StarsFile, "JSON star file to route over")
		dataset         = flag.String("dataset", cfg.Routing.Dataset, "dataset within the star file")
		origin          = flag.String("from", "", "origin star name")
		destination     = flag.String("to", "", "destination star name")
		lower           = flag.Float64("lower", 0.5, "shortest allowed jump in light years")
		upper           = flag.Float64("upper", 8, "longest allowed jump in light years")
		paths           = flag.Int("k", cfg.Routing.DefaultPaths, "number of paths to return")
		excludeSpectral = flag.String("exclude-spectral", "", "comma separated spectral types to avoid, e.g. M,K")
		excludePolity   = flag.String("exclude-polity", "", "comma separated polities to avoid")
		asJSON          = flag.Bool("json", false, "print the result as JSON")
		timeout         = flag.Duration("timeout", time.Minute, "search timeout")
	)
	flag.Parse()

	if *starsFile == "" {
		fmt.Fprintln(os.Stderr, "-stars is required")
		os.Exit(2)
	}

	logger := logging.New(cfg.Logging, os.Stderr)

	file, err := catalog.LoadFile(*starsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load stars: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	stars, err := file.ListStars(ctx, *dataset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list stars: %v\n", err)
		os.Exit(1)
	}

	routes := service.NewRouteFindingService(transit.Auto{Threshold: cfg.Routing.KDTreeThreshold}, logger)
	routes.WithMaxStars(cfg.Routing.MaxStars)

	result := routes.FindRoutes(ctx, domain.RouteQuery{
		Origin:             *origin,
		Destination:        *destination,
		LowerBound:         *lower,
		UpperBound:         *upper,
		NumberOfPaths:      *paths,
		SpectralExclusions: splitList(*excludeSpectral),
		PolityExclusions:   splitList(*excludePolity),
		Color:              cfg.Routing.RouteColor,
		LineWidth:          cfg.Routing.LineWidth,
	}, stars)

	if *asJSON {
		if err := printJSON(result); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write result: %v\n", err)
			os.Exit(1)
		}
	} else {
		printText(result)
	}
	if !result.Success {
		os.Exit(1)
	}
}

type jsonPath struct {
	Rank        int      `json:"rank"`
	Path        []string `json:"path"`
	TotalLength float64  `json:"totalLength"`
	Segments    int      `json:"segments"`
	Color       string   `json:"color"`
}

func printJSON(result domain.SearchResult) error {
	out := struct {
		Success bool       `json:"success"`
		Message string     `json:"message"`
		Paths   []jsonPath `json:"paths"`
	}{Success: result.Success, Message: result.Message, Paths: []jsonPath{}}
	for _, p := range result.Paths {
		out.Paths = append(out.Paths, jsonPath{
			Rank:        p.Rank,
			Path:        p.Path,
			TotalLength: p.TotalLength,
			Segments:    p.Segments,
			Color:       p.Shape.Color,
		})
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func printText(result domain.SearchResult) {
	if !result.Success {
		fmt.Fprintln(os.Stderr, result.Message)
		return
	}
	fmt.Println(result.Message)
	for _, p := range result.Paths {
		fmt.Printf("%d. %s (%.2f ly, %d jumps)\n", p.Rank, p.Description(), p.TotalLength, p.Segments)
	}
}

func splitList(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
