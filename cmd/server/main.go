package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vanshika/starroute/internal/catalog"
	"github.com/vanshika/starroute/internal/config"
	"github.com/vanshika/starroute/internal/graphdb"
	"github.com/vanshika/starroute/internal/logging"
	"github.com/vanshika/starroute/internal/manualroute"
	"github.com/vanshika/starroute/internal/metrics"
	"github.com/vanshika/starroute/internal/routecache"
	"github.com/vanshika/starroute/internal/routing"
	"github.com/vanshika/starroute/internal/server"
	"github.com/vanshika/starroute/internal/service"
	"github.com/vanshika/starroute/internal/transit"
)

type starCatalog interface {
	service.StarSource
	Probe(ctx context.Context) error
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to read .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stars, closeCatalog, err := buildCatalog(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to open star catalog", "error", err)
		os.Exit(1)
	}
	defer closeCatalog()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	routingMetrics, err := metrics.NewRouting(registry)
	if err != nil {
		logger.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	routes := service.NewRouteFindingService(transit.Auto{Threshold: cfg.Routing.KDTreeThreshold}, logger)
	routes.WithMaxStars(cfg.Routing.MaxStars)
	routes.WithMetrics(routingMetrics)
	if cfg.Routing.CacheEnabled {
		routes.WithCache(routecache.New(cfg.Routing.CacheCapacity,
			routecache.WithLogger(logger),
			routecache.WithMetrics(routingMetrics),
		))
	}

	builder := manualroute.New(manualroute.WithLogger(logger))
	manager := routing.NewManager(routes, builder, logger)
	manager.AttachDisplay(routing.NewRecorder())

	apiHandlers := server.NewAPIHandlers(logger, routes,
		service.NewBulkFinder(routes, cfg.Routing.BatchWorkers),
		stars, manager,
		server.QueryDefaults{
			Dataset:       cfg.Routing.Dataset,
			NumberOfPaths: cfg.Routing.DefaultPaths,
			Color:         cfg.Routing.RouteColor,
			LineWidth:     cfg.Routing.LineWidth,
		},
	)

	deps := server.RouterDependencies{
		Health:           server.CatalogHealthService{Catalog: stars},
		API:              apiHandlers,
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	}
	if cfg.HTTP.MetricsEnabled {
		deps.Metrics = registry
	}

	srv := server.New(logger, cfg.HTTP, server.NewRouter(logger, deps))
	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped unexpectedly", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped", "cache", routes.CacheStatistics().String())
}

func buildCatalog(ctx context.Context, logger *slog.Logger, cfg config.Config) (starCatalog, func(), error) {
	if cfg.Graph.URI == "" {
		if cfg.Routing.StarsFile == "" {
			return nil, nil, fmt.Errorf("either GRAPH_URI or ROUTE_STARS_FILE must be set: %w", graphdb.ErrMissingURI)
		}
		file, err := catalog.LoadFile(cfg.Routing.StarsFile)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using star file catalog", "path", cfg.Routing.StarsFile)
		return file, func() {}, nil
	}

	client, err := graphdb.NewNeo4jClient(ctx, graphdb.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
		FetchSize:      cfg.Graph.FetchSize,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("using neo4j star catalog", "uri", cfg.Graph.URI)
	closeFn := func() {
		if err := client.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}
	return catalog.NewNeo4j(client), closeFn, nil
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	var origins []string
	for _, part := range strings.Split(csv, ",") {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
