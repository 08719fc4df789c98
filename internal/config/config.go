package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig
	Graph   GraphConfig
	Logging LoggingConfig
	Routing RoutingConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string
	Port              int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MetricsEnabled    bool
	AllowedOriginsCSV string
}

// GraphConfig describes connectivity to the Neo4j star catalog. An empty URI
// means stars come from RoutingConfig.StarsFile instead.
type GraphConfig struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
	FetchSize      int
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	IncludeCaller bool
}

// RoutingConfig tunes route search.
type RoutingConfig struct {
	CacheEnabled    bool
	CacheCapacity   int
	MaxStars        int
	KDTreeThreshold int
	DefaultPaths    int
	BatchWorkers    int
	Dataset         string
	StarsFile       string
	RouteColor      string
	LineWidth       float64
}

const (
	defaultHost             = "0.0.0.0"
	defaultPort             = 8080
	defaultReadTimeout      = 10 * time.Second
	defaultWriteTimeout     = 30 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "text"
	defaultGraphMaxSessions = 10
	defaultCacheCapacity    = 50
	defaultMaxStars         = 1500
	defaultKDTreeThreshold  = 1000
	defaultPaths            = 3
	defaultBatchWorkers     = 4
	defaultRouteColor       = "#00ffff"
	defaultLineWidth        = 0.5
)

// Defaults returns the configuration used when nothing is overridden.
func Defaults() Config {
	return Config{
		HTTP: HTTPConfig{
			Host:            defaultHost,
			Port:            defaultPort,
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Graph: GraphConfig{
			MaxConnections: defaultGraphMaxSessions,
		},
		Logging: LoggingConfig{
			Level:  defaultLoggingLevel,
			Format: defaultLoggingFormat,
		},
		Routing: RoutingConfig{
			CacheEnabled:    true,
			CacheCapacity:   defaultCacheCapacity,
			MaxStars:        defaultMaxStars,
			KDTreeThreshold: defaultKDTreeThreshold,
			DefaultPaths:    defaultPaths,
			BatchWorkers:    defaultBatchWorkers,
			RouteColor:      defaultRouteColor,
			LineWidth:       defaultLineWidth,
		},
	}
}

// Load builds the configuration from defaults, then the TOML file named by
// STARROUTE_CONFIG if set, then environment variables.
func Load() (Config, error) {
	cfg := Defaults()
	if path := os.Getenv("STARROUTE_CONFIG"); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.HTTP.Host = valueOrDefault("SERVER_HOST", cfg.HTTP.Host)
	port, err := parsePort("SERVER_PORT", cfg.HTTP.Port)
	if err != nil {
		return err
	}
	cfg.HTTP.Port = port

	durations := []struct {
		key    string
		target *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &cfg.HTTP.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout},
	}
	for _, d := range durations {
		if v := os.Getenv(d.key); v != "" {
			parsed, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", d.key, err)
			}
			*d.target = parsed
		}
	}

	cfg.HTTP.MetricsEnabled = parseBoolWithDefault("SERVER_METRICS_ENABLED", cfg.HTTP.MetricsEnabled)
	cfg.HTTP.AllowedOriginsCSV = valueOrDefault("SERVER_ALLOWED_ORIGINS", cfg.HTTP.AllowedOriginsCSV)

	cfg.Logging.Level = valueOrDefault("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = valueOrDefault("LOG_FORMAT", cfg.Logging.Format)
	cfg.Logging.IncludeCaller = parseBoolWithDefault("LOG_INCLUDE_CALLER", cfg.Logging.IncludeCaller)

	cfg.Graph.URI = valueOrDefault("GRAPH_URI", cfg.Graph.URI)
	cfg.Graph.Database = valueOrDefault("GRAPH_DATABASE", cfg.Graph.Database)
	cfg.Graph.Username = valueOrDefault("GRAPH_USERNAME", cfg.Graph.Username)
	cfg.Graph.Password = valueOrDefault("GRAPH_PASSWORD", cfg.Graph.Password)
	cfg.Graph.MaxConnections = parseIntWithDefault("GRAPH_MAX_CONNECTIONS", cfg.Graph.MaxConnections)
	cfg.Graph.FetchSize = parseIntWithDefault("GRAPH_FETCH_SIZE", cfg.Graph.FetchSize)

	cfg.Routing.CacheEnabled = parseBoolWithDefault("ROUTE_CACHE_ENABLED", cfg.Routing.CacheEnabled)
	cfg.Routing.CacheCapacity = parseIntWithDefault("ROUTE_CACHE_CAPACITY", cfg.Routing.CacheCapacity)
	cfg.Routing.MaxStars = parseIntWithDefault("ROUTE_MAX_STARS", cfg.Routing.MaxStars)
	cfg.Routing.KDTreeThreshold = parseIntWithDefault("ROUTE_KDTREE_THRESHOLD", cfg.Routing.KDTreeThreshold)
	cfg.Routing.DefaultPaths = parseIntWithDefault("ROUTE_DEFAULT_PATHS", cfg.Routing.DefaultPaths)
	cfg.Routing.BatchWorkers = parseIntWithDefault("ROUTE_BATCH_WORKERS", cfg.Routing.BatchWorkers)
	cfg.Routing.Dataset = valueOrDefault("ROUTE_DATASET", cfg.Routing.Dataset)
	cfg.Routing.StarsFile = valueOrDefault("ROUTE_STARS_FILE", cfg.Routing.StarsFile)
	cfg.Routing.RouteColor = valueOrDefault("ROUTE_COLOR", cfg.Routing.RouteColor)
	cfg.Routing.LineWidth = parseFloatWithDefault("ROUTE_LINE_WIDTH", cfg.Routing.LineWidth)
	return nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parseFloatWithDefault(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil {
			return val
		}
	}
	return fallback
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}
