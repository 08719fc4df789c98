package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors the TOML layout. Pointer fields distinguish "unset" from
// zero values so that a file only overrides what it names.
type fileConfig struct {
	Server struct {
		Host            *string `toml:"host"`
		Port            *int    `toml:"port"`
		ReadTimeout     *string `toml:"read_timeout"`
		WriteTimeout    *string `toml:"write_timeout"`
		IdleTimeout     *string `toml:"idle_timeout"`
		ShutdownTimeout *string `toml:"shutdown_timeout"`
		MetricsEnabled  *bool   `toml:"metrics_enabled"`
		AllowedOrigins  *string `toml:"allowed_origins"`
	} `toml:"server"`
	Graph struct {
		URI            *string `toml:"uri"`
		Database       *string `toml:"database"`
		Username       *string `toml:"username"`
		Password       *string `toml:"password"`
		MaxConnections *int    `toml:"max_connections"`
		FetchSize      *int    `toml:"fetch_size"`
	} `toml:"graph"`
	Logging struct {
		Level         *string `toml:"level"`
		Format        *string `toml:"format"`
		IncludeCaller *bool   `toml:"include_caller"`
	} `toml:"logging"`
	Routing struct {
		CacheEnabled    *bool    `toml:"cache_enabled"`
		CacheCapacity   *int     `toml:"cache_capacity"`
		MaxStars        *int     `toml:"max_stars"`
		KDTreeThreshold *int     `toml:"kdtree_threshold"`
		DefaultPaths    *int     `toml:"default_paths"`
		BatchWorkers    *int     `toml:"batch_workers"`
		Dataset         *string  `toml:"dataset"`
		StarsFile       *string  `toml:"stars_file"`
		RouteColor      *string  `toml:"route_color"`
		LineWidth       *float64 `toml:"line_width"`
	} `toml:"routing"`
}

// LoadFile builds the configuration from defaults, the TOML file at path,
// then environment variables.
func LoadFile(path string) (Config, error) {
	cfg := Defaults()
	if err := applyFile(&cfg, path); err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := toml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}

	set(&cfg.HTTP.Host, fc.Server.Host)
	set(&cfg.HTTP.Port, fc.Server.Port)
	set(&cfg.HTTP.MetricsEnabled, fc.Server.MetricsEnabled)
	set(&cfg.HTTP.AllowedOriginsCSV, fc.Server.AllowedOrigins)
	for _, d := range []struct {
		name   string
		value  *string
		target *time.Duration
	}{
		{"server.read_timeout", fc.Server.ReadTimeout, &cfg.HTTP.ReadTimeout},
		{"server.write_timeout", fc.Server.WriteTimeout, &cfg.HTTP.WriteTimeout},
		{"server.idle_timeout", fc.Server.IdleTimeout, &cfg.HTTP.IdleTimeout},
		{"server.shutdown_timeout", fc.Server.ShutdownTimeout, &cfg.HTTP.ShutdownTimeout},
	} {
		if d.value == nil {
			continue
		}
		parsed, err := time.ParseDuration(*d.value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.name, err)
		}
		*d.target = parsed
	}

	set(&cfg.Graph.URI, fc.Graph.URI)
	set(&cfg.Graph.Database, fc.Graph.Database)
	set(&cfg.Graph.Username, fc.Graph.Username)
	set(&cfg.Graph.Password, fc.Graph.Password)
	set(&cfg.Graph.MaxConnections, fc.Graph.MaxConnections)
	set(&cfg.Graph.FetchSize, fc.Graph.FetchSize)

	set(&cfg.Logging.Level, fc.Logging.Level)
	set(&cfg.Logging.Format, fc.Logging.Format)
	set(&cfg.Logging.IncludeCaller, fc.Logging.IncludeCaller)

	set(&cfg.Routing.CacheEnabled, fc.Routing.CacheEnabled)
	set(&cfg.Routing.CacheCapacity, fc.Routing.CacheCapacity)
	set(&cfg.Routing.MaxStars, fc.Routing.MaxStars)
	set(&cfg.Routing.KDTreeThreshold, fc.Routing.KDTreeThreshold)
	set(&cfg.Routing.DefaultPaths, fc.Routing.DefaultPaths)
	set(&cfg.Routing.BatchWorkers, fc.Routing.BatchWorkers)
	set(&cfg.Routing.Dataset, fc.Routing.Dataset)
	set(&cfg.Routing.StarsFile, fc.Routing.StarsFile)
	set(&cfg.Routing.RouteColor, fc.Routing.RouteColor)
	set(&cfg.Routing.LineWidth, fc.Routing.LineWidth)
	return nil
}

func set[T any](target *T, value *T) {
	if value != nil {
		*target = *value
	}
}
