// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config filled with defaults.
// - Load layers defaults, an optional YAML file and environment variables.
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// PoolPath points at the candidate pool document; empty starts with an empty pool.
	PoolPath string `koanf:"pool_path"`

	// WatchPool reloads the pool whenever PoolPath changes on disk.
	WatchPool bool `koanf:"watch_pool"`

	// Categories lists the scoring categories in ranking order.
	Categories []string `koanf:"categories"`

	// StoreDriver selects the draft-state store: memory or postgres.
	StoreDriver string `koanf:"store_driver"`

	// PostgresDSN and PostgresTable configure the postgres store.
	PostgresDSN   string `koanf:"postgres_dsn"`
	PostgresTable string `koanf:"postgres_table"`

	// PostgresConnectTimeout bounds the startup ping and schema setup, e.g. "5s".
	PostgresConnectTimeout time.Duration `koanf:"postgres_connect_timeout"`

	// DefaultRankLimit applies when a request gives no limit; MaxRankLimit caps any limit.
	DefaultRankLimit int `koanf:"default_rank_limit"`
	MaxRankLimit     int `koanf:"max_rank_limit"`

	// TeamsCount, StartersPerPos and ReplacementCategory shape replacement levels.
	TeamsCount          int            `koanf:"teams_count"`
	StartersPerPos      map[string]int `koanf:"starters_per_pos"`
	ReplacementCategory string         `koanf:"replacement_category"`

	// MCPEnabled mounts the MCP tool endpoint on /mcp.
	MCPEnabled bool `koanf:"mcp_enabled"`
}

// New creates a Config with defaults for a 9-category basketball league.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		WatchPool:        true,
		Categories:       []string{"pts", "reb", "ast", "stl", "blk", "3pm", "fg_pct", "ft_pct", "to"},
		StoreDriver:      "memory",
		PostgresTable:    "draft_states",
		DefaultRankLimit: 50,
		MaxRankLimit:     500,
		TeamsCount:       12,

		PostgresConnectTimeout: 5 * time.Second,
		StartersPerPos: map[string]int{
			"PG": 1, "SG": 1, "SF": 1, "PF": 1, "C": 1,
			"G": 0, "F": 0, "UTIL": 2,
		},
		ReplacementCategory: "pts",
		MCPEnabled:          true,
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case len(c.Categories) == 0:
		return fmt.Errorf("%w: categories must not be empty", ErrInvalidConfig)
	case c.MaxRankLimit < 1:
		return fmt.Errorf("%w: max_rank_limit must be positive", ErrInvalidConfig)
	case c.DefaultRankLimit < 1 || c.DefaultRankLimit > c.MaxRankLimit:
		return fmt.Errorf("%w: default_rank_limit must be within 1..max_rank_limit", ErrInvalidConfig)
	case c.TeamsCount < 1:
		return fmt.Errorf("%w: teams_count must be positive", ErrInvalidConfig)
	case c.PostgresConnectTimeout <= 0:
		return fmt.Errorf("%w: postgres_connect_timeout must be positive", ErrInvalidConfig)
	}
	switch c.StoreDriver {
	case "memory":
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("%w: postgres_dsn is required for the postgres store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	return nil
}

// normalizeCategories splits comma-joined entries (as env vars deliver them),
// trims, lower-cases and drops duplicates while keeping order.
func normalizeCategories(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, entry := range in {
		for _, c := range strings.Split(entry, ",") {
			c = strings.ToLower(strings.TrimSpace(c))
			if c == "" || seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
