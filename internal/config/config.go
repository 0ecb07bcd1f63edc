// Package config loads the reasoning engine's configuration from defaults,
// an optional YAML file, and environment variables, in that precedence
// order, via koanf.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the complete server configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Storage     StorageConfig     `koanf:"storage"`
	Streams     StreamsConfig     `koanf:"streams"`
	Patterns    PatternsConfig    `koanf:"patterns"`
	Embeddings  EmbeddingsConfig  `koanf:"embeddings"`
	Performance PerformanceConfig `koanf:"performance"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// ServerConfig contains server-level configuration.
type ServerConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"` // development | staging | production
}

// StorageConfig contains persistence-level configuration.
type StorageConfig struct {
	// DSN is the SQLite data source name (":memory:" or a file path).
	DSN string `koanf:"dsn"`

	// LinkBackend selects the MemoryLink backend: "sqlite" (default, edges
	// stored as rows, traversal graphs built on demand) or "neo4j".
	LinkBackend string `koanf:"link_backend"`

	// Neo4jURI, Neo4jUser, Neo4jPassword are only consulted when
	// LinkBackend == "neo4j".
	Neo4jURI      string `koanf:"neo4j_uri"`
	Neo4jUser     string `koanf:"neo4j_user"`
	Neo4jPassword string `koanf:"neo4j_password"`

	// CacheSize bounds the in-process read-through cache (0 disables it).
	CacheSize int `koanf:"cache_size"`
}

// StreamsConfig holds the reasoning-stream settings. The four enable flags
// are only checked by Validate (at least one must be true); the server does
// not consult them, and think_parallel runs the streams named in each
// request. CheckpointIntervalMs sets the coordinator's poll period.
type StreamsConfig struct {
	Analytical bool `koanf:"analytical"`
	Creative   bool `koanf:"creative"`
	Critical   bool `koanf:"critical"`
	Synthetic  bool `koanf:"synthetic"`

	// CheckpointIntervalMs is the coordinator's eligibility-poll period.
	CheckpointIntervalMs int `koanf:"checkpoint_interval_ms"`

	// StreamTimeoutMs is loaded with the rest of the configuration but is
	// not read by the coordinator or the server: streams run without a
	// per-stream deadline.
	StreamTimeoutMs int `koanf:"stream_timeout_ms"`
}

// PatternsConfig controls pattern catalogue loading and match thresholds.
type PatternsConfig struct {
	CataloguePath     string  `koanf:"catalogue_path"`
	MinMatchScore     float64 `koanf:"min_match_score"`
	MinInsightConf    float64 `koanf:"min_insight_confidence"`
}

// EmbeddingsConfig controls the (mock, by default) embedding provider used
// to populate memory sector vectors.
type EmbeddingsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Provider  string `koanf:"provider"` // "mock" | future real providers
	Dimension int    `koanf:"dimension"`
}

// PerformanceConfig contains performance tuning options.
type PerformanceConfig struct {
	MaxConcurrentStreams int `koanf:"max_concurrent_streams"`
	CacheSize            int `koanf:"cache_size"`
}

// LoggingConfig contains structured-logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // debug | info | warn | error
	Format string `koanf:"format"` // console | json
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"server.name":        "unified-thinking",
		"server.version":     "2.0.0",
		"server.environment": "development",

		"storage.dsn":          "reasoning.db",
		"storage.link_backend": "sqlite",
		"storage.cache_size":   1000,

		"streams.analytical":              true,
		"streams.creative":                true,
		"streams.critical":                true,
		"streams.synthetic":               true,
		"streams.checkpoint_interval_ms":  10,
		"streams.stream_timeout_ms":       30000,

		"patterns.catalogue_path":        "configs/patterns",
		"patterns.min_match_score":       0.5,
		"patterns.min_insight_confidence": 0.4,

		"embeddings.enabled":   true,
		"embeddings.provider":  "mock",
		"embeddings.dimension": 256,

		"performance.max_concurrent_streams": 4,
		"performance.cache_size":             1000,

		"logging.level":  "info",
		"logging.format": "console",
	}
}

// Load builds the configuration from defaults, then an optional YAML file
// at path (skipped if path is empty; a file that cannot be read or parsed
// is returned as an error), then environment
// variables prefixed UT_ (UT_SERVER_NAME, UT_STREAMS_ANALYTICAL, ...).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("UT_", ".", envKeyTransform), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}
	return &cfg, nil
}

// envKeyTransform turns UT_STREAMS_CHECKPOINT_INTERVAL_MS into
// streams.checkpoint_interval_ms.
func envKeyTransform(s string) string {
	s = strings.TrimPrefix(s, "UT_")
	s = strings.ToLower(s)
	parts := strings.SplitN(s, "_", 2)
	if len(parts) != 2 {
		return s
	}
	return parts[0] + "." + parts[1]
}

// Validate checks invariants that koanf's unmarshalling does not enforce.
func (c *Config) Validate() error {
	if c.Server.Name == "" {
		return fmt.Errorf("server.name cannot be empty")
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("server.environment must be one of: development, staging, production")
	}

	switch c.Storage.LinkBackend {
	case "sqlite", "neo4j":
	default:
		return fmt.Errorf("storage.link_backend must be 'sqlite' or 'neo4j'")
	}
	if c.Storage.LinkBackend == "neo4j" && c.Storage.Neo4jURI == "" {
		return fmt.Errorf("storage.neo4j_uri is required when link_backend is 'neo4j'")
	}
	if c.Storage.CacheSize < 0 {
		return fmt.Errorf("storage.cache_size cannot be negative")
	}

	if c.Streams.CheckpointIntervalMs <= 0 {
		return fmt.Errorf("streams.checkpoint_interval_ms must be > 0")
	}
	if !c.Streams.Analytical && !c.Streams.Creative && !c.Streams.Critical && !c.Streams.Synthetic {
		return fmt.Errorf("at least one reasoning stream must be enabled")
	}

	if c.Patterns.MinMatchScore < 0 || c.Patterns.MinMatchScore > 1 {
		return fmt.Errorf("patterns.min_match_score must be within [0, 1]")
	}
	if c.Patterns.MinInsightConf < 0 || c.Patterns.MinInsightConf > 1 {
		return fmt.Errorf("patterns.min_insight_confidence must be within [0, 1]")
	}

	if c.Performance.MaxConcurrentStreams < 1 {
		return fmt.Errorf("performance.max_concurrent_streams must be >= 1")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'console' or 'json'")
	}

	return nil
}
