package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sydlexius/kala/internal/cache"
)

// Config holds all application configuration.
type Config struct {
	Wikipedia  WikipediaConfig  `yaml:"wikipedia"`
	Resolver   ResolverConfig   `yaml:"resolver"`
	Cache      CacheConfig      `yaml:"cache"`
	Collection CollectionConfig `yaml:"collection"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// WikipediaConfig holds encyclopedia API settings.
type WikipediaConfig struct {
	Endpoint          string  `yaml:"endpoint"`
	ArticleBaseURL    string  `yaml:"article_base_url"`
	ThumbSize         int     `yaml:"thumb_size"`
	UserAgent         string  `yaml:"user_agent"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// ResolverConfig holds thumbnail resolution settings.
type ResolverConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	MaxConcurrent int64         `yaml:"max_concurrent"`
	Workers       int           `yaml:"workers"`
}

// CacheConfig selects and configures the result cache backend.
type CacheConfig struct {
	Backend string            `yaml:"backend"`
	TTL     time.Duration     `yaml:"ttl"`
	Path    string            `yaml:"path"`
	Redis   cache.RedisConfig `yaml:"redis"`

	// MaintenanceInterval schedules pruning of the sqlite backend while
	// watching. Zero disables it.
	MaintenanceInterval time.Duration `yaml:"maintenance_interval"`
}

// CollectionConfig points at the artist collection file. An empty path
// selects the built-in catalog.
type CollectionConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	FilePath string `yaml:"file_path"`
}

// MetricsConfig holds metrics export settings. An empty textfile path
// disables the export.
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Wikipedia: WikipediaConfig{
			Endpoint:          "https://en.wikipedia.org/w/api.php",
			ArticleBaseURL:    "https://en.wikipedia.org/wiki/",
			ThumbSize:         300,
			RequestsPerSecond: 10,
		},
		Resolver: ResolverConfig{
			Timeout:       5 * time.Second,
			MaxConcurrent: 8,
			Workers:       4,
		},
		Cache: CacheConfig{
			Backend: cache.BackendMemory,
			TTL:     24 * time.Hour,
			Path:    "kala.db",
			Redis: cache.RedisConfig{
				Addr: "localhost:6379",
			},
			MaintenanceInterval: 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load reads config from a YAML file (if it exists) and overrides with
// environment variables. Environment variables take precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) loadFromEnv() error {
	if v := os.Getenv("KALA_WIKIPEDIA_ENDPOINT"); v != "" {
		c.Wikipedia.Endpoint = v
	}
	if v := os.Getenv("KALA_ARTICLE_BASE_URL"); v != "" {
		c.Wikipedia.ArticleBaseURL = v
	}
	if v := os.Getenv("KALA_THUMB_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("KALA_THUMB_SIZE: %w", err)
		}
		c.Wikipedia.ThumbSize = n
	}
	if v := os.Getenv("KALA_USER_AGENT"); v != "" {
		c.Wikipedia.UserAgent = v
	}
	if v := os.Getenv("KALA_REQUESTS_PER_SECOND"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("KALA_REQUESTS_PER_SECOND: %w", err)
		}
		c.Wikipedia.RequestsPerSecond = f
	}
	if v := os.Getenv("KALA_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("KALA_TIMEOUT: %w", err)
		}
		c.Resolver.Timeout = d
	}
	if v := os.Getenv("KALA_MAX_CONCURRENT"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("KALA_MAX_CONCURRENT: %w", err)
		}
		c.Resolver.MaxConcurrent = n
	}
	if v := os.Getenv("KALA_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("KALA_WORKERS: %w", err)
		}
		c.Resolver.Workers = n
	}
	if v := os.Getenv("KALA_CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("KALA_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("KALA_CACHE_TTL: %w", err)
		}
		c.Cache.TTL = d
	}
	if v := os.Getenv("KALA_CACHE_PATH"); v != "" {
		c.Cache.Path = v
	}
	if v := os.Getenv("KALA_REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("KALA_REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}
	if v := os.Getenv("KALA_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("KALA_REDIS_DB: %w", err)
		}
		c.Cache.Redis.DB = n
	}
	if v := os.Getenv("KALA_COLLECTION_PATH"); v != "" {
		c.Collection.Path = v
	}
	if v := os.Getenv("KALA_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("KALA_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("KALA_LOG_FILE"); v != "" {
		c.Logging.FilePath = v
	}
	if v := os.Getenv("KALA_METRICS_TEXTFILE"); v != "" {
		c.Metrics.TextfilePath = v
	}
	return nil
}

func (c *Config) validate() error {
	if c.Wikipedia.Endpoint == "" {
		return fmt.Errorf("wikipedia endpoint is required")
	}
	if c.Wikipedia.ThumbSize < 1 {
		return fmt.Errorf("invalid thumb size: %d", c.Wikipedia.ThumbSize)
	}
	if c.Wikipedia.RequestsPerSecond < 0 {
		return fmt.Errorf("invalid requests per second: %v", c.Wikipedia.RequestsPerSecond)
	}
	if c.Resolver.Timeout <= 0 {
		return fmt.Errorf("invalid resolver timeout: %s", c.Resolver.Timeout)
	}
	if c.Resolver.MaxConcurrent < 1 {
		return fmt.Errorf("invalid max concurrent: %d", c.Resolver.MaxConcurrent)
	}
	if c.Resolver.Workers < 1 {
		return fmt.Errorf("invalid workers: %d", c.Resolver.Workers)
	}

	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	switch c.Cache.Backend {
	case cache.BackendNone, cache.BackendMemory:
	case cache.BackendSQLite:
		if c.Cache.Path == "" {
			return fmt.Errorf("cache path is required for the sqlite backend")
		}
	case cache.BackendRedis:
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("redis addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown cache backend: %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("invalid cache ttl: %s", c.Cache.TTL)
	}
	if c.Cache.MaintenanceInterval < 0 {
		return fmt.Errorf("invalid maintenance interval: %s", c.Cache.MaintenanceInterval)
	}

	switch c.Logging.Format {
	case "json", "text", "auto":
	default:
		return fmt.Errorf("unknown log format: %q", c.Logging.Format)
	}
	return nil
}
