package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
)

const (
	CatalogDefault  = "default"
	CatalogFile     = "file"
	CatalogMemgraph = "memgraph"
)

// ErrInvalidCatalog is returned when catalog.source names no known source
// or names "file" without a path.
var ErrInvalidCatalog = errors.New("invalid catalog configuration")

type ServerConfig struct {
	Port string `toml:"port"`
	// RateLimit is requests per second across all clients; zero disables it.
	RateLimit float64 `toml:"rate_limit"`
	RateBurst int     `toml:"rate_burst"`
}

type CatalogConfig struct {
	Source string `toml:"source"`
	Path   string `toml:"path"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type SearchConfig struct {
	Threshold float64 `toml:"threshold"`
	Limit     int     `toml:"limit"`
}

type MarketConfig struct {
	BaseURL    string   `toml:"base_url"`
	ResourceID string   `toml:"resource_id"`
	APIKey     string   `toml:"api_key"`
	State      string   `toml:"state"`
	Market     string   `toml:"market"`
	CacheTTL   Duration `toml:"cache_ttl"`
	Timeout    Duration `toml:"timeout"`
}

type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Memgraph MemgraphConfig `toml:"memgraph"`
	Search   SearchConfig   `toml:"search"`
	Market   MarketConfig   `toml:"market"`
	Log      LogConfig      `toml:"log"`
}

// Duration reads TOML strings such as "30m" or "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", string(b))
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: "3000", RateBurst: 20},
		Catalog:  CatalogConfig{Source: CatalogDefault},
		Memgraph: MemgraphConfig{URI: "bolt://localhost:7687"},
		Search:   SearchConfig{Threshold: 0.25},
		Market: MarketConfig{
			BaseURL:    "https://api.data.gov.in/resource",
			ResourceID: "9ef84268-d588-465a-a308-a864a43d0070",
			APIKey:     "undefined",
			State:      "Andhra Pradesh",
			Market:     "Ongole",
			CacheTTL:   Duration{30 * time.Minute},
			Timeout:    Duration{10 * time.Second},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads a TOML file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file '%s'", path)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse TOML")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config file '%s'", path)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides file values with environment variables when set and
// validates the result.
func (c *Config) ApplyEnv() error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("PORT", &c.Server.Port)
	setString("CATALOG_SOURCE", &c.Catalog.Source)
	setString("CATALOG_PATH", &c.Catalog.Path)
	setString("MEMGRAPH_URI", &c.Memgraph.URI)
	setString("MEMGRAPH_USER", &c.Memgraph.User)
	setString("MEMGRAPH_PASSWORD", &c.Memgraph.Password)
	setString("MARKET_API_KEY", &c.Market.APIKey)
	setString("MARKET_BASE_URL", &c.Market.BaseURL)
	setString("LOG_LEVEL", &c.Log.Level)

	if v := os.Getenv("SEARCH_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Search.Threshold = f
		}
	}
	if v := os.Getenv("LOG_DEVELOPMENT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Log.Development = b
		}
	}
	return c.Validate()
}

// Validate replaces unusable values with defaults. A catalog source that
// cannot be honoured is reported as ErrInvalidCatalog instead.
func (c *Config) Validate() error {
	def := Default()
	if c.Server.Port == "" {
		c.Server.Port = def.Server.Port
	}
	if c.Server.RateLimit < 0 {
		c.Server.RateLimit = 0
	}
	if c.Server.RateBurst <= 0 {
		c.Server.RateBurst = def.Server.RateBurst
	}

	c.Catalog.Source = strings.ToLower(strings.TrimSpace(c.Catalog.Source))
	switch c.Catalog.Source {
	case CatalogDefault, CatalogMemgraph:
	case CatalogFile:
		if c.Catalog.Path == "" {
			return errors.WithHint(
				errors.Mark(errors.New("catalog source \"file\" requires catalog.path"), ErrInvalidCatalog),
				"set catalog.path or CATALOG_PATH")
		}
	case "":
		if c.Catalog.Path != "" {
			c.Catalog.Source = CatalogFile
		} else {
			c.Catalog.Source = CatalogDefault
		}
	default:
		return errors.WithHint(
			errors.Mark(errors.Newf("unknown catalog source %q", c.Catalog.Source), ErrInvalidCatalog),
			"use one of: default, file, memgraph")
	}

	if c.Search.Threshold <= 0 || c.Search.Threshold >= 1 {
		c.Search.Threshold = def.Search.Threshold
	}
	if c.Search.Limit < 0 {
		c.Search.Limit = 0
	}

	if c.Market.CacheTTL.Duration <= 0 {
		c.Market.CacheTTL = def.Market.CacheTTL
	}
	if c.Market.Timeout.Duration <= 0 {
		c.Market.Timeout = def.Market.Timeout
	}
	if c.Market.State == "" {
		c.Market.State = def.Market.State
	}
	if c.Market.Market == "" {
		c.Market.Market = def.Market.Market
	}
	if c.Market.BaseURL == "" {
		c.Market.BaseURL = def.Market.BaseURL
	}
	if c.Market.ResourceID == "" {
		c.Market.ResourceID = def.Market.ResourceID
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	return nil
}
