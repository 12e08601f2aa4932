package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures citadel's runtime settings.
type Config struct {
	APIURL         string        `env:"API_URL"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	Retries        int           `env:"RETRIES"`
	RateLimit      float64       `env:"RATE_LIMIT"`
	ListTTL        time.Duration `env:"LIST_TTL"`
	DetailTTL      time.Duration `env:"DETAIL_TTL"`
	CacheBackend   string        `env:"CACHE_BACKEND"`
	RedisURL       string        `env:"REDIS_URL"`
	LogFile        string        `env:"LOG_FILE"`
}

// Cache backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CITADEL_"

const (
	defaultConfigPath     = "~/.config/citadel/config.toml"
	defaultAPIURL         = "https://rickandmortyapi.com/api"
	defaultRequestTimeout = 10 * time.Second
	defaultRetries        = 1
	defaultRateLimit      = 5.0
	defaultListTTL        = 5 * time.Minute
	defaultDetailTTL      = 10 * time.Minute
	defaultLogFile        = "~/.local/state/citadel/citadel.log"
)

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		APIURL:         defaultAPIURL,
		RequestTimeout: defaultRequestTimeout,
		Retries:        defaultRetries,
		RateLimit:      defaultRateLimit,
		ListTTL:        defaultListTTL,
		DetailTTL:      defaultDetailTTL,
		CacheBackend:   BackendMemory,
		LogFile:        mustExpand(defaultLogFile),
	}
}

type rawConfig struct {
	APIURL         string   `toml:"api_url"`
	RequestTimeout string   `toml:"request_timeout"`
	Retries        *int     `toml:"retries"`
	RateLimit      *float64 `toml:"rate_limit"`
	ListTTL        string   `toml:"list_ttl"`
	DetailTTL      string   `toml:"detail_ttl"`
	CacheBackend   string   `toml:"cache_backend"`
	RedisURL       string   `toml:"redis_url"`
	LogFile        string   `toml:"log_file"`
}

// Load reads the config file at path (or the default location), then applies
// CITADEL_* environment overrides. A missing file yields defaults.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	bytes, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	if bytes != nil {
		var raw rawConfig
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		if err := cfg.merge(raw); err != nil {
			return Config{}, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=value pairs from path into the process environment
// without overriding variables that are already set. A missing file is not an
// error.
func LoadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if bytes == nil {
		bytes = []byte{}
	}
	return bytes, nil
}

func (c *Config) merge(raw rawConfig) error {
	if v := strings.TrimSpace(raw.APIURL); v != "" {
		c.APIURL = v
	}
	if raw.Retries != nil {
		c.Retries = *raw.Retries
	}
	if raw.RateLimit != nil {
		c.RateLimit = *raw.RateLimit
	}
	if v := strings.TrimSpace(raw.CacheBackend); v != "" {
		c.CacheBackend = v
	}
	if v := strings.TrimSpace(raw.RedisURL); v != "" {
		c.RedisURL = v
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		c.LogFile = v
	}

	durations := []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"request_timeout", raw.RequestTimeout, &c.RequestTimeout},
		{"list_ttl", raw.ListTTL, &c.ListTTL},
		{"detail_ttl", raw.DetailTTL, &c.DetailTTL},
	}
	for _, d := range durations {
		v := strings.TrimSpace(d.raw)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", d.key, err)
		}
		*d.dst = parsed
	}
	return nil
}

func (c *Config) normalize() error {
	c.APIURL = strings.TrimSpace(c.APIURL)
	if c.APIURL == "" {
		c.APIURL = defaultAPIURL
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	if c.RateLimit < 0 {
		c.RateLimit = 0
	}
	if c.ListTTL <= 0 {
		c.ListTTL = defaultListTTL
	}
	if c.DetailTTL <= 0 {
		c.DetailTTL = defaultDetailTTL
	}

	c.CacheBackend = strings.ToLower(strings.TrimSpace(c.CacheBackend))
	switch c.CacheBackend {
	case "":
		c.CacheBackend = BackendMemory
	case BackendMemory:
	case BackendRedis:
		c.RedisURL = strings.TrimSpace(c.RedisURL)
		if c.RedisURL == "" {
			return fmt.Errorf("cache_backend %q requires redis_url", BackendRedis)
		}
	default:
		return fmt.Errorf("unknown cache_backend %q", c.CacheBackend)
	}

	if strings.TrimSpace(c.LogFile) == "" {
		c.LogFile = defaultLogFile
	}
	c.LogFile = mustExpand(c.LogFile)
	return nil
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
