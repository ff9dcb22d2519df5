package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Store kinds.
const (
	StoreNone   = "none"
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config is the runtime configuration of the modfsm command.
type Config struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// MaxModulus caps the automaton size (2*MaxModulus table entries).
	// Zero disables the cap.
	MaxModulus int `mapstructure:"max_modulus" yaml:"max_modulus"`

	// CacheSize bounds the in-process automaton cache. Zero is unbounded.
	CacheSize int `mapstructure:"cache_size" yaml:"cache_size"`

	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	HTTP    HTTPConfig    `mapstructure:"http" yaml:"http"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// StoreConfig selects the shared automaton store.
type StoreConfig struct {
	Kind  string      `mapstructure:"kind" yaml:"kind"`
	Redis RedisConfig `mapstructure:"redis" yaml:"redis"`
}

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Addr        string        `mapstructure:"addr" yaml:"addr"`
	Password    string        `mapstructure:"password" yaml:"password"`
	DB          int           `mapstructure:"db" yaml:"db"`
	Prefix      string        `mapstructure:"prefix" yaml:"prefix"`
	TTL         time.Duration `mapstructure:"ttl" yaml:"ttl"`
	LockTimeout time.Duration `mapstructure:"lock_timeout" yaml:"lock_timeout"`
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel:   "info",
		MaxModulus: 1 << 20,
		CacheSize:  256,
		Store: StoreConfig{
			Kind: StoreNone,
			Redis: RedisConfig{
				Addr:        "localhost:6379",
				Prefix:      "modfsm:automaton:",
				LockTimeout: 30 * time.Second,
			},
		},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Load reads a YAML file on top of the defaults. A missing file at an
// empty path yields the defaults; a missing explicit path is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of the defaults.
// Keys are matched strictly so typos are reported instead of ignored.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if raw == nil {
		return cfg, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &cfg,
		ErrorUnused: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			intToDurationHook,
		),
	})
	if err != nil {
		return cfg, err
	}
	if err := decoder.Decode(raw); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, cfg.Validate()
}

// intToDurationHook reads bare YAML integers as seconds.
func intToDurationHook(from, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(time.Duration(0)) {
		return data, nil
	}
	switch v := data.(type) {
	case int:
		return time.Duration(v) * time.Second, nil
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	}
	return data, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	var errs []error
	switch c.Store.Kind {
	case StoreNone, StoreMemory:
	case StoreRedis:
		if c.Store.Redis.Addr == "" {
			errs = append(errs, errors.New("store.redis.addr is required for the redis store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store kind %q", c.Store.Kind))
	}
	if c.MaxModulus < 0 {
		errs = append(errs, errors.New("max_modulus must not be negative"))
	}
	if c.CacheSize < 0 {
		errs = append(errs, errors.New("cache_size must not be negative"))
	}
	return errors.Join(errs...)
}
