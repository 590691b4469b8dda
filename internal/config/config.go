// Package config loads stratum settings from a YAML file, a .env file and
// STRATUM_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/aretw0/stratum/pkg/naming"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
	DriverLoam   = "loam"
)

// Config is the full runtime configuration.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
	Names  NamesConfig  `mapstructure:"names"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// RateLimit is requests per second for the API routes. Zero disables it.
	RateLimit float64 `mapstructure:"rate_limit"`
	Burst     int     `mapstructure:"burst"`
}

type StoreConfig struct {
	Driver string       `mapstructure:"driver"`
	Redis  RedisConfig  `mapstructure:"redis"`
	SQLite SQLiteConfig `mapstructure:"sqlite"`
	Loam   LoamConfig   `mapstructure:"loam"`
	// Encryption seals record values at rest when Key is set.
	Encryption EncryptionConfig `mapstructure:"encryption"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
	// Lock enables the distributed cluster lock.
	Lock bool `mapstructure:"lock"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type LoamConfig struct {
	Dir string `mapstructure:"dir"`
}

// EncryptionConfig holds base64 AES-256 keys.
type EncryptionConfig struct {
	Key          string   `mapstructure:"key"`
	FallbackKeys []string `mapstructure:"fallback_keys"`
}

// NamesConfig overrides the name length ceilings. Zero keeps the default.
type NamesConfig struct {
	Record     int `mapstructure:"record"`
	Cluster    int `mapstructure:"cluster"`
	Collection int `mapstructure:"collection"`
	Project    int `mapstructure:"project"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:    LogConfig{Level: "info"},
		Server: ServerConfig{Addr: ":8080", Burst: 20},
		Store: StoreConfig{
			Driver: DriverMemory,
			Redis:  RedisConfig{Addr: "localhost:6379", Prefix: "stratum:cluster:", Lock: true},
			SQLite: SQLiteConfig{Path: "stratum.db"},
			Loam:   LoamConfig{Dir: "."},
		},
		Names: NamesConfig{
			Record:     naming.DefaultRecordMaxLength,
			Cluster:    naming.DefaultFormMaxLength,
			Collection: naming.DefaultFormMaxLength,
			Project:    naming.DefaultFormMaxLength,
		},
	}
}

// envKeys maps environment variables to configuration paths.
var envKeys = map[string]string{
	"STRATUM_LOG_LEVEL":         "log.level",
	"STRATUM_SERVER_ADDR":       "server.addr",
	"STRATUM_SERVER_RATE_LIMIT": "server.rate_limit",
	"STRATUM_SERVER_BURST":      "server.burst",
	"STRATUM_STORE_DRIVER":      "store.driver",
	"STRATUM_REDIS_ADDR":        "store.redis.addr",
	"STRATUM_REDIS_PASSWORD":    "store.redis.password",
	"STRATUM_REDIS_DB":          "store.redis.db",
	"STRATUM_REDIS_PREFIX":      "store.redis.prefix",
	"STRATUM_REDIS_TTL":         "store.redis.ttl",
	"STRATUM_REDIS_LOCK":        "store.redis.lock",
	"STRATUM_SQLITE_PATH":       "store.sqlite.path",
	"STRATUM_LOAM_DIR":          "store.loam.dir",
	"STRATUM_ENCRYPTION_KEY":    "store.encryption.key",
	"STRATUM_NAMES_RECORD":      "names.record",
	"STRATUM_NAMES_CLUSTER":     "names.cluster",
	"STRATUM_NAMES_COLLECTION":  "names.collection",
	"STRATUM_NAMES_PROJECT":     "names.project",
}

type options struct {
	envFile string
	lookup  func(string) (string, bool)
}

// Option configures Load.
type Option func(*options)

// WithEnvFile sets the dotenv file read before the environment. Defaults to ".env".
// A missing file is ignored.
func WithEnvFile(path string) Option {
	return func(o *options) {
		o.envFile = path
	}
}

// WithLookupEnv replaces os.LookupEnv.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(o *options) {
		o.lookup = fn
	}
}

// Load reads the configuration. An empty path skips the YAML file.
func Load(path string, opts ...Option) (Config, error) {
	o := options{envFile: ".env", lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(&o)
	}

	raw := map[string]interface{}{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if raw == nil {
			raw = map[string]interface{}{}
		}
	}

	if o.envFile != "" {
		// Existing environment variables win over the file.
		if err := godotenv.Load(o.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", o.envFile, err)
		}
	}
	for env, key := range envKeys {
		if v, ok := o.lookup(env); ok {
			setPath(raw, key, v)
		}
	}

	cfg := Default()
	if err := decode(raw, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(raw map[string]interface{}, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func setPath(m map[string]interface{}, path, value string) {
	parts := strings.Split(path, ".")
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			m[p] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = value
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverRedis, DriverSQLite, DriverLoam:
	default:
		return fmt.Errorf("unknown store driver: %q", c.Store.Driver)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.Burst < 1 {
		return fmt.Errorf("server.burst must be at least 1 when rate limiting is enabled")
	}
	if c.Store.Redis.TTL < 0 {
		return fmt.Errorf("store.redis.ttl must not be negative")
	}
	return nil
}

// Policies builds the naming policies from the configured ceilings.
func (c Config) Policies() naming.Policies {
	return naming.DefaultPolicies().
		WithMaxLength(naming.KindRecord, c.Names.Record).
		WithMaxLength(naming.KindCluster, c.Names.Cluster).
		WithMaxLength(naming.KindCollection, c.Names.Collection).
		WithMaxLength(naming.KindProject, c.Names.Project)
}
