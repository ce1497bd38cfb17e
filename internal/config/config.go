// Package config loads realdesk settings. Values come from
// <config dir>/config.yaml, REALDESK_* environment variables (a .env file in
// the working directory is loaded first) and command-line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/realdesk/internal/paths"
	"github.com/mesh-intelligence/realdesk/pkg/types"
)

const (
	FileName = "config.yaml"
	EnvFile  = ".env"

	envPrefix = "REALDESK"
)

// Config keys.
const (
	keyBackend         = "store.backend"
	keyDataDir         = "store.data_dir"
	keyDSN             = "store.dsn"
	keyMaxConns        = "store.max_conns"
	keySeed            = "store.seed"
	keyHTTPAddr        = "http.addr"
	keyReadTimeout     = "http.read_timeout"
	keyWriteTimeout    = "http.write_timeout"
	keyShutdownTimeout = "http.shutdown_timeout"
	keyCORSOrigins     = "http.cors_origins"
	keyLogLevel        = "log.level"
	keyLogFormat       = "log.format"
	keySessionBackend  = "sessions.backend"
	keySessionTTL      = "sessions.ttl"
	keyRedisAddr       = "redis.addr"
	keyRedisPassword   = "redis.password"
	keyRedisDB         = "redis.db"
	keyAuthRequired    = "auth.required"
	keyEventsURL       = "events.url"
	keyEventsExchange  = "events.exchange"
)

// Session store backends.
const (
	SessionsMemory = "memory"
	SessionsRedis  = "redis"
)

// ErrSessionBackend is returned for an unknown sessions.backend value.
var ErrSessionBackend = errors.New("unknown sessions backend")

// Config is the full runtime configuration.
type Config struct {
	Store    types.Config
	HTTP     HTTP
	Log      Log
	Sessions Sessions
	Redis    Redis
	Auth     Auth
	Events   Events
}

type HTTP struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

type Log struct {
	Level  string
	Format string
}

type Sessions struct {
	Backend string
	TTL     time.Duration
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Auth controls whether /api requires a session.
type Auth struct {
	Required bool
}

// Events configures activity publishing. An empty URL disables it.
type Events struct {
	URL      string
	Exchange string
}

// Validate checks the store settings and the session backend.
func (c Config) Validate() error {
	if err := c.Store.Validate(); err != nil {
		return err
	}
	switch c.Sessions.Backend {
	case SessionsMemory, SessionsRedis:
	default:
		return fmt.Errorf("%w: %q", ErrSessionBackend, c.Sessions.Backend)
	}
	return nil
}

// Overrides are command-line values that take precedence over the file and
// the environment.
type Overrides struct {
	ConfigDir string
	DataDir   string
	Backend   string
}

// Load resolves the configuration directory, creates a default config.yaml
// there on first run and returns the merged configuration.
func Load(o Overrides) (Config, error) {
	if err := loadDotEnv(EnvFile); err != nil {
		return Config{}, err
	}

	configDir, err := paths.ResolveConfigDir(o.ConfigDir)
	if err != nil {
		return Config{}, fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := readConfig(configDir)
	if err != nil {
		return Config{}, err
	}

	cfg := fromViper(v)
	if o.Backend != "" {
		cfg.Store.Backend = o.Backend
	}
	cfg.Store.DataDir, err = paths.ResolveDataDir(o.DataDir, v.GetString(keyDataDir))
	if err != nil {
		return Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	if !v.IsSet(keySeed) {
		cfg.Store.Seed = cfg.Store.Backend == types.BackendMemory
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func readConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := WriteDefault(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyBackend, types.BackendSQLite)
	v.SetDefault(keyMaxConns, 0)
	v.SetDefault(keyHTTPAddr, ":5000")
	v.SetDefault(keyReadTimeout, 15*time.Second)
	v.SetDefault(keyWriteTimeout, 15*time.Second)
	v.SetDefault(keyShutdownTimeout, 10*time.Second)
	v.SetDefault(keyCORSOrigins, []string{"*"})
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogFormat, "json")
	v.SetDefault(keySessionBackend, SessionsMemory)
	v.SetDefault(keySessionTTL, 8*time.Hour)
	v.SetDefault(keyRedisAddr, "localhost:6379")
	v.SetDefault(keyAuthRequired, false)
	v.SetDefault(keyEventsExchange, "realdesk.activities")
}

func fromViper(v *viper.Viper) Config {
	return Config{
		Store: types.Config{
			Backend:  v.GetString(keyBackend),
			DSN:      v.GetString(keyDSN),
			MaxConns: v.GetInt(keyMaxConns),
			Seed:     v.GetBool(keySeed),
		},
		HTTP: HTTP{
			Addr:            v.GetString(keyHTTPAddr),
			ReadTimeout:     v.GetDuration(keyReadTimeout),
			WriteTimeout:    v.GetDuration(keyWriteTimeout),
			ShutdownTimeout: v.GetDuration(keyShutdownTimeout),
			CORSOrigins:     v.GetStringSlice(keyCORSOrigins),
		},
		Log: Log{
			Level:  v.GetString(keyLogLevel),
			Format: v.GetString(keyLogFormat),
		},
		Sessions: Sessions{
			Backend: v.GetString(keySessionBackend),
			TTL:     v.GetDuration(keySessionTTL),
		},
		Redis: Redis{
			Addr:     v.GetString(keyRedisAddr),
			Password: v.GetString(keyRedisPassword),
			DB:       v.GetInt(keyRedisDB),
		},
		Auth: Auth{Required: v.GetBool(keyAuthRequired)},
		Events: Events{
			URL:      v.GetString(keyEventsURL),
			Exchange: v.GetString(keyEventsExchange),
		},
	}
}

// File is the on-disk layout written by WriteDefault and the init command.
type File struct {
	Store StoreSection `yaml:"store"`
	HTTP  HTTPSection  `yaml:"http"`
	Log   LogSection   `yaml:"log"`
}

type StoreSection struct {
	Backend string `yaml:"backend"`
	DataDir string `yaml:"data_dir,omitempty"`
	DSN     string `yaml:"dsn,omitempty"`
}

type HTTPSection struct {
	Addr string `yaml:"addr"`
}

type LogSection struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultFile returns the settings written on first run.
func DefaultFile() File {
	return File{
		Store: StoreSection{Backend: types.BackendSQLite},
		HTTP:  HTTPSection{Addr: ":5000"},
		Log:   LogSection{Level: "info", Format: "json"},
	}
}

// WriteDefault writes DefaultFile to dir unless config.yaml already exists.
func WriteDefault(dir string) error {
	return WriteFile(dir, DefaultFile(), false)
}

// WriteFile writes f as config.yaml in dir. An existing file is kept unless
// overwrite is set.
func WriteFile(dir string, f File, overwrite bool) error {
	path := filepath.Join(dir, FileName)
	if !overwrite {
		_, err := os.Stat(path)
		if err == nil {
			return nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat config file: %w", err)
		}
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	header := "# realdesk configuration. REALDESK_* environment variables override these values,\n# e.g. REALDESK_STORE_BACKEND=postgres REALDESK_STORE_DSN=postgres://...\n"
	return os.WriteFile(path, append([]byte(header), data...), 0o644)
}
