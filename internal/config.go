package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends
const (
	BackendREST   = "rest"
	BackendSQLite = "sqlite"
)

// DotenvFiles are loaded, when present, before reading the environment
var DotenvFiles = []string{".env.local", ".env"}

// DefaultStoreTimeout bounds one store call when store.timeout is unset or not positive
const DefaultStoreTimeout = 30 * time.Second

// Config holds the dashboard configuration
type Config struct {
	Store  StoreConfig  `mapstructure:"store"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

// StoreConfig selects and addresses the session store
type StoreConfig struct {
	Backend string        `mapstructure:"backend"`
	URL     string        `mapstructure:"url"`
	Key     string        `mapstructure:"key"`
	Table   string        `mapstructure:"table"`
	Timeout time.Duration `mapstructure:"timeout"`
	Path    string        `mapstructure:"path"`
}

// ServerConfig holds the HTTP listener configuration
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig holds the log output configuration
type LogConfig struct {
	Format string `mapstructure:"format"`
}

// LoadDotenv loads the dotenv files that exist. Variables already set win.
func LoadDotenv(files ...string) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				LogWarn("Failed to load %s: %v", f, err)
			}
			continue
		}
		LogDebug("Loaded environment from %s", f)
	}
}

// NewViper returns a viper instance with defaults and env bindings set
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("store.backend", BackendREST)
	v.SetDefault("store.url", "")
	v.SetDefault("store.key", "")
	v.SetDefault("store.table", DefaultTable)
	v.SetDefault("store.timeout", DefaultStoreTimeout)
	v.SetDefault("store.path", "")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.format", "console")

	// the original deployment used the NEXT_PUBLIC_ names
	_ = v.BindEnv("store.url", "SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_URL")
	_ = v.BindEnv("store.key", "SUPABASE_ANON_KEY", "NEXT_PUBLIC_SUPABASE_ANON_KEY")
	_ = v.BindEnv("store.backend", "DASHBOARD_STORE_BACKEND")
	_ = v.BindEnv("store.table", "DASHBOARD_STORE_TABLE")
	_ = v.BindEnv("store.timeout", "DASHBOARD_STORE_TIMEOUT")
	_ = v.BindEnv("store.path", "DASHBOARD_SQLITE_PATH")
	_ = v.BindEnv("server.addr", "DASHBOARD_ADDR")
	_ = v.BindEnv("log.format", "DASHBOARD_LOG_FORMAT")

	return v
}

// LoadConfig reads configuration from the optional file, dotenv files and the environment.
// It does not validate; call Validate before touching the store.
func LoadConfig(v *viper.Viper, configFile string) (*Config, error) {
	if v == nil {
		v = NewViper()
	}
	LoadDotenv(DotenvFiles...)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		LogDebug("Using config file %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	cfg.Store.URL = strings.TrimSpace(cfg.Store.URL)
	cfg.Store.Key = strings.TrimSpace(cfg.Store.Key)
	if cfg.Store.Timeout <= 0 {
		LogWarn("store.timeout %v is not positive, using %v", cfg.Store.Timeout, DefaultStoreTimeout)
		cfg.Store.Timeout = DefaultStoreTimeout
	}
	return &cfg, nil
}

// Validate checks that the selected backend has everything it needs
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendREST:
		if c.Store.URL == "" {
			return &ConfigError{Field: "store.url", Reason: "not set (SUPABASE_URL)"}
		}
		if c.Store.Key == "" {
			return &ConfigError{Field: "store.key", Reason: "not set (SUPABASE_ANON_KEY)"}
		}
	case BackendSQLite:
		if c.Store.Path == "" {
			return &ConfigError{Field: "store.path", Reason: "not set (DASHBOARD_SQLITE_PATH or --db)"}
		}
		if _, err := os.Stat(c.Store.Path); err != nil {
			return &ConfigError{Field: "store.path", Reason: err.Error()}
		}
	default:
		return &ConfigError{Field: "store.backend", Reason: fmt.Sprintf("unsupported backend %q (supported: rest, sqlite)", c.Store.Backend)}
	}
	if c.Store.Table != "" && !tableNamePattern.MatchString(c.Store.Table) {
		return &ConfigError{Field: "store.table", Reason: fmt.Sprintf("invalid table name %q", c.Store.Table)}
	}
	return nil
}
