package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment names
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Defaults
const (
	DefaultDBPath        = "dojohub.db"
	DefaultAddr          = ":8080"
	DefaultSlowQueryMs   = 100
	DefaultSlowRequestMs = 200
	DefaultLogLevel      = "info"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "DOJOHUB_"

var (
	ErrInvalidEnv      = errors.New("env must be 'development' or 'production'")
	ErrInvalidLogLevel = errors.New("log level must be one of: debug, info, warn, error")
	ErrEmptyDBPath     = errors.New("database path cannot be empty")
	ErrEmptyAddr       = errors.New("listen address cannot be empty")
	ErrNegativeTiming  = errors.New("slow thresholds cannot be negative")
)

// Config holds the process settings.
type Config struct {
	DBPath          string   `yaml:"db_path"`
	Addr            string   `yaml:"addr"`
	Env             string   `yaml:"env"`
	AdminPassphrase string   `yaml:"admin_passphrase"`
	CSRFKey         string   `yaml:"csrf_key"`
	TrustedOrigins  []string `yaml:"trusted_origins"`
	StaticDir       string   `yaml:"static_dir"`
	SlowQueryMs     int      `yaml:"slow_query_ms"`
	SlowRequestMs   int      `yaml:"slow_request_ms"`
	LogLevel        string   `yaml:"log_level"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		DBPath:        DefaultDBPath,
		Addr:          DefaultAddr,
		Env:           EnvDevelopment,
		StaticDir:     "static",
		SlowQueryMs:   DefaultSlowQueryMs,
		SlowRequestMs: DefaultSlowRequestMs,
		LogLevel:      DefaultLogLevel,
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// non-empty), then a .env file in the working directory, then DOJOHUB_*
// environment variables. Flags are applied afterwards by the caller.
// PRE: path is empty or names a readable YAML file
// POST: Returns a validated Config
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := godotenv.Load(".env"); err == nil {
		slog.Debug("config_env_file_loaded", "path", ".env")
	}
	cfg.mergeEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv(getenv func(string) string) {
	lookup := func(key, fallback string) string {
		return envOrDefault(getenv, EnvPrefix+key, fallback)
	}
	c.DBPath = lookup("DB", c.DBPath)
	c.Addr = lookup("ADDR", c.Addr)
	c.Env = lookup("ENV", c.Env)
	c.AdminPassphrase = lookup("ADMIN_PASSPHRASE", c.AdminPassphrase)
	c.CSRFKey = lookup("CSRF_KEY", c.CSRFKey)
	c.StaticDir = lookup("STATIC_DIR", c.StaticDir)
	c.LogLevel = lookup("LOG_LEVEL", c.LogLevel)
	if v := getenv(EnvPrefix + "TRUSTED_ORIGINS"); v != "" {
		c.TrustedOrigins = splitList(v)
	}
	c.SlowQueryMs = envInt(getenv, EnvPrefix+"SLOW_QUERY_MS", c.SlowQueryMs)
	c.SlowRequestMs = envInt(getenv, EnvPrefix+"SLOW_REQUEST_MS", c.SlowRequestMs)
}

// Validate checks if the Config has valid data.
// PRE: Config struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return ErrEmptyDBPath
	}
	if strings.TrimSpace(c.Addr) == "" {
		return ErrEmptyAddr
	}
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return ErrInvalidEnv
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.SlowQueryMs < 0 || c.SlowRequestMs < 0 {
		return ErrNegativeTiming
	}
	return nil
}

// IsProduction reports whether the process runs in production.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, ErrInvalidLogLevel
}

func envOrDefault(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(getenv func(string) string, key string, fallback int) int {
	v := getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config_invalid_int", "key", key, "value", v)
		return fallback
	}
	return n
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
