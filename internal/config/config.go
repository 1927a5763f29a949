// Package config loads process configuration from a YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jwulff/campuscast/internal/console"
	"github.com/jwulff/campuscast/internal/heartbeat"
	"github.com/jwulff/campuscast/internal/logger"
	"github.com/jwulff/campuscast/internal/storage/natskv"
	"github.com/jwulff/campuscast/internal/storage/sqlite"
	"github.com/jwulff/campuscast/internal/textgen"
)

// PathEnv names the variable holding the YAML config path.
const PathEnv = "SIGNAGE_CONFIG"

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverNATS   = "nats"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// StoreConfig selects and configures the shared state backend.
type StoreConfig struct {
	Driver       string        `yaml:"driver"`
	Path         string        `yaml:"path"`
	PollInterval time.Duration `yaml:"poll_interval"`
	NATSURL      string        `yaml:"nats_url"`
	Bucket       string        `yaml:"bucket"`
	RedisAddr    string        `yaml:"redis_addr"`
	RedisPass    string        `yaml:"redis_password"`
	RedisDB      int           `yaml:"redis_db"`
	RedisPrefix  string        `yaml:"redis_prefix"`
}

// ConsoleConfig configures the HTTP console process.
type ConsoleConfig struct {
	Listen         string `yaml:"listen"`
	console.Config `yaml:",inline"`
}

// DisplayConfig configures display processes.
type DisplayConfig struct {
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
	RefreshInterval   time.Duration `yaml:"refresh_interval"`
	PixooAddr         string        `yaml:"pixoo_addr"`
	TerminalWidth     int           `yaml:"terminal_width"`
	MetricsListen     string        `yaml:"metrics_listen"`
}

// Config is the full process configuration.
type Config struct {
	Log     logger.Config  `yaml:"log"`
	Store   StoreConfig    `yaml:"store"`
	Console ConsoleConfig  `yaml:"console"`
	Display DisplayConfig  `yaml:"display"`
	TextGen textgen.Config `yaml:"textgen"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Log: logger.Config{Level: "info"},
		Store: StoreConfig{
			Driver:       DriverSQLite,
			Path:         "campuscast.db",
			PollInterval: sqlite.DefaultPollInterval,
			NATSURL:      "nats://127.0.0.1:4222",
			Bucket:       natskv.DefaultBucket,
			RedisAddr:    "127.0.0.1:6379",
			RedisPrefix:  "campuscast",
		},
		Console: ConsoleConfig{
			Listen: ":8080",
			Config: console.Config{
				Passphrase: console.DefaultPassphrase,
				AdminName:  console.DefaultAdminName,
			},
		},
		Display: DisplayConfig{
			HeartbeatInterval: heartbeat.DefaultInterval,
			TerminalWidth:     48,
		},
	}
}

// Load reads .env (if present), the YAML file named by SIGNAGE_CONFIG (if set)
// and then applies environment overrides.
func Load() (Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv(PathEnv); path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

// LoadFile decodes the YAML file at path over cfg.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// Validate rejects configurations no process could run with.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the %s driver", DriverSQLite)
		}
	case DriverNATS:
		if c.Store.NATSURL == "" {
			return fmt.Errorf("store.nats_url is required for the %s driver", DriverNATS)
		}
	case DriverRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("store.redis_addr is required for the %s driver", DriverRedis)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Display.HeartbeatInterval < 0 || c.Display.RefreshInterval < 0 {
		return fmt.Errorf("display intervals must not be negative")
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Log.Level = getenvDefault("SIGNAGE_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Debug = getenvBoolDefault("SIGNAGE_DEBUG", cfg.Log.Debug)

	cfg.Store.Driver = strings.ToLower(getenvDefault("SIGNAGE_STORE_DRIVER", cfg.Store.Driver))
	cfg.Store.Path = getenvDefault("SIGNAGE_STORE_PATH", cfg.Store.Path)
	cfg.Store.PollInterval = getenvDurationDefault("SIGNAGE_STORE_POLL_INTERVAL", cfg.Store.PollInterval)
	cfg.Store.NATSURL = getenvDefault("NATS_URL", cfg.Store.NATSURL)
	cfg.Store.Bucket = getenvDefault("SIGNAGE_NATS_BUCKET", cfg.Store.Bucket)
	cfg.Store.RedisAddr = getenvDefault("REDIS_ADDR", cfg.Store.RedisAddr)
	cfg.Store.RedisPass = getenvDefault("REDIS_PASSWORD", cfg.Store.RedisPass)
	cfg.Store.RedisDB = getenvIntDefault("REDIS_DB", cfg.Store.RedisDB)

	cfg.Console.Listen = getenvDefault("SIGNAGE_CONSOLE_LISTEN", cfg.Console.Listen)
	cfg.Console.Passphrase = getenvDefault("SIGNAGE_PASSPHRASE", cfg.Console.Passphrase)
	cfg.Console.PassphraseHash = getenvDefault("SIGNAGE_PASSPHRASE_HASH", cfg.Console.PassphraseHash)

	cfg.Display.HeartbeatInterval = getenvDurationDefault("SIGNAGE_HEARTBEAT_INTERVAL", cfg.Display.HeartbeatInterval)
	cfg.Display.RefreshInterval = getenvDurationDefault("SIGNAGE_REFRESH_INTERVAL", cfg.Display.RefreshInterval)
	cfg.Display.PixooAddr = getenvDefault("PIXOO_ADDR", cfg.Display.PixooAddr)
	cfg.Display.MetricsListen = getenvDefault("SIGNAGE_METRICS_LISTEN", cfg.Display.MetricsListen)

	// GEMINI_API_KEY wins over the generic API_KEY.
	cfg.TextGen.APIKey = getenvDefault("API_KEY", cfg.TextGen.APIKey)
	cfg.TextGen.APIKey = getenvDefault("GEMINI_API_KEY", cfg.TextGen.APIKey)
	cfg.TextGen.Model = getenvDefault("GEMINI_MODEL", cfg.TextGen.Model)
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBoolDefault(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDurationDefault(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
