// Package config loads and validates the bot configuration.
package config

import (
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the complete bot configuration.
type Config struct {
	Token string `json:"token" mapstructure:"token"`

	Database   DatabaseConfig   `json:"database" mapstructure:"database"`
	Guilds     GuildsConfig     `json:"guilds" mapstructure:"guilds"`
	Dispatcher DispatcherConfig `json:"dispatcher" mapstructure:"dispatcher"`
	Logging    LoggingConfig    `json:"logging" mapstructure:"logging"`
	Plot       PlotConfig       `json:"plot" mapstructure:"plot"`
}

// DatabaseConfig contains the embedded store configuration.
type DatabaseConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// GuildsConfig contains guild and channel permission configuration.
// An empty whitelist allows every guild; an empty channel list allows
// every channel.
type GuildsConfig struct {
	Whitelist   []int64 `json:"whitelist" mapstructure:"whitelist"`
	BotChannels []int64 `json:"botChannels" mapstructure:"botChannels"`
}

// DispatcherConfig contains the store-operation worker pool configuration.
type DispatcherConfig struct {
	QueueSize        int `json:"queueSize" mapstructure:"queueSize"`
	Workers          int `json:"workers" mapstructure:"workers"`
	OpTimeoutSeconds int `json:"opTimeoutSeconds" mapstructure:"opTimeoutSeconds"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string `json:"level" mapstructure:"level"`
	File  string `json:"file" mapstructure:"file"`
}

// PlotConfig contains chart rendering configuration.
type PlotConfig struct {
	FontPath string `json:"fontPath" mapstructure:"fontPath"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "data/primatebot.db",
		},
		Dispatcher: DispatcherConfig{
			QueueSize:        64,
			Workers:          4,
			OpTimeoutSeconds: 15,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// Load reads configuration from the given config file (optional), the
// environment (PRIMATEBOT_ prefix) and a .env file in the working
// directory when present. Missing config file is not an error; defaults
// apply.
func Load(configFile string) (*Config, error) {
	// .env is a developer convenience; absence is normal.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("database.path", "data/primatebot.db")
	v.SetDefault("dispatcher.queueSize", 64)
	v.SetDefault("dispatcher.workers", 4)
	v.SetDefault("dispatcher.opTimeoutSeconds", 15)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("plot.fontPath", "")

	v.SetEnvPrefix("PRIMATEBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./data")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// An explicit config file must load; the implicit search may
			// come up empty.
			if configFile != "" {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Whitelists may arrive from the environment as comma-separated
	// strings; viper leaves those unparsed.
	if raw := v.GetString("guilds.whitelist"); raw != "" && len(cfg.Guilds.Whitelist) == 0 {
		cfg.Guilds.Whitelist = parseIDList(raw)
	}
	if raw := v.GetString("guilds.botChannels"); raw != "" && len(cfg.Guilds.BotChannels) == 0 {
		cfg.Guilds.BotChannels = parseIDList(raw)
	}

	return &cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return &ConfigError{Field: "database.path", Message: "database path must not be empty"}
	}
	if c.Dispatcher.QueueSize <= 0 {
		return &ConfigError{Field: "dispatcher.queueSize", Message: "queue size must be positive"}
	}
	if c.Dispatcher.Workers <= 0 {
		return &ConfigError{Field: "dispatcher.workers", Message: "worker count must be positive"}
	}
	if c.Dispatcher.OpTimeoutSeconds <= 0 {
		return &ConfigError{Field: "dispatcher.opTimeoutSeconds", Message: "operation timeout must be positive"}
	}
	return nil
}

// parseIDList parses a comma-separated list of integer IDs. Entries that
// fail to parse are skipped.
func parseIDList(s string) []int64 {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
