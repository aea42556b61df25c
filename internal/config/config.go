package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vertextoedge/image-fetcher/internal/domain/vo"
)

// DefaultConfigFile is looked up in the working directory when no
// explicit config path is given.
const DefaultConfigFile = "image-fetcher.yaml"

// EnvPrefix prefixes environment overrides, e.g. IMAGE_FETCHER_OUTPUT_DIR.
const EnvPrefix = "IMAGE_FETCHER"

// Config represents the entire application configuration
type Config struct {
	OutputDir string        `mapstructure:"output_dir"`
	Fetch     FetchConfig   `mapstructure:"fetch"`
	Cleanup   CleanupConfig `mapstructure:"cleanup"`
	Logging   LoggingConfig `mapstructure:"logging"`
}

// FetchConfig contains HTTP fetch and content policy settings
type FetchConfig struct {
	Timeout      string   `mapstructure:"timeout"`
	UserAgent    string   `mapstructure:"user_agent"`
	MaxSizeMB    int      `mapstructure:"max_size_mb"`
	ChunkSize    int      `mapstructure:"chunk_size"`
	AllowedTypes []string `mapstructure:"allowed_types"`
	Progress     bool     `mapstructure:"progress"`
}

// CleanupConfig contains startup housekeeping settings
type CleanupConfig struct {
	StaleTempAge string `mapstructure:"stale_temp_age"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// flagKeys maps command-line flag names to config keys
var flagKeys = map[string]string{
	"output-dir": "output_dir",
	"timeout":    "fetch.timeout",
	"user-agent": "fetch.user_agent",
	"max-size":   "fetch.max_size_mb",
	"progress":   "fetch.progress",
	"log-level":  "logging.level",
	"log-format": "logging.format",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output_dir", "Fetched_Images")
	v.SetDefault("fetch.timeout", "10s")
	v.SetDefault("fetch.user_agent", "UbuntuImageFetcher/1.0")
	v.SetDefault("fetch.max_size_mb", 10)
	v.SetDefault("fetch.chunk_size", 4096)
	v.SetDefault("fetch.allowed_types", []string{"image/jpeg", "image/png", "image/gif", "image/bmp", "image/webp"})
	v.SetDefault("fetch.progress", false)
	v.SetDefault("cleanup.stale_temp_age", "24h")
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "text")
}

// Load loads configuration from defaults, an optional YAML file,
// IMAGE_FETCHER_* environment variables and any changed flags, in
// increasing order of precedence. An empty configPath makes the file
// optional.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName(strings.TrimSuffix(DefaultConfigFile, ".yaml"))
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("output_dir is required")
	}

	// Validate fetch config
	d, err := time.ParseDuration(c.Fetch.Timeout)
	if err != nil {
		return fmt.Errorf("invalid fetch.timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("fetch.timeout must be positive")
	}
	if strings.TrimSpace(c.Fetch.UserAgent) == "" {
		return fmt.Errorf("fetch.user_agent is required")
	}
	if c.Fetch.MaxSizeMB <= 0 {
		return fmt.Errorf("fetch.max_size_mb must be positive")
	}
	if c.Fetch.ChunkSize < 512 || c.Fetch.ChunkSize > 1024*1024 {
		return fmt.Errorf("fetch.chunk_size must be between 512 and 1048576")
	}
	if len(c.Fetch.AllowedTypes) == 0 {
		return fmt.Errorf("fetch.allowed_types must not be empty")
	}

	// Validate cleanup config
	if _, err := time.ParseDuration(c.Cleanup.StaleTempAge); err != nil {
		return fmt.Errorf("invalid cleanup.stale_temp_age: %w", err)
	}

	// Validate logging config
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// Valid levels
	default:
		return fmt.Errorf("invalid logging.level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "text":
		// Valid formats
	default:
		return fmt.Errorf("invalid logging.format: %s", c.Logging.Format)
	}

	return nil
}

// GetTimeout returns the per-request timeout as time.Duration
func (c *FetchConfig) GetTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	if d == 0 {
		return 10 * time.Second
	}
	return d
}

// GetMaxSize returns the size ceiling in bytes
func (c *FetchConfig) GetMaxSize() int64 {
	if c.MaxSizeMB <= 0 {
		return 10 * vo.MB
	}
	return vo.FileSizeFromMB(c.MaxSizeMB).Bytes()
}

// GetStaleTempAge returns the age after which leftover temp files are removed
func (c *CleanupConfig) GetStaleTempAge() time.Duration {
	d, _ := time.ParseDuration(c.StaleTempAge)
	if d == 0 {
		return 24 * time.Hour
	}
	return d
}
