// Package config provides configuration management for the examiner
// recommendation service.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the examiner recommendation service.
type Config struct {
	// Server contains HTTP server settings.
	Server ServerConfig `mapstructure:"server"`
	// Logging contains structured logging settings.
	Logging LoggingConfig `mapstructure:"logging"`
	// Metrics contains Prometheus metrics exposure settings.
	Metrics MetricsConfig `mapstructure:"metrics"`
	// Data contains dataset file locations.
	Data DataConfig `mapstructure:"data"`
	// Recommend contains recommendation pipeline settings.
	Recommend RecommendConfig `mapstructure:"recommend"`
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	// Host is the address to bind the server to (default: 0.0.0.0).
	Host string `mapstructure:"host"`
	// HTTPPort is the HTTP server port (default: 8080).
	HTTPPort int `mapstructure:"http_port"`
	// MetricsPort is the metrics server port (default: 9091).
	MetricsPort int `mapstructure:"metrics_port"`
	// ReadTimeout is the maximum duration for reading the request body.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the maximum duration for writing the response.
	// Corpus scans run inside the request, so this must cover a full scan.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// IdleTimeout is the maximum duration to keep idle connections open.
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level (trace, debug, info, warn, error, fatal, panic).
	Level string `mapstructure:"level"`
	// Format is the log format (json, console).
	Format string `mapstructure:"format"`
	// Output is the log output destination (stdout, stderr).
	Output string `mapstructure:"output"`
	// AddSource adds source file and line to log output.
	AddSource bool `mapstructure:"add_source"`
	// TimeFormat is the timestamp format.
	TimeFormat string `mapstructure:"time_format"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	// Enabled enables metrics collection and exposure.
	Enabled bool `mapstructure:"enabled"`
	// Path is the HTTP path for the metrics endpoint.
	Path string `mapstructure:"path"`
}

// DataConfig holds dataset file locations.
type DataConfig struct {
	// CorpusPath is the path to the publication corpus CSV (Scopus export).
	CorpusPath string `mapstructure:"corpus_path"`
	// RosterPath is the path to the examiner roster CSV.
	RosterPath string `mapstructure:"roster_path"`
}

// RecommendConfig holds recommendation pipeline settings.
type RecommendConfig struct {
	// TopSize is the size of the top slice reported in summaries (default: 20).
	TopSize int `mapstructure:"top_size"`
	// ScanWorkers bounds corpus scan parallelism; 1 means sequential.
	ScanWorkers int `mapstructure:"scan_workers"`
	// MinQueryWords is the word count below which a query gets a short-
	// abstract warning in the response.
	MinQueryWords int `mapstructure:"min_query_words"`
	// RateLimitRPS is the sustained recommendation query admission rate.
	RateLimitRPS float64 `mapstructure:"rate_limit_rps"`
	// RateLimitBurst is the burst size for query admission.
	RateLimitBurst int `mapstructure:"rate_limit_burst"`
}

// HTTPAddress returns the HTTP server address.
func (c *ServerConfig) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.HTTPPort)
}

// MetricsAddress returns the metrics server address.
func (c *ServerConfig) MetricsAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.MetricsPort)
}

// Load loads configuration from environment variables and config files.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Read from environment variables.
	v.SetEnvPrefix("EXAMREC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if present.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.metrics_port", 9091)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 5*time.Minute)
	v.SetDefault("server.idle_timeout", time.Minute)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)

	// Metrics
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// Data
	v.SetDefault("data.corpus_path", "scopus.csv")
	v.SetDefault("data.roster_path", "futa_authors.csv")

	// Recommend
	v.SetDefault("recommend.top_size", 20)
	v.SetDefault("recommend.scan_workers", 1)
	v.SetDefault("recommend.min_query_words", 50)
	v.SetDefault("recommend.rate_limit_rps", 1.0)
	v.SetDefault("recommend.rate_limit_burst", 2)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port out of range: %d", c.Server.HTTPPort)
	}
	if c.Server.MetricsPort < 1 || c.Server.MetricsPort > 65535 {
		return fmt.Errorf("server.metrics_port out of range: %d", c.Server.MetricsPort)
	}
	if c.Data.CorpusPath == "" {
		return errors.New("data.corpus_path is required")
	}
	if c.Data.RosterPath == "" {
		return errors.New("data.roster_path is required")
	}
	if c.Recommend.TopSize < 1 {
		return fmt.Errorf("recommend.top_size must be positive: %d", c.Recommend.TopSize)
	}
	if c.Recommend.ScanWorkers < 1 {
		return fmt.Errorf("recommend.scan_workers must be positive: %d", c.Recommend.ScanWorkers)
	}
	if c.Recommend.RateLimitRPS <= 0 {
		return fmt.Errorf("recommend.rate_limit_rps must be positive: %g", c.Recommend.RateLimitRPS)
	}
	if c.Recommend.RateLimitBurst < 1 {
		return fmt.Errorf("recommend.rate_limit_burst must be positive: %d", c.Recommend.RateLimitBurst)
	}
	return nil
}
