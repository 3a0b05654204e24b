// Package config loads the reader's settings from defaults, an optional .env
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the complete application configuration.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	WorkerPool  WorkerPoolConfig
	Output      OutputConfig
	Metrics     MetricsConfig
}

type ApplicationConfig struct {
	Name string
}

type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port        int
	BodyLimitMB int           // maximum upload size
	ReadTimeout time.Duration // maximum duration for reading the request
}

// WorkerPoolConfig sizes the batch conversion pool.
type WorkerPoolConfig struct {
	Size int
}

// OutputConfig selects the default export format.
type OutputConfig struct {
	Format string // xlsx or csv
}

type MetricsConfig struct {
	Enabled bool
}

// Load reads configuration. Values from envFiles (missing files are skipped)
// are exported to the environment first, then viper layers the environment
// over the defaults.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Application: ApplicationConfig{Name: v.GetString("APP_NAME")},
		Logging:     LoggingConfig{Level: v.GetString("LOG_LEVEL")},
		Server: ServerConfig{
			Port:        v.GetInt("SERVER_PORT"),
			BodyLimitMB: v.GetInt("SERVER_BODY_LIMIT_MB"),
			ReadTimeout: v.GetDuration("SERVER_READ_TIMEOUT"),
		},
		WorkerPool: WorkerPoolConfig{Size: v.GetInt("WORKER_POOL_SIZE")},
		Output:     OutputConfig{Format: strings.ToLower(v.GetString("OUTPUT_FORMAT"))},
		Metrics:    MetricsConfig{Enabled: v.GetBool("METRICS_ENABLED")},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "idn-statement-reader")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_BODY_LIMIT_MB", 50)
	v.SetDefault("SERVER_READ_TIMEOUT", 60*time.Second)
	v.SetDefault("WORKER_POOL_SIZE", 4)
	v.SetDefault("OUTPUT_FORMAT", "xlsx")
	v.SetDefault("METRICS_ENABLED", true)
}

func (c *Config) validate() error {
	var validationErrors []string

	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.BodyLimitMB <= 0 {
		validationErrors = append(validationErrors, "SERVER_BODY_LIMIT_MB must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.WorkerPool.Size <= 0 {
		validationErrors = append(validationErrors, "WORKER_POOL_SIZE must be greater than 0")
	}
	if c.Output.Format != "xlsx" && c.Output.Format != "csv" {
		validationErrors = append(validationErrors, "OUTPUT_FORMAT must be xlsx or csv")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}
	return nil
}
