package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig is the top-level configuration of the retrieval server.
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Data    DataConfig    `yaml:"data"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	MaxBodyBytes    int64         `yaml:"maxBodyBytes"`
}

// DataConfig lists where collection inputs and snapshots live.
type DataConfig struct {
	Dir         string             `yaml:"dir"`        // snapshot directory
	SourceRoot  string             `yaml:"sourceRoot"` // directory API load requests are resolved against; empty disables them
	JobWorkers  int                `yaml:"jobWorkers"`
	Collections []CollectionSource `yaml:"collections"`
}

// CollectionSource points a collection at the directory holding its external inputs.
type CollectionSource struct {
	Dir      string             `yaml:"dir"`
	Settings CollectionSettings `yaml:",inline"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus scrape endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoadAppConfig reads a YAML config file (if provided) and applies environment-variable
// overrides. Missing values keep their defaults.
func LoadAppConfig(path string) (*AppConfig, error) {
	cfg := DefaultAppConfig()
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator's command line
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if problems := cfg.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}

// DefaultAppConfig returns a config suitable for local development.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Data: DataConfig{
			Dir:        "./retrieval_data",
			JobWorkers: 2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate checks the server, data and collection sections.
func (cfg *AppConfig) Validate() []string {
	var problems []string
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port out of range: %d", cfg.Server.Port))
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		problems = append(problems, "server.maxBodyBytes must be positive")
	}
	if cfg.Data.JobWorkers <= 0 {
		problems = append(problems, "data.jobWorkers must be positive")
	}
	seen := make(map[string]bool)
	for i, src := range cfg.Data.Collections {
		if strings.TrimSpace(src.Dir) == "" {
			problems = append(problems, fmt.Sprintf("data.collections[%d].dir is required", i))
		}
		for _, p := range src.Settings.Validate() {
			problems = append(problems, fmt.Sprintf("data.collections[%d]: %s", i, p))
		}
		if seen[src.Settings.Name] {
			problems = append(problems, fmt.Sprintf("data.collections[%d]: duplicate name '%s'", i, src.Settings.Name))
		}
		seen[src.Settings.Name] = true
	}
	return problems
}

// applyEnvOverrides reads RS_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("RS_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("RS_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("RS_SOURCE_ROOT"); v != "" {
		cfg.Data.SourceRoot = v
	}
	if v := os.Getenv("RS_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("RS_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("RS_METRICS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = enabled
		}
	}
}
