// Package config provides configuration management for the colocation miner.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Mining   MiningConfig   `mapstructure:"mining"`
	Output   OutputConfig   `mapstructure:"output"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Log      LogConfig      `mapstructure:"log"`
}

// MiningConfig holds the algorithm parameters.
type MiningConfig struct {
	// DatasetPath is the input CSV file (Feature, Instance, LocX, LocY).
	DatasetPath string `mapstructure:"dataset_path"`

	// NeighborDistance is the distance threshold for spatial neighbors.
	NeighborDistance float64 `mapstructure:"neighbor_distance"`

	// MinPrevalence is the participation-index threshold in [0, 1].
	MinPrevalence float64 `mapstructure:"min_prevalence"`

	// MinCondProb is reserved for rule generation; parsed but unused
	// by the mining pipeline.
	MinCondProb float64 `mapstructure:"min_cond_prob"`

	// DebugMode enables verbose diagnostics; no semantic effect.
	DebugMode bool `mapstructure:"debug_mode"`

	// Parallel mines clique heads concurrently.
	Parallel bool `mapstructure:"parallel"`

	// MaxWorker bounds the worker count in parallel mode.
	MaxWorker int `mapstructure:"max_worker"`
}

// OutputConfig holds result output settings.
type OutputConfig struct {
	Dir  string `mapstructure:"dir"`
	Gzip bool   `mapstructure:"gzip"`
}

// DatabaseConfig holds database connection configuration for the optional
// mining-run repository.
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Type     string `mapstructure:"type"` // sqlite, postgres or mysql
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Path     string `mapstructure:"path"` // for sqlite
	MaxConns int    `mapstructure:"max_conns"`
}

// StorageConfig holds object storage configuration for result artifacts.
type StorageConfig struct {
	Type      string `mapstructure:"type"` // cos or local
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	Domain    string `mapstructure:"domain"` // e.g., "myqcloud.com"
	Scheme    string `mapstructure:"scheme"` // e.g., "https" or "http"
	LocalPath string `mapstructure:"local_path"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
}

// Load reads configuration from the specified file path.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/colocation-mining")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("Config file not found, using defaults")
		} else if os.IsNotExist(err) {
			fmt.Printf("Config file %s not found, using defaults\n", configPath)
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Allow environment variables to override config
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from raw content (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Mining defaults
	v.SetDefault("mining.dataset_path", "data/instances.csv")
	v.SetDefault("mining.neighbor_distance", 160.0)
	v.SetDefault("mining.min_prevalence", 0.15)
	v.SetDefault("mining.min_cond_prob", 0.5)
	v.SetDefault("mining.debug_mode", false)
	v.SetDefault("mining.parallel", false)
	v.SetDefault("mining.max_worker", 4)

	// Output defaults
	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.gzip", false)

	// Database defaults
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.path", "./colocation.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.max_conns", 10)

	// Storage defaults
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "./storage")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.output_path", "")
}

// Validate validates the configuration. Invalid algorithm parameters are
// rejected here, before the pipeline starts.
func (c *Config) Validate() error {
	if c.Mining.NeighborDistance <= 0 {
		return fmt.Errorf("neighbor_distance must be positive, got %v", c.Mining.NeighborDistance)
	}
	if c.Mining.MinPrevalence < 0 || c.Mining.MinPrevalence > 1 {
		return fmt.Errorf("min_prevalence must be in [0, 1], got %v", c.Mining.MinPrevalence)
	}
	if c.Mining.MinCondProb < 0 || c.Mining.MinCondProb > 1 {
		return fmt.Errorf("min_cond_prob must be in [0, 1], got %v", c.Mining.MinCondProb)
	}

	if c.Database.Enabled {
		switch c.Database.Type {
		case "sqlite":
			if c.Database.Path == "" {
				return fmt.Errorf("database path is required for sqlite")
			}
		case "postgres", "mysql":
			if c.Database.Host == "" {
				return fmt.Errorf("database host is required")
			}
		default:
			return fmt.Errorf("unsupported database type: %s", c.Database.Type)
		}
	}

	return nil
}

// EnsureOutputDir creates the output directory if it doesn't exist.
func (c *Config) EnsureOutputDir() error {
	if c.Output.Dir == "" {
		return nil
	}
	return os.MkdirAll(c.Output.Dir, 0755)
}
