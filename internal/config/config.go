// Package config handles application configuration.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines the structure for all application configuration.
type Config struct {
	ListenAddr string         `yaml:"listen_addr"`
	Model      ModelConfig    `yaml:"model"`
	Database   DatabaseConfig `yaml:"database"`
	LogLevel   string         `yaml:"-"` // Loaded from env or defaults
}

// ModelConfig holds the pipeline and model options plus artifact paths.
// These are the recognized knobs: polynomial expansion order, L2 penalty
// and the sale-year fallback applied when input lacks a YrSold column.
type ModelConfig struct {
	ModelPath           string   `yaml:"model_path"`
	PreprocessorPath    string   `yaml:"preprocessor_path"`
	RidgeAlpha          float64  `yaml:"ridge_alpha"`
	PolyDegree          int      `yaml:"poly_degree"`
	PolyIncludeBias     FlexBool `yaml:"poly_include_bias"`
	DefaultSaleYear     int      `yaml:"default_sale_year"` // 0 means current year
	ValidationTolerance float64  `yaml:"validation_tolerance"`
}

// DatabaseConfig holds the optional quote log database settings.
// Credentials come from the environment, not the YAML file.
type DatabaseConfig struct {
	Enabled  FlexBool `yaml:"enabled"`
	Host     string   `yaml:"-"`
	Port     string   `yaml:"-"`
	User     string   `yaml:"-"`
	Password string   `yaml:"-"`
	Name     string   `yaml:"-"`
}

// URL builds a pgx connection string from the database settings.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", d.User, d.Password, d.Host, d.Port, d.Name)
}

// LoadConfig loads configuration from the specified YAML file path
// and environment variables. A .env file in the working directory is
// honored when present.
func LoadConfig(configPath string) (*Config, error) {
	// Best effort; a missing .env file is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		// Default values
		ListenAddr: ":8080",
		LogLevel:   "info",
		Model: ModelConfig{
			ModelPath:        "models/model.gob",
			PreprocessorPath: "models/preprocessor.gob",
			RidgeAlpha:       8.5,
			PolyDegree:       2,
		},
	}

	// Read YAML file
	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(file, cfg); err != nil {
		return nil, err
	}

	// Load sensitive data and overrides from environment variables
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if dbHost := os.Getenv("DB_HOST"); dbHost != "" {
		cfg.Database.Host = dbHost
	}
	if dbPort := os.Getenv("DB_PORT"); dbPort != "" {
		cfg.Database.Port = dbPort
	}
	if dbUser := os.Getenv("DB_USER"); dbUser != "" {
		cfg.Database.User = dbUser
	}
	if dbPassword := os.Getenv("DB_PASSWORD"); dbPassword != "" {
		cfg.Database.Password = dbPassword
	}
	if dbName := os.Getenv("DB_NAME"); dbName != "" {
		cfg.Database.Name = dbName
	}

	if cfg.Model.RidgeAlpha < 0 {
		return nil, fmt.Errorf("ridge_alpha must not be negative, got %g", cfg.Model.RidgeAlpha)
	}
	if cfg.Model.PolyDegree < 1 {
		return nil, fmt.Errorf("poly_degree must be at least 1, got %d", cfg.Model.PolyDegree)
	}

	return cfg, nil
}
