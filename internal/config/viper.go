// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable override,
// e.g. AGRI_DATABASE_DSN for database.dsn.
const EnvPrefix = "AGRI"

// LogConfig controls the logrus output.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DatabaseConfig selects the gorm dialect and connection.
type DatabaseConfig struct {
	Driver     string `mapstructure:"driver" yaml:"driver"`
	DSN        string `mapstructure:"dsn" yaml:"-"`
	LogQueries bool   `mapstructure:"log_queries" yaml:"log_queries"`
}

// CSVConfig describes the payment export files.
type CSVConfig struct {
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	Encoding  string `mapstructure:"encoding" yaml:"encoding"`
}

// DelimiterRune returns the configured delimiter, ';' when unset.
func (c CSVConfig) DelimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return ';'
}

// SourceConfig controls the default data-source tag of imported rows.
type SourceConfig struct {
	TagPrefix string `mapstructure:"tag_prefix" yaml:"tag_prefix"`
}

// RatesConfig holds the per-hectare category spend rates in EUR.
type RatesConfig struct {
	Seed           float64 `mapstructure:"seed" yaml:"seed"`
	Fertilizer     float64 `mapstructure:"fertilizer" yaml:"fertilizer"`
	CropProtection float64 `mapstructure:"crop_protection" yaml:"crop_protection"`
}

// PotentialConfig holds the snapshot calculation constants.
type PotentialConfig struct {
	EurPerHa float64     `mapstructure:"eur_per_ha" yaml:"eur_per_ha"`
	Rates    RatesConfig `mapstructure:"rates" yaml:"rates"`
}

// Config represents the complete application configuration
type Config struct {
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	CSV       CSVConfig       `mapstructure:"csv" yaml:"csv"`
	Source    SourceConfig    `mapstructure:"source" yaml:"source"`
	Potential PotentialConfig `mapstructure:"potential" yaml:"potential"`
}

// InitializeConfig loads configuration from defaults, an optional config
// file and AGRI_* environment variables, in increasing precedence.
// When configFile is empty the standard locations are searched.
func InitializeConfig(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.agri-potential")
		v.AddConfigPath(".agri-potential")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the built-in configuration without reading files or the
// environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	_ = v.Unmarshal(&config)
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "agri-potential.db")
	v.SetDefault("database.log_queries", false)

	v.SetDefault("csv.delimiter", ";")
	v.SetDefault("csv.encoding", "utf-8")

	v.SetDefault("source.tag_prefix", "agrarzahlungen")

	v.SetDefault("potential.eur_per_ha", 270.0)
	v.SetDefault("potential.rates.seed", 50.0)
	v.SetDefault("potential.rates.fertilizer", 150.0)
	v.SetDefault("potential.rates.crop_protection", 80.0)
}

// SupportedEncodings lists the accepted csv.encoding values.
var SupportedEncodings = []string{"utf-8", "latin1", "windows-1252"}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	switch config.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver: %s (must be 'sqlite' or 'postgres')", config.Database.Driver)
	}
	if strings.TrimSpace(config.Database.DSN) == "" {
		return fmt.Errorf("database.dsn must not be empty")
	}

	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if !isSupportedEncoding(config.CSV.Encoding) {
		return fmt.Errorf("unsupported csv.encoding: %s (must be one of %s)",
			config.CSV.Encoding, strings.Join(SupportedEncodings, ", "))
	}

	if strings.TrimSpace(config.Source.TagPrefix) == "" {
		return fmt.Errorf("source.tag_prefix must not be empty")
	}

	if config.Potential.EurPerHa <= 0 {
		return fmt.Errorf("potential.eur_per_ha must be greater than zero, got: %v", config.Potential.EurPerHa)
	}
	rates := config.Potential.Rates
	if rates.Seed < 0 || rates.Fertilizer < 0 || rates.CropProtection < 0 {
		return fmt.Errorf("potential.rates must not be negative, got: seed=%v fertilizer=%v crop_protection=%v",
			rates.Seed, rates.Fertilizer, rates.CropProtection)
	}

	return nil
}

func isSupportedEncoding(enc string) bool {
	for _, e := range SupportedEncodings {
		if strings.EqualFold(e, enc) {
			return true
		}
	}
	return false
}
