// Package config provides configuration loading and validation for astdiff.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidMinHeight = errors.New("matcher min_height must be >= 0")
	ErrInvalidMinDice   = errors.New("matcher min_dice must be in [0,1]")
	ErrInvalidMaxSize   = errors.New("matcher max_size must be >= 0")
	ErrInvalidFormat    = errors.New("output format must be one of: text, json, xml, yaml")
)

// validOutputFormats are the output formats the edit-script sink accepts.
var validOutputFormats = map[string]bool{
	"text": true,
	"json": true,
	"xml":  true,
	"yaml": true,
}

// Config holds all configuration for the astdiff CLI.
type Config struct {
	Matcher MatcherConfig `mapstructure:"matcher"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
	Parser  ParserConfig  `mapstructure:"parser"`
}

// MatcherConfig mirrors treediff.Options: it is decoded independently here
// (rather than embedding treediff.Options directly) so this package never
// needs to import treediff just to read a config file.
type MatcherConfig struct {
	MinHeight int     `mapstructure:"min_height"`
	MinDice   float64 `mapstructure:"min_dice"`
	MaxSize   int     `mapstructure:"max_size"`
}

// OutputConfig controls how an edit script is rendered.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Path   string `mapstructure:"path"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ParserConfig overrides the language the AST adapter uses per extension,
// for callers whose files don't carry a recognizable extension.
type ParserConfig struct {
	LanguageOverrides map[string]string `mapstructure:"language_overrides"`
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("astdiff")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/astdiff")
	}

	viperCfg.SetEnvPrefix("ASTDIFF")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	if unmarshalErr := viperCfg.Unmarshal(&cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	if validateErr := validateConfig(&cfg); validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values, matching treediff.DefaultOptions.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("matcher.min_height", DefaultMinHeight)
	viperCfg.SetDefault("matcher.min_dice", DefaultMinDice)
	viperCfg.SetDefault("matcher.max_size", DefaultMaxSize)

	viperCfg.SetDefault("output.format", DefaultOutputFormat)
	viperCfg.SetDefault("output.path", "")

	viperCfg.SetDefault("logging.level", "info")
	viperCfg.SetDefault("logging.format", "json")
	viperCfg.SetDefault("logging.output", "stderr")
}

// validateConfig validates the configuration.
func validateConfig(cfg *Config) error {
	if cfg.Matcher.MinHeight < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMinHeight, cfg.Matcher.MinHeight)
	}

	if cfg.Matcher.MinDice < 0 || cfg.Matcher.MinDice > 1 {
		return fmt.Errorf("%w: %f", ErrInvalidMinDice, cfg.Matcher.MinDice)
	}

	if cfg.Matcher.MaxSize < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxSize, cfg.Matcher.MaxSize)
	}

	if cfg.Output.Format != "" && !validOutputFormats[cfg.Output.Format] {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, cfg.Output.Format)
	}

	return nil
}
