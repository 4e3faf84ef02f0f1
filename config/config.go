package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Environment  string        `mapstructure:"ENVIRONMENT"`
	LogLevel     string        `mapstructure:"LOG_LEVEL"`
	ParserDebug  bool          `mapstructure:"PARSER_DEBUG"`
	OutputFormat string        `mapstructure:"OUTPUT_FORMAT"`
	FetchTimeout time.Duration `mapstructure:"FETCH_TIMEOUT"`
	UserAgent    string        `mapstructure:"USER_AGENT"`
}

// Output formats understood by the CLI.
const (
	FormatTree   = "tree"
	FormatHTML   = "html"
	FormatXML    = "xml"
	FormatTokens = "tokens"
)

var defaults = map[string]interface{}{
	"ENVIRONMENT":   "development",
	"LOG_LEVEL":     "info",
	"PARSER_DEBUG":  false,
	"OUTPUT_FORMAT": FormatTree,
	"FETCH_TIMEOUT": 10 * time.Second,
	"USER_AGENT":    "saba/0.1",
}

// LoadConfig reads app.env from path, if present, and lets environment
// variables override it.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, errors.Wrap(err, "read app.env")
		}
		err = nil
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, errors.Wrap(err, "decode config")
	}
	return config, config.Validate()
}

// Validate checks the values the CLI cannot work around.
func (config *Config) Validate() error {
	switch config.OutputFormat {
	case FormatTree, FormatHTML, FormatXML, FormatTokens:
	default:
		return errors.Errorf("unknown output format %q", config.OutputFormat)
	}
	if _, err := config.Level(); err != nil {
		return err
	}
	if config.FetchTimeout < 0 {
		return errors.Errorf("negative fetch timeout %s", config.FetchTimeout)
	}
	return nil
}

// Level returns the configured log level.
func (config *Config) Level() (logrus.Level, error) {
	level, err := logrus.ParseLevel(strings.TrimSpace(config.LogLevel))
	if err != nil {
		return logrus.InfoLevel, errors.Wrap(err, "log level")
	}
	return level, nil
}

func (config *Config) IsDevelopment() bool {
	return config.Environment == "development"
}
