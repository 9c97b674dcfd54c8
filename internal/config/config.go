// Package config loads command settings from flags, environment variables
// (GRADEACE_ prefix) and an optional gradeace.{yaml,json,toml} file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "GRADEACE"

// Config holds the settings shared by all commands. Flags that a command does
// not register keep their zero value.
type Config struct {
	Addr            string        `mapstructure:"addr" validate:"omitempty,hostname_port|startswith=:"`
	Lang            string        `mapstructure:"lang" validate:"required,oneof=en ru"`
	BasePath        string        `mapstructure:"base-path" validate:"omitempty,startswith=/"`
	SecureCookies   bool          `mapstructure:"secure-cookies"`
	SessionTTL      time.Duration `mapstructure:"session-ttl" validate:"gte=0"`
	WeightTolerance float64       `mapstructure:"weight-tolerance" validate:"gte=0,lt=1"`
	LogLevel        string        `mapstructure:"log-level" validate:"required,oneof=debug info warn error"`
	LogFormat       string        `mapstructure:"log-format" validate:"required,oneof=text json"`
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// AddCommonFlags registers the flags every command understands.
func AddCommonFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("lang", "l", "en", "UI language (en, ru)")
	f.Float64("weight-tolerance", 1e-9, "Allowed distance of the weight sum from 100 (0 = exact)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

// Viper binds a command's flags and environment to a fresh viper instance.
func Viper(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("gradeace")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/gradeace")
	v.AddConfigPath("/etc/gradeace")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

// Load reads and validates the configuration for cmd.
func Load(cmd *cobra.Command) (*Config, error) {
	return FromViper(Viper(cmd))
}

// FromViper decodes and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}
	c.Lang = strings.ToLower(strings.TrimSpace(c.Lang))
	c.LogLevel = strings.ToLower(c.LogLevel)
	c.LogFormat = strings.ToLower(c.LogFormat)
	c.BasePath = NormalizeBasePath(c.BasePath)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// NormalizeBasePath trims trailing slashes and adds a leading one.
func NormalizeBasePath(p string) string {
	p = strings.TrimRight(strings.TrimSpace(p), "/")
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// SetupLogging installs the default slog logger described by c.
func SetupLogging(c *Config) {
	var logLevel slog.Level
	switch c.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch c.LogFormat {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}
