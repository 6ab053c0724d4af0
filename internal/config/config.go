// Package config loads host configuration from an optional config file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	gameconfig "github.com/tomz197/arcade/internal/loop/config"
)

// FileName is the config file base name; any extension viper supports
// (json, yaml, toml, ...) is accepted.
const FileName = "arcade"

// EnvPrefix prefixes every environment override, e.g. ARCADE_SSH_PORT.
const EnvPrefix = "ARCADE"

// SSHConfig holds the SSH host settings.
type SSHConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	HostKeyPath     string        `mapstructure:"hostKeyPath"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
	MaxSessions     int           `mapstructure:"maxSessions"`
}

// WebConfig holds the landing page settings.
type WebConfig struct {
	Host        string `mapstructure:"host"`
	Port        string `mapstructure:"port"`
	DisplayHost string `mapstructure:"displayHost"` // Host shown in the ssh command
}

// DesktopConfig holds the window settings.
type DesktopConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// InactivityConfig controls when idle terminal clients are warned and
// disconnected.
type InactivityConfig struct {
	Warn       time.Duration `mapstructure:"warn"`
	Disconnect time.Duration `mapstructure:"disconnect"`
}

// Config is the full host configuration.
type Config struct {
	LogLevel   string           `mapstructure:"logLevel"`
	Seed       int64            `mapstructure:"seed"` // 0 seeds from the clock
	SSH        SSHConfig        `mapstructure:"ssh"`
	Web        WebConfig        `mapstructure:"web"`
	Desktop    DesktopConfig    `mapstructure:"desktop"`
	Inactivity InactivityConfig `mapstructure:"inactivity"`
}

// legacyEnv maps keys to the environment variable names older deployments
// use.
var legacyEnv = map[string]string{
	"ssh.host":        "SSH_HOST",
	"ssh.port":        "SSH_PORT",
	"ssh.hostKeyPath": "SSH_HOST_KEY",
	"web.host":        "WEB_HOST",
	"web.port":        "WEB_PORT",
	"web.displayHost": "SSH_DISPLAY_HOST",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("seed", 0)

	v.SetDefault("ssh.host", "::")
	v.SetDefault("ssh.port", "2222")
	v.SetDefault("ssh.hostKeyPath", "/app/keys/host_key")
	v.SetDefault("ssh.shutdownTimeout", "15s")
	v.SetDefault("ssh.maxSessions", 64)

	v.SetDefault("web.host", "0.0.0.0")
	v.SetDefault("web.port", "8080")
	v.SetDefault("web.displayHost", "localhost")

	v.SetDefault("desktop.width", 480)
	v.SetDefault("desktop.height", 640)

	v.SetDefault("inactivity.warn", time.Duration(gameconfig.InactivityWarnUser)*time.Second)
	v.SetDefault("inactivity.disconnect", time.Duration(gameconfig.InactivityDisconnectUser)*time.Second)
}

// Load reads configuration from an optional arcade.* file in configDir and
// from ARCADE_* environment variables, on top of the defaults. A missing
// file is not an error.
func Load(configDir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		envName := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envName, legacy); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	v.SetConfigName(FileName)
	if configDir != "" {
		v.AddConfigPath(configDir)
	} else {
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	return &cfg, nil
}

// NewLogger returns a logger writing to w at the configured level.
func (c *Config) NewLogger(w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
	}), nil
}
