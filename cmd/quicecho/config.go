package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "QUICECHO"

const (
	transportQUIC         = "quic"
	transportWebTransport = "webtransport"
)

// Config holds the settings of both subcommands.
type Config struct {
	// Addr is the address served by serve and dialed by dial.
	Addr string `mapstructure:"addr"`

	// Transport is "quic" or "webtransport".
	Transport string `mapstructure:"transport"`

	// Path is the WebTransport endpoint.
	Path string `mapstructure:"path"`

	// CertFile and KeyFile hold the server certificate.
	// A self-signed certificate is generated if both are empty.
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`

	// Insecure skips server certificate verification when dialing.
	Insecure bool `mapstructure:"insecure"`

	Datagram    bool          `mapstructure:"datagram"`
	MetricsAddr string        `mapstructure:"metrics_addr"`
	Message     string        `mapstructure:"message"`
	Timeout     time.Duration `mapstructure:"timeout"`

	Log LogConfig `mapstructure:"log"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format: text or json
	Format string `mapstructure:"format"`
	// File is written instead of stderr when set.
	File string `mapstructure:"file"`

	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig controls rotation of the log file.
type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	Compress   bool `mapstructure:"compress"`
}

// DefaultConfig returns a Config populated with the defaults of every flag.
func DefaultConfig() *Config {
	return &Config{
		Addr:      "127.0.0.1:4433",
		Transport: transportQUIC,
		Path:      "/echo",
		Datagram:  true,
		Message:   "hello",
		Timeout:   10 * time.Second,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			Rotation: RotationConfig{
				MaxSizeMB:  50,
				MaxBackups: 3,
				MaxAgeDays: 28,
			},
		},
	}
}

// flagKeys maps flag names onto configuration keys.
var flagKeys = map[string]string{
	"addr":         "addr",
	"transport":    "transport",
	"path":         "path",
	"cert":         "cert_file",
	"key":          "key_file",
	"insecure":     "insecure",
	"datagram":     "datagram",
	"metrics-addr": "metrics_addr",
	"message":      "message",
	"timeout":      "timeout",
	"log-level":    "log.level",
	"log-format":   "log.format",
	"log-file":     "log.file",
}

// LoadConfig merges, from lowest to highest precedence, the defaults,
// the config file at path, QUICECHO_* environment variables and the flags
// set on the command line.
// Environment variables replace `.` and `-` with `_`.
// Example: QUICECHO_LOG_LEVEL=debug
func LoadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Bound flags carry their own defaults, which differ between subcommands.
	bound := make(map[string]bool)
	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %q: %w", name, err)
			}
			bound[key] = true
		}
	}

	// seed defaults for viper so env-only configs work
	defaults := map[string]any{
		"addr":                      cfg.Addr,
		"transport":                 cfg.Transport,
		"path":                      cfg.Path,
		"cert_file":                 cfg.CertFile,
		"key_file":                  cfg.KeyFile,
		"insecure":                  cfg.Insecure,
		"datagram":                  cfg.Datagram,
		"metrics_addr":              cfg.MetricsAddr,
		"message":                   cfg.Message,
		"timeout":                   cfg.Timeout,
		"log.level":                 cfg.Log.Level,
		"log.format":                cfg.Log.Format,
		"log.file":                  cfg.Log.File,
		"log.rotation.max_size_mb":  cfg.Log.Rotation.MaxSizeMB,
		"log.rotation.max_backups":  cfg.Log.Rotation.MaxBackups,
		"log.rotation.max_age_days": cfg.Log.Rotation.MaxAgeDays,
		"log.rotation.compress":     cfg.Log.Rotation.Compress,
	}
	for key, value := range defaults {
		if !bound[key] {
			v.SetDefault(key, value)
		}
	}

	if path == "" {
		path = os.Getenv(envPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.Transport = strings.ToLower(strings.TrimSpace(c.Transport))
	switch c.Transport {
	case transportQUIC, transportWebTransport:
	default:
		return fmt.Errorf("invalid transport: %q", c.Transport)
	}

	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	case "warning":
		c.Log.Level = "warn"
	default:
		return fmt.Errorf("invalid log.level: %q", c.Log.Level)
	}

	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	switch c.Log.Format {
	case "text", "json":
	case "":
		c.Log.Format = "text"
	default:
		return fmt.Errorf("invalid log.format: %q", c.Log.Format)
	}

	if (c.CertFile == "") != (c.KeyFile == "") {
		return fmt.Errorf("cert and key must be set together")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}
	if !strings.HasPrefix(c.Path, "/") {
		c.Path = "/" + c.Path
	}
	return nil
}
