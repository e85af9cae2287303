package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvConfig        = "CLAPGO_CONFIG"
	EnvLogLevel      = "CLAPGO_LOG_LEVEL"
	EnvLogFormat     = "CLAPGO_LOG_FORMAT"
	EnvDefaults      = "CLAPGO_DEFAULTS"
	EnvBackground    = "CLAPGO_BACKGROUND"
	EnvIgnoreUnknown = "CLAPGO_IGNORE_UNKNOWN"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	LogLevel  string `hcl:"log_level,optional"`
	LogFormat string `hcl:"log_format,optional"`
	// DefaultsPath is a defaults file or directory consulted by parameters
	// that use the context defaults provider.
	DefaultsPath  string `hcl:"defaults,optional"`
	Background    bool   `hcl:"background,optional"`
	IgnoreUnknown bool   `hcl:"ignore_unknown,optional"`
}

// DefaultConfig is used for anything not set elsewhere.
func DefaultConfig() Config {
	return Config{LogLevel: "warn", LogFormat: "text"}
}

// NewConfig validates cfg and returns a normalized copy.
func NewConfig(cfg Config) (*Config, error) {
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	var errs []error
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log level '%s': must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel))
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("invalid log format '%s': must be 'text' or 'json'", cfg.LogFormat))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfigFile decodes an HCL host configuration file on top of base.
func LoadConfigFile(path string, base Config) (Config, error) {
	file, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return base, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}
	cfg := base
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return base, fmt.Errorf("failed to decode config file %s: %w", path, diags)
	}
	return cfg, nil
}

// ConfigFromEnv builds the host configuration: defaults, then the file
// named by CLAPGO_CONFIG, then the individual CLAPGO_* overrides.
func ConfigFromEnv(lookup func(string) (string, bool)) (*Config, error) {
	cfg := DefaultConfig()

	if path, ok := lookup(EnvConfig); ok && path != "" {
		var err error
		if cfg, err = LoadConfigFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if v, ok := lookup(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvLogFormat); ok {
		cfg.LogFormat = v
	}
	if v, ok := lookup(EnvDefaults); ok {
		cfg.DefaultsPath = v
	}
	for name, dst := range map[string]*bool{EnvBackground: &cfg.Background, EnvIgnoreUnknown: &cfg.IgnoreUnknown} {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s '%s': %w", name, v, err)
		}
		*dst = b
	}

	return NewConfig(cfg)
}
