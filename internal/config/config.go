// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatewarden Contributors

// Package config loads service configuration from defaults, an optional YAML
// file, and command-line flags, in that order of precedence.
package config

import (
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/gatewarden/gatewarden/internal/auth"
	"github.com/gatewarden/gatewarden/internal/provisioning"
)

// Config holds the full service configuration.
type Config struct {
	// HTTPAddr is the listen address of the auth API.
	HTTPAddr string `koanf:"http-addr"`

	// MetricsAddr is the listen address of the metrics/health server.
	// Empty disables it.
	MetricsAddr string `koanf:"metrics-addr"`

	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string `koanf:"database-url"`

	// ProvisioningURL is the base URL of the user-provisioning system.
	ProvisioningURL string `koanf:"provisioning-url"`

	// ProvisioningTimeout bounds each provisioning request.
	ProvisioningTimeout time.Duration `koanf:"provisioning-timeout"`

	// SessionTokenBytes is the entropy per session token.
	SessionTokenBytes int `koanf:"session-token-bytes"`

	// LogFormat is "json" or "text".
	LogFormat string `koanf:"log-format"`
}

// Default returns a Config populated with defaults. Database and
// provisioning URLs have no sensible default and must be provided.
func Default() *Config {
	return &Config{
		HTTPAddr:            "127.0.0.1:8080",
		MetricsAddr:         "127.0.0.1:9100",
		ProvisioningTimeout: provisioning.DefaultTimeout,
		SessionTokenBytes:   auth.DefaultTokenBytes,
		LogFormat:           "json",
	}
}

// Load builds a Config from defaults, then the YAML file at path (if path is
// non-empty), then any explicitly set flags. The result is validated.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is complete and within bounds.
func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("http-addr is required")
	}
	if c.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database-url is required")
	}
	if c.ProvisioningURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("provisioning-url is required")
	}
	if c.ProvisioningTimeout <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("provisioning-timeout must be positive")
	}
	if c.SessionTokenBytes < auth.MinTokenBytes {
		return oops.Code("CONFIG_INVALID").
			With("session-token-bytes", c.SessionTokenBytes).
			Errorf("session-token-bytes must be at least %d", auth.MinTokenBytes)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").Errorf("log-format must be 'json' or 'text', got %q", c.LogFormat)
	}
	return nil
}
