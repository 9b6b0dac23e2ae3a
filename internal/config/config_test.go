// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatewarden Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatewarden/gatewarden/internal/auth"
	"github.com/gatewarden/gatewarden/internal/config"
	"github.com/gatewarden/gatewarden/pkg/errutil"
)

func newFlagSet(t *testing.T) *pflag.FlagSet {
	t.Helper()
	defaults := config.Default()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("http-addr", defaults.HTTPAddr, "")
	flags.String("metrics-addr", defaults.MetricsAddr, "")
	flags.String("database-url", "", "")
	flags.String("provisioning-url", "", "")
	flags.Duration("provisioning-timeout", defaults.ProvisioningTimeout, "")
	flags.Int("session-token-bytes", defaults.SessionTokenBytes, "")
	flags.String("log-format", defaults.LogFormat, "")
	return flags
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTPAddr)
	assert.Equal(t, "127.0.0.1:9100", cfg.MetricsAddr)
	assert.Equal(t, 10*time.Second, cfg.ProvisioningTimeout)
	assert.Equal(t, auth.DefaultTokenBytes, cfg.SessionTokenBytes)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad(t *testing.T) {
	t.Run("file values override defaults", func(t *testing.T) {
		path := writeConfigFile(t, `
http-addr: "0.0.0.0:9999"
database-url: "postgres://localhost/gatewarden"
provisioning-url: "http://provisioning.internal"
log-format: "text"
`)

		cfg, err := config.Load(path, newFlagSet(t))
		require.NoError(t, err)
		assert.Equal(t, "0.0.0.0:9999", cfg.HTTPAddr)
		assert.Equal(t, "postgres://localhost/gatewarden", cfg.DatabaseURL)
		assert.Equal(t, "http://provisioning.internal", cfg.ProvisioningURL)
		assert.Equal(t, "text", cfg.LogFormat)

		// Untouched keys keep their defaults.
		assert.Equal(t, "127.0.0.1:9100", cfg.MetricsAddr)
		assert.Equal(t, auth.DefaultTokenBytes, cfg.SessionTokenBytes)
	})

	t.Run("explicit flags override file values", func(t *testing.T) {
		path := writeConfigFile(t, `
http-addr: "0.0.0.0:9999"
database-url: "postgres://localhost/gatewarden"
provisioning-url: "http://provisioning.internal"
`)

		flags := newFlagSet(t)
		require.NoError(t, flags.Set("http-addr", "127.0.0.1:7777"))
		require.NoError(t, flags.Set("session-token-bytes", "48"))

		cfg, err := config.Load(path, flags)
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:7777", cfg.HTTPAddr)
		assert.Equal(t, 48, cfg.SessionTokenBytes)
		assert.Equal(t, "postgres://localhost/gatewarden", cfg.DatabaseURL)
	})

	t.Run("flags alone are sufficient", func(t *testing.T) {
		flags := newFlagSet(t)
		require.NoError(t, flags.Set("database-url", "postgres://localhost/gatewarden"))
		require.NoError(t, flags.Set("provisioning-url", "http://provisioning.internal"))

		cfg, err := config.Load("", flags)
		require.NoError(t, err)
		assert.Equal(t, "postgres://localhost/gatewarden", cfg.DatabaseURL)
	})

	t.Run("missing file fails", func(t *testing.T) {
		cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"), newFlagSet(t))
		require.Error(t, err)
		assert.Nil(t, cfg)
		errutil.AssertErrorCode(t, err, "CONFIG_FILE_FAILED")
	})

	t.Run("missing required values fail validation", func(t *testing.T) {
		cfg, err := config.Load("", newFlagSet(t))
		require.Error(t, err)
		assert.Nil(t, cfg)
		errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *config.Config {
		cfg := config.Default()
		cfg.DatabaseURL = "postgres://localhost/gatewarden"
		cfg.ProvisioningURL = "http://provisioning.internal"
		return cfg
	}

	t.Run("complete config passes", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{name: "empty http-addr", mutate: func(c *config.Config) { c.HTTPAddr = "" }},
		{name: "empty database-url", mutate: func(c *config.Config) { c.DatabaseURL = "" }},
		{name: "empty provisioning-url", mutate: func(c *config.Config) { c.ProvisioningURL = "" }},
		{name: "zero provisioning-timeout", mutate: func(c *config.Config) { c.ProvisioningTimeout = 0 }},
		{name: "token entropy below minimum", mutate: func(c *config.Config) { c.SessionTokenBytes = auth.MinTokenBytes - 1 }},
		{name: "unknown log-format", mutate: func(c *config.Config) { c.LogFormat = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
		})
	}

	t.Run("empty metrics-addr is allowed", func(t *testing.T) {
		cfg := valid()
		cfg.MetricsAddr = ""
		require.NoError(t, cfg.Validate())
	})
}
