package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "symexpr.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Equal(t, 4, cfg.WorksheetConcurrency)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := writeFile(t, `
addr: "127.0.0.1:9090"
shutdown_timeout: 2s
log_level: debug
log_format: json
worksheet_concurrency: 16
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	want := Default()
	want.Addr = "127.0.0.1:9090"
	want.ShutdownTimeout = 2 * time.Second
	want.LogLevel = "debug"
	want.LogFormat = "json"
	want.WorksheetConcurrency = 16
	assert.Equal(t, want, cfg)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("bad yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "addr: [unclosed"))
		assert.Error(t, err)
	})
	t.Run("invalid values", func(t *testing.T) {
		_, err := Load(writeFile(t, "log_level: loud\n"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.Contains(t, err.Error(), `log_level "loud"`)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty addr", func(c *Config) { c.Addr = "" }, "addr must not be empty"},
		{"zero timeout", func(c *Config) { c.ReadTimeout = 0 }, "read_timeout must be positive"},
		{"negative body", func(c *Config) { c.MaxBodyBytes = -1 }, "max_body_bytes must be positive"},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, `log_format "xml"`},
		{"no workers", func(c *Config) { c.WorksheetConcurrency = 0 }, "worksheet_concurrency must be >= 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
