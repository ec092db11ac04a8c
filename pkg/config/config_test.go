package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, int64(0), cfg.MaxBytes)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := writeConfig(t, "http_addr: \":9999\"\nmax_bytes: 1048576\nlog_level: debug\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, int64(1048576), cfg.MaxBytes)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "http_addr: [broken\n")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "http_addr: \":9999\"\nmax_bytes: 100\n")

	t.Setenv("MEMBOX_HTTP_ADDR", ":7777")
	t.Setenv("MEMBOX_MAX_BYTES", "200")
	t.Setenv("MEMBOX_LOG_LEVEL", "warn")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":7777", cfg.HTTPAddr)
	assert.Equal(t, int64(200), cfg.MaxBytes)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfig_EnvOnly(t *testing.T) {
	t.Setenv("MEMBOX_MAX_BYTES", "4096")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, int64(4096), cfg.MaxBytes)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		yaml string
	}{
		{
			name: "bad MEMBOX_MAX_BYTES",
			env:  map[string]string{"MEMBOX_MAX_BYTES": "lots"},
		},
		{
			name: "negative max_bytes",
			yaml: "max_bytes: -1\n",
		},
		{
			name: "unknown log level",
			yaml: "log_level: loud\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.yaml != "" {
				path = writeConfig(t, tt.yaml)
			}
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}
