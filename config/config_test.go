package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func writeEnv(t *testing.T, content string) string {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, "development", config.Environment)
	require.Equal(t, "info", config.LogLevel)
	require.False(t, config.ParserDebug)
	require.Equal(t, FormatTree, config.OutputFormat)
	require.Equal(t, 10*time.Second, config.FetchTimeout)
	require.Equal(t, "saba/0.1", config.UserAgent)
	require.True(t, config.IsDevelopment())
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := writeEnv(t, "ENVIRONMENT=production\nLOG_LEVEL=debug\nPARSER_DEBUG=true\nOUTPUT_FORMAT=xml\nFETCH_TIMEOUT=3s\n")

	config, err := LoadConfig(dir)
	require.NoError(t, err)
	require.Equal(t, "production", config.Environment)
	require.True(t, config.ParserDebug)
	require.Equal(t, FormatXML, config.OutputFormat)
	require.Equal(t, 3*time.Second, config.FetchTimeout)
	require.False(t, config.IsDevelopment())

	level, err := config.Level()
	require.NoError(t, err)
	require.Equal(t, logrus.DebugLevel, level)
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	dir := writeEnv(t, "OUTPUT_FORMAT=xml\n")
	t.Setenv("OUTPUT_FORMAT", "html")
	t.Setenv("USER_AGENT", "custom")

	config, err := LoadConfig(dir)
	require.NoError(t, err)
	require.Equal(t, FormatHTML, config.OutputFormat)
	require.Equal(t, "custom", config.UserAgent)
}

func TestValidate(t *testing.T) {
	type tc struct {
		name      string
		config    Config
		wantError bool
	}

	valid := Config{LogLevel: "info", OutputFormat: FormatTree}
	tests := []tc{
		{name: "valid", config: valid},
		{name: "tokens_format", config: Config{LogLevel: "warn", OutputFormat: FormatTokens}},
		{name: "unknown_format", config: Config{LogLevel: "info", OutputFormat: "pdf"}, wantError: true},
		{name: "bad_level", config: Config{LogLevel: "loud", OutputFormat: FormatTree}, wantError: true},
		{name: "negative_timeout", config: Config{LogLevel: "info", OutputFormat: FormatTree, FetchTimeout: -time.Second}, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
