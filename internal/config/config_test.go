package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":443", cfg.Addr)
	assert.Equal(t, "server.crt", cfg.TLSCert)
	assert.Equal(t, "server.key", cfg.TLSKey)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 1.0, cfg.RateLimit)
	assert.Equal(t, 3, cfg.RateBurst)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoadEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ADDR", ":8443")
	t.Setenv("TOKEN_KEY", "secret")
	t.Setenv("DATABASE_URL", "postgres://deck@localhost/deck")
	t.Setenv("RATE_BURST", "10")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8443", cfg.Addr)
	assert.Equal(t, "secret", cfg.TokenKey)
	assert.Equal(t, "postgres://deck@localhost/deck", cfg.DatabaseURL)
	assert.Equal(t, 10, cfg.RateBurst)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.NoError(t, cfg.RequireServer())
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "deckwright.yaml"),
		[]byte("price_book_path: prices.yaml\nrate_limit: 5\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("SPAN_TABLE_PATH=spans.yaml\n"), 0o644))
	t.Setenv("SPAN_TABLE_PATH", "")
	os.Unsetenv("SPAN_TABLE_PATH")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "prices.yaml", cfg.PriceBookPath)
	assert.Equal(t, 5.0, cfg.RateLimit)
	assert.Equal(t, "spans.yaml", cfg.SpanTablePath)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"LOG_LEVEL", "loud", "LOG_LEVEL"},
		{"RATE_LIMIT", "0", "RATE_LIMIT"},
		{"RATE_BURST", "0", "RATE_BURST"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestRequireServer(t *testing.T) {
	assert.ErrorContains(t, (&Config{}).RequireServer(), "TOKEN_KEY")
}
