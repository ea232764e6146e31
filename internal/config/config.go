package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Addr          string  `mapstructure:"addr"`
	TLSCert       string  `mapstructure:"tls_cert"`
	TLSKey        string  `mapstructure:"tls_key"`
	TokenKey      string  `mapstructure:"token_key"`
	DatabaseURL   string  `mapstructure:"database_url"`
	SpanTablePath string  `mapstructure:"span_table_path"`
	PriceBookPath string  `mapstructure:"price_book_path"`
	LogLevel      string  `mapstructure:"log_level"`
	RateLimit     float64 `mapstructure:"rate_limit"`
	RateBurst     int     `mapstructure:"rate_burst"`
}

// Load reads .env when present, then the environment and an optional
// deckwright.yaml in the working directory. Environment values win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("addr", ":443")
	v.SetDefault("tls_cert", "server.crt")
	v.SetDefault("tls_key", "server.key")
	v.SetDefault("token_key", "")
	v.SetDefault("database_url", "")
	v.SetDefault("span_table_path", "")
	v.SetDefault("price_book_path", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("rate_limit", 1.0)
	v.SetDefault("rate_burst", 3)

	v.SetConfigName("deckwright")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR must not be empty")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT must be positive, got %v", c.RateLimit)
	}
	if c.RateBurst < 1 {
		return fmt.Errorf("RATE_BURST must be at least 1, got %d", c.RateBurst)
	}
	return nil
}

// RequireServer checks the settings only the HTTP server needs.
func (c *Config) RequireServer() error {
	if c.TokenKey == "" {
		return fmt.Errorf("TOKEN_KEY is not set")
	}
	return nil
}
