package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port         string   `mapstructure:"PORT"`
	Env          string   `mapstructure:"ENV"`
	DatabasePath string   `mapstructure:"DATABASE_PATH"`
	CORSOrigins  []string `mapstructure:"CORS_ORIGINS"`
	ExportDir    string   `mapstructure:"EXPORT_DIR"`
	RecentLimit  int      `mapstructure:"RECENT_LIMIT"`
}

// Load reads configuration from the environment, with an optional .env file
// for local development. An empty DATABASE_PATH selects the in-memory store.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DATABASE_PATH", "medscales.db")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("EXPORT_DIR", "exports")
	v.SetDefault("RECENT_LIMIT", 10)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_PATH")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("EXPORT_DIR")
	v.BindEnv("RECENT_LIMIT")

	// Try reading .env, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		if origins := v.GetString("CORS_ORIGINS"); origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}
	if cfg.RecentLimit <= 0 {
		return nil, fmt.Errorf("RECENT_LIMIT must be positive, got %d", cfg.RecentLimit)
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}
