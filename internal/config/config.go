package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the application configuration.
type Config struct {
	ServerPort    int    `envconfig:"PORT" default:"8080"`
	DatabasePath  string `envconfig:"DATABASE_PATH" default:"./visaguard.db"`
	JWTSecret     string `envconfig:"JWT_SECRET" default:"dev-secret-change-me"`
	SnapshotDir   string `envconfig:"SNAPSHOT_DIR" default:"./snapshots"`
	SnapshotCron  string `envconfig:"SNAPSHOT_CRON" default:"@hourly"`
	SnapshotKeep  int    `envconfig:"SNAPSHOT_KEEP" default:"24"`
	AppEnv        string `envconfig:"APP_ENV" default:"development"`
	AllowedOrigin string `envconfig:"ALLOWED_ORIGIN" default:"http://localhost:3000"`
}

// Load reads configuration from the environment, with a .env file as a
// fallback for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
