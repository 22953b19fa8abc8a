package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port             string        `env:"PORT, default=3000"`
	DataFile         string        `env:"DATA_FILE, default=data.json"`
	BackupDir        string        `env:"BACKUP_DIR, default=."`
	AutosaveInterval time.Duration `env:"AUTOSAVE_INTERVAL, default=5m"`
	DatabaseURL      string        `env:"DB_URL"`
	LogLevel         string        `env:"LOG_LEVEL, default=info"`
	LogFormat        string        `env:"LOG_FORMAT, default=json"`
	AllowedOrigins   []string      `env:"ALLOWED_ORIGINS, default=http://localhost:3000"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT, default=5s"`
	GinMode          string        `env:"GIN_MODE, default=release"`

	// DotEnvLoaded is true when a .env file was found and applied.
	DotEnvLoaded bool
}

// Load reads an optional .env file and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	loaded := godotenv.Load() == nil

	cfg, err := loadFrom(ctx, envconfig.OsLookuper())
	if err != nil {
		return nil, err
	}
	cfg.DotEnvLoaded = loaded
	return cfg, nil
}

func loadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to parse configuration from environment: %w", err)
	}
	if cfg.AutosaveInterval <= 0 {
		return nil, fmt.Errorf("AUTOSAVE_INTERVAL must be positive, got %s", cfg.AutosaveInterval)
	}

	return &cfg, nil
}
