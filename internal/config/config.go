package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds everything main needs to wire the process. It is resolved
// exactly once, at startup, and injected from there.
type Config struct {
	Port           string
	Env            string
	DatabaseURL    string
	MigrationsPath string
}

// Load reads the environment and resolves the database connection string.
// Resolution priority: DATABASE_URL; else, in production with a project id
// configured, a Secret Manager lookup; else a configuration error.
func Load(ctx context.Context) (*Config, error) {
	viper.SetDefault("APP_PORT", ":3000")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DB_SECRET_NAME", "database-url")
	viper.SetDefault("MIGRATIONS_PATH", "migrations/init.sql")
	viper.AutomaticEnv()

	cfg := &Config{
		Port:           viper.GetString("APP_PORT"),
		Env:            viper.GetString("APP_ENV"),
		MigrationsPath: viper.GetString("MIGRATIONS_PATH"),
	}

	url, err := resolveDatabaseURL(ctx, cfg.Env)
	if err != nil {
		return nil, err
	}
	cfg.DatabaseURL = ensureSSLMode(url, cfg.Env)

	return cfg, nil
}

// IsProduction reports whether the process runs in a managed production
// environment. Gates the secret lookup and encrypted-transport defaults.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func resolveDatabaseURL(ctx context.Context, env string) (string, error) {
	if url := viper.GetString("DATABASE_URL"); url != "" {
		return url, nil
	}

	if env == "production" {
		if project := viper.GetString("GCP_PROJECT_ID"); project != "" {
			url, err := fetchManagedSecret(ctx, project, viper.GetString("DB_SECRET_NAME"))
			if err != nil {
				return "", fmt.Errorf("resolve database secret: %w", err)
			}
			return url, nil
		}
	}

	return "", errors.New("no database configuration: set DATABASE_URL, or GCP_PROJECT_ID in production")
}

// ensureSSLMode forces encrypted transport in production when the connection
// string does not already pick an sslmode.
func ensureSSLMode(url, env string) string {
	if env != "production" || strings.Contains(url, "sslmode=") {
		return url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "sslmode=require"
}
