package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"translatebot/internal/secrets"

	"github.com/joho/godotenv"
)

// Platform is the chat platform the bot connects to
type Platform string

const (
	PlatformTelegram   Platform = "telegram"
	PlatformMattermost Platform = "mattermost"
)

// ParsePlatform normalizes a platform name from the environment or a flag
func ParsePlatform(name string) Platform {
	return Platform(strings.ToLower(strings.TrimSpace(name)))
}

// Config holds all application configuration
type Config struct {
	Platform      Platform
	BotToken      string
	SigningSecret string
	IOAPIKey      string

	TranslateBackend string
	TranslateAPIURL  string
	OpenAIModel      string

	MattermostURL string
	HTTPAddr      string
	ParamPrefix   string

	JournalRetentionDays int
	Database             DatabaseConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// Load reads configuration from .env files and environment variables.
// Required values are checked by Validate, after secrets are resolved.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		// Try to load .env file (ignore error if not exists)
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	retention, err := strconv.Atoi(getEnv("JOURNAL_RETENTION_DAYS", "30"))
	if err != nil || retention <= 0 {
		return nil, fmt.Errorf("JOURNAL_RETENTION_DAYS must be a positive integer")
	}

	cfg := &Config{
		Platform:             ParsePlatform(getEnv("PLATFORM", string(PlatformTelegram))),
		BotToken:             os.Getenv("BOT_TOKEN"),
		SigningSecret:        os.Getenv("SIGNING_SECRET"),
		IOAPIKey:             os.Getenv("IO_API_KEY"),
		TranslateBackend:     getEnv("TRANSLATE_BACKEND", "ionet"),
		TranslateAPIURL:      os.Getenv("TRANSLATE_API_URL"),
		OpenAIModel:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		MattermostURL:        os.Getenv("MATTERMOST_URL"),
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		ParamPrefix:          strings.TrimRight(os.Getenv("PARAM_PREFIX"), "/"),
		JournalRetentionDays: retention,
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "translatebot"),
			User:     getEnv("DB_USER", "translatebot"),
			Password: os.Getenv("DB_PASSWORD"),
		},
	}

	return cfg, nil
}

// Validate checks that every value required by the selected platform is set
func (c *Config) Validate() error {
	switch c.Platform {
	case PlatformTelegram, PlatformMattermost:
	default:
		return fmt.Errorf("PLATFORM must be %q or %q, got %q", PlatformTelegram, PlatformMattermost, c.Platform)
	}

	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.IOAPIKey == "" {
		return fmt.Errorf("IO_API_KEY is required")
	}

	if c.Platform == PlatformMattermost {
		if c.SigningSecret == "" {
			return fmt.Errorf("SIGNING_SECRET is required for mattermost")
		}
		if c.MattermostURL == "" {
			return fmt.Errorf("MATTERMOST_URL is required for mattermost")
		}
	}

	return nil
}

// ResolveSecrets fills empty credentials from the parameter store under
// ParamPrefix. Parameters that do not exist are left empty.
func (c *Config) ResolveSecrets(ctx context.Context, store secrets.Getter) error {
	if c.ParamPrefix == "" {
		return nil
	}

	fields := []struct {
		name  string
		value *string
	}{
		{name: "bot-token", value: &c.BotToken},
		{name: "signing-secret", value: &c.SigningSecret},
		{name: "io-api-key", value: &c.IOAPIKey},
	}

	for _, f := range fields {
		if *f.value != "" {
			continue
		}
		v, err := store.GetParameter(ctx, c.ParamPrefix+"/"+f.name)
		if errors.Is(err, secrets.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", f.name, err)
		}
		*f.value = v
	}

	return nil
}

// JournalEnabled reports whether the translation journal database is configured
func (c *Config) JournalEnabled() bool {
	return c.Database.Password != ""
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
