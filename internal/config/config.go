package config

import (
	"fmt"
	"os"
)

// Config holds all runtime configuration read from the environment.
type Config struct {
	Port        string
	DatabaseURL string
	RedisHost   string
	RedisPort   string
	RedisPass   string
	RedisDB     string

	TelegramToken string
	OpenAIKey     string

	// MiniAppURL is the base URL of the web client; entry deep links are
	// built as MiniAppURL + "/entry/" + id.
	MiniAppURL string
	// WebhookURL, when set, switches the bot from long polling to a
	// Telegram webhook at WebhookURL + "/webhook".
	WebhookURL string

	UploadsDir string
	// Timezone used to stamp the date of voice entries.
	Timezone string
}

// Load reads configuration from environment variables, applying local
// development defaults.
func Load() *Config {
	cfg := &Config{
		Port:          getEnvOrDefault("PORT", "3001"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisHost:     getEnvOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPass:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvOrDefault("REDIS_DB", "0"),
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		MiniAppURL:    getEnvOrDefault("MINI_APP_URL", "http://localhost:3000"),
		WebhookURL:    os.Getenv("WEBHOOK_URL"),
		UploadsDir:    getEnvOrDefault("UPLOADS_DIR", "./uploads"),
		Timezone:      getEnvOrDefault("JOURNAL_TIMEZONE", "Europe/Lisbon"),
	}

	if cfg.DatabaseURL == "" {
		host := getEnvOrDefault("POSTGRES_HOST", "localhost")
		port := getEnvOrDefault("POSTGRES_PORT", "5432")
		user := getEnvOrDefault("POSTGRES_USER", "postgres")
		password := os.Getenv("POSTGRES_PASSWORD")
		dbname := getEnvOrDefault("POSTGRES_DB", "therapy_journal")
		sslmode := getEnvOrDefault("POSTGRES_SSLMODE", "disable")

		cfg.DatabaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			user, password, host, port, dbname, sslmode)
	}

	return cfg
}

// getEnvOrDefault returns the environment variable value or a default value if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
