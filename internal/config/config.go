package config

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	// Optional vars fall back to a default; features degrade gracefully
	// (e.g. email switches to simulated mode without an API key).
	getEnvOr := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		return fallback
	}

	cfg := Config{
		DBName:        getEnv("DB_NAME"),
		MigrationsDir: getEnvOr("MIGRATIONS_DIR", "./migrations"),
		Port:          getEnv("PORT"),
		BaseURL:       getEnvOr("BASE_URL", "http://localhost:8080"),
		Turso: TursoConfig{
			PrimaryURL: getEnvOr("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnvOr("TURSO_AUTH_TOKEN", ""),
		},
		Email: EmailConfig{
			Endpoint: getEnvOr("EMAIL_ENDPOINT", "https://api.resend.com/emails"),
			APIKey:   getEnvOr("EMAIL_API_KEY", ""),
			From:     getEnvOr("EMAIL_FROM", "no-reply@courtmate.app"),
		},
		Slack: SlackConfig{
			Token:         getEnvOr("SLACK_BOT_TOKEN", ""),
			ChannelID:     getEnvOr("SLACK_CHANNEL_ID", ""),
			SigningSecret: getEnvOr("SLACK_SIGNING_SECRET", ""),
		},
		ProjectID: getEnvOr("GCP_PROJECT", ""),
	}
	return cfg
}
