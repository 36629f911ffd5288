package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	BaseURL       string // public origin used for share/referral links
	Turso         TursoConfig
	Email         EmailConfig
	Slack         SlackConfig
	ProjectID     string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// EmailConfig configures the transactional email collaborator. When
// APIKey is empty the client runs in simulated mode.
type EmailConfig struct {
	Endpoint string
	APIKey   string
	From     string
}

type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}
