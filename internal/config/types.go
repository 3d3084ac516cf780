package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Slack         SlackConfig
	Turso         TursoConfig
	ProjectID     string
	Rating        RatingConfig
	Sports        []string
	Blackout      BlackoutConfig
}
type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// RatingConfig holds the Elo policy knobs.
type RatingConfig struct {
	KFactor           int
	InitialScore      int
	FloorScoreAtZero  bool
	MaxCommitAttempts uint64
}

// BlackoutConfig blocks match recording inside a daily window.
type BlackoutConfig struct {
	Enabled   bool
	Start     string
	End       string
	ExemptIDs []string
}
