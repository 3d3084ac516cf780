package config

import (
	"os"
	"strconv"
	"strings"

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
	// Optional env var with a default.
	getEnvOr := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		return fallback
	}
	getEnvInt := func(key string, fallback int) int {
		value, ok := os.LookupEnv(key)
		if !ok {
			return fallback
		}
		parsed, err := strconv.Atoi(value)
		if err != nil {
			log.Fatalf("Error: Environment variable %s must be an integer, got %q.", key, value)
		}
		return parsed
	}

	cfg := Config{
		DBName:        getEnv("DB_NAME"),
		MigrationsDir: "./migrations",
		Slack: SlackConfig{
			Token:         getEnv("SLACK_BOT_TOKEN"),
			ChannelID:     getEnv("SLACK_CHANNEL_ID"),
			SigningSecret: getEnv("SLACK_SIGNING_SECRET"),
		},
		Port: getEnv("PORT"),
		Turso: TursoConfig{
			PrimaryURL: getEnv("TURSO_PRIMARY_URL"),
			AuthToken:  getEnv("TURSO_AUTH_TOKEN"),
		},
		ProjectID: getEnv("GCP_PROJECT"),
		Rating: RatingConfig{
			KFactor:           getEnvInt("RATING_K_FACTOR", 32),
			InitialScore:      getEnvInt("RATING_INITIAL_SCORE", 1200),
			FloorScoreAtZero:  getEnvOr("RATING_FLOOR_AT_ZERO", "true") == "true",
			MaxCommitAttempts: uint64(getEnvInt("RATING_MAX_COMMIT_ATTEMPTS", 3)),
		},
		Sports:   strings.Split(getEnvOr("SPORTS", "foosball,table-tennis"), ","),
		Blackout: loadBlackout(getEnvOr),
	}
	return cfg
}

func loadBlackout(getEnvOr func(key, fallback string) string) BlackoutConfig {
	cfg := BlackoutConfig{
		Enabled: getEnvOr("BLACKOUT_ENABLED", "false") == "true",
		Start:   getEnvOr("BLACKOUT_START", "09:00"),
		End:     getEnvOr("BLACKOUT_END", "17:00"),
	}
	if exempt := getEnvOr("BLACKOUT_EXEMPT_IDS", ""); exempt != "" {
		cfg.ExemptIDs = strings.Split(exempt, ",")
	}
	return cfg
}
