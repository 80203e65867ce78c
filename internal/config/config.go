package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL        string
	TranscribeBaseURL string
	RedisURL          string
	DraftDBPath       string
	Environment       string
	Events            EventConfig
}

func LoadConfig() (*Config, error) {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	return &Config{
		APIBaseURL:        getEnv("API_BASE_URL", "http://localhost:8000"),
		TranscribeBaseURL: getEnv("TRANSCRIBE_BASE_URL", "http://localhost:8000"),
		RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379"),
		DraftDBPath:       getEnv("DRAFT_DB_PATH", "amplify-drafts.db"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		Events: EventConfig{
			Enabled:      getEnv("EVENTS_ENABLED", "false") == "true",
			Publisher:    getEnv("EVENTS_PUBLISHER", "kafka"),
			KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),
			SessionTopic: getEnv("SESSION_TOPIC", "taking-sessions"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
