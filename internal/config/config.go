package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port           int
	NatsURL        string
	NatsToken      string
	DatabaseURL    string
	LogLevel       string
	ChronicleURL   string
	ChronicleToken string
	APIToken       string
	BackfillDir    string
	BackfillState  string
	MinMessages    int
}

func Load() Config {
	return Config{
		Port:           envInt("SCRIBE_PORT", 8760),
		NatsURL:        envStr("NATS_URL", "nats://hermes:4222"),
		NatsToken:      envStr("NATS_TOKEN", ""),
		DatabaseURL:    envStr("DATABASE_URL", ""),
		LogLevel:       envStr("LOG_LEVEL", "info"),
		ChronicleURL:   envStr("CHRONICLE_URL", "http://chronicle:8700"),
		ChronicleToken: envStr("CHRONICLE_TOKEN", ""),
		APIToken:       envStr("SCRIBE_API_TOKEN", ""),
		BackfillDir:    envStr("SCRIBE_BACKFILL_DIR", ""),
		BackfillState:  envStr("SCRIBE_BACKFILL_STATE", ""),
		MinMessages:    envInt("SCRIBE_MIN_MESSAGES", 1),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
