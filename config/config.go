package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultFeedURL is the data.gouv.fr snapshot of certified organic operators.
const DefaultFeedURL = "https://www.data.gouv.fr/fr/datasets/r/657789db-d349-4554-aef6-eabde4bd1c57"

type Config struct {
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	FeedURL            string
	FeedTimeoutSeconds int

	Port string
}

// LoadConfig reads the configuration from the environment, after a
// best-effort .env load. Postgres settings stay empty unless provided;
// the sqlite driver is the default store.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBPath:     getEnv("DB_PATH", "conso_database.db"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		FeedURL:            getEnv("FEED_URL", DefaultFeedURL),
		FeedTimeoutSeconds: getEnvInt("FEED_TIMEOUT_SECONDS", 300),

		Port: getEnv("PORT", "8080"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
