package config

import (
	"os"
	"testing"
)

func TestLoadConfig_ReadsEnvVars(t *testing.T) {
	env := map[string]string{
		"DB_DRIVER":            "postgres",
		"DB_PATH":              "/tmp/test.db",
		"DB_HOST":              "localhost",
		"DB_PORT":              "5432",
		"DB_USER":              "user1",
		"DB_PASSWORD":          "pass1",
		"DB_NAME":              "db1",
		"FEED_URL":             "http://feed.example/export.csv",
		"FEED_TIMEOUT_SECONDS": "60",
		"PORT":                 "9090",
	}

	for k, v := range env {
		os.Setenv(k, v)
		t.Cleanup(func(key string) func() {
			return func() { os.Unsetenv(key) }
		}(k))
	}

	cfg := LoadConfig()

	if cfg.DBDriver != env["DB_DRIVER"] {
		t.Fatalf("DBDriver=%q want %q", cfg.DBDriver, env["DB_DRIVER"])
	}
	if cfg.DBPath != env["DB_PATH"] {
		t.Fatalf("DBPath=%q want %q", cfg.DBPath, env["DB_PATH"])
	}
	if cfg.DBHost != env["DB_HOST"] {
		t.Fatalf("DBHost=%q want %q", cfg.DBHost, env["DB_HOST"])
	}
	if cfg.DBPort != env["DB_PORT"] {
		t.Fatalf("DBPort=%q want %q", cfg.DBPort, env["DB_PORT"])
	}
	if cfg.DBUser != env["DB_USER"] {
		t.Fatalf("DBUser=%q want %q", cfg.DBUser, env["DB_USER"])
	}
	if cfg.DBPassword != env["DB_PASSWORD"] {
		t.Fatalf("DBPassword=%q want %q", cfg.DBPassword, env["DB_PASSWORD"])
	}
	if cfg.DBName != env["DB_NAME"] {
		t.Fatalf("DBName=%q want %q", cfg.DBName, env["DB_NAME"])
	}
	if cfg.FeedURL != env["FEED_URL"] {
		t.Fatalf("FeedURL=%q want %q", cfg.FeedURL, env["FEED_URL"])
	}
	if cfg.FeedTimeoutSeconds != 60 {
		t.Fatalf("FeedTimeoutSeconds=%d want 60", cfg.FeedTimeoutSeconds)
	}
	if cfg.Port != env["PORT"] {
		t.Fatalf("Port=%q want %q", cfg.Port, env["PORT"])
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	keys := []string{
		"DB_DRIVER",
		"DB_PATH",
		"DB_HOST",
		"DB_PORT",
		"DB_USER",
		"DB_PASSWORD",
		"DB_NAME",
		"FEED_URL",
		"FEED_TIMEOUT_SECONDS",
		"PORT",
	}

	for _, k := range keys {
		os.Unsetenv(k)
	}

	cfg := LoadConfig()

	if cfg.DBDriver != "sqlite" {
		t.Fatalf("DBDriver=%q want sqlite", cfg.DBDriver)
	}
	if cfg.DBPath != "conso_database.db" {
		t.Fatalf("DBPath=%q want conso_database.db", cfg.DBPath)
	}
	if cfg.FeedURL != DefaultFeedURL {
		t.Fatalf("FeedURL=%q want default feed URL", cfg.FeedURL)
	}
	if cfg.FeedTimeoutSeconds != 300 {
		t.Fatalf("FeedTimeoutSeconds=%d want 300", cfg.FeedTimeoutSeconds)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port=%q want 8080", cfg.Port)
	}
	if cfg.DBHost != "" || cfg.DBUser != "" || cfg.DBPassword != "" || cfg.DBName != "" {
		t.Fatalf("expected empty postgres settings, got: %+v", cfg)
	}
}

func TestLoadConfig_InvalidTimeout_FallsBackToDefault(t *testing.T) {
	os.Setenv("FEED_TIMEOUT_SECONDS", "not-a-number")
	t.Cleanup(func() { os.Unsetenv("FEED_TIMEOUT_SECONDS") })

	cfg := LoadConfig()

	if cfg.FeedTimeoutSeconds != 300 {
		t.Fatalf("FeedTimeoutSeconds=%d want 300", cfg.FeedTimeoutSeconds)
	}
}
