package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory    = "memory"
	StorageFirestore = "firestore"
)

type Config struct {
	ServerPort     string
	Environment    string
	AllowedOrigins []string

	StorageBackend             string
	FirebaseProject            string
	FirebaseServiceAccount     string
	FirebaseServiceAccountPath string

	GeminiAPIKey    string
	GeminiModel     string
	AdvisoryTimeout time.Duration
	AdvisoryRate    int // requests per minute per user

	EscrowHold          time.Duration
	AutoReleaseInterval time.Duration
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		StorageBackend:             getEnv("STORAGE_BACKEND", StorageMemory),
		FirebaseProject:            getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseServiceAccount:     getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		FirebaseServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),

		// API_KEY is the name the web prototype used; GEMINI_API_KEY wins when both are set.
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", getEnv("API_KEY", "")),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		AdvisoryTimeout: time.Duration(getEnvAsInt64("ADVISORY_TIMEOUT_SECONDS", 15)) * time.Second,
		AdvisoryRate:    int(getEnvAsInt64("ADVISORY_RATE_PER_MINUTE", 10)),

		EscrowHold:          time.Duration(getEnvAsInt64("ESCROW_HOLD_HOURS", 24)) * time.Hour,
		AutoReleaseInterval: time.Duration(getEnvAsInt64("AUTO_RELEASE_INTERVAL_MINUTES", 10)) * time.Minute,
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case StorageMemory:
	case StorageFirestore:
		if c.FirebaseProject == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required when STORAGE_BACKEND=firestore")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.AdvisoryRate <= 0 {
		return fmt.Errorf("ADVISORY_RATE_PER_MINUTE must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// FirebaseConfigured reports whether credentials are available for the
// Firebase Admin SDK (auth and Firestore).
func (c *Config) FirebaseConfigured() bool {
	return c.FirebaseProject != "" && (c.FirebaseServiceAccount != "" || c.FirebaseServiceAccountPath != "")
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
