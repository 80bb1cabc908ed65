package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Restaurant catalog
	RestaurantName    string
	RestaurantPhone   string
	RestaurantEmail   string
	RestaurantAddress string
	RestaurantMapsURL string
	DefaultLanguage   string

	// StrictTemporalParsing rejects date/time slots that could not be parsed
	// instead of silently booking the Saturday 7 PM defaults.
	StrictTemporalParsing bool

	// Reservation store
	StoreBackend          string
	SheetsSpreadsheetID   string
	SheetsWorksheet       string
	GoogleCredentialsFile string
	DatabaseURL           string

	// Availability predictor artifact
	ModelPath     string
	ModelS3Bucket string
	ModelS3Key    string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Email Configuration
	EmailProvider    string
	EmailFromAddress string
	EmailFromName    string
	SendGridAPIKey   string
	MailerSendAPIKey string
	EmailSendTimeout time.Duration
	SESConfigSet     string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from environment variables
func Load() *Config {
	name := getEnv("RESTAURANT_NAME", "La Tavola")
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		RestaurantName:    name,
		RestaurantPhone:   getEnv("RESTAURANT_PHONE", "+41 44 123 45 67"),
		RestaurantEmail:   getEnv("RESTAURANT_EMAIL", "hello@latavola.example"),
		RestaurantAddress: getEnv("RESTAURANT_ADDRESS", "Bahnhofstrasse 12, 8001 Zurich"),
		RestaurantMapsURL: getEnv("RESTAURANT_MAPS_URL", "https://maps.google.com/?q=Bahnhofstrasse+12+Zurich"),
		DefaultLanguage:   strings.ToLower(strings.TrimSpace(getEnv("DEFAULT_LANGUAGE", "en"))),

		StrictTemporalParsing: getEnvAsBool("STRICT_TEMPORAL_PARSING", true),

		StoreBackend:          strings.ToLower(strings.TrimSpace(getEnv("STORE_BACKEND", "memory"))),
		SheetsSpreadsheetID:   getEnv("SHEETS_SPREADSHEET_ID", ""),
		SheetsWorksheet:       getEnv("SHEETS_WORKSHEET", "Reservations"),
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
		DatabaseURL:           getEnv("DATABASE_URL", ""),

		ModelPath:     getEnv("MODEL_PATH", "models/occupancy.json"),
		ModelS3Bucket: getEnv("MODEL_S3_BUCKET", ""),
		ModelS3Key:    getEnv("MODEL_S3_KEY", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		EmailProvider:    strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "auto"))),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", ""),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", name),
		SendGridAPIKey:   getEnv("SENDGRID_API_KEY", ""),
		MailerSendAPIKey: getEnv("MAILERSEND_API_KEY", ""),
		EmailSendTimeout: getEnvAsDuration("EMAIL_SEND_TIMEOUT", 10*time.Second),
		SESConfigSet:     getEnv("SES_CONFIGURATION_SET", ""),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 20),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
