package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	DBConn   string
	LogLevel string

	// External services
	BankAPIBase      string
	LedgerWebhookURL string

	// HTTP client
	HTTPTimeout time.Duration

	// Webhook retry policy
	WebhookMaxRetries  int
	WebhookBackoffBase time.Duration
	WebhookHMACSecret  string

	// Overdue installment sweep
	SweepSchedule string

	// SMTP (ops digest emails; disabled when OpsEmail is empty)
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
	OpsEmail     string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		DBConn:             getEnv("DB_CONN", "host=localhost port=5432 user=postgres password=postgres dbname=gerald sslmode=disable"),
		LogLevel:           getEnv("LOG_LEVEL", "INFO"),
		BankAPIBase:        getEnv("BANK_API_BASE", "http://localhost:8001"),
		LedgerWebhookURL:   getEnv("LEDGER_WEBHOOK_URL", "http://localhost:8002/mock-ledger"),
		HTTPTimeout:        getEnvDuration("HTTP_TIMEOUT_SECONDS", 5),
		WebhookMaxRetries:  getEnvInt("WEBHOOK_MAX_RETRIES", 5),
		WebhookBackoffBase: getEnvDuration("WEBHOOK_BACKOFF_BASE_SECONDS", 1),
		WebhookHMACSecret:  getEnv("WEBHOOK_HMAC_SECRET", "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6"),
		SweepSchedule:      getEnv("SWEEP_SCHEDULE", "0 6 * * *"),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getEnv("SMTP_PORT", "587"),
		SMTPUsername:       getEnv("SMTP_USERNAME", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		SenderEmail:        getEnv("SENDER_EMAIL", "noreply@gerald.local"),
		OpsEmail:           getEnv("OPS_EMAIL", ""),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.BankAPIBase == "" {
		return nil, fmt.Errorf("BANK_API_BASE is required")
	}
	if cfg.LedgerWebhookURL == "" {
		return nil, fmt.Errorf("LEDGER_WEBHOOK_URL is required")
	}
	if cfg.WebhookMaxRetries < 1 {
		return nil, fmt.Errorf("WEBHOOK_MAX_RETRIES must be at least 1")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultSeconds float64) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return time.Duration(f * float64(time.Second))
		}
	}
	return time.Duration(defaultSeconds * float64(time.Second))
}
