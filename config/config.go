package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/yourusername/dollar-advisor/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	Port               string
	DatabaseURL        string
	JWTSecret          string
	OpenAIAPIKey       string
	ExchangeRateAPIKey string
	QuoteURL           string
	NewsURL            string
	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	SMTPFrom           string
}

func LoadConfig() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Port:               getEnvOrDefault("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		ExchangeRateAPIKey: os.Getenv("EXCHANGE_RATE_API_KEY"),
		QuoteURL:           getEnvOrDefault("QUOTE_URL", "https://www.alphavantage.co"),
		NewsURL:            getEnvOrDefault("NEWS_URL", "https://api.duckduckgo.com"),
		SMTPHost:           os.Getenv("SMTP_HOST"),
		SMTPUsername:       os.Getenv("SMTP_USERNAME"),
		SMTPPassword:       os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:           os.Getenv("SMTP_FROM"),
	}

	// The signing secret has no sane default; refusing to start beats
	// minting tokens every instance can forge.
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	required := []struct {
		name  string
		value string
	}{
		{"DATABASE_URL", cfg.DatabaseURL},
		{"OPENAI_API_KEY", cfg.OpenAIAPIKey},
		{"EXCHANGE_RATE_API_KEY", cfg.ExchangeRateAPIKey},
		{"SMTP_HOST", cfg.SMTPHost},
		{"SMTP_FROM", cfg.SMTPFrom},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, fmt.Errorf("%s must be set", r.name)
		}
	}

	port, err := strconv.Atoi(getEnvOrDefault("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	cfg.SMTPPort = port

	return cfg, nil
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.VerificationCode{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
