package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string

	JWTSecret string

	// Payment provider (MercadoPago-style preference API).
	MPAccessToken   string
	SuccessURL      string
	PendingURL      string
	FailureURL      string
	NotificationURL string
	WebhookToken    string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:          os.Getenv("DB_HOST"),
		DBUser:          os.Getenv("DB_USER"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBName:          os.Getenv("DB_NAME"),
		DBPort:          os.Getenv("DB_PORT"),
		AppPort:         os.Getenv("APP_PORT"),
		AppEnv:          os.Getenv("APP_ENV"),
		JWTSecret:       os.Getenv("SECRET_KEY"),
		MPAccessToken:   os.Getenv("MP_ACCESS_TOKEN"),
		SuccessURL:      os.Getenv("PAYMENT_SUCCESS_URL"),
		PendingURL:      os.Getenv("PAYMENT_PENDING_URL"),
		FailureURL:      os.Getenv("PAYMENT_FAILURE_URL"),
		NotificationURL: os.Getenv("PAYMENT_NOTIFICATION_URL"),
		WebhookToken:    os.Getenv("PAYMENT_WEBHOOK_TOKEN"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}
