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

	RazorpayKeyID         string
	RazorpaySecret        string
	RazorpayWebhookSecret string

	JWTSecret string

	SMTPHost   string
	SMTPPort   string
	SMTPUser   string
	SMTPPass   string
	FromEmail  string
	AdminEmail string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		AppPort:    os.Getenv("APP_PORT"),
		AppEnv:     os.Getenv("APP_ENV"),

		RazorpayKeyID:         os.Getenv("RAZORPAY_KEY_ID"),
		RazorpaySecret:        os.Getenv("RAZORPAY_SECRET"),
		RazorpayWebhookSecret: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		SMTPHost:   os.Getenv("SMTP_HOST"),
		SMTPPort:   os.Getenv("SMTP_PORT"),
		SMTPUser:   os.Getenv("SMTP_USER"),
		SMTPPass:   os.Getenv("SMTP_PASS"),
		FromEmail:  os.Getenv("FROM_EMAIL"),
		AdminEmail: os.Getenv("ADMIN_EMAIL"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	// Razorpay signs webhooks with the dashboard webhook secret, which may
	// differ from the API key secret.
	if cfg.RazorpayWebhookSecret == "" {
		cfg.RazorpayWebhookSecret = cfg.RazorpaySecret
	}

	return cfg
}
