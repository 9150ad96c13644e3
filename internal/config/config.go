package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	MongoURI string
	Database string
	Port     string

	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	MailFrom   string
	AdminEmail string

	GatewayBaseURL   string
	GatewaySecretKey string
	GatewayCurrency  string

	PayPalBaseURL      string
	PayPalClientID     string
	PayPalClientSecret string
	PayPalCurrency     string
	PayPalReturnURL    string
	PayPalCancelURL    string

	Bank BankDetails
}

// BankDetails are quoted verbatim in the bank transfer instructions email.
type BankDetails struct {
	Name          string
	AccountName   string
	AccountNumber string
	Swift         string
}

const (
	defaultDatabase      = "nonprofitdb"
	defaultPort          = "8080"
	defaultSMTPPort      = 587
	defaultGatewayCCY    = "KES"
	defaultPayPalCCY     = "USD"
	defaultPayPalBaseURL = "https://api-m.sandbox.paypal.com"
)

// Load reads .env (if present) and then the process environment.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil {
		log.Printf("Warning: Error loading .env: %s", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() (*Config, error) {
	cfg := &Config{
		MongoURI: os.Getenv("MONGOURI"),
		Database: getenv("MONGODB", defaultDatabase),
		Port:     getenv("PORT", defaultPort),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),

		GatewayBaseURL:   os.Getenv("GATEWAY_BASE_URL"),
		GatewaySecretKey: os.Getenv("GATEWAY_SECRET_KEY"),
		GatewayCurrency:  getenv("GATEWAY_CURRENCY", defaultGatewayCCY),

		PayPalBaseURL:      getenv("PAYPAL_BASE_URL", defaultPayPalBaseURL),
		PayPalClientID:     os.Getenv("PAYPAL_CLIENT_ID"),
		PayPalClientSecret: os.Getenv("PAYPAL_CLIENT_SECRET"),
		PayPalCurrency:     getenv("PAYPAL_CURRENCY", defaultPayPalCCY),
		PayPalReturnURL:    os.Getenv("PAYPAL_RETURN_URL"),
		PayPalCancelURL:    os.Getenv("PAYPAL_CANCEL_URL"),

		Bank: BankDetails{
			Name:          os.Getenv("BANK_NAME"),
			AccountName:   os.Getenv("BANK_ACCOUNT_NAME"),
			AccountNumber: os.Getenv("BANK_ACCOUNT_NUMBER"),
			Swift:         os.Getenv("BANK_SWIFT"),
		},
	}
	cfg.MailFrom = getenv("MAIL_FROM", cfg.SMTPUser)
	cfg.AdminEmail = getenv("ADMIN_EMAIL", cfg.SMTPUser)

	cfg.SMTPPort = defaultSMTPPort
	if raw := os.Getenv("SMTP_PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT %q: %w", raw, err)
		}
		cfg.SMTPPort = port
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	required := []struct {
		name, value string
	}{
		{"MONGOURI", c.MongoURI},
		{"SMTP_HOST", c.SMTPHost},
		{"ADMIN_EMAIL", c.AdminEmail},
		{"GATEWAY_BASE_URL", c.GatewayBaseURL},
		{"GATEWAY_SECRET_KEY", c.GatewaySecretKey},
		{"PAYPAL_CLIENT_ID", c.PayPalClientID},
		{"PAYPAL_CLIENT_SECRET", c.PayPalClientSecret},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s environment variable not set", r.name)
		}
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
