package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("MONGOURI", "mongodb://localhost:27017")
	t.Setenv("SMTP_HOST", "smtp.example.org")
	t.Setenv("SMTP_USER", "mailer@example.org")
	t.Setenv("GATEWAY_BASE_URL", "https://gateway.example.org")
	t.Setenv("GATEWAY_SECRET_KEY", "sk_test")
	t.Setenv("PAYPAL_CLIENT_ID", "client")
	t.Setenv("PAYPAL_CLIENT_SECRET", "secret")
}

func TestFromEnvDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("MONGODB", "")
	t.Setenv("PORT", "")
	t.Setenv("SMTP_PORT", "")
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("MAIL_FROM", "")
	t.Setenv("GATEWAY_CURRENCY", "")
	t.Setenv("PAYPAL_BASE_URL", "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "nonprofitdb", cfg.Database)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "mailer@example.org", cfg.AdminEmail)
	assert.Equal(t, "mailer@example.org", cfg.MailFrom)
	assert.Equal(t, "KES", cfg.GatewayCurrency)
	assert.Equal(t, "https://api-m.sandbox.paypal.com", cfg.PayPalBaseURL)
}

func TestFromEnvMissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("GATEWAY_SECRET_KEY", "")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GATEWAY_SECRET_KEY")
}

func TestFromEnvBadSMTPPort(t *testing.T) {
	setRequired(t)
	t.Setenv("SMTP_PORT", "smtp")

	_, err := FromEnv()
	assert.Error(t, err)
}
