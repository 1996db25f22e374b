package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigFrontendDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/samkitchen_test")
	t.Setenv("FRONTEND_URL", "https://samkitchen.example.com")

	t.Run("frontend url backs cors and callback", func(t *testing.T) {
		t.Setenv("ALLOWED_ORIGIN", "")
		t.Setenv("SSL_CALLBACK_URL", "")

		cfg := LoadConfig()
		assert.Equal(t, "https://samkitchen.example.com", cfg.AllowedOrigin)
		assert.Equal(t, "https://samkitchen.example.com/dashboard/payment", cfg.SSLCallbackURL)
	})

	t.Run("explicit values win", func(t *testing.T) {
		t.Setenv("ALLOWED_ORIGIN", "https://admin.example.com")
		t.Setenv("SSL_CALLBACK_URL", "https://pay.example.com/callback")

		cfg := LoadConfig()
		assert.Equal(t, "https://admin.example.com", cfg.AllowedOrigin)
		assert.Equal(t, "https://pay.example.com/callback", cfg.SSLCallbackURL)
	})
}
