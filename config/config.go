package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string
	DBUrl    string

	JWTSecret string

	// FrontendURL is the customer-facing site; it is the default CORS
	// origin and the base for gateway callback URLs.
	AllowedOrigin string
	FrontendURL   string

	// DB Config
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnIdleTime time.Duration

	// Payment gateways
	StripeSecretKey    string
	StripeAPIBase      string
	SSLStoreID         string
	SSLStorePassword   string
	SSLAPIBase         string
	SSLCallbackURL     string
	GatewayHTTPTimeout time.Duration

	// Catalog cache
	CacheFoodTTL time.Duration

	// Pricing rules
	SingleLineDeliveryCharge float64
	MultiLineDeliveryCharge  float64
	FreeDeliveryThreshold    float64

	// Rate limiting
	RateLimitPerSecond float64
	RateLimitBurst     int
}

func LoadConfig() *Config {
	// A specific config file can be requested via env var; otherwise fall
	// back to .env, and in docker/prod rely on system env vars.
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading it, relying on system env vars")
		}
	}

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DBUrl:    getEnv("DB_DSN", ""),

		JWTSecret: getEnv("JWT_SECRET", "default_secret_CHANGE_ME"),

		AllowedOrigin: getEnv("ALLOWED_ORIGIN", ""),
		FrontendURL:   getEnv("FRONTEND_URL", "http://localhost:3000"),

		DBMaxConns:        getInt32Env("DB_MAX_CONNS", 50),
		DBMinConns:        getInt32Env("DB_MIN_CONNS", 10),
		DBMaxConnIdleTime: getDurationEnv("DB_MAX_CONN_IDLE_TIME", time.Minute*15),

		StripeSecretKey:    getEnv("STRIPE_SECRET_KEY", ""),
		StripeAPIBase:      getEnv("STRIPE_API_BASE", ""),
		SSLStoreID:         getEnv("SSL_STORE_ID", ""),
		SSLStorePassword:   getEnv("SSL_STORE_PASSWORD", ""),
		SSLAPIBase:         getEnv("SSL_API_BASE", ""),
		SSLCallbackURL:     getEnv("SSL_CALLBACK_URL", ""),
		GatewayHTTPTimeout: getDurationEnv("GATEWAY_HTTP_TIMEOUT", 15*time.Second),

		CacheFoodTTL: getDurationEnv("CACHE_FOOD_TTL", 10*time.Minute),

		SingleLineDeliveryCharge: getFloatEnv("SINGLE_LINE_DELIVERY_CHARGE", 30),
		MultiLineDeliveryCharge:  getFloatEnv("MULTI_LINE_DELIVERY_CHARGE", 50),
		FreeDeliveryThreshold:    getFloatEnv("FREE_DELIVERY_THRESHOLD", 1000),

		RateLimitPerSecond: getFloatEnv("RATE_LIMIT_PER_SECOND", 50),
		RateLimitBurst:     getIntEnv("RATE_LIMIT_BURST", 100),
	}

	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = cfg.FrontendURL
	}
	if cfg.SSLCallbackURL == "" {
		cfg.SSLCallbackURL = cfg.FrontendURL + "/dashboard/payment"
	}

	cfg.Validate()
	return cfg
}

func (c *Config) Validate() {
	if c.DBUrl == "" {
		log.Fatal("CRITICAL: DB_DSN environment variable is required")
	}
	if c.JWTSecret == "default_secret_CHANGE_ME" {
		log.Println("WARNING: Using default JWT secret. Setting up for failure in production.")
	}
	if c.SingleLineDeliveryCharge < 0 || c.MultiLineDeliveryCharge < 0 {
		log.Fatal("CRITICAL: delivery charges must not be negative")
	}
	if c.StripeSecretKey == "" && c.SSLStoreID == "" {
		log.Println("WARNING: no payment gateway credentials configured")
	}
}
