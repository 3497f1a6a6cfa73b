package config

import (
	"os"
	"strings"

	// this will automatically load your .env file:
	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Port        string
	FrontendURL string
	DB          PostgresConfig
	Auth        AuthConfig
	OpenAI      OpenAIConfig
	Paddle      PaddleConfig

	// UseDummyUser bypasses identity resolution with a fixed premium user.
	// Dev/test escape hatch only.
	UseDummyUser bool

	// RewriteGate controls quota enforcement on /api/rewrite. Enabled unless
	// REWRITE_GATE_ENABLED is explicitly set to false.
	RewriteGate bool
}

type PostgresConfig struct {
	Username string
	Password string
	URL      string
	Port     string
}

type AuthConfig struct {
	Issuer   string
	Audience string
	JWKSURL  string
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

type PaddleConfig struct {
	VendorID  string
	APIKey    string
	ProductID string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:        envOr("PORT", "8080"),
		FrontendURL: os.Getenv("FRONTEND_URL"),
		DB: PostgresConfig{
			Username: os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PWD"),
			URL:      os.Getenv("POSTGRES_URL"),
			Port:     os.Getenv("POSTGRES_PORT"),
		},
		Auth: AuthConfig{
			Issuer:   os.Getenv("AUTH_ISSUER"),
			Audience: envOr("AUTH_AUDIENCE", "authenticated"),
			JWKSURL:  os.Getenv("AUTH_JWKS_URL"),
		},
		OpenAI: OpenAIConfig{
			APIKey: os.Getenv("OPENAI_API_KEY"),
			Model:  envOr("OPENAI_MODEL", "gpt-4o"),
		},
		Paddle: PaddleConfig{
			VendorID:  os.Getenv("PADDLE_VENDOR_ID"),
			APIKey:    envOr("PADDLE_API_KEY", os.Getenv("PADDLE_VENDOR_AUTH_CODE")),
			ProductID: os.Getenv("PADDLE_PRODUCT_ID"),
		},
		UseDummyUser: envBool("USE_DUMMY_USER", false),
		RewriteGate:  envBool("REWRITE_GATE_ENABLED", true),
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return fallback
	}
}
