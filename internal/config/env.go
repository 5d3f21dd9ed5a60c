package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// ZohoConfig holds the payment gateway credentials. Live mode requires all
// four of ClientID/ClientSecret/RefreshToken/AccountID; anything missing
// drops payment initiation into simulated mode.
type ZohoConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	AccountID    string
	SigningKey   string
}

// Live reports whether real gateway calls can be made.
func (z ZohoConfig) Live() bool {
	return z.ClientID != "" && z.ClientSecret != "" && z.RefreshToken != "" && z.AccountID != ""
}

type Env struct {
	AppAddr              string
	GinMode              string
	DBDSN                string
	JWTSecret            string
	CORSOrigins          []string
	Zoho                 ZohoConfig
	WebhookAllowUnsigned bool
}

// LoadEnv reads configuration from the environment, with a local .env as a
// convenience for development.
func LoadEnv() Env {
	_ = godotenv.Load()

	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		jwtSecret = "dev-secret-change-me"
	}

	origins := []string{}
	for _, o := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return Env{
		AppAddr:     appAddr,
		GinMode:     strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBDSN:       buildDSN(),
		JWTSecret:   jwtSecret,
		CORSOrigins: origins,
		Zoho: ZohoConfig{
			ClientID:     strings.TrimSpace(os.Getenv("ZOHO_CLIENT_ID")),
			ClientSecret: strings.TrimSpace(os.Getenv("ZOHO_CLIENT_SECRET")),
			RefreshToken: strings.TrimSpace(os.Getenv("ZOHO_REFRESH_TOKEN")),
			AccountID:    strings.TrimSpace(os.Getenv("ZOHO_ACCOUNT_ID")),
			SigningKey:   strings.TrimSpace(os.Getenv("ZOHO_SIGNING_KEY")),
		},
		WebhookAllowUnsigned: strings.EqualFold(strings.TrimSpace(os.Getenv("WEBHOOK_ALLOW_UNSIGNED")), "true"),
	}
}

func buildDSN() string {
	if dsn := strings.TrimSpace(os.Getenv("DB_DSN")); dsn != "" {
		return dsn
	}

	user := envOr("DB_USER", "root")
	pass := os.Getenv("DB_PASSWORD")
	host := envOr("DB_HOST", "127.0.0.1")
	port := envOr("DB_PORT", "3306")
	name := envOr("DB_NAME", "fleet_app")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s",
		user, pass, host, port, name)
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
