package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the configuration for the letter server.
type Config struct {
	Env         string `envconfig:"ENV" default:"production"`
	Port        string `envconfig:"PORT" default:"8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`

	// Product shape: "sequence" returns the 7-day email series,
	// "single" returns one consolidated letter.
	ProductShape string `envconfig:"PRODUCT_SHAPE" default:"sequence"`

	// Frontend origins and redirect targets
	AppBaseURL         string `envconfig:"APP_BASE_URL" default:"https://lettersonvalentines.com"`
	AllowedOrigins     string `envconfig:"ALLOWED_ORIGINS" default:"https://lettersonvalentines.com"`
	AllowedReturnHosts string `envconfig:"ALLOWED_RETURN_HOSTS" default:"lettersonvalentines.com,localhost"`

	// AI gateway (OpenAI-compatible). An empty API key is not an error:
	// generation falls back to the deterministic template path.
	AIBaseURL    string        `envconfig:"AI_BASE_URL" default:"https://ai.gateway.lovable.dev/v1"`
	AIModel      string        `envconfig:"AI_MODEL" default:"google/gemini-2.5-flash-lite"`
	AIImageModel string        `envconfig:"AI_IMAGE_MODEL" default:"google/gemini-2.5-flash-image"`
	AIImages     bool          `envconfig:"AI_IMAGES_ENABLED" default:"true"`
	AITimeout    time.Duration `envconfig:"AI_TIMEOUT" default:"120s"`
	AIAPIKey     string        `envconfig:"AI_API_KEY"`

	// Razorpay
	RazorpayKeyID     string `envconfig:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret string `envconfig:"RAZORPAY_KEY_SECRET"`
	RazorpayBaseURL   string `envconfig:"RAZORPAY_BASE_URL" default:"https://api.razorpay.com"`

	// Gmail OAuth
	GmailClientID     string        `envconfig:"GMAIL_CLIENT_ID"`
	GmailClientSecret string        `envconfig:"GMAIL_CLIENT_SECRET"`
	GmailRedirectURL  string        `envconfig:"GMAIL_REDIRECT_URL"`
	OAuthStateSecret  string        `envconfig:"OAUTH_STATE_SECRET"`
	ConnCheckTimeout  time.Duration `envconfig:"CONNECTION_CHECK_TIMEOUT" default:"5s"`

	// PostgreSQL (gmail token table)
	DBHost        string        `envconfig:"DB_HOST" default:"localhost"`
	DBPort        string        `envconfig:"DB_PORT" default:"5432"`
	DBUser        string        `envconfig:"DB_USER" default:"postgres"`
	DBPassword    string        `envconfig:"DB_PASSWORD"`
	DBName        string        `envconfig:"DB_NAME" default:"valentine_db"`
	DBSSLMode     string        `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns    int           `envconfig:"DB_MAX_CONNECTIONS" default:"10"`
	DBIdleTimeout time.Duration `envconfig:"DB_MAX_IDLE_MINUTES" default:"5m"`

	// Redis (optional wizard session persistence)
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// GetDSN returns the PostgreSQL connection string.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// GetAllowedOrigins splits the comma-separated origin list.
func (c *Config) GetAllowedOrigins() []string {
	return splitList(c.AllowedOrigins)
}

// GetAllowedReturnHosts splits the comma-separated return host allow-list.
func (c *Config) GetAllowedReturnHosts() []string {
	return splitList(c.AllowedReturnHosts)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// LoadConfig loads configuration from .env (when present) and environment variables.
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Printf("No .env file loaded (%v), relying on environment", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if cfg.ProductShape != "sequence" && cfg.ProductShape != "single" {
		return nil, fmt.Errorf("invalid PRODUCT_SHAPE %q: want sequence or single", cfg.ProductShape)
	}

	log.Printf("Configuration loaded: env=%s port=%s shape=%s ai_model=%s db=%s ai_key=%s",
		cfg.Env, cfg.Port, cfg.ProductShape, cfg.AIModel, cfg.getMaskedDSN(), maskPresence(cfg.AIAPIKey))
	return &cfg, nil
}

func maskPresence(secret string) string {
	if secret == "" {
		return "[MISSING]"
	}
	return "[SET]"
}

// getMaskedDSN returns the DSN with the password replaced for logging.
func (c *Config) getMaskedDSN() string {
	dsn := c.GetDSN()
	parts := strings.Split(dsn, "@")
	if len(parts) != 2 {
		return "[invalid dsn format]"
	}
	userInfo := strings.Split(parts[0], ":")
	if len(userInfo) >= 2 {
		userInfo[len(userInfo)-1] = "********"
	}
	return strings.Join(userInfo, ":") + "@" + parts[1]
}
