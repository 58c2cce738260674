package config

import (
	"crypto/rsa"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

// Backend names accepted by BACKEND.
const (
	BackendPostgres = "postgres"
	BackendCMS      = "cms"
	BackendMemory   = "memory"
)

type Config struct {
	JWTPrivateKey *rsa.PrivateKey
	JWTPublicKey  *rsa.PublicKey
	TokenTTL      time.Duration

	Port           string
	LoginURL       string
	AllowedOrigins []string

	Backend     string
	DatabaseURL string
	AutoMigrate bool

	RedisAddress  string
	RedisPassword string

	ScopeCacheTTL    time.Duration
	DeleteConfirmTTL time.Duration

	CMSBaseURL string
	CMSToken   string
	CMSTimeout time.Duration

	// Seeds an administrator into the memory backend.
	BootstrapAdminEmail    string
	BootstrapAdminPassword string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: ignoring unreadable .env file: %v", err)
	}

	privateKey, err := loadPrivateKey(getEnv("PRIVATE_KEY_PATH", "/etc/certs/private.pem"))
	if err != nil {
		return nil, fmt.Errorf("failed to load private key: %w", err)
	}
	publicKey, err := loadPublicKey(getEnv("PUBLIC_KEY_PATH", "/etc/certs/public.pem"))
	if err != nil {
		return nil, fmt.Errorf("failed to load public key: %w", err)
	}

	cfg := &Config{
		JWTPrivateKey:    privateKey,
		JWTPublicKey:     publicKey,
		TokenTTL:         getEnvAsDuration("TOKEN_TTL", 24*time.Hour),
		Port:             getEnv("PORT", "8080"),
		LoginURL:         getEnv("LOGIN_URL", "/login"),
		AllowedOrigins:   getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		Backend:          strings.ToLower(getEnv("BACKEND", BackendPostgres)),
		DatabaseURL:      os.Getenv("DB_CONNECTION_STRING"),
		AutoMigrate:      getEnvAsBool("AUTO_MIGRATE", false),
		RedisAddress:     os.Getenv("REDIS_ADDRESS"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		ScopeCacheTTL:    getEnvAsDuration("SCOPE_CACHE_TTL", 15*time.Minute),
		DeleteConfirmTTL: getEnvAsDuration("DELETE_CONFIRM_TTL", 5*time.Minute),
		CMSBaseURL:       strings.TrimRight(os.Getenv("CMS_BASE_URL"), "/"),
		CMSToken:         os.Getenv("CMS_TOKEN"),
		CMSTimeout:       getEnvAsDuration("CMS_TIMEOUT", 15*time.Second),

		BootstrapAdminEmail:    os.Getenv("BOOTSTRAP_ADMIN_EMAIL"),
		BootstrapAdminPassword: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DB_CONNECTION_STRING environment variable is required")
		}
	case BackendCMS:
		// Identity and assignments stay in Postgres; entity collections live in the CMS.
		if c.DatabaseURL == "" {
			return fmt.Errorf("DB_CONNECTION_STRING environment variable is required")
		}
		if c.CMSBaseURL == "" {
			return fmt.Errorf("CMS_BASE_URL environment variable is required for the cms backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unsupported BACKEND %q", c.Backend)
	}
	return nil
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(keyData)
	if err != nil {
		return nil, err
	}
	return privateKey, nil
}

func loadPublicKey(path string) (*rsa.PublicKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(keyData)
	if err != nil {
		return nil, err
	}
	return publicKey, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
