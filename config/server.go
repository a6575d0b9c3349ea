package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/yakir1992/todoapp/utils"
)

type JWTConfig struct {
	Secret            string
	Issuer            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
}

type ServerConfig struct {
	Env      string
	Port     string
	RedisURL string
	// MaxBodyBytes caps request bodies.
	MaxBodyBytes   int64
	SessionTimeout time.Duration
	// HealthTimeout bounds the connectivity self-test.
	HealthTimeout  time.Duration
	AllowedOrigins []string
	JWT            JWTConfig
	Database       DatabaseConfig
}

func (c ServerConfig) IsTest() bool { return c.Env == "test" }

// Load reads .env (when present) and the process environment into a
// ServerConfig. Outside of tests JWT_SECRET_KEY is required.
func Load() (ServerConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return ServerConfig{}, err
	}

	cfg := ServerConfig{
		Env:            utils.GetEnvAsString("GO_ENV", "development"),
		Port:           utils.GetEnvAsString("PORT", "8080"),
		RedisURL:       utils.GetEnvAsString("REDIS_URL", "redis://localhost:6379/0"),
		MaxBodyBytes:   int64(utils.GetEnvAsInt("MAX_BODY_BYTES", 1<<20)),
		SessionTimeout: utils.GetEnvAsDuration("SESSION_DURATION", 48*time.Hour),
		HealthTimeout:  utils.GetEnvAsDuration("HEALTH_TIMEOUT", 5*time.Second),
		AllowedOrigins: utils.GetEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),
		JWT: JWTConfig{
			Secret:            os.Getenv("JWT_SECRET_KEY"),
			Issuer:            utils.GetEnvAsString("JWT_ISSUER", "lessismore"),
			Expiration:        utils.GetEnvAsDuration("JWT_EXPIRATION_TIME", time.Hour),
			RefreshExpiration: utils.GetEnvAsDuration("REFRESH_TOKEN_EXPIRATION_TIME", 7*24*time.Hour),
		},
		Database: LoadDatabaseConfig(),
	}

	if cfg.IsTest() && cfg.JWT.Secret == "" {
		cfg.JWT.Secret = "test_secret_key"
	}
	if err := utils.MissingEnv("JWT_SECRET_KEY"); err != nil && !cfg.IsTest() {
		return cfg, err
	}
	return cfg, nil
}
