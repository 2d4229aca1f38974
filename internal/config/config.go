package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/uvdesk/uvledger/internal/database"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"uvledger"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host        string `envconfig:"DB_HOST" default:"localhost"`
		Port        int    `envconfig:"DB_PORT" default:"5432"`
		User        string `envconfig:"DB_USER" default:"postgres"`
		Password    string `envconfig:"DB_PASSWORD" default:""`
		Name        string `envconfig:"DB_NAME" default:"uvledger"`
		SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
		AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`

		MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
		MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
		ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	}

	Server struct {
		Timeout         time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
	}

	Auth struct {
		// Empty secret disables bearer token checks.
		JWTSecret string `envconfig:"AUTH_JWT_SECRET"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	}

	Redis struct {
		Addr           string        `envconfig:"REDIS_ADDR"`
		Password       string        `envconfig:"REDIS_PASSWORD"`
		DB             int           `envconfig:"REDIS_DB" default:"0"`
		Prefix         string        `envconfig:"REDIS_PREFIX" default:"uvledger:"`
		DialTimeout    time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"5s"`
		Timeout        time.Duration `envconfig:"REDIS_TIMEOUT" default:"3s"`
		IdempotencyTTL time.Duration `envconfig:"REDIS_IDEMPOTENCY_TTL" default:"24h"`
	}

	S3 struct {
		Endpoint        string        `envconfig:"S3_ENDPOINT"`
		AccessKeyID     string        `envconfig:"S3_ACCESS_KEY"`
		SecretAccessKey string        `envconfig:"S3_SECRET_KEY"`
		Bucket          string        `envconfig:"S3_BUCKET" default:"uv-statements"`
		Region          string        `envconfig:"S3_REGION" default:"us-east-1"`
		UseSSL          bool          `envconfig:"S3_USE_SSL" default:"false"`
		Prefix          string        `envconfig:"S3_PREFIX" default:"statements/"`
		URLExpiry       time.Duration `envconfig:"S3_URL_EXPIRY" default:"15m"`
	}

	Metrics struct {
		Enabled bool `envconfig:"METRICS_ENABLED" default:"true"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

func (c *Config) Pool() database.Pool {
	return database.Pool{
		MaxOpenConns:    c.DB.MaxOpenConns,
		MaxIdleConns:    c.DB.MaxIdleConns,
		ConnMaxLifetime: c.DB.ConnMaxLifetime,
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
