package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	HTTPAddr    string `env:"HTTP_ADDR" env-default:":8080"`
	LogLevel    string `env:"LOG_LEVEL" env-default:"info"`
	ServiceName string `env:"SERVICE_NAME" env-default:"chatnotify"`

	Store       string `env:"STORE" env-default:"memory"`
	DatabaseURL string `env:"DATABASE_URL"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" env-default:"0"`
	ProfileTTL    time.Duration `env:"PROFILE_CACHE_TTL" env-default:"5m"`

	NATSURL     string `env:"NATS_URL"`
	NATSSubject string `env:"NATS_SUBJECT" env-default:"chat.messages.created"`
	NATSQueue   string `env:"NATS_QUEUE" env-default:"chatnotify"`

	PushProvider            string        `env:"PUSH_PROVIDER" env-default:"log"`
	FirebaseProjectID       string        `env:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsFile string        `env:"FIREBASE_CREDENTIALS_FILE"`
	PushBreakerThreshold    int           `env:"PUSH_BREAKER_THRESHOLD" env-default:"5"`
	PushBreakerTimeout      time.Duration `env:"PUSH_BREAKER_TIMEOUT" env-default:"30s"`

	S3Bucket    string        `env:"S3_BUCKET"`
	S3Region    string        `env:"S3_REGION" env-default:"us-east-1"`
	S3Endpoint  string        `env:"S3_ENDPOINT"`
	PhotoURLTTL time.Duration `env:"PHOTO_URL_TTL" env-default:"24h"`

	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	SuppressWhileViewing bool          `env:"SUPPRESS_WHILE_VIEWING" env-default:"false"`
	PresenceTTL          time.Duration `env:"PRESENCE_TTL" env-default:"60s"`
}

func Load() (*Config, error) {
	var cfg Config

	// ReadEnv reads strictly from environment variables.
	err := cleanenv.ReadEnv(&cfg)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFile reads a .env/.yaml/.toml file, with environment variables taking precedence.
func LoadFile(path string) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks combinations cleanenv tags cannot express.
func (c *Config) Validate() error {
	switch c.Store {
	case "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: DATABASE_URL is required when STORE=postgres")
		}
	default:
		return fmt.Errorf("config error: unsupported STORE %q", c.Store)
	}
	switch c.PushProvider {
	case "log", "fcm":
	default:
		return fmt.Errorf("config error: unsupported PUSH_PROVIDER %q", c.PushProvider)
	}
	return nil
}
