package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug      bool       `yaml:"debug" env:"DEBUG"`
	AppSecret  string     `yaml:"app_secret" env:"APP_SECRET" env-required:"true"`
	Limiter    Limiter    `yaml:"limiter"`
	Server     Server     `yaml:"server"`
	DB         DB         `yaml:"db"`
	Auth       Auth       `yaml:"auth"`
	SMTPServer SMTPServer `yaml:"smtp_server"`
	Cors       Cors       `yaml:"cors"`
	Tasks      Tasks      `yaml:"tasks"`
}

type Limiter struct {
	Enabled bool    `yaml:"enabled" env:"LIMITER_ENABLED"`
	Rps     float64 `yaml:"rps" env-default:"20"`
	Burst   int     `yaml:"burst" env-default:"5"`
	// AuthRequestsPerMinute caps signup and token requests per IP.
	AuthRequestsPerMinute int `yaml:"auth_requests_per_minute" env-default:"10"`
}

type Server struct {
	Port string `yaml:"port" env:"SERVER_PORT" env-default:"8000"`
	Host string `yaml:"host" env:"SERVER_HOST" env-default:"localhost"`

	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"20s"`
}

type DB struct {
	Dsn             string        `yaml:"dsn" env:"DB_DSN" env-required:"true"`
	MaxConns        int           `yaml:"max_conns" env-default:"25"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env-default:"10m"`
	// Migrate applies pending schema migrations on startup.
	Migrate bool `yaml:"migrate" env:"DB_MIGRATE" env-default:"true"`
}

type Auth struct {
	ConfirmationCodeTTL time.Duration `yaml:"confirmation_code_ttl" env-default:"72h"`
	AccessTokenTTL      time.Duration `yaml:"access_token_ttl" env-default:"24h"`
}

type SMTPServer struct {
	// An empty host makes the API log emails instead of sending them.
	Host         string        `yaml:"host" env:"SMTP_HOST"`
	Port         int           `yaml:"port" env:"SMTP_PORT" env-default:"25"`
	Username     string        `yaml:"username" env:"SMTP_USERNAME"`
	Password     string        `yaml:"password" env:"SMTP_PASSWORD"`
	Sender       string        `yaml:"sender" env:"SMTP_SENDER" env-default:"YaMDb <no-reply@yamdb.local>"`
	Timeout      time.Duration `yaml:"timeout" env-default:"5s"`
	RetriesCount int           `yaml:"retries_count" env-default:"3"`
}

type Cors struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:","`
}

type Tasks struct {
	Workers   int `yaml:"workers" env-default:"3"`
	QueueSize int `yaml:"queue_size" env-default:"100"`
}

// MustLoad reads the YAML file at configPath, overlaid with the environment.
// A .env file next to the working directory is loaded first when present.
func MustLoad(configPath string) *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		panic(fmt.Errorf("failed to load .env: %w", err))
	}
	var cfg Config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic(fmt.Errorf("config file %s not found", configPath))
	}
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic(err)
	}
	return &cfg
}
