package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string   `envconfig:"PORT" default:"8080"`
	GinMode     string   `envconfig:"GIN_MODE" default:"debug"`
	DBHost      string   `envconfig:"DB_HOST" default:"localhost"`
	DBPort      string   `envconfig:"DB_PORT" default:"5432"`
	DBUser      string   `envconfig:"DB_USER" default:"checkin"`
	DBPassword  string   `envconfig:"DB_PASSWORD" default:""`
	DBName      string   `envconfig:"DB_NAME" default:"checkin"`
	RedisAddr   string   `envconfig:"REDIS_ADDR" default:""`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env vars: %w", err)
	}
	return &cfg, nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}
