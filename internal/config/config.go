package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort    string `mapstructure:"SERVER_PORT"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	ServiceKey    string `mapstructure:"SERVICE_ROLE_KEY"`
	AnonKey       string `mapstructure:"ANON_KEY"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	JWTSecret     string `mapstructure:"JWT_SECRET"`
}

func Load() Config {
	viper.AutomaticEnv()
	viper.SetDefault("SERVER_PORT", ":8080")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("JWT_SECRET", "dev-secret-change-me")

	// Keys without defaults are invisible to Unmarshal unless bound.
	for _, key := range []string{"DATABASE_URL", "SERVICE_ROLE_KEY", "ANON_KEY", "REDIS_PASSWORD"} {
		_ = viper.BindEnv(key)
	}

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}

// ValidateStore checks the two credentials every store access needs. The
// presence of each is logged so an operator can tell which one a
// misconfigured deploy is missing.
func (c Config) ValidateStore() error {
	log.Printf("store config: DATABASE_URL present=%t, SERVICE_ROLE_KEY present=%t",
		c.DatabaseURL != "", c.ServiceKey != "")

	if c.DatabaseURL == "" {
		return fmt.Errorf("missing required config: DATABASE_URL")
	}
	if c.ServiceKey == "" {
		return fmt.Errorf("missing required config: SERVICE_ROLE_KEY")
	}
	return nil
}
