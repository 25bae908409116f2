package config

import (
	"os"
	"time"

	pkgconfig "github.com/titaniclabs/titanic-api/pkg/config"
	"github.com/titaniclabs/titanic-api/pkg/tokens"
)

type Config struct {
	ListenAddr  string
	LogLevel    string
	DatabaseURL string

	JWTSecret  []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	KafkaBrokers []string
}

func Load() *Config {
	cfg := &Config{
		ListenAddr:  pkgconfig.EnvDefault("AUTH_ADDR", ":8003"),
		LogLevel:    pkgconfig.EnvDefault("LOG_LEVEL", "info"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:  []byte(os.Getenv("JWT_SECRET")),
		AccessTTL:  pkgconfig.EnvSecondsDefault("ACCESS_TOKEN_TTL_SECONDS", tokens.DefaultAccessTTL),
		RefreshTTL: pkgconfig.EnvSecondsDefault("REFRESH_TOKEN_TTL_SECONDS", tokens.DefaultRefreshTTL),

		KafkaBrokers: pkgconfig.CSV(os.Getenv("KAFKA_BROKERS")),
	}
	pkgconfig.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	return cfg
}
