package config

import (
	"os"

	pkgconfig "github.com/titaniclabs/titanic-api/pkg/config"
)

type Config struct {
	ListenAddr    string
	LogLevel      string
	AuthURL       string
	PassengerURL  string
	StatisticsURL string
	JWTSecret     []byte
}

func Load() *Config {
	cfg := &Config{
		ListenAddr:    pkgconfig.EnvDefault("GATEWAY_ADDR", ":8000"),
		LogLevel:      pkgconfig.EnvDefault("LOG_LEVEL", "info"),
		AuthURL:       os.Getenv("AUTH_URL"),
		PassengerURL:  os.Getenv("PASSENGER_URL"),
		StatisticsURL: os.Getenv("STATISTICS_URL"),
		JWTSecret:     []byte(os.Getenv("JWT_SECRET")),
	}
	pkgconfig.MustNonEmpty(cfg.AuthURL, "AUTH_URL")
	pkgconfig.MustNonEmpty(cfg.PassengerURL, "PASSENGER_URL")
	pkgconfig.MustNonEmpty(cfg.StatisticsURL, "STATISTICS_URL")
	pkgconfig.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	return cfg
}
