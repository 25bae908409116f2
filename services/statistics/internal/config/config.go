package config

import (
	"os"

	pkgconfig "github.com/titaniclabs/titanic-api/pkg/config"
)

type Config struct {
	ListenAddr   string
	LogLevel     string
	PassengerURL string
	FetchSize    int
}

func Load() *Config {
	cfg := &Config{
		ListenAddr:   pkgconfig.EnvDefault("STATISTICS_ADDR", ":8002"),
		LogLevel:     pkgconfig.EnvDefault("LOG_LEVEL", "info"),
		PassengerURL: os.Getenv("PASSENGER_URL"),
		FetchSize:    pkgconfig.EnvIntDefault("STATISTICS_FETCH_SIZE", 0),
	}
	pkgconfig.MustNonEmpty(cfg.PassengerURL, "PASSENGER_URL")
	return cfg
}
