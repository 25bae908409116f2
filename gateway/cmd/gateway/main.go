package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/titaniclabs/titanic-api/gateway/internal/config"
	"github.com/titaniclabs/titanic-api/gateway/internal/httpserver"
	"github.com/titaniclabs/titanic-api/pkg/logging"
	"github.com/titaniclabs/titanic-api/pkg/tokens"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("no .env file, using system environment: %v", err)
	}
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	if err := httpserver.Register(e, &httpserver.Deps{
		AuthURL:       cfg.AuthURL,
		PassengerURL:  cfg.PassengerURL,
		StatisticsURL: cfg.StatisticsURL,
		Codec:         tokens.NewCodec(cfg.JWTSecret, 0, 0),
	}); err != nil {
		log.Fatal(err)
	}

	go func() {
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()
	logger.Info("gateway started", "addr", cfg.ListenAddr)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}
