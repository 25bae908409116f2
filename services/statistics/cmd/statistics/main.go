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

	"github.com/titaniclabs/titanic-api/pkg/logging"
	loggingmw "github.com/titaniclabs/titanic-api/pkg/middleware/logging"
	"github.com/titaniclabs/titanic-api/services/statistics/internal/client"
	"github.com/titaniclabs/titanic-api/services/statistics/internal/config"
	"github.com/titaniclabs/titanic-api/services/statistics/internal/httpserver"
	"github.com/titaniclabs/titanic-api/services/statistics/internal/service"
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
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		StatisticsHandler: &httpserver.StatisticsHTTP{
			Svc: service.New(client.New(cfg.PassengerURL, cfg.FetchSize)),
		},
	})

	go func() {
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()
	logger.Info("statistics service started", "addr", cfg.ListenAddr, "passenger_url", cfg.PassengerURL)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}
