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

	"github.com/titaniclabs/titanic-api/pkg/db"
	"github.com/titaniclabs/titanic-api/pkg/events"
	"github.com/titaniclabs/titanic-api/pkg/logging"
	loggingmw "github.com/titaniclabs/titanic-api/pkg/middleware/logging"
	"github.com/titaniclabs/titanic-api/pkg/tokens"
	"github.com/titaniclabs/titanic-api/services/auth/internal/config"
	"github.com/titaniclabs/titanic-api/services/auth/internal/httpserver"
	"github.com/titaniclabs/titanic-api/services/auth/internal/repo"
	"github.com/titaniclabs/titanic-api/services/auth/internal/service"
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

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	store, err := repo.New(gdb)
	if err != nil {
		log.Fatalf("migrate error: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers, "user_events")
	defer producer.Close()

	codec := tokens.NewCodec(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{
			Svc: &service.AuthService{
				Repo:   store,
				Codec:  codec,
				Events: producer,
			},
		},
		Codec: codec,
	})

	go func() {
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()
	logger.Info("auth service started", "addr", cfg.ListenAddr)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}
