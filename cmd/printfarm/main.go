package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/printfarmhq/printfarm/internal/app"
	"github.com/printfarmhq/printfarm/internal/config"
)

func main() {
	cfg := config.Load()

	zerolog.TimeFieldFormat = time.RFC3339
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	if cfg.AuthSecret == "" {
		zlog.Fatal().Msg("AUTH_SECRET is required")
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to connect to database")
	}

	application, err := app.NewApp(db, cfg)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to create app")
	}
	if err := application.Migrate(); err != nil {
		zlog.Fatal().Err(err).Msg("failed to migrate database")
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: application.HTTPHandler(),
	}

	go func() {
		zlog.Info().Str("port", cfg.Port).Msg("listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(ctx)
}
