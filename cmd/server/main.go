package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/Chatter/internal/adapters/http"
	wsignal "github.com/dkeye/Chatter/internal/adapters/signal"
	"github.com/dkeye/Chatter/internal/app"
	"github.com/dkeye/Chatter/internal/auth"
	"github.com/dkeye/Chatter/internal/config"
	"github.com/dkeye/Chatter/internal/storage"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Mode == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}

	orch := &app.Orchestrator{
		Presence:  app.NewPresence(),
		Rooms:     app.NewRoomManager(),
		Calls:     app.NewCallTable(),
		Directory: storage.NewDirectory(db),
		Store:     storage.NewMessages(db),
	}
	verifier := auth.NewVerifier(auth.Config{
		SecretKey:     cfg.Secret,
		TokenDuration: 24 * time.Hour,
		Issuer:        "chatter",
	})
	ctrl := wsignal.NewController(orch, cfg.ReadLimit, cfg.PingPeriod)

	r := router.SetupRouter(ctx, cfg, verifier, ctrl)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Chatter relay started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
