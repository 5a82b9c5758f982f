package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/leminhai2007/minigames-go/internal/api"
	"github.com/leminhai2007/minigames-go/internal/calc"
	"github.com/leminhai2007/minigames-go/internal/config"
	"github.com/leminhai2007/minigames-go/internal/registry"
	"github.com/leminhai2007/minigames-go/internal/session"
	"github.com/leminhai2007/minigames-go/internal/sudokuapi"
	"github.com/leminhai2007/minigames-go/internal/wheelstore"
)

const (
	// Sessions idle longer than this are evicted by the sweeper.
	sessionMaxIdle = 30 * time.Minute
	sweepInterval  = 5 * time.Minute

	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Str("level", cfg.LogLevel).Msg("parse log level")
	}
	zerolog.SetGlobalLevel(level)

	wheels, err := wheelstore.New(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open wheel store")
	}
	defer wheels.Close()

	if err := wheels.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("migrate wheel store")
	}

	sessions := session.NewMemory()

	server := api.NewServer(api.Options{
		Sessions:     sessions,
		Wheels:       wheels,
		Registry:     registry.New(registry.Defaults()),
		Puzzles:      sudokuapi.NewClient(sudokuapi.Config{BaseURL: cfg.PuzzleAPIURL}),
		Calc:         calc.New(),
		TetrisTick:   cfg.TetrisTick,
		ClientOrigin: cfg.ClientOrigin,
		Logger:       log.Logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweepSessions(ctx, sessions)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.Routes(),
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("minigames hub listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

// sweepSessions evicts idle sessions until the context ends.
func sweepSessions(ctx context.Context, sessions *session.Memory) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(sessionMaxIdle); n > 0 {
				log.Info().Int("sessions", n).Msg("session sweep")
			}
		}
	}
}
