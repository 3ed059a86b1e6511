package app

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/intervue/session-server/internal/config"
	"github.com/intervue/session-server/internal/core"
	"github.com/intervue/session-server/internal/service/audit"
	"github.com/intervue/session-server/internal/store"
	"github.com/intervue/session-server/internal/store/sqlite"
	transporthttp "github.com/intervue/session-server/internal/transport/http"
)

const auditQueueSize = 256

// ErrJWTSecretRequired is returned when tokens are required but no secret is configured.
var ErrJWTSecretRequired = errors.New("jwt_required needs jwt_secret")

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	gateway         *core.Gateway
	recorder        *audit.Recorder
	store           store.SessionStore
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	if cfg.JWTRequired && cfg.JWTSecret == "" {
		return nil, ErrJWTSecretRequired
	}

	a := &App{
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             logger,
	}

	var recorder core.Recorder
	if cfg.DatabasePath != "" {
		st, err := sqlite.New(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("init store: %w", err)
		}
		logger.Info().Str("db_path", cfg.DatabasePath).Msg("session audit log enabled")

		a.store = st
		a.recorder = audit.New(st, auditQueueSize, logger)
		recorder = a.recorder
	} else {
		logger.Info().Msg("session audit log disabled")
	}

	a.gateway = core.NewGateway(core.NewRegistry(), recorder, logger, cfg.EventBuffer)
	a.server = transporthttp.NewServer(a.gateway, a.store, cfg, logger)

	return a, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	recorderCtx, stopRecorder := context.WithCancel(context.Background())
	var recorderDone sync.WaitGroup
	if a.recorder != nil {
		recorderDone.Add(1)
		go func() {
			defer recorderDone.Done()
			a.recorder.Run(recorderCtx)
		}()
	}
	defer func() {
		// Flush queued audit records before the store closes.
		stopRecorder()
		recorderDone.Wait()
		a.cleanup()
	}()

	go func() {
		a.log.Info().Str("addr", a.server.Addr).Msg("session server listening")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}

// cleanup closes database and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
