package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/deppfellow/software-engineers/internal/handler"
	"github.com/deppfellow/software-engineers/internal/repository"
	"github.com/deppfellow/software-engineers/internal/router"
	"github.com/deppfellow/software-engineers/internal/server"
	"github.com/deppfellow/software-engineers/internal/service"
)

const defaultShutdownTimeout = 30 * time.Second

func newServeCommand() *cobra.Command {
	var skipMigrate bool
	var shutdownTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), skipMigrate, shutdownTimeout)
		},
	}

	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not migrate the schema on start-up")
	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", defaultShutdownTimeout, "time allowed for inflight requests on shutdown")
	return cmd
}

func serve(parent context.Context, skipMigrate bool, shutdownTimeout time.Duration) error {
	cfg, loggerService, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer loggerService.Shutdown()

	srv, err := server.New(cfg, log, loggerService)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize server")
		return err
	}

	if !skipMigrate {
		if err := srv.DB.Migrate(parent, cfg); err != nil {
			log.Error().Err(err).Msg("failed to migrate database")
			_ = srv.Shutdown(parent)
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	repos := repository.NewRepositories(srv)
	services, err := service.NewService(srv, repos)
	if err != nil {
		_ = srv.Shutdown(parent)
		return fmt.Errorf("failed to create services: %w", err)
	}

	handlers := handler.NewHandlers(srv, services)
	srv.SetupHTTPServer(router.NewRouter(srv, handlers))

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			_ = srv.Shutdown(context.Background())
			return err
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}
