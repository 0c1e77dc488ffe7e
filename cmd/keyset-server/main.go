package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alp4ka/keyset/cache"
	"github.com/Alp4ka/keyset/internal/config"
	"github.com/Alp4ka/keyset/internal/logger"
	"github.com/Alp4ka/keyset/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.Configure(cfg.Logging)

	db, err := server.OpenDatabase(cfg.Database)
	if err != nil {
		return err
	}

	deps := server.Deps{
		DB:       db,
		Logger:   log,
		MaxLimit: cfg.Pagination.MaxLimit,
	}

	if cfg.Cache.Enabled {
		client := cache.NewRedisClient(cfg.Cache.Addr, cfg.Cache.Password)
		defer client.Close()

		deps.Cache = cache.New(cache.NewRedisStore(client, cfg.Cache.Prefix), cfg.Cache.TTL).WithLogger(log)
	}

	router, err := server.NewRouter(deps)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr).Str("dialect", cfg.Database.Dialect).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
