package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samaanhq/authcore/config"
	HTTPAdapter "github.com/samaanhq/authcore/internal/adapter/http"
	"github.com/samaanhq/authcore/internal/adapter/storage/jsonfile"
	sqlitestore "github.com/samaanhq/authcore/internal/adapter/storage/sqlite"
	"github.com/samaanhq/authcore/internal/infrastructure/logger"
	"github.com/samaanhq/authcore/internal/port"
	"github.com/samaanhq/authcore/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error.Printf("failed to load config: %v", err)
		os.Exit(1)
	}

	logger.Info.Printf("starting authcore on port %d, threshold=%.2f", cfg.Port, cfg.FPThreshold)

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		logger.Error.Printf("failed to create data directory: %v", err)
		os.Exit(1)
	}

	store, closeStore := openStore(cfg.DataDir)
	defer closeStore()

	credSvc := service.NewCredentialService(store)
	matcher := service.NewMatcher(store, cfg.FPThreshold)

	server := HTTPAdapter.NewServer(credSvc, matcher, cfg.AllowedOrigin)

	addr := fmt.Sprintf(":%d", cfg.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info.Printf("received %s, shutting down", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error.Printf("http shutdown error: %v", err)
		}

		logger.Info.Printf("shutdown complete")
	}()

	logger.Info.Printf("server listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error.Printf("server failed: %v", err)
		os.Exit(1)
	}
}

// openStore prefers the sqlite store and falls back to the JSON file store
// when the database cannot be opened, announcing which backend is active.
func openStore(dataDir string) (port.UserStore, func()) {
	store, err := sqlitestore.NewStore(dataDir)
	if err == nil {
		logger.Info.Printf("storage: sqlite (%s)", dataDir)
		return store, func() { _ = store.Close() }
	}

	logger.Warn.Printf("sqlite unavailable, using file fallback: %v", err)

	fallback, ferr := jsonfile.NewStore(dataDir)
	if ferr != nil {
		logger.Error.Printf("failed to open any store: %v", ferr)
		os.Exit(1)
	}
	logger.Info.Printf("storage: local file fallback (%s)", dataDir)
	return fallback, func() {}
}
