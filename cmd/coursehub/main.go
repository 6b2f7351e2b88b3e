package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dukerupert/coursehub/internal/auth"
	"github.com/dukerupert/coursehub/internal/config"
	"github.com/dukerupert/coursehub/internal/database"
	"github.com/dukerupert/coursehub/internal/email"
	"github.com/dukerupert/coursehub/internal/logging"
	"github.com/dukerupert/coursehub/internal/server"
)

func main() {
	if err := run(); err != nil {
		slog.Error("coursehub exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	sessionStore, closeSessions, err := server.OpenSessionStore(ctx, cfg.Sessions, db, logger.With("component", "sessions"))
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer closeSessions()

	emailClient := email.NewClient(cfg.Email.PostmarkToken, cfg.Email.FromEmail, cfg.Email.NotifyEmail, cfg.BaseURL)
	if !emailClient.Configured() {
		logger.Warn("postmark not configured, notification emails disabled")
	}

	srv := server.New(cfg, db, sessionStore, emailClient, auth.NewLoginLimiter(), logger)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("coursehub running", "addr", httpServer.Addr, "env", cfg.Env, "base_url", cfg.BaseURL)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return srv.RunMaintenance(gctx, cfg.CleanupTick)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		srv.Hub().Close()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("stopped")
	return nil
}
