package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/chorechart/internal/auth"
	"github.com/dukerupert/chorechart/internal/config"
	"github.com/dukerupert/chorechart/internal/database"
	"github.com/dukerupert/chorechart/internal/email"
	"github.com/dukerupert/chorechart/internal/logging"
	"github.com/dukerupert/chorechart/internal/server"
)

func main() {
	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		secret, err = auth.RandomSecret()
		if err != nil {
			slog.Error("failed to generate token secret", "error", err)
			os.Exit(1)
		}
		slog.Warn("CHORECHART_JWT_SECRET not set, using an ephemeral secret; sessions will not survive a restart")
	}
	tokens := auth.NewTokenService(secret, cfg.TokenTTL)

	mailer := email.NewClient(cfg.Email.PostmarkToken, cfg.Email.FromEmail, cfg.Email.BaseURL)
	if !mailer.Configured() {
		slog.Info("welcome emails disabled", "reason", "CHORECHART_POSTMARK_TOKEN or CHORECHART_FROM_EMAIL not set")
	}

	srv := server.New(db, tokens, cfg.LoginLimit, mailer, logger)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Background cleanup goroutine
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			case <-cleanupCtx.Done():
				return
			}
		}
	}()

	go func() {
		slog.Info("chorechart starting", "addr", ":"+cfg.Port, "db", cfg.DBPath)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	cleanupCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
