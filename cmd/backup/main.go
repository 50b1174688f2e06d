// Command backup takes one encrypted snapshot of the chorechart database and
// uploads it to S3-compatible storage, or lists and restores existing archives.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/chorechart/internal/backup"
	"github.com/dukerupert/chorechart/internal/config"
	"github.com/dukerupert/chorechart/internal/database"
	"github.com/dukerupert/chorechart/internal/logging"
)

func main() {
	list := flag.Bool("list", false, "list archives, newest first, and exit")
	restoreKey := flag.String("restore", "", "archive key to restore")
	restoreTo := flag.String("out", "restored.db", "destination path for -restore")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall deadline")
	flag.Parse()

	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat).With("component", "backup")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	if err := run(ctx, cfg, logger, *list, *restoreKey, *restoreTo); err != nil {
		slog.Error("backup failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, list bool, restoreKey, restoreTo string) error {
	bcfg := backup.Config{
		Endpoint:   cfg.Backup.Endpoint,
		Bucket:     cfg.Backup.Bucket,
		Region:     cfg.Backup.Region,
		AccessKey:  cfg.Backup.AccessKey,
		SecretKey:  cfg.Backup.SecretKey,
		Prefix:     cfg.Backup.Prefix,
		Passphrase: cfg.Backup.Passphrase,
		Retain:     cfg.Backup.Retain,
	}

	if list || restoreKey != "" {
		mgr, err := backup.NewManager(bcfg, nil, logger)
		if err != nil {
			return err
		}
		if list {
			keys, err := mgr.List(ctx)
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Println(k)
			}
			return nil
		}
		return mgr.Restore(ctx, restoreKey, restoreTo)
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	mgr, err := backup.NewManager(bcfg, db, logger)
	if err != nil {
		return err
	}
	key, err := mgr.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("backup complete", "key", key)
	return nil
}
