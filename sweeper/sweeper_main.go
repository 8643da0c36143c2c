package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Jason-Gitau/jkuat-course-hub/config"
	"github.com/Jason-Gitau/jkuat-course-hub/infra"
	"github.com/Jason-Gitau/jkuat-course-hub/migration"
	"github.com/Jason-Gitau/jkuat-course-hub/repository"
)

const sweepLockKey = "migration:sweep:lock"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.NewConfig()
	env := cfg.EnvConfig

	infraInstance := infra.InitInfra(cfg)
	repo := repository.InitRepository(infraInstance)
	logger := infraInstance.Logger

	if infraInstance.Overflow == nil {
		log.Fatal("Migration requires the overflow store; set OVERFLOW_S3_* credentials")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received signal %v, stopping sweep", sig)
		cancel()
	}()

	// One sweep at a time across all schedulers.
	acquired, err := infraInstance.Redis.SetNX(ctx, sweepLockKey, time.Now().Unix(), time.Hour)
	if err != nil {
		log.Fatalf("Failed to acquire sweep lock: %v", err)
	}
	if !acquired {
		log.Println("Another sweep is already running, exiting")
		return
	}
	defer func() {
		if err := infraInstance.Redis.Delete(context.Background(), sweepLockKey); err != nil {
			log.Printf("Warning: failed to release sweep lock: %v", err)
		}
	}()

	if usage, err := infraInstance.Primary.Usage(ctx); err == nil {
		logger.InfoWithContextf(ctx, "primary store before sweep: %d objects, %d bytes",
			usage.ObjectsTotalCount, usage.ObjectsTotalSize)
	} else {
		logger.WarningWithContextf(ctx, "primary usage report unavailable: %v", err)
	}

	sweeper := migration.NewSweeper(migration.Config{
		Policy: migration.Policy{
			MinAge:           time.Duration(env.Migration.MinAgeDays) * 24 * time.Hour,
			MaxDownloads:     env.Migration.MaxDownloads,
			LargeObjectBytes: env.Migration.LargeObjectMB << 20,
		},
		Workers:   env.Migration.Workers,
		ItemDelay: env.Migration.ItemDelay,
	}, repo.MaterialRepo, infraInstance.Primary, infraInstance.Overflow, logger)

	stats, err := sweeper.Run(ctx)
	if err != nil {
		logger.ErrorWithContextf(ctx, err, "sweep aborted")
	}
	if stats != nil {
		logger.InfoWithContextf(ctx, "sweep done in %s: %d candidates, %d migrated, %d failed, %d bytes moved",
			stats.Elapsed, stats.Candidates, stats.Migrated, stats.Failed, stats.BytesMoved)
		if stats.Failed > 0 {
			logger.WarningWithContextf(ctx, "failed material ids: %v", stats.FailedIDs)
		}
	}

	if usage, err := infraInstance.Primary.Usage(context.Background()); err == nil {
		logger.InfoWithContextf(context.Background(), "primary store after sweep: %d objects, %d bytes",
			usage.ObjectsTotalCount, usage.ObjectsTotalSize)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = logger.Shutdown(shutdownCtx)
	infraInstance.Telemetry.Shutdown(shutdownCtx)
}
