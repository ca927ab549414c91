package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"vox-ai/internal/config"
	"vox-ai/internal/store"

	"go.uber.org/zap"
)

func main() {
	var (
		olderThan = flag.Int("older", 30, "Возраст pending задания в минутах, после которого оно считается зависшим")
		dryRun    = flag.Bool("dry-run", false, "Показать что будет закрыто без фактического изменения")
	)
	flag.Parse()

	// Инициализация логгера
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Ошибка инициализации логгера:", err)
	}
	defer logger.Sync()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Ошибка загрузки конфигурации", zap.Error(err))
	}

	// Подключение к базе данных
	store, err := store.NewStore(cfg, logger)
	if err != nil {
		logger.Fatal("Ошибка подключения к базе данных", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	cutoff := time.Duration(*olderThan) * time.Minute

	if err := cleanupStaleJobs(ctx, store, cutoff, *dryRun, logger); err != nil {
		logger.Fatal("Ошибка уборки зависших заданий", zap.Error(err))
	}

	logger.Info("Уборка зависших заданий завершена успешно")
}

func cleanupStaleJobs(ctx context.Context, store store.Store, olderThan time.Duration, dryRun bool, logger *zap.Logger) error {
	staleJobs, err := store.Job().GetStalePending(ctx, olderThan)
	if err != nil {
		return fmt.Errorf("ошибка получения зависших заданий: %w", err)
	}

	if len(staleJobs) == 0 {
		logger.Info("Зависших заданий нет", zap.Duration("older_than", olderThan))
		return nil
	}

	if dryRun {
		for _, job := range staleJobs {
			logger.Info("DRY RUN: задание будет переведено в failed",
				zap.String("job_id", job.ID),
				zap.Int64("user_id", job.UserID),
				zap.Time("created_at", job.CreatedAt))
		}
		logger.Info("DRY RUN: будет закрыто заданий", zap.Int("count", len(staleJobs)))
		return nil
	}

	reason := fmt.Sprintf("задание зависло в статусе pending дольше %s", olderThan)

	failed := 0
	for _, job := range staleJobs {
		transitioned, err := store.Job().MarkFailed(ctx, job.ID, reason)
		if err != nil {
			logger.Error("Ошибка перевода задания в failed",
				zap.Error(err),
				zap.String("job_id", job.ID))
			continue
		}
		if transitioned {
			failed++
		}
	}

	logger.Info("Закрыты зависшие задания",
		zap.Int("found", len(staleJobs)),
		zap.Int("failed", failed),
		zap.Duration("older_than", olderThan))

	return nil
}
