package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"vox-ai/pkg/models"
)

// StaleJobRepository интерфейс для работы с зависшими заданиями
type StaleJobRepository interface {
	GetStalePending(ctx context.Context, olderThan time.Duration) ([]*models.Job, error)
	MarkFailed(ctx context.Context, id string, reason string) (bool, error)
}

// StaleJobsJob переводит зависшие pending задания в failed.
// Задание остается pending навсегда, если процесс упал посреди обработки;
// периодическая уборка закрывает такие записи с объясняющей причиной.
type StaleJobsJob struct {
	jobs      StaleJobRepository
	olderThan time.Duration
	logger    *zap.Logger
}

// NewStaleJobsJob создает новую задачу уборки зависших заданий
func NewStaleJobsJob(jobs StaleJobRepository, olderThan time.Duration, logger *zap.Logger) *StaleJobsJob {
	return &StaleJobsJob{
		jobs:      jobs,
		olderThan: olderThan,
		logger:    logger,
	}
}

// Run запускает уборку зависших заданий
func (j *StaleJobsJob) Run(ctx context.Context) error {
	j.logger.Info("запуск уборки зависших заданий",
		zap.Duration("older_than", j.olderThan))

	staleJobs, err := j.jobs.GetStalePending(ctx, j.olderThan)
	if err != nil {
		return fmt.Errorf("ошибка получения зависших заданий: %w", err)
	}

	if len(staleJobs) == 0 {
		j.logger.Debug("зависших заданий нет")
		return nil
	}

	reason := fmt.Sprintf("задание зависло в статусе pending дольше %s", j.olderThan)

	failed := 0
	for _, staleJob := range staleJobs {
		transitioned, err := j.jobs.MarkFailed(ctx, staleJob.ID, reason)
		if err != nil {
			j.logger.Error("ошибка перевода зависшего задания в failed",
				zap.Error(err),
				zap.String("job_id", staleJob.ID))
			continue
		}
		if transitioned {
			failed++
		}
	}

	j.logger.Info("уборка зависших заданий завершена",
		zap.Int("found", len(staleJobs)),
		zap.Int("failed", failed))

	return nil
}
