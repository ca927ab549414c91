package job

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"vox-ai/internal/synthesis"
	"vox-ai/pkg/models"
)

// Start запускает воркеры обработки очереди заданий.
// Каждое задание выполняется независимо: медленный вызов синтеза одного
// пользователя не задерживает прием заданий других.
func (s *Service) Start(ctx context.Context) {
	s.logger.Info("запуск воркеров обработки заданий",
		zap.Int("workers", s.cfg.Workers),
		zap.Int("queue_size", s.cfg.QueueSize))

	for i := 0; i < s.cfg.Workers; i++ {
		go s.worker(ctx, i)
	}
}

// worker обрабатывает задания из очереди до отмены контекста
func (s *Service) worker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("остановка воркера", zap.Int("worker_id", id))
			return
		case job := <-s.queue:
			s.metrics.SetQueueDepth(len(s.queue))
			s.process(ctx, job)
		}
	}
}

// process выполняет одно задание до терминального статуса
func (s *Service) process(ctx context.Context, job *models.Job) {
	start := time.Now()

	s.logger.Info("начинаем обработку задания",
		zap.String("job_id", job.ID),
		zap.Int64("user_id", job.UserID),
		zap.String("voice", job.Voice))

	// Задание с чужим сервисом синтеза завершается без вызова бэкенда
	if job.Service != models.ServiceSeedVC {
		s.failJob(ctx, job, fmt.Sprintf("неподдерживаемый сервис синтеза: %s", job.Service), start)
		return
	}

	audioKey, err := s.synthesizeWithRetry(ctx, job)
	if err != nil {
		s.failJob(ctx, job, err.Error(), start)
		return
	}

	s.completeJob(ctx, job, audioKey, start)
}

// synthesizeWithRetry вызывает бэкенд синтеза с ограниченным числом повторов.
// Повторы выполняются внутри того же задания, новое задание не создается.
// Исчерпание повторов — окончательная ошибка задания, возвращается детальная
// причина последней попытки.
func (s *Service) synthesizeWithRetry(ctx context.Context, job *models.Job) (string, error) {
	var audioKey string
	var lastErr error
	attempt := 0

	backoff := retry.NewConstant(s.cfg.RetryDelay)
	err := retry.Do(ctx, retry.WithMaxRetries(s.cfg.MaxRetries, backoff), func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			s.metrics.RecordSynthesisRetry()
		}

		key, serr := s.synth.Synthesize(ctx, job.Text, job.Voice, strconv.FormatInt(job.UserID, 10))
		if serr != nil {
			lastErr = serr

			// Ошибки конфигурации и входных данных повтором не лечатся
			if errors.Is(serr, synthesis.ErrMissingAPIKey) ||
				errors.Is(serr, synthesis.ErrInvalidVoice) ||
				errors.Is(serr, synthesis.ErrEmptyText) {
				return serr
			}

			s.logger.Warn("попытка вызова синтеза не удалась",
				zap.String("job_id", job.ID),
				zap.Int("attempt", attempt),
				zap.Error(serr))

			return retry.RetryableError(serr)
		}

		audioKey = key
		return nil
	})

	if err != nil {
		if lastErr != nil {
			return "", lastErr
		}
		return "", err
	}

	return audioKey, nil
}

// completeJob переводит задание в done и списывает кредиты.
// Списание происходит только если терминальный переход действительно
// выполнился этим вызовом — не больше одного списания на задание.
func (s *Service) completeJob(ctx context.Context, job *models.Job, audioKey string, start time.Time) {
	transitioned, err := s.jobs.MarkDone(ctx, job.ID, audioKey)
	if err != nil {
		s.logger.Error("ошибка сохранения результата задания",
			zap.Error(err),
			zap.String("job_id", job.ID))
		return
	}

	if transitioned {
		if err := s.credits.DecrementCredits(ctx, job.UserID, s.cfg.CreditCost); err != nil {
			s.logger.Error("ошибка списания кредитов за задание",
				zap.Error(err),
				zap.String("job_id", job.ID),
				zap.Int64("user_id", job.UserID))
		}
	} else {
		s.logger.Warn("задание уже в терминальном статусе, списание пропущено",
			zap.String("job_id", job.ID))
	}

	s.metrics.RecordJobCompleted(models.JobStatusDone, time.Since(start).Seconds())

	s.logger.Info("задание успешно завершено",
		zap.String("job_id", job.ID),
		zap.String("audio_key", audioKey),
		zap.Duration("duration", time.Since(start)))
}

// failJob переводит задание в failed с причиной. Кредиты не списываются.
func (s *Service) failJob(ctx context.Context, job *models.Job, reason string, start time.Time) {
	if _, err := s.jobs.MarkFailed(ctx, job.ID, reason); err != nil {
		s.logger.Error("ошибка перевода задания в failed",
			zap.Error(err),
			zap.String("job_id", job.ID))
		return
	}

	s.metrics.RecordJobCompleted(models.JobStatusFailed, time.Since(start).Seconds())

	s.logger.Info("задание завершилось ошибкой",
		zap.String("job_id", job.ID),
		zap.String("reason", reason),
		zap.Duration("duration", time.Since(start)))
}
