package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vox-ai/pkg/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// jobRepository реализует JobRepository
type jobRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewJobRepository создает новый репозиторий заданий
func NewJobRepository(db *pgxpool.Pool, logger *zap.Logger) JobRepository {
	return &jobRepository{
		db:     db,
		logger: logger,
	}
}

const jobColumns = `id, user_id, text, voice, service, status, audio_key, failure_reason, created_at, updated_at, completed_at`

// Create создает новое задание в статусе pending
func (r *jobRepository) Create(ctx context.Context, job *models.Job) error {
	query := `
		INSERT INTO jobs (id, user_id, text, voice, service, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now

	// Устанавливаем значения по умолчанию
	if job.Status == "" {
		job.Status = models.JobStatusPending
	}
	if job.Service == "" {
		job.Service = models.ServiceSeedVC
	}

	_, err := r.db.Exec(ctx, query,
		job.ID, job.UserID, job.Text, job.Voice, job.Service, job.Status, job.CreatedAt, job.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("ошибка создания задания: %w", err)
	}

	r.logger.Info("задание создано",
		zap.String("job_id", job.ID),
		zap.Int64("user_id", job.UserID),
		zap.String("voice", job.Voice),
		zap.String("status", job.Status))

	return nil
}

// GetByIDForUser получает задание по ID с проверкой владельца.
// Чужое задание неотличимо от несуществующего.
func (r *jobRepository) GetByIDForUser(ctx context.Context, id string, userID int64) (*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1 AND user_id = $2`

	job := &models.Job{}
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&job.ID, &job.UserID, &job.Text, &job.Voice, &job.Service, &job.Status,
		&job.AudioKey, &job.FailureReason, &job.CreatedAt, &job.UpdatedAt, &job.CompletedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("ошибка получения задания пользователя: %w", err)
	}

	return job, nil
}

// MarkDone переводит задание из pending в done и сохраняет ключ аудио.
// Возвращает true только если переход действительно произошел: условие
// status = 'pending' гарантирует не больше одного терминального перехода.
func (r *jobRepository) MarkDone(ctx context.Context, id string, audioKey string) (bool, error) {
	query := `
		UPDATE jobs
		SET status = $2, audio_key = $3, updated_at = $4, completed_at = $4
		WHERE id = $1 AND status = $5`

	now := time.Now()
	result, err := r.db.Exec(ctx, query, id, models.JobStatusDone, audioKey, now, models.JobStatusPending)

	if err != nil {
		return false, fmt.Errorf("ошибка завершения задания: %w", err)
	}

	if result.RowsAffected() == 0 {
		r.logger.Warn("задание уже в терминальном статусе, переход в done пропущен",
			zap.String("job_id", id))
		return false, nil
	}

	r.logger.Info("задание завершено",
		zap.String("job_id", id),
		zap.String("audio_key", audioKey))

	return true, nil
}

// MarkFailed переводит задание из pending в failed и сохраняет причину
func (r *jobRepository) MarkFailed(ctx context.Context, id string, reason string) (bool, error) {
	query := `
		UPDATE jobs
		SET status = $2, failure_reason = $3, updated_at = $4, completed_at = $4
		WHERE id = $1 AND status = $5`

	now := time.Now()
	result, err := r.db.Exec(ctx, query, id, models.JobStatusFailed, reason, now, models.JobStatusPending)

	if err != nil {
		return false, fmt.Errorf("ошибка перевода задания в failed: %w", err)
	}

	if result.RowsAffected() == 0 {
		r.logger.Warn("задание уже в терминальном статусе, переход в failed пропущен",
			zap.String("job_id", id))
		return false, nil
	}

	r.logger.Info("задание переведено в failed",
		zap.String("job_id", id),
		zap.String("reason", reason))

	return true, nil
}

// CountRecentByUser считает задания пользователя, созданные за скользящее окно.
// Окно пересчитывается из истории заданий на каждом вызове, отдельный счетчик
// не хранится и не расходится с базой после рестарта.
func (r *jobRepository) CountRecentByUser(ctx context.Context, userID int64, window time.Duration) (int, error) {
	query := `SELECT COUNT(*) FROM jobs WHERE user_id = $1 AND created_at > $2`

	cutoff := time.Now().Add(-window)

	var count int
	err := r.db.QueryRow(ctx, query, userID, cutoff).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчета недавних заданий: %w", err)
	}

	return count, nil
}

// GetStalePending получает pending задания старше указанного возраста
func (r *jobRepository) GetStalePending(ctx context.Context, olderThan time.Duration) ([]*models.Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at ASC`

	cutoff := time.Now().Add(-olderThan)

	rows, err := r.db.Query(ctx, query, models.JobStatusPending, cutoff)
	if err != nil {
		r.logger.Error("ошибка получения зависших заданий", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения зависших заданий: %w", err)
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		job := &models.Job{}
		err := rows.Scan(
			&job.ID, &job.UserID, &job.Text, &job.Voice, &job.Service, &job.Status,
			&job.AudioKey, &job.FailureReason, &job.CreatedAt, &job.UpdatedAt, &job.CompletedAt,
		)
		if err != nil {
			r.logger.Error("ошибка сканирования задания", zap.Error(err))
			continue
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}
