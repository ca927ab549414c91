package job

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vox-ai/internal/synthesis"
	"vox-ai/pkg/models"
)

// JobRepository интерфейс для работы с заданиями
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	MarkDone(ctx context.Context, id string, audioKey string) (bool, error)
	MarkFailed(ctx context.Context, id string, reason string) (bool, error)
}

// CreditRepository интерфейс для списания кредитов пользователя
type CreditRepository interface {
	DecrementCredits(ctx context.Context, userID int64, amount int) error
}

// Limiter интерфейс для проверки лимита заданий пользователя
type Limiter interface {
	Check(ctx context.Context, userID int64) (bool, int, error)
}

// MetricsRecorder интерфейс для записи метрик конвейера
type MetricsRecorder interface {
	RecordJobSubmitted(voice string, throttled bool)
	RecordJobCompleted(status string, duration float64)
	RecordSynthesisRetry()
	SetQueueDepth(depth int)
}

// Config содержит настройки сервиса заданий
type Config struct {
	Workers    int
	QueueSize  int
	MaxRetries uint64 // количество повторов вызова синтеза (не считая первой попытки)
	RetryDelay time.Duration
	CreditCost int
}

// Service координирует жизненный цикл заданий генерации речи:
// прием запроса, очередь, вызов бэкенда синтеза и терминальный переход
type Service struct {
	jobs    JobRepository
	credits CreditRepository
	synth   synthesis.Synthesizer
	limiter Limiter
	metrics MetricsRecorder
	logger  *zap.Logger
	cfg     Config
	queue   chan *models.Job
}

// NewService создает новый сервис заданий
func NewService(
	jobs JobRepository,
	credits CreditRepository,
	synth synthesis.Synthesizer,
	limiter Limiter,
	metrics MetricsRecorder,
	cfg Config,
	logger *zap.Logger,
) *Service {
	return &Service{
		jobs:    jobs,
		credits: credits,
		synth:   synth,
		limiter: limiter,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
		queue:   make(chan *models.Job, cfg.QueueSize),
	}
}

// Submit принимает запрос на генерацию речи и ставит задание в очередь.
// Возвращает ID задания и рекомендательный признак превышения лимита:
// задание над лимитом все равно выполняется, клиенту лишь показывается
// предупреждение.
func (s *Service) Submit(ctx context.Context, userID int64, text, voice string) (*models.SubmitResult, error) {
	// Валидация входа до создания записи
	if text == "" {
		return nil, synthesis.ErrEmptyText
	}
	if !synthesis.IsSupportedVoice(voice) {
		return nil, fmt.Errorf("%w: %s", synthesis.ErrInvalidVoice, voice)
	}

	job := &models.Job{
		ID:      uuid.NewString(),
		UserID:  userID,
		Text:    text,
		Voice:   voice,
		Service: models.ServiceSeedVC,
		Status:  models.JobStatusPending,
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("ошибка создания задания: %w", err)
	}

	// Сигнал троттлинга считается после создания записи, поэтому текущее
	// задание входит в счетчик окна
	throttled, count, err := s.limiter.Check(ctx, userID)
	if err != nil {
		// Лимит рекомендательный, его недоступность не должна ронять прием
		s.logger.Error("ошибка проверки лимита заданий",
			zap.Error(err),
			zap.Int64("user_id", userID))
		throttled = false
	}

	// Постановка в очередь не блокирует вызывающего: при переполнении
	// задание сразу переводится в failed с зафиксированной причиной
	select {
	case s.queue <- job:
		s.metrics.SetQueueDepth(len(s.queue))
	default:
		s.logger.Error("очередь заданий переполнена",
			zap.String("job_id", job.ID),
			zap.Int("queue_size", s.cfg.QueueSize))
		if _, ferr := s.jobs.MarkFailed(ctx, job.ID, "очередь обработки переполнена"); ferr != nil {
			s.logger.Error("ошибка перевода задания в failed", zap.Error(ferr), zap.String("job_id", job.ID))
		}
	}

	s.metrics.RecordJobSubmitted(voice, throttled)

	s.logger.Info("задание принято",
		zap.String("job_id", job.ID),
		zap.Int64("user_id", userID),
		zap.String("voice", voice),
		zap.Bool("throttled", throttled),
		zap.Int("recent_count", count))

	return &models.SubmitResult{
		JobID:     job.ID,
		Throttled: throttled,
	}, nil
}
