package status

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"vox-ai/pkg/models"
)

// JobFinder интерфейс для чтения задания с проверкой владельца
type JobFinder interface {
	GetByIDForUser(ctx context.Context, id string, userID int64) (*models.Job, error)
}

// Resolver отвечает на опросы статуса задания одним чтением из базы.
// Бэкенд синтеза повторно не вызывается, поэтому резолвер безопасно
// дергать с высокой частотой параллельно с работой воркеров.
type Resolver struct {
	jobs         JobFinder
	audioBaseURL string
	logger       *zap.Logger
}

// NewResolver создает новый резолвер статуса
func NewResolver(jobs JobFinder, audioBaseURL string, logger *zap.Logger) *Resolver {
	return &Resolver{
		jobs:         jobs,
		audioBaseURL: audioBaseURL,
		logger:       logger,
	}
}

// Resolve возвращает статус задания для опрашивающего клиента.
// failed -> {success: false, audio_url: null};
// done -> {success: true, audio_url: <ссылка>};
// pending -> {success: true, audio_url: null}.
// Детали ошибки клиенту не раскрываются, они остаются в записи задания.
func (r *Resolver) Resolve(ctx context.Context, jobID string, userID int64) (*models.SpeechStatus, error) {
	job, err := r.jobs.GetByIDForUser(ctx, jobID, userID)
	if err != nil {
		return nil, err
	}

	switch job.Status {
	case models.JobStatusFailed:
		return &models.SpeechStatus{Success: false, AudioURL: nil}, nil
	case models.JobStatusDone:
		if job.AudioKey == nil {
			// done без ключа аудио — поврежденная запись
			return nil, fmt.Errorf("задание %s завершено без ключа аудио", job.ID)
		}
		audioURL := JoinAudioURL(r.audioBaseURL, *job.AudioKey)
		return &models.SpeechStatus{Success: true, AudioURL: &audioURL}, nil
	default:
		// pending: клиент продолжает опрашивать
		return &models.SpeechStatus{Success: true, AudioURL: nil}, nil
	}
}

// JoinAudioURL соединяет базовый маршрут и ключ аудио ровно одним слешем,
// независимо от того, кончается ли база слешем и начинается ли ключ с него
func JoinAudioURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
