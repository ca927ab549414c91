package throttle

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// JobCounter интерфейс для подсчета недавних заданий пользователя
type JobCounter interface {
	CountRecentByUser(ctx context.Context, userID int64, window time.Duration) (int, error)
}

// Limiter считает задания пользователя за скользящее окно.
// Состояние не хранится: счетчик каждый раз пересчитывается из истории
// заданий, поэтому рестарт процесса не ломает окно.
type Limiter struct {
	counter JobCounter
	window  time.Duration
	limit   int
	logger  *zap.Logger
}

// NewLimiter создает новый лимитер
func NewLimiter(counter JobCounter, window time.Duration, limit int, logger *zap.Logger) *Limiter {
	return &Limiter{
		counter: counter,
		window:  window,
		limit:   limit,
		logger:  logger,
	}
}

// Check возвращает признак превышения лимита и текущий счетчик.
// Сигнал рекомендательный: задания не блокируются, клиенту лишь
// показывается предупреждение при count > limit.
func (l *Limiter) Check(ctx context.Context, userID int64) (bool, int, error) {
	count, err := l.counter.CountRecentByUser(ctx, userID, l.window)
	if err != nil {
		return false, 0, fmt.Errorf("ошибка проверки лимита заданий: %w", err)
	}

	throttled := count > l.limit
	if throttled {
		l.logger.Info("превышен лимит заданий за окно",
			zap.Int64("user_id", userID),
			zap.Int("count", count),
			zap.Int("limit", l.limit),
			zap.Duration("window", l.window))
	}

	return throttled, count, nil
}
