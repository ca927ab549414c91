package throttle

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

// fakeCounter возвращает заранее заданный счетчик заданий
type fakeCounter struct {
	count int
	err   error
}

func (f *fakeCounter) CountRecentByUser(ctx context.Context, userID int64, window time.Duration) (int, error) {
	return f.count, f.err
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name          string
		count         int
		wantThrottled bool
	}{
		{name: "нет заданий за окно", count: 0, wantThrottled: false},
		{name: "одно задание", count: 1, wantThrottled: false},
		{name: "ровно на лимите", count: 3, wantThrottled: false},
		{name: "четвертое задание за минуту", count: 4, wantThrottled: true},
		{name: "сильно выше лимита", count: 10, wantThrottled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := NewLimiter(&fakeCounter{count: tt.count}, 60*time.Second, 3, zap.NewNop())

			throttled, count, err := limiter.Check(context.Background(), 1)
			if err != nil {
				t.Fatalf("неожиданная ошибка: %v", err)
			}

			if throttled != tt.wantThrottled {
				t.Errorf("ожидался throttled=%v для count=%d, получен %v", tt.wantThrottled, tt.count, throttled)
			}
			if count != tt.count {
				t.Errorf("ожидался count=%d, получен %d", tt.count, count)
			}
		})
	}
}

func TestCheck_CounterError(t *testing.T) {
	limiter := NewLimiter(&fakeCounter{err: errors.New("база недоступна")}, 60*time.Second, 3, zap.NewNop())

	_, _, err := limiter.Check(context.Background(), 1)
	if err == nil {
		t.Error("ожидалась ошибка при недоступном счетчике")
	}
}
