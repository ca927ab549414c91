package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// fakeBackend возвращает заранее заданный результат проверки
type fakeBackend struct {
	err error
}

func (f *fakeBackend) HealthCheck(ctx context.Context) error {
	return f.err
}

func TestHealthHandler(t *testing.T) {
	h := NewHandler(nil, &fakeBackend{}, zap.NewNop())

	rec := httptest.NewRecorder()
	h.HealthHandler(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("ожидался статус 200, получен %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("неверное тело ответа: '%s'", rec.Body.String())
	}
}

func TestHealthHandler_BackendDown(t *testing.T) {
	h := NewHandler(nil, &fakeBackend{err: errors.New("connection refused")}, zap.NewNop())

	rec := httptest.NewRecorder()
	h.HealthHandler(rec, httptest.NewRequest("GET", "/health", nil))

	// Недоступный бэкенд отражается статусом 503
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ожидался статус 503, получен %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"degraded"`) {
		t.Errorf("неверное тело ответа: '%s'", rec.Body.String())
	}
}
