package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// BackendChecker интерфейс для проверки доступности бэкенда синтеза
type BackendChecker interface {
	HealthCheck(ctx context.Context) error
}

// Handler обрабатывает HTTP запросы для метрик
type Handler struct {
	metrics *Metrics
	backend BackendChecker
	logger  *zap.Logger
}

// NewHandler создает новый обработчик метрик
func NewHandler(metrics *Metrics, backend BackendChecker, logger *zap.Logger) *Handler {
	return &Handler{
		metrics: metrics,
		backend: backend,
		logger:  logger,
	}
}

// MetricsHandler возвращает HTTP handler для Prometheus метрик
func (h *Handler) MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// HealthHandler возвращает статус здоровья сервиса вместе с доступностью
// бэкенда синтеза. Недоступный бэкенд не роняет сервис, но отражается
// статусом 503, чтобы мониторинг видел деградацию.
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := h.backend.HealthCheck(r.Context()); err != nil {
		h.logger.Warn("бэкенд синтеза недоступен", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"degraded","service":"vox-ai","synthesis":"unavailable"}`))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok","service":"vox-ai","synthesis":"ok"}`))
}
