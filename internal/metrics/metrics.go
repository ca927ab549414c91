package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Metrics содержит все метрики конвейера генерации речи
type Metrics struct {
	logger *zap.Logger

	// Счетчики
	jobsSubmitted        *prometheus.CounterVec
	jobsCompleted        *prometheus.CounterVec
	throttledSubmissions prometheus.Counter
	synthesisRetries     prometheus.Counter

	// Гистограммы
	synthesisDuration *prometheus.HistogramVec

	// Gauge метрики
	queueDepth prometheus.Gauge
}

// New создает новый экземпляр метрик
func New(logger *zap.Logger) *Metrics {
	m := &Metrics{
		logger: logger,

		// Счетчики поставленных заданий
		jobsSubmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "speech_jobs_submitted_total",
				Help: "Общее количество принятых заданий генерации речи",
			},
			[]string{"voice"},
		),

		// Счетчики завершенных заданий
		jobsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "speech_jobs_completed_total",
				Help: "Общее количество заданий, достигших терминального статуса",
			},
			[]string{"status"}, // done, failed
		),

		// Счетчик сработавшего троттлинга
		throttledSubmissions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "speech_jobs_throttled_total",
				Help: "Количество заданий, принятых с предупреждением о лимите",
			},
		),

		// Счетчик повторов вызова синтеза
		synthesisRetries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "synthesis_retries_total",
				Help: "Количество повторных попыток вызова бэкенда синтеза",
			},
		),

		// Гистограмма времени обработки задания
		synthesisDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "synthesis_duration_seconds",
				Help:    "Время обработки задания синтеза в секундах",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"}, // done, failed
		),

		// Gauge глубины очереди заданий
		queueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "speech_jobs_queue_depth",
				Help: "Текущее количество заданий в очереди на обработку",
			},
		),
	}

	// Регистрируем все метрики
	prometheus.MustRegister(
		m.jobsSubmitted,
		m.jobsCompleted,
		m.throttledSubmissions,
		m.synthesisRetries,
		m.synthesisDuration,
		m.queueDepth,
	)

	return m
}

// RecordJobSubmitted записывает принятое задание
func (m *Metrics) RecordJobSubmitted(voice string, throttled bool) {
	m.jobsSubmitted.WithLabelValues(voice).Inc()
	if throttled {
		m.throttledSubmissions.Inc()
	}
}

// RecordJobCompleted записывает терминальный переход задания
func (m *Metrics) RecordJobCompleted(status string, duration float64) {
	m.jobsCompleted.WithLabelValues(status).Inc()
	m.synthesisDuration.WithLabelValues(status).Observe(duration)
}

// RecordSynthesisRetry записывает повторную попытку вызова синтеза
func (m *Metrics) RecordSynthesisRetry() {
	m.synthesisRetries.Inc()
}

// SetQueueDepth устанавливает текущую глубину очереди
func (m *Metrics) SetQueueDepth(depth int) {
	m.queueDepth.Set(float64(depth))
}
