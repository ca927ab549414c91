package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vox-ai/internal/api"
	"vox-ai/internal/config"
	"vox-ai/internal/job"
	"vox-ai/internal/metrics"
	"vox-ai/internal/migrations"
	"vox-ai/internal/scheduler"
	"vox-ai/internal/status"
	"vox-ai/internal/store"
	"vox-ai/internal/synthesis"
	"vox-ai/internal/throttle"

	"go.uber.org/zap"
)

func main() {
	// Инициализация логгера
	logger, err := initLogger()
	if err != nil {
		fmt.Printf("Ошибка инициализации логгера: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("запуск сервиса Vox AI")

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("ошибка загрузки конфигурации", zap.Error(err))
	}

	// Инициализация базы данных
	store, err := store.NewStore(cfg, logger)
	if err != nil {
		logger.Fatal("ошибка инициализации базы данных", zap.Error(err))
	}
	defer store.Close()

	// Применение миграций
	if err := migrations.RunMigrations(cfg, logger); err != nil {
		logger.Fatal("ошибка применения миграций", zap.Error(err))
	}

	// Инициализация клиента бэкенда синтеза
	logger.Info("конфигурация бэкенда синтеза",
		zap.String("base_url", cfg.Synthesis.BaseURL),
		zap.Int("timeout_seconds", cfg.Synthesis.TimeoutSeconds))

	synthClient := synthesis.NewSeedVCClient(
		cfg.Synthesis.BaseURL,
		cfg.Synthesis.APIKey,
		time.Duration(cfg.Synthesis.TimeoutSeconds)*time.Second,
		logger,
	)

	// Инициализация лимитера заданий
	limiter := throttle.NewLimiter(
		store.Job(),
		time.Duration(cfg.Jobs.ThrottleWindowSeconds)*time.Second,
		cfg.Jobs.ThrottleLimit,
		logger,
	)

	// Инициализация метрик
	metricsSystem := metrics.New(logger)
	metricsHandler := metrics.NewHandler(metricsSystem, synthClient, logger)

	// Инициализация сервиса заданий
	jobService := job.NewService(
		store.Job(),
		store.User(),
		synthClient,
		limiter,
		metricsSystem,
		job.Config{
			Workers:    cfg.Jobs.Workers,
			QueueSize:  cfg.Jobs.QueueSize,
			MaxRetries: uint64(cfg.Jobs.MaxRetries),
			RetryDelay: time.Duration(cfg.Jobs.RetryDelaySeconds) * time.Second,
			CreditCost: cfg.Jobs.CreditCost,
		},
		logger,
	)

	// Инициализация резолвера статуса
	statusResolver := status.NewResolver(store.Job(), cfg.Audio.BaseURL, logger)

	// Инициализация HTTP обработчиков
	speechHandler := api.NewSpeechHandler(jobService, statusResolver, synthClient, logger)

	// Инициализация планировщика задач обслуживания
	taskScheduler := scheduler.NewScheduler(logger)

	// Добавляем уборку зависших pending заданий
	staleJobsJob := scheduler.NewStaleJobsJob(
		store.Job(),
		time.Duration(cfg.Jobs.StalePendingMinutes)*time.Minute,
		logger,
	)
	taskScheduler.AddJob(staleJobsJob)

	// Создание канала для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Обработка сигналов для graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Запуск воркеров обработки заданий
	jobService.Start(ctx)

	// Запуск планировщика (каждые 10 минут)
	go taskScheduler.Start(ctx, 10*time.Minute)

	// Запуск HTTP сервера
	go startHTTPServer(ctx, cfg.App.Port, speechHandler, metricsHandler, logger)

	logger.Info("сервис запущен и готов к работе",
		zap.String("address", fmt.Sprintf("http://localhost:%d", cfg.App.Port)),
	)

	// Ожидание сигнала завершения
	<-sigChan
	logger.Info("получен сигнал завершения, начинаем graceful shutdown")

	cancel()

	logger.Info("сервис завершен")
}

// initLogger инициализирует логгер
func initLogger() (*zap.Logger, error) {
	// В продакшене можно использовать JSON формат
	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stdout", "logs/app.log"}
	config.ErrorOutputPaths = []string{"stderr", "logs/error.log"}

	// Создаем директорию для логов если её нет
	if err := os.MkdirAll("logs", 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории логов: %w", err)
	}

	return config.Build()
}

// startHTTPServer запускает HTTP сервер конвейера генерации речи
func startHTTPServer(ctx context.Context, port int, speechHandler *api.SpeechHandler, metricsHandler *metrics.Handler, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metricsHandler.MetricsHandler())
	mux.HandleFunc("/health", metricsHandler.HealthHandler)

	// Конвейер генерации речи
	mux.HandleFunc("/api/speech", speechHandler.HandleGenerate)
	mux.HandleFunc("/api/speech/status", speechHandler.HandleStatus)
	mux.HandleFunc("/api/voices", speechHandler.HandleVoices)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	logger.Info("HTTP сервер запущен", zap.String("address", server.Addr))

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("ошибка HTTP сервера", zap.Error(err))
		}
	}()

	// Ожидание сигнала завершения
	<-ctx.Done()

	// Graceful shutdown HTTP сервера
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("ошибка при остановке HTTP сервера", zap.Error(err))
	}

	logger.Info("HTTP сервер остановлен")
}
