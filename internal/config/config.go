package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"vox-ai/pkg/models"
)

// Config содержит все конфигурационные параметры приложения
type Config struct {
	Synthesis SynthesisConfig
	Audio     AudioConfig
	Jobs      JobsConfig
	Database  DatabaseConfig
	App       AppConfig
}

// SynthesisConfig содержит настройки бэкенда синтеза речи
type SynthesisConfig struct {
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
}

// AudioConfig содержит настройки выдачи аудио клиентам
type AudioConfig struct {
	// BaseURL — базовый маршрут, по которому бэкенд синтеза раздает готовые файлы
	BaseURL string
}

// JobsConfig содержит настройки конвейера обработки заданий
type JobsConfig struct {
	Workers               int
	QueueSize             int
	MaxRetries            int // количество повторов вызова синтеза (не считая первой попытки)
	RetryDelaySeconds     int
	ThrottleWindowSeconds int
	ThrottleLimit         int
	CreditCost            int
	StalePendingMinutes   int // возраст pending задания, после которого его считают зависшим
}

type DatabaseConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	Name          string
	SSLMode       string
	MigrationPath string
}

type AppConfig struct {
	Env      string
	LogLevel string
	Port     int
}

// Load загружает конфигурацию из переменных окружения и .env
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	// Synthesis
	cfg.Synthesis.BaseURL = getEnvDefault("SYNTHESIS_BASE_URL", "http://seed-vc:8000")
	cfg.Synthesis.APIKey = os.Getenv("SYNTHESIS_API_KEY")
	cfg.Synthesis.TimeoutSeconds = getEnvIntDefault("SYNTHESIS_TIMEOUT_SECONDS", 120)

	// Audio: бэкенд возвращает ключи вида /audio/..., поэтому база — это
	// origin бэкенда без маршрута, иначе сегмент /audio удвоится
	cfg.Audio.BaseURL = getEnvDefault("AUDIO_BASE_URL", "http://seed-vc:8000")

	// Jobs
	cfg.Jobs.Workers = getEnvIntDefault("JOBS_WORKERS", 4)
	cfg.Jobs.QueueSize = getEnvIntDefault("JOBS_QUEUE_SIZE", 256)
	cfg.Jobs.MaxRetries = getEnvIntDefault("JOBS_MAX_RETRIES", 2)
	cfg.Jobs.RetryDelaySeconds = getEnvIntDefault("JOBS_RETRY_DELAY_SECONDS", 2)
	cfg.Jobs.ThrottleWindowSeconds = getEnvIntDefault("JOBS_THROTTLE_WINDOW_SECONDS", 60)
	cfg.Jobs.ThrottleLimit = getEnvIntDefault("JOBS_THROTTLE_LIMIT", 3)
	cfg.Jobs.CreditCost = getEnvIntDefault("JOBS_CREDIT_COST", models.CreditCostPerJob)
	cfg.Jobs.StalePendingMinutes = getEnvIntDefault("JOBS_STALE_PENDING_MINUTES", 30)

	// Database
	cfg.Database.Host = getEnvDefault("DB_HOST", "localhost")
	cfg.Database.Port = getEnvIntDefault("DB_PORT", 5432)
	cfg.Database.User = os.Getenv("DB_USER")
	cfg.Database.Password = os.Getenv("DB_PASSWORD")
	cfg.Database.Name = os.Getenv("DB_NAME")
	cfg.Database.SSLMode = getEnvDefault("DB_SSL_MODE", "disable")
	cfg.Database.MigrationPath = getEnvDefault("MIGRATION_PATH", "scripts/migrations")

	// App
	cfg.App.Env = getEnvDefault("APP_ENV", "development")
	cfg.App.LogLevel = getEnvDefault("LOG_LEVEL", "info")
	cfg.App.Port = getEnvIntDefault("APP_PORT", 8080)

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	return cfg, nil
}

func getEnvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// validateConfig проверяет корректность конфигурации
func validateConfig(config *Config) error {
	if config.Synthesis.BaseURL == "" {
		return fmt.Errorf("SYNTHESIS_BASE_URL не установлен")
	}
	if config.Audio.BaseURL == "" {
		return fmt.Errorf("AUDIO_BASE_URL не установлен")
	}
	if config.Jobs.Workers <= 0 {
		return fmt.Errorf("JOBS_WORKERS должен быть больше нуля")
	}
	if config.Jobs.QueueSize <= 0 {
		return fmt.Errorf("JOBS_QUEUE_SIZE должен быть больше нуля")
	}
	if config.Database.Host == "" {
		return fmt.Errorf("DB_HOST не установлен")
	}
	if config.Database.User == "" {
		return fmt.Errorf("DB_USER не установлен")
	}
	if config.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD не установлен")
	}
	if config.Database.Name == "" {
		return fmt.Errorf("DB_NAME не установлен")
	}

	return nil
}

// GetDSN возвращает строку подключения к базе данных
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// IsDevelopment проверяет, запущено ли приложение в режиме разработки
func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction проверяет, запущено ли приложение в продакшн режиме
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// GetLogLevel возвращает уровень логирования в формате zap
func (c *AppConfig) GetLogLevel() zap.AtomicLevel {
	switch c.LogLevel {
	case "debug":
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		return zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		return zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
}
