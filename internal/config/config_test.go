package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"vox-ai/pkg/models"
)

func TestLoadConfig(t *testing.T) {
	// Устанавливаем переменные окружения для теста
	os.Setenv("DB_HOST", "localhost")
	os.Setenv("DB_USER", "test_user")
	os.Setenv("DB_PASSWORD", "test_password")
	os.Setenv("DB_NAME", "test_db")
	os.Setenv("SYNTHESIS_API_KEY", "test_api_key")

	// Загружаем конфигурацию
	cfg, err := Load()

	// Проверяем, что конфигурация загружена без ошибок
	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	// Проверяем значения
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "test_user", cfg.Database.User)
	assert.Equal(t, "test_password", cfg.Database.Password)
	assert.Equal(t, "test_db", cfg.Database.Name)
	assert.Equal(t, "test_api_key", cfg.Synthesis.APIKey)

	// Проверяем значения по умолчанию
	assert.Equal(t, "http://seed-vc:8000", cfg.Synthesis.BaseURL)
	assert.Equal(t, 120, cfg.Synthesis.TimeoutSeconds)
	// База аудио — origin бэкенда: ключи от бэкенда уже начинаются с /audio
	assert.Equal(t, "http://seed-vc:8000", cfg.Audio.BaseURL)
	assert.Equal(t, 4, cfg.Jobs.Workers)
	assert.Equal(t, 256, cfg.Jobs.QueueSize)
	assert.Equal(t, 2, cfg.Jobs.MaxRetries)
	assert.Equal(t, 60, cfg.Jobs.ThrottleWindowSeconds)
	assert.Equal(t, 3, cfg.Jobs.ThrottleLimit)
	assert.Equal(t, models.CreditCostPerJob, cfg.Jobs.CreditCost)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, 8080, cfg.App.Port)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := &DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "test_user",
		Password: "test_password",
		Name:     "test_db",
		SSLMode:  "disable",
	}

	dsn := cfg.GetDSN()
	expected := "host=localhost port=5432 user=test_user password=test_password dbname=test_db sslmode=disable"
	assert.Equal(t, expected, dsn)
}

func TestAppConfigMethods(t *testing.T) {
	cfg := &AppConfig{
		Env:      "development",
		LogLevel: "debug",
	}

	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg.Env = "production"
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.IsProduction())
}

func TestValidateConfig(t *testing.T) {
	// Тест с пустыми обязательными полями
	cfg := &Config{}
	err := validateConfig(cfg)
	assert.Error(t, err)

	// Тест с корректной конфигурацией
	cfg = &Config{
		Synthesis: SynthesisConfig{
			BaseURL: "http://seed-vc:8000",
		},
		Audio: AudioConfig{
			BaseURL: "http://seed-vc:8000",
		},
		Jobs: JobsConfig{
			Workers:   4,
			QueueSize: 256,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			User:     "test_user",
			Password: "test_password",
			Name:     "test_db",
		},
	}
	err = validateConfig(cfg)
	assert.NoError(t, err)
}
