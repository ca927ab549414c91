package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vox-ai/internal/config"
	"vox-ai/pkg/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrJobNotFound возвращается, когда задание не существует или принадлежит другому пользователю
var ErrJobNotFound = errors.New("задание не найдено")

// Store представляет интерфейс для работы с базой данных
type Store interface {
	Job() JobRepository
	User() UserRepository
	DB() *pgxpool.Pool
	Close() error
}

// store реализует интерфейс Store
type store struct {
	db     *pgxpool.Pool
	logger *zap.Logger
	job    JobRepository
	user   UserRepository
}

// JobRepository интерфейс для работы с заданиями генерации речи
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	GetByIDForUser(ctx context.Context, id string, userID int64) (*models.Job, error)
	MarkDone(ctx context.Context, id string, audioKey string) (bool, error)
	MarkFailed(ctx context.Context, id string, reason string) (bool, error)
	CountRecentByUser(ctx context.Context, userID int64, window time.Duration) (int, error)
	GetStalePending(ctx context.Context, olderThan time.Duration) ([]*models.Job, error)
}

// UserRepository интерфейс для работы с балансом пользователей
type UserRepository interface {
	DecrementCredits(ctx context.Context, userID int64, amount int) error
}

// NewStore создает новое подключение к базе данных
func NewStore(cfg *config.Config, logger *zap.Logger) (Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Создание пула подключений
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга DSN: %w", err)
	}

	// Настройка пула
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	// Создание пула
	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	// Проверка подключения
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ошибка проверки подключения к базе данных: %w", err)
	}

	logger.Info("успешное подключение к базе данных PostgreSQL")

	s := &store{
		db:     db,
		logger: logger,
	}

	// Инициализация репозиториев
	s.job = NewJobRepository(db, logger)
	s.user = NewUserRepository(db, logger)

	return s, nil
}

// Job возвращает репозиторий заданий
func (s *store) Job() JobRepository {
	return s.job
}

// User возвращает репозиторий пользователей
func (s *store) User() UserRepository {
	return s.user
}

// DB возвращает подключение к базе данных
func (s *store) DB() *pgxpool.Pool {
	return s.db
}

// Close закрывает подключение к базе данных
func (s *store) Close() error {
	s.logger.Info("закрытие подключения к базе данных")
	s.db.Close()
	return nil
}
