package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// userRepository реализует UserRepository
type userRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewUserRepository создает новый репозиторий пользователей
func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) UserRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// DecrementCredits списывает кредиты с баланса пользователя.
// Списание выполняется одним UPDATE, конкурентные списания не теряются.
func (r *userRepository) DecrementCredits(ctx context.Context, userID int64, amount int) error {
	query := `UPDATE users SET credits = credits - $2, updated_at = $3 WHERE id = $1`

	now := time.Now()
	result, err := r.db.Exec(ctx, query, userID, amount, now)

	if err != nil {
		return fmt.Errorf("ошибка списания кредитов: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("пользователь с ID %d не найден", userID)
	}

	r.logger.Info("кредиты списаны",
		zap.Int64("user_id", userID),
		zap.Int("amount", amount))

	return nil
}
