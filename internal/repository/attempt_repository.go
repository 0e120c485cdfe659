package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/identity-service/internal/domain"
)

// AttemptRepository stores audit entries. The table is append-only:
// there is no update or delete surface on purpose.
type AttemptRepository interface {
	Create(ctx context.Context, attempt *domain.AttemptRecord) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.AttemptRecord, error)
}

type attemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository builds the repository.
func NewAttemptRepository(pool *pgxpool.Pool) AttemptRepository {
	return &attemptRepository{pool: pool}
}

func (r *attemptRepository) Create(ctx context.Context, attempt *domain.AttemptRecord) error {
	const query = `
        INSERT INTO login_attempts (id, user_id, user_type, action, success, error_message, ip_address, user_agent, attempted_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := r.pool.Exec(ctx, query,
		attempt.ID,
		attempt.UserID,
		attempt.UserType,
		attempt.Action,
		attempt.Success,
		attempt.ErrorMessage,
		attempt.IPAddress,
		attempt.UserAgent,
		attempt.Timestamp,
	)
	return err
}

func (r *attemptRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.AttemptRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
        SELECT id, user_id, user_type, action, success, error_message, ip_address, user_agent, attempted_at
        FROM login_attempts WHERE user_id=$1 ORDER BY attempted_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AttemptRecord
	for rows.Next() {
		var attempt domain.AttemptRecord
		if err := rows.Scan(
			&attempt.ID,
			&attempt.UserID,
			&attempt.UserType,
			&attempt.Action,
			&attempt.Success,
			&attempt.ErrorMessage,
			&attempt.IPAddress,
			&attempt.UserAgent,
			&attempt.Timestamp,
		); err != nil {
			return nil, err
		}
		result = append(result, attempt)
	}
	return result, rows.Err()
}
