package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/identity-service/internal/domain"
)

// YouthRepository handles persistence for youth identities.
type YouthRepository interface {
	Create(ctx context.Context, youth *domain.YouthIdentity) error
	Update(ctx context.Context, youth *domain.YouthIdentity) error
	GetByID(ctx context.Context, id string) (*domain.YouthIdentity, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

type youthRepository struct {
	pool *pgxpool.Pool
}

// NewYouthRepository instantiates the repository.
func NewYouthRepository(pool *pgxpool.Pool) YouthRepository {
	return &youthRepository{pool: pool}
}

const youthColumns = `id, full_name, email, program_type, osm_username, active_flag, last_login, created_at, updated_at`

func (r *youthRepository) Create(ctx context.Context, youth *domain.YouthIdentity) error {
	const query = `
        INSERT INTO youth_identities (id, full_name, email, program_type, osm_username, active_flag)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		youth.ID,
		youth.FullName,
		youth.Email,
		youth.ProgramType,
		youth.OSMUsername,
		youth.IsActive,
	).Scan(&youth.CreatedAt, &youth.UpdatedAt)
}

func (r *youthRepository) Update(ctx context.Context, youth *domain.YouthIdentity) error {
	const query = `
        UPDATE youth_identities
        SET full_name=$1, email=$2, program_type=$3, osm_username=$4, active_flag=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		youth.FullName,
		youth.Email,
		youth.ProgramType,
		youth.OSMUsername,
		youth.IsActive,
		youth.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *youthRepository) GetByID(ctx context.Context, id string) (*domain.YouthIdentity, error) {
	query := `SELECT ` + youthColumns + ` FROM youth_identities WHERE id=$1`

	var youth domain.YouthIdentity
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&youth.ID,
		&youth.FullName,
		&youth.Email,
		&youth.ProgramType,
		&youth.OSMUsername,
		&youth.IsActive,
		&youth.LastLogin,
		&youth.CreatedAt,
		&youth.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &youth, nil
}

func (r *youthRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE youth_identities SET last_login=$1 WHERE id=$2`
	_, err := r.pool.Exec(ctx, query, at, id)
	return err
}
