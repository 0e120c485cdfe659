package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/identity-service/internal/domain"
)

// StaffRepository handles persistence for staff identities.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.StaffIdentity) error
	Update(ctx context.Context, staff *domain.StaffIdentity) error
	GetByID(ctx context.Context, id string) (*domain.StaffIdentity, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, filter StaffFilter) ([]domain.StaffIdentity, error)
	CountRoots(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
}

// StaffFilter defines query params for staff listing.
type StaffFilter struct {
	Role      *domain.StaffRole
	CreatedBy *string
	Active    *bool
	Limit     int
	Offset    int
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

const staffColumns = `id, full_name, email, phone_number, role, created_by, active_flag, last_login, created_at, updated_at`

func (r *staffRepository) Create(ctx context.Context, staff *domain.StaffIdentity) error {
	const query = `
        INSERT INTO staff_identities (id, full_name, email, phone_number, role, created_by, active_flag)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		staff.ID,
		staff.FullName,
		staff.Email,
		staff.PhoneNumber,
		staff.Role,
		staff.CreatedBy,
		staff.IsActive,
	).Scan(&staff.CreatedAt, &staff.UpdatedAt)
}

func (r *staffRepository) Update(ctx context.Context, staff *domain.StaffIdentity) error {
	// id and created_by are immutable; they are deliberately absent
	// from the SET list.
	const query = `
        UPDATE staff_identities
        SET full_name=$1, email=$2, phone_number=$3, role=$4, active_flag=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		staff.FullName,
		staff.Email,
		staff.PhoneNumber,
		staff.Role,
		staff.IsActive,
		staff.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.StaffIdentity, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_identities WHERE id=$1`

	var staff domain.StaffIdentity
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&staff.ID,
		&staff.FullName,
		&staff.Email,
		&staff.PhoneNumber,
		&staff.Role,
		&staff.CreatedBy,
		&staff.IsActive,
		&staff.LastLogin,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE staff_identities SET last_login=$1 WHERE id=$2`
	_, err := r.pool.Exec(ctx, query, at, id)
	return err
}

func (r *staffRepository) List(ctx context.Context, filter StaffFilter) ([]domain.StaffIdentity, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_identities`
	args := []any{}
	clauses := []string{}

	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("role=$%d", len(args)))
	}
	if filter.CreatedBy != nil {
		args = append(args, *filter.CreatedBy)
		clauses = append(clauses, fmt.Sprintf("created_by=$%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("active_flag=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY created_at DESC"
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StaffIdentity
	for rows.Next() {
		var staff domain.StaffIdentity
		if err := rows.Scan(
			&staff.ID,
			&staff.FullName,
			&staff.Email,
			&staff.PhoneNumber,
			&staff.Role,
			&staff.CreatedBy,
			&staff.IsActive,
			&staff.LastLogin,
			&staff.CreatedAt,
			&staff.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, staff)
	}
	return result, rows.Err()
}

func (r *staffRepository) CountRoots(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM staff_identities WHERE created_by IS NULL`
	var count int
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes a staff identity. Dependents keep existing with their
// created_by nulled out by the ON DELETE SET NULL constraint.
func (r *staffRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM staff_identities WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
