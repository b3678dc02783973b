package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type OperatorRow struct {
	ID           string
	Username     string
	Name         string
	Role         string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type OperatorRepo struct {
	db *pgxpool.Pool
}

func NewOperatorRepo(db *pgxpool.Pool) *OperatorRepo {
	return &OperatorRepo{db: db}
}

func (r *OperatorRepo) FindByUsername(ctx context.Context, username string) (*OperatorRow, error) {
	const q = `
SELECT id::text, username, name, role, password_hash, is_active, created_at, updated_at
FROM operators
WHERE username = $1;
`
	var out OperatorRow
	if err := r.db.QueryRow(ctx, q, username).Scan(
		&out.ID,
		&out.Username,
		&out.Name,
		&out.Role,
		&out.PasswordHash,
		&out.IsActive,
		&out.CreatedAt,
		&out.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}
