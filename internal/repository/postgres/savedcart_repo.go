package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/cart"
	scuc "github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/savedcart"
)

type SavedCartRow struct {
	ID         string
	OperatorID string
	Label      string
	Lines      []byte // jsonb
	CreatedAt  time.Time
}

type SavedCartRepo struct {
	db *pgxpool.Pool
}

func NewSavedCartRepo(db *pgxpool.Pool) *SavedCartRepo {
	return &SavedCartRepo{db: db}
}

func (r *SavedCartRepo) Save(ctx context.Context, sc *scuc.SavedCart) (*scuc.SavedCart, error) {
	lines, err := json.Marshal(sc.Lines)
	if err != nil {
		return nil, err
	}
	const q = `
INSERT INTO saved_carts (id, operator_id, label, lines, created_at)
VALUES ($1::uuid, $2::uuid, $3, $4, $5)
RETURNING id::text, operator_id::text, label, lines, created_at;
`
	var row SavedCartRow
	if err := r.db.QueryRow(ctx, q, sc.ID, sc.OperatorID, sc.Label, lines, sc.CreatedAt).Scan(
		&row.ID, &row.OperatorID, &row.Label, &row.Lines, &row.CreatedAt,
	); err != nil {
		return nil, err
	}
	return mapSavedCartRow(&row)
}

func (r *SavedCartRepo) ListByOperator(ctx context.Context, operatorID string) ([]scuc.SavedCart, error) {
	const q = `
SELECT id::text, operator_id::text, label, lines, created_at
FROM saved_carts
WHERE operator_id = $1::uuid
ORDER BY created_at ASC;
`
	rows, err := r.db.Query(ctx, q, operatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]scuc.SavedCart, 0, 4)
	for rows.Next() {
		var row SavedCartRow
		if err := rows.Scan(&row.ID, &row.OperatorID, &row.Label, &row.Lines, &row.CreatedAt); err != nil {
			return nil, err
		}
		sc, err := mapSavedCartRow(&row)
		if err != nil {
			return nil, err
		}
		out = append(out, *sc)
	}
	return out, rows.Err()
}

func (r *SavedCartRepo) GetByID(ctx context.Context, id string) (*scuc.SavedCart, error) {
	const q = `
SELECT id::text, operator_id::text, label, lines, created_at
FROM saved_carts
WHERE id = $1::uuid;
`
	var row SavedCartRow
	if err := r.db.QueryRow(ctx, q, id).Scan(
		&row.ID, &row.OperatorID, &row.Label, &row.Lines, &row.CreatedAt,
	); err != nil {
		if isNoRows(err) {
			return nil, scuc.ErrNotFound
		}
		return nil, err
	}
	return mapSavedCartRow(&row)
}

func (r *SavedCartRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM saved_carts WHERE id = $1::uuid;`
	tag, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return scuc.ErrNotFound
	}
	return nil
}

func mapSavedCartRow(r *SavedCartRow) (*scuc.SavedCart, error) {
	var lines []cart.Line
	if len(r.Lines) > 0 {
		if err := json.Unmarshal(r.Lines, &lines); err != nil {
			return nil, err
		}
	}
	return &scuc.SavedCart{
		ID:         r.ID,
		OperatorID: r.OperatorID,
		Label:      r.Label,
		Lines:      lines,
		CreatedAt:  r.CreatedAt,
	}, nil
}

// Compile-time check
var _ scuc.Store = (*SavedCartRepo)(nil)
