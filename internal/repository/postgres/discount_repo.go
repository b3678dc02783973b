package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DiscountRow struct {
	ID          string
	Name        string
	Code        string
	Type        string
	Value       string
	ValueType   string
	MinPurchase *string
	MaxDiscount *string
	Stock       *int
	ValidFrom   *time.Time
	ValidUntil  *time.Time
	IsActive    bool
	ProductIDs  []string
	MinQuantity int
	IsMultiple  bool
	ComboItems  []byte // jsonb
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type DiscountRepo struct {
	db *pgxpool.Pool
}

func NewDiscountRepo(db *pgxpool.Pool) *DiscountRepo {
	return &DiscountRepo{db: db}
}

const discountColumns = `
  id::text, name, code, discount_type, value::text, value_type,
  min_purchase::text, max_discount::text, stock,
  valid_from, valid_until, is_active,
  product_ids, min_quantity, is_multiple, combo_items,
  created_at, updated_at`

func scanDiscountRow(row pgx.Row) (*DiscountRow, error) {
	var out DiscountRow
	if err := row.Scan(
		&out.ID,
		&out.Name,
		&out.Code,
		&out.Type,
		&out.Value,
		&out.ValueType,
		&out.MinPurchase,
		&out.MaxDiscount,
		&out.Stock,
		&out.ValidFrom,
		&out.ValidUntil,
		&out.IsActive,
		&out.ProductIDs,
		&out.MinQuantity,
		&out.IsMultiple,
		&out.ComboItems,
		&out.CreatedAt,
		&out.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *DiscountRepo) Create(ctx context.Context, in DiscountRow) (*DiscountRow, error) {
	const q = `
INSERT INTO discounts (
  name, code, discount_type, value, value_type,
  min_purchase, max_discount, stock,
  valid_from, valid_until, is_active,
  product_ids, min_quantity, is_multiple, combo_items
)
VALUES (
  $1, $2, $3, $4::numeric, $5,
  $6::numeric, $7::numeric, $8,
  $9, $10, $11,
  $12, $13, $14, $15
)
RETURNING` + discountColumns + `;
`
	row := r.db.QueryRow(ctx, q,
		in.Name, in.Code, in.Type, in.Value, in.ValueType,
		in.MinPurchase, in.MaxDiscount, in.Stock,
		in.ValidFrom, in.ValidUntil, in.IsActive,
		in.ProductIDs, in.MinQuantity, in.IsMultiple, nilIfEmptyJSON(in.ComboItems),
	)
	return scanDiscountRow(row)
}

func (r *DiscountRepo) Update(ctx context.Context, in DiscountRow) (*DiscountRow, error) {
	const q = `
UPDATE discounts
SET
  name = $2,
  code = $3,
  discount_type = $4,
  value = $5::numeric,
  value_type = $6,
  min_purchase = $7::numeric,
  max_discount = $8::numeric,
  stock = $9,
  valid_from = $10,
  valid_until = $11,
  is_active = $12,
  product_ids = $13,
  min_quantity = $14,
  is_multiple = $15,
  combo_items = $16,
  updated_at = now()
WHERE id = $1::uuid
RETURNING` + discountColumns + `;
`
	row := r.db.QueryRow(ctx, q,
		in.ID,
		in.Name, in.Code, in.Type, in.Value, in.ValueType,
		in.MinPurchase, in.MaxDiscount, in.Stock,
		in.ValidFrom, in.ValidUntil, in.IsActive,
		in.ProductIDs, in.MinQuantity, in.IsMultiple, nilIfEmptyJSON(in.ComboItems),
	)
	return scanDiscountRow(row)
}

func (r *DiscountRepo) Delete(ctx context.Context, id string) (bool, error) {
	const q = `DELETE FROM discounts WHERE id = $1::uuid;`
	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *DiscountRepo) GetByID(ctx context.Context, id string) (*DiscountRow, error) {
	const q = `SELECT` + discountColumns + ` FROM discounts WHERE id = $1::uuid;`
	return scanDiscountRow(r.db.QueryRow(ctx, q, id))
}

func (r *DiscountRepo) List(ctx context.Context, limit, offset int) ([]DiscountRow, error) {
	const q = `
SELECT` + discountColumns + `
FROM discounts
ORDER BY created_at DESC
LIMIT $1 OFFSET $2;
`
	rows, err := r.db.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]DiscountRow, 0, limit)
	for rows.Next() {
		var d DiscountRow
		if err := rows.Scan(
			&d.ID, &d.Name, &d.Code, &d.Type, &d.Value, &d.ValueType,
			&d.MinPurchase, &d.MaxDiscount, &d.Stock,
			&d.ValidFrom, &d.ValidUntil, &d.IsActive,
			&d.ProductIDs, &d.MinQuantity, &d.IsMultiple, &d.ComboItems,
			&d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// decrementDiscountStock burns one redemption. Guarded so stock never
// goes below zero; zero rows affected means the quota ran out between
// evaluation and commit.
func decrementDiscountStock(ctx context.Context, tx pgx.Tx, discountID string) (bool, error) {
	const q = `
UPDATE discounts
SET stock = stock - 1,
    updated_at = now()
WHERE id = $1::uuid
  AND stock IS NOT NULL
  AND stock > 0;
`
	ct, err := tx.Exec(ctx, q, discountID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func nilIfEmptyJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return json.RawMessage(b)
}
