package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TransactionRow struct {
	ID                string
	Number            string
	Status            string
	TotalAmount       string
	PaymentMethod     string
	PaymentAmount     string
	ChangeAmount      string
	DiscountID        *string
	DiscountName      *string
	DiscountCode      *string
	DiscountType      *string
	DiscountValue     *string
	DiscountValueType *string
	DiscountAmount    string
	OperatorID        string
	VoidedBy          *string
	VoidedAt          *time.Time
	VoidReason        *string
	CreatedAt         time.Time
}

type TransactionItemRow struct {
	ID           string
	ProductID    string
	ProductName  string
	VariantLabel string
	AddonLabel   string
	AddonTotal   string
	Qty          int
	UnitPrice    string
	Subtotal     string
}

type CheckoutRepo struct {
	db *pgxpool.Pool
}

func NewCheckoutRepo(db *pgxpool.Pool) *CheckoutRepo {
	return &CheckoutRepo{db: db}
}

func (r *CheckoutRepo) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.db.BeginTx(ctx, pgx.TxOptions{})
}

const transactionColumns = `
  id::text, number, status,
  total_amount::text, payment_method, payment_amount::text, change_amount::text,
  discount_id::text, discount_name, discount_code, discount_type,
  discount_value::text, discount_value_type, discount_amount::text,
  operator_id::text, voided_by::text, voided_at, void_reason,
  created_at`

func scanTransactionRow(row pgx.Row) (*TransactionRow, error) {
	var out TransactionRow
	if err := row.Scan(
		&out.ID, &out.Number, &out.Status,
		&out.TotalAmount, &out.PaymentMethod, &out.PaymentAmount, &out.ChangeAmount,
		&out.DiscountID, &out.DiscountName, &out.DiscountCode, &out.DiscountType,
		&out.DiscountValue, &out.DiscountValueType, &out.DiscountAmount,
		&out.OperatorID, &out.VoidedBy, &out.VoidedAt, &out.VoidReason,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

func insertTransaction(ctx context.Context, tx pgx.Tx, in TransactionRow) (*TransactionRow, error) {
	const q = `
INSERT INTO transactions (
  number, status,
  total_amount, payment_method, payment_amount, change_amount,
  discount_id, discount_name, discount_code, discount_type,
  discount_value, discount_value_type, discount_amount,
  operator_id, created_at
)
VALUES (
  $1, $2,
  $3::numeric, $4, $5::numeric, $6::numeric,
  $7::uuid, $8, $9, $10,
  $11::numeric, $12, $13::numeric,
  $14::uuid, $15
)
RETURNING` + transactionColumns + `;
`
	row := tx.QueryRow(ctx, q,
		in.Number, in.Status,
		in.TotalAmount, in.PaymentMethod, in.PaymentAmount, in.ChangeAmount,
		in.DiscountID, in.DiscountName, in.DiscountCode, in.DiscountType,
		in.DiscountValue, in.DiscountValueType, in.DiscountAmount,
		in.OperatorID, in.CreatedAt,
	)
	return scanTransactionRow(row)
}

func insertTransactionItem(ctx context.Context, tx pgx.Tx, transactionID string, in TransactionItemRow) (*TransactionItemRow, error) {
	const q = `
INSERT INTO transaction_items (
  transaction_id, product_id, product_name, variant_label,
  addon_label, addon_total, qty, unit_price, subtotal
)
VALUES ($1::uuid, $2::uuid, $3, $4, $5, $6::numeric, $7, $8::numeric, $9::numeric)
RETURNING
  id::text, product_id::text, product_name, variant_label,
  addon_label, addon_total::text, qty, unit_price::text, subtotal::text;
`
	row := tx.QueryRow(ctx, q,
		transactionID, in.ProductID, in.ProductName, in.VariantLabel,
		in.AddonLabel, in.AddonTotal, in.Qty, in.UnitPrice, in.Subtotal,
	)

	var out TransactionItemRow
	if err := row.Scan(
		&out.ID, &out.ProductID, &out.ProductName, &out.VariantLabel,
		&out.AddonLabel, &out.AddonTotal, &out.Qty, &out.UnitPrice, &out.Subtotal,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

func lockTransactionStatus(ctx context.Context, tx pgx.Tx, transactionID string) (string, error) {
	const q = `
SELECT status
FROM transactions
WHERE id = $1::uuid
FOR UPDATE;
`
	var status string
	if err := tx.QueryRow(ctx, q, transactionID).Scan(&status); err != nil {
		return "", err
	}
	return status, nil
}

func markTransactionVoided(ctx context.Context, tx pgx.Tx, transactionID, voidedBy, reason string, at time.Time) (*TransactionRow, error) {
	const q = `
UPDATE transactions
SET status = 'gagal',
    voided_by = $2::uuid,
    void_reason = $3,
    voided_at = $4
WHERE id = $1::uuid
RETURNING` + transactionColumns + `;
`
	return scanTransactionRow(tx.QueryRow(ctx, q, transactionID, voidedBy, reason, at))
}

func (r *CheckoutRepo) GetByID(ctx context.Context, id string) (*TransactionRow, error) {
	const q = `SELECT` + transactionColumns + ` FROM transactions WHERE id = $1::uuid;`
	return scanTransactionRow(r.db.QueryRow(ctx, q, id))
}

func (r *CheckoutRepo) List(ctx context.Context, limit, offset int, from, to *time.Time) ([]TransactionRow, error) {
	const q = `
SELECT` + transactionColumns + `
FROM transactions
WHERE ($3::timestamptz IS NULL OR created_at >= $3)
  AND ($4::timestamptz IS NULL OR created_at < $4)
ORDER BY created_at DESC
LIMIT $1 OFFSET $2;
`
	rows, err := r.db.Query(ctx, q, limit, offset, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TransactionRow, 0, limit)
	for rows.Next() {
		var t TransactionRow
		if err := rows.Scan(
			&t.ID, &t.Number, &t.Status,
			&t.TotalAmount, &t.PaymentMethod, &t.PaymentAmount, &t.ChangeAmount,
			&t.DiscountID, &t.DiscountName, &t.DiscountCode, &t.DiscountType,
			&t.DiscountValue, &t.DiscountValueType, &t.DiscountAmount,
			&t.OperatorID, &t.VoidedBy, &t.VoidedAt, &t.VoidReason,
			&t.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *CheckoutRepo) ListItems(ctx context.Context, transactionID string) ([]TransactionItemRow, error) {
	const q = `
SELECT
  id::text, product_id::text, product_name, variant_label,
  addon_label, addon_total::text, qty, unit_price::text, subtotal::text
FROM transaction_items
WHERE transaction_id = $1::uuid
ORDER BY created_at ASC;
`
	rows, err := r.db.Query(ctx, q, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TransactionItemRow, 0, 10)
	for rows.Next() {
		var it TransactionItemRow
		if err := rows.Scan(
			&it.ID, &it.ProductID, &it.ProductName, &it.VariantLabel,
			&it.AddonLabel, &it.AddonTotal, &it.Qty, &it.UnitPrice, &it.Subtotal,
		); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
