package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SessionRow struct {
	ID             string
	OpenedBy       string
	OpenedAt       time.Time
	OpeningBalance string
	ClosedAt       *time.Time
	ClosedBy       *string
	ClosingCash    *string
	ClosingNonCash *string
	ClosingNotes   *string

	TotalTransactions *int
	TotalRevenue      *string
	TotalCash         *string
	TotalNonCash      *string
	ExpectedCash      *string
	ExpectedNonCash   *string
	VarianceCash      *string
	VarianceNonCash   *string
	VarianceTotal     *string
	TopProducts       []byte // jsonb
}

type SessionTotalsRow struct {
	Count   int
	Cash    string
	NonCash string
	Revenue string
}

type SessionRepo struct {
	db *pgxpool.Pool
}

func NewSessionRepo(db *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{db: db}
}

func (r *SessionRepo) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.db.BeginTx(ctx, pgx.TxOptions{})
}

const sessionColumns = `
  id::text, opened_by::text, opened_at, opening_balance::text,
  closed_at, closed_by::text, closing_cash::text, closing_non_cash::text, closing_notes,
  total_transactions, total_revenue::text, total_cash::text, total_non_cash::text,
  expected_cash::text, expected_non_cash::text,
  variance_cash::text, variance_non_cash::text, variance_total::text,
  top_products`

func scanSessionRow(row pgx.Row) (*SessionRow, error) {
	var out SessionRow
	if err := row.Scan(
		&out.ID, &out.OpenedBy, &out.OpenedAt, &out.OpeningBalance,
		&out.ClosedAt, &out.ClosedBy, &out.ClosingCash, &out.ClosingNonCash, &out.ClosingNotes,
		&out.TotalTransactions, &out.TotalRevenue, &out.TotalCash, &out.TotalNonCash,
		&out.ExpectedCash, &out.ExpectedNonCash,
		&out.VarianceCash, &out.VarianceNonCash, &out.VarianceTotal,
		&out.TopProducts,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *SessionRepo) FindOpenByOperator(ctx context.Context, operatorID string) (*SessionRow, error) {
	const q = `
SELECT` + sessionColumns + `
FROM cashier_sessions
WHERE opened_by = $1::uuid AND closed_at IS NULL
ORDER BY opened_at DESC
LIMIT 1;
`
	return scanSessionRow(r.db.QueryRow(ctx, q, operatorID))
}

func (r *SessionRepo) FindByOperatorBetween(ctx context.Context, operatorID string, from, to time.Time) (*SessionRow, error) {
	const q = `
SELECT` + sessionColumns + `
FROM cashier_sessions
WHERE opened_by = $1::uuid
  AND opened_at >= $2 AND opened_at < $3
ORDER BY opened_at DESC
LIMIT 1;
`
	return scanSessionRow(r.db.QueryRow(ctx, q, operatorID, from, to))
}

func (r *SessionRepo) GetByID(ctx context.Context, id string) (*SessionRow, error) {
	const q = `SELECT` + sessionColumns + ` FROM cashier_sessions WHERE id = $1::uuid;`
	return scanSessionRow(r.db.QueryRow(ctx, q, id))
}

// lockOperator serializes every open/close transition of one operator:
// both transitions take this lock first, so their precondition checks
// and writes form a single critical section.
func lockOperator(ctx context.Context, tx pgx.Tx, operatorID string) error {
	const q = `SELECT 1 FROM operators WHERE id = $1::uuid FOR UPDATE;`
	var one int
	return tx.QueryRow(ctx, q, operatorID).Scan(&one)
}

func countOpenSessions(ctx context.Context, tx pgx.Tx, operatorID string) (int, error) {
	const q = `SELECT COUNT(*) FROM cashier_sessions WHERE opened_by = $1::uuid AND closed_at IS NULL;`
	var n int
	if err := tx.QueryRow(ctx, q, operatorID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func countSessionsBetween(ctx context.Context, tx pgx.Tx, operatorID string, from, to time.Time) (int, error) {
	const q = `
SELECT COUNT(*) FROM cashier_sessions
WHERE opened_by = $1::uuid AND opened_at >= $2 AND opened_at < $3;
`
	var n int
	if err := tx.QueryRow(ctx, q, operatorID, from, to).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func insertSession(ctx context.Context, tx pgx.Tx, operatorID, openingBalance string, openedAt time.Time) (*SessionRow, error) {
	const q = `
INSERT INTO cashier_sessions (opened_by, opened_at, opening_balance)
VALUES ($1::uuid, $2, $3::numeric)
RETURNING` + sessionColumns + `;
`
	return scanSessionRow(tx.QueryRow(ctx, q, operatorID, openedAt, openingBalance))
}

func lockSession(ctx context.Context, tx pgx.Tx, sessionID string) (*SessionRow, error) {
	const q = `SELECT` + sessionColumns + ` FROM cashier_sessions WHERE id = $1::uuid FOR UPDATE;`
	return scanSessionRow(tx.QueryRow(ctx, q, sessionID))
}

func countSavedCartsTx(ctx context.Context, q queryer, operatorID string) (int, error) {
	const sql = `SELECT COUNT(*) FROM saved_carts WHERE operator_id = $1::uuid;`
	var n int
	if err := q.QueryRow(ctx, sql, operatorID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// closeSession freezes the reconciliation summary. The closed_at guard
// makes the write-once rule explicit even under concurrent closes.
func closeSession(ctx context.Context, tx pgx.Tx, in SessionRow) (*SessionRow, error) {
	const q = `
UPDATE cashier_sessions
SET closed_at = $2,
    closed_by = $3::uuid,
    closing_cash = $4::numeric,
    closing_non_cash = $5::numeric,
    closing_notes = $6,
    total_transactions = $7,
    total_revenue = $8::numeric,
    total_cash = $9::numeric,
    total_non_cash = $10::numeric,
    expected_cash = $11::numeric,
    expected_non_cash = $12::numeric,
    variance_cash = $13::numeric,
    variance_non_cash = $14::numeric,
    variance_total = $15::numeric,
    top_products = $16
WHERE id = $1::uuid
  AND closed_at IS NULL
RETURNING` + sessionColumns + `;
`
	return scanSessionRow(tx.QueryRow(ctx, q,
		in.ID, in.ClosedAt, in.ClosedBy, in.ClosingCash, in.ClosingNonCash, in.ClosingNotes,
		in.TotalTransactions, in.TotalRevenue, in.TotalCash, in.TotalNonCash,
		in.ExpectedCash, in.ExpectedNonCash,
		in.VarianceCash, in.VarianceNonCash, in.VarianceTotal,
		nilIfEmptyJSON(in.TopProducts),
	))
}

// TotalsBetween aggregates the operator's completed, non-voided sales in
// [from, to).
func (r *SessionRepo) TotalsBetween(ctx context.Context, operatorID string, from, to time.Time) (*SessionTotalsRow, error) {
	const q = `
SELECT
  COUNT(*)::int,
  COALESCE(SUM(total_amount) FILTER (WHERE payment_method = 'cash'), 0)::text,
  COALESCE(SUM(total_amount) FILTER (WHERE payment_method = 'non-cash'), 0)::text,
  COALESCE(SUM(total_amount), 0)::text
FROM transactions
WHERE operator_id = $1::uuid
  AND status = 'selesai'
  AND created_at >= $2 AND created_at < $3;
`
	var out SessionTotalsRow
	if err := r.db.QueryRow(ctx, q, operatorID, from, to).Scan(
		&out.Count, &out.Cash, &out.NonCash, &out.Revenue,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

type TopProductRow struct {
	ProductName string
	Qty         int
}

func (r *SessionRepo) TopProductsBetween(ctx context.Context, operatorID string, from, to time.Time, limit int) ([]TopProductRow, error) {
	const q = `
SELECT ti.product_name, SUM(ti.qty)::int AS total_qty
FROM transaction_items ti
JOIN transactions t ON t.id = ti.transaction_id
WHERE t.operator_id = $1::uuid
  AND t.status = 'selesai'
  AND t.created_at >= $2 AND t.created_at < $3
GROUP BY ti.product_name
ORDER BY total_qty DESC, ti.product_name ASC
LIMIT $4;
`
	rows, err := r.db.Query(ctx, q, operatorID, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TopProductRow, 0, limit)
	for rows.Next() {
		var p TopProductRow
		if err := rows.Scan(&p.ProductName, &p.Qty); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
