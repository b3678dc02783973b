package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	chkuc "github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/checkout"
	discuc "github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/discount"
)

type CheckoutStoreAdapter struct {
	repo      *CheckoutRepo
	discounts *DiscountStoreAdapter
	db        *pgxpool.Pool
}

func NewCheckoutStoreAdapter(repo *CheckoutRepo, discounts *DiscountStoreAdapter, db *pgxpool.Pool) *CheckoutStoreAdapter {
	return &CheckoutStoreAdapter{repo: repo, discounts: discounts, db: db}
}

func (a *CheckoutStoreAdapter) GetDiscount(ctx context.Context, id string) (*discuc.Discount, error) {
	d, err := a.discounts.GetByID(ctx, id)
	if err != nil {
		if err == discuc.ErrNotFound {
			return nil, chkuc.ErrDiscountMissing
		}
		return nil, err
	}
	return d, nil
}

// Complete writes the transaction header, its line-item snapshots and
// the discount stock decrement in one database transaction. A partial
// write is impossible: any failure rolls the whole unit back.
func (a *CheckoutStoreAdapter) Complete(ctx context.Context, trx *chkuc.Transaction, decrementStock bool) (*chkuc.Transaction, error) {
	tx, err := a.repo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if decrementStock && trx.DiscountID != nil {
		ok, err := decrementDiscountStock(ctx, tx, *trx.DiscountID)
		if err != nil {
			return nil, err
		}
		if !ok {
			// quota exhausted between evaluation and commit
			return nil, chkuc.ErrStockExhausted
		}
	}

	headerRow, err := insertTransaction(ctx, tx, toTransactionRow(trx))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, chkuc.ErrNumberTaken
		}
		return nil, err
	}

	items := make([]chkuc.LineItem, 0, len(trx.Items))
	for _, it := range trx.Items {
		itemRow, err := insertTransactionItem(ctx, tx, headerRow.ID, toTransactionItemRow(it))
		if err != nil {
			return nil, err
		}
		mapped, err := mapTransactionItemRow(itemRow)
		if err != nil {
			return nil, err
		}
		items = append(items, *mapped)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	out, err := mapTransactionRow(headerRow)
	if err != nil {
		return nil, err
	}
	out.Items = items
	return out, nil
}

func (a *CheckoutStoreAdapter) GetByID(ctx context.Context, id string) (*chkuc.Transaction, error) {
	headerRow, err := a.repo.GetByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, chkuc.ErrNotFound
		}
		return nil, err
	}

	itemRows, err := a.repo.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}

	out, err := mapTransactionRow(headerRow)
	if err != nil {
		return nil, err
	}
	out.Items = make([]chkuc.LineItem, 0, len(itemRows))
	for i := range itemRows {
		mapped, err := mapTransactionItemRow(&itemRows[i])
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, *mapped)
	}
	return out, nil
}

func (a *CheckoutStoreAdapter) List(ctx context.Context, in chkuc.ListInput) ([]chkuc.Transaction, error) {
	rows, err := a.repo.List(ctx, in.Limit, in.Offset, in.From, in.To)
	if err != nil {
		return nil, err
	}
	out := make([]chkuc.Transaction, 0, len(rows))
	for i := range rows {
		mapped, err := mapTransactionRow(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *mapped)
	}
	return out, nil
}

func (a *CheckoutStoreAdapter) Void(ctx context.Context, id, operatorID, reason string, at time.Time) (*chkuc.Transaction, error) {
	tx, err := a.repo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	status, err := lockTransactionStatus(ctx, tx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, chkuc.ErrNotFound
		}
		return nil, err
	}
	// voided is terminal
	if status == chkuc.StatusVoided {
		return nil, chkuc.ErrAlreadyVoided
	}

	row, err := markTransactionVoided(ctx, tx, id, operatorID, reason, at)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return mapTransactionRow(row)
}

func toTransactionRow(t *chkuc.Transaction) TransactionRow {
	row := TransactionRow{
		Number:         t.Number,
		Status:         t.Status,
		TotalAmount:    t.TotalAmount.StringFixed(2),
		PaymentMethod:  t.PaymentMethod,
		PaymentAmount:  t.PaymentAmount.StringFixed(2),
		ChangeAmount:   t.ChangeAmount.StringFixed(2),
		DiscountID:     t.DiscountID,
		DiscountName:   t.DiscountName,
		DiscountCode:   t.DiscountCode,
		DiscountType:   t.DiscountType,
		DiscountAmount: t.DiscountAmount.StringFixed(2),
		OperatorID:     t.OperatorID,
		CreatedAt:      t.CreatedAt,
	}
	if t.DiscountValue != nil {
		s := t.DiscountValue.StringFixed(2)
		row.DiscountValue = &s
	}
	row.DiscountValueType = t.DiscountValueType
	return row
}

func toTransactionItemRow(it chkuc.LineItem) TransactionItemRow {
	return TransactionItemRow{
		ProductID:    it.ProductID,
		ProductName:  it.ProductName,
		VariantLabel: it.VariantLabel,
		AddonLabel:   it.AddonLabel,
		AddonTotal:   it.AddonTotal.StringFixed(2),
		Qty:          it.Qty,
		UnitPrice:    it.UnitPrice.StringFixed(2),
		Subtotal:     it.Subtotal.StringFixed(2),
	}
}

func mapTransactionRow(r *TransactionRow) (*chkuc.Transaction, error) {
	total, err := parseDec(r.TotalAmount)
	if err != nil {
		return nil, err
	}
	payment, err := parseDec(r.PaymentAmount)
	if err != nil {
		return nil, err
	}
	change, err := parseDec(r.ChangeAmount)
	if err != nil {
		return nil, err
	}
	discountAmount, err := parseDec(r.DiscountAmount)
	if err != nil {
		return nil, err
	}
	discountValue, err := parseDecPtr(r.DiscountValue)
	if err != nil {
		return nil, err
	}

	return &chkuc.Transaction{
		ID:                r.ID,
		Number:            r.Number,
		Status:            r.Status,
		TotalAmount:       total,
		PaymentMethod:     r.PaymentMethod,
		PaymentAmount:     payment,
		ChangeAmount:      change,
		DiscountID:        r.DiscountID,
		DiscountName:      r.DiscountName,
		DiscountCode:      r.DiscountCode,
		DiscountType:      r.DiscountType,
		DiscountValue:     discountValue,
		DiscountValueType: r.DiscountValueType,
		DiscountAmount:    discountAmount,
		OperatorID:        r.OperatorID,
		VoidedBy:          r.VoidedBy,
		VoidedAt:          r.VoidedAt,
		VoidReason:        r.VoidReason,
		CreatedAt:         r.CreatedAt,
	}, nil
}

func mapTransactionItemRow(r *TransactionItemRow) (*chkuc.LineItem, error) {
	addonTotal, err := parseDec(r.AddonTotal)
	if err != nil {
		return nil, err
	}
	unitPrice, err := parseDec(r.UnitPrice)
	if err != nil {
		return nil, err
	}
	subtotal, err := parseDec(r.Subtotal)
	if err != nil {
		return nil, err
	}
	return &chkuc.LineItem{
		ID:           r.ID,
		ProductID:    r.ProductID,
		ProductName:  r.ProductName,
		VariantLabel: r.VariantLabel,
		AddonLabel:   r.AddonLabel,
		AddonTotal:   addonTotal,
		Qty:          r.Qty,
		UnitPrice:    unitPrice,
		Subtotal:     subtotal,
	}, nil
}

// Compile-time check
var _ chkuc.Store = (*CheckoutStoreAdapter)(nil)
