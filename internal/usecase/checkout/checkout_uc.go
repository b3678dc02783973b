package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rashiiddsr/kasir-cafe-backend/internal/money"
	"github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/cart"
	"github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/discount"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrEmptyCart           = errors.New("keranjang masih kosong")
	ErrOperatorMissing     = errors.New("operator identity unresolved")
	ErrInsufficientPayment = errors.New("pembayaran kurang dari total")
	ErrDiscountMissing     = errors.New("discount not found")
	ErrDiscountNotEligible = errors.New("diskon tidak dapat digunakan")
	ErrStockExhausted      = errors.New("kuota diskon sudah habis")
	ErrNumberTaken         = errors.New("nomor transaksi sudah dipakai")
	ErrNotFound            = errors.New("transaction not found")
	ErrAlreadyVoided       = errors.New("transaksi sudah dibatalkan")
)

// Store persists a completed sale. Complete must write the transaction,
// its line items and the discount stock decrement as one atomic unit:
// either everything commits or nothing does.
type Store interface {
	GetDiscount(ctx context.Context, id string) (*discount.Discount, error)
	Complete(ctx context.Context, trx *Transaction, decrementStock bool) (*Transaction, error)
	GetByID(ctx context.Context, id string) (*Transaction, error)
	List(ctx context.Context, in ListInput) ([]Transaction, error)
	Void(ctx context.Context, id string, operatorID string, reason string, at time.Time) (*Transaction, error)
}

type Usecase struct {
	store Store
	now   func() time.Time
}

func New(store Store) *Usecase {
	return &Usecase{store: store, now: time.Now}
}

// Complete validates payment and discount eligibility at the instant of
// submission and persists the sale. The discount is re-evaluated here:
// the client-side evaluation may be minutes stale and stock or the
// validity window can have moved in between.
func (u *Usecase) Complete(ctx context.Context, in CompleteInput) (*Transaction, error) {
	if strings.TrimSpace(in.OperatorID) == "" {
		return nil, ErrOperatorMissing
	}
	if strings.TrimSpace(in.Number) == "" {
		return nil, ErrInvalidInput
	}

	c, err := cart.FromLines(in.Lines)
	if err != nil {
		if errors.Is(err, cart.ErrEmptyCart) {
			return nil, ErrEmptyCart
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := u.now()
	total := c.Total()

	trx := &Transaction{
		Number:         strings.TrimSpace(in.Number),
		Status:         StatusCompleted,
		OperatorID:     in.OperatorID,
		DiscountAmount: decimal.Zero,
		CreatedAt:      now,
	}

	var d *discount.Discount
	if in.DiscountID != nil && *in.DiscountID != "" {
		// A failed lookup is an error, never silently "no discount".
		d, err = u.store.GetDiscount(ctx, *in.DiscountID)
		if err != nil {
			return nil, err
		}
		res := discount.Evaluate(d, c, now)
		if !res.IsEligible {
			return nil, fmt.Errorf("%w: %s", ErrDiscountNotEligible, res.Message)
		}
		trx.DiscountID = &d.ID
		trx.DiscountName = &d.Name
		trx.DiscountCode = &d.Code
		trx.DiscountType = &d.Type
		trx.DiscountValue = &d.Value
		trx.DiscountValueType = &d.ValueType
		trx.DiscountAmount = res.Amount
	}

	payable := money.Round(total.Sub(trx.DiscountAmount))
	trx.TotalAmount = payable

	switch in.PaymentMethod {
	case PaymentCash:
		if in.PaymentAmount.LessThan(payable) {
			return nil, fmt.Errorf("%w: total %s", ErrInsufficientPayment, money.FormatRupiah(payable))
		}
		trx.PaymentMethod = PaymentCash
		trx.PaymentAmount = money.Round(in.PaymentAmount)
		trx.ChangeAmount = money.Round(in.PaymentAmount.Sub(payable))
	case PaymentNonCash:
		// No change due; the charged amount is forced to the total.
		trx.PaymentMethod = PaymentNonCash
		trx.PaymentAmount = payable
		trx.ChangeAmount = decimal.Zero
	default:
		return nil, fmt.Errorf("%w: payment method %q", ErrInvalidInput, in.PaymentMethod)
	}

	trx.Items = snapshotLines(c.Lines())

	decrement := d != nil && d.Stock != nil
	return u.store.Complete(ctx, trx, decrement)
}

func snapshotLines(lines []cart.Line) []LineItem {
	items := make([]LineItem, 0, len(lines))
	for _, l := range lines {
		addonTotal := decimal.Zero
		names := make([]string, 0, len(l.Addons))
		for _, a := range l.Addons {
			addonTotal = addonTotal.Add(a.Price)
			names = append(names, a.Name)
		}
		items = append(items, LineItem{
			ProductID:    l.ProductID,
			ProductName:  l.ProductName,
			VariantLabel: l.VariantLabel(),
			AddonLabel:   strings.Join(names, ", "),
			AddonTotal:   money.Round(addonTotal),
			Qty:          l.Qty,
			UnitPrice:    l.UnitPrice,
			Subtotal:     l.Subtotal(),
		})
	}
	return items
}

func (u *Usecase) GetByID(ctx context.Context, id string) (*Transaction, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return u.store.GetByID(ctx, id)
}

func (u *Usecase) List(ctx context.Context, in ListInput) ([]Transaction, error) {
	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 20
	}
	if in.Offset < 0 {
		in.Offset = 0
	}
	return u.store.List(ctx, in)
}

// Void marks a completed transaction as gagal. The transition is
// terminal: payment fields never change afterwards.
func (u *Usecase) Void(ctx context.Context, id string, in VoidInput) (*Transaction, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	if strings.TrimSpace(in.OperatorID) == "" {
		return nil, ErrOperatorMissing
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = "tanpa keterangan"
	}
	return u.store.Void(ctx, id, in.OperatorID, reason, u.now())
}
