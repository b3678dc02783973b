package discount

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("discount not found")
	ErrCodeTaken      = errors.New("discount code already in use")
	ErrProductMissing = errors.New("target product not found")
)

const (
	TypeOrder   = "order"
	TypeProduct = "product"
	TypeCombo   = "combo"

	ValueAmount  = "amount"
	ValuePercent = "percent"
)

// ComboItem is one (product, required quantity) pair of a combo bundle.
type ComboItem struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

// Discount is read-only to the pricing path except for Stock, which is
// decremented transactionally on each successful redemption.
type Discount struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Code        string           `json:"code"`
	Type        string           `json:"type"`
	Value       decimal.Decimal  `json:"value"`
	ValueType   string           `json:"valueType"`
	MinPurchase *decimal.Decimal `json:"minPurchase,omitempty"`
	MaxDiscount *decimal.Decimal `json:"maxDiscount,omitempty"` // percent-type order discounts only
	Stock       *int             `json:"stock,omitempty"`       // nil = unlimited
	ValidFrom   *time.Time       `json:"validFrom,omitempty"`
	ValidUntil  *time.Time       `json:"validUntil,omitempty"`
	IsActive    bool             `json:"isActive"`

	// product type
	ProductIDs  []string `json:"productIds,omitempty"`
	MinQuantity int      `json:"minQuantity,omitempty"`
	IsMultiple  bool     `json:"isMultiple,omitempty"`

	// combo type
	ComboItems []ComboItem `json:"comboItems,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (d *Discount) TargetProductIDs() []string {
	return d.ProductIDs
}

// ProductLookup is the catalog read path consumed at write time to
// enforce the amount-vs-price invariant.
type ProductLookup interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
}

type Product struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	IsActive bool
}

type Store interface {
	Create(ctx context.Context, d *Discount) (*Discount, error)
	Update(ctx context.Context, d *Discount) (*Discount, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Discount, error)
	List(ctx context.Context, limit, offset int) ([]Discount, error)
}

type Usecase struct {
	store    Store
	products ProductLookup
}

func New(store Store, products ProductLookup) *Usecase {
	return &Usecase{store: store, products: products}
}

// normalize enforces the write-time invariants: percent values clamp to
// [0,100], and an amount-type product discount must not exceed the price
// of any targeted product.
func (u *Usecase) normalize(ctx context.Context, d *Discount) error {
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	d.Name = strings.TrimSpace(d.Name)
	if d.Code == "" || d.Name == "" {
		return ErrInvalidInput
	}
	if d.Value.IsNegative() {
		return ErrInvalidInput
	}

	switch d.ValueType {
	case ValuePercent:
		if d.Value.GreaterThan(decimal.NewFromInt(100)) {
			d.Value = decimal.NewFromInt(100)
		}
	case ValueAmount:
	default:
		return ErrInvalidInput
	}

	switch d.Type {
	case TypeOrder:
	case TypeProduct:
		if len(d.ProductIDs) == 0 || d.MinQuantity < 1 {
			return ErrInvalidInput
		}
		if d.ValueType == ValueAmount {
			for _, pid := range d.ProductIDs {
				p, err := u.products.GetProduct(ctx, pid)
				if err != nil {
					return err
				}
				if p == nil {
					return ErrProductMissing
				}
				if d.Value.GreaterThan(p.Price) {
					return ErrInvalidInput
				}
			}
		}
	case TypeCombo:
		if len(d.ComboItems) == 0 {
			return ErrInvalidInput
		}
		for _, it := range d.ComboItems {
			if it.ProductID == "" || it.Qty < 1 {
				return ErrInvalidInput
			}
		}
	default:
		return ErrInvalidInput
	}

	return nil
}

func (u *Usecase) Create(ctx context.Context, d *Discount) (*Discount, error) {
	if err := u.normalize(ctx, d); err != nil {
		return nil, err
	}
	return u.store.Create(ctx, d)
}

func (u *Usecase) Update(ctx context.Context, d *Discount) (*Discount, error) {
	if d.ID == "" {
		return nil, ErrInvalidInput
	}
	if err := u.normalize(ctx, d); err != nil {
		return nil, err
	}
	return u.store.Update(ctx, d)
}

func (u *Usecase) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	return u.store.Delete(ctx, id)
}

func (u *Usecase) GetByID(ctx context.Context, id string) (*Discount, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return u.store.GetByID(ctx, id)
}

func (u *Usecase) List(ctx context.Context, limit, offset int) ([]Discount, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return u.store.List(ctx, limit, offset)
}
