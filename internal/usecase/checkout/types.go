package checkout

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/cart"
)

const (
	// Transaction status values as shown on receipts and reports.
	StatusCompleted = "selesai"
	StatusVoided    = "gagal"

	PaymentCash    = "cash"
	PaymentNonCash = "non-cash"
)

type Transaction struct {
	ID     string `json:"id"`
	Number string `json:"number"`
	Status string `json:"status"`

	TotalAmount   decimal.Decimal `json:"totalAmount"` // post-discount
	PaymentMethod string          `json:"paymentMethod"`
	PaymentAmount decimal.Decimal `json:"paymentAmount"`
	ChangeAmount  decimal.Decimal `json:"changeAmount"`

	// Discount snapshot, captured at sale time and immune to later edits
	// of the discount row.
	DiscountID        *string          `json:"discountId,omitempty"`
	DiscountName      *string          `json:"discountName,omitempty"`
	DiscountCode      *string          `json:"discountCode,omitempty"`
	DiscountType      *string          `json:"discountType,omitempty"`
	DiscountValue     *decimal.Decimal `json:"discountValue,omitempty"`
	DiscountValueType *string          `json:"discountValueType,omitempty"`
	DiscountAmount    decimal.Decimal  `json:"discountAmount"`

	OperatorID string     `json:"operatorId"`
	VoidedBy   *string    `json:"voidedBy,omitempty"`
	VoidedAt   *time.Time `json:"voidedAt,omitempty"`
	VoidReason *string    `json:"voidReason,omitempty"`

	CreatedAt time.Time  `json:"createdAt"`
	Items     []LineItem `json:"items,omitempty"`
}

// LineItem is a frozen copy of one cart line; historical reports stay
// stable even when the product it referenced is edited or deleted.
type LineItem struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	VariantLabel string          `json:"variantLabel,omitempty"`
	AddonLabel   string          `json:"addonLabel,omitempty"`
	AddonTotal   decimal.Decimal `json:"addonTotal"`
	Qty          int             `json:"qty"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

type CompleteInput struct {
	Number        string          `json:"number"`
	Lines         []cart.Line     `json:"lines"`
	DiscountID    *string         `json:"discountId"`
	PaymentMethod string          `json:"paymentMethod"`
	PaymentAmount decimal.Decimal `json:"paymentAmount"`
	OperatorID    string          `json:"-"`
}

type VoidInput struct {
	Reason     string `json:"reason"`
	OperatorID string `json:"-"`
}

type ListInput struct {
	Limit  int
	Offset int
	From   *time.Time
	To     *time.Time
}
