package session

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status drives which modal the cashier UI shows on login.
const (
	StatusNeedsOpen  = "needs-open"  // no session today, none left open
	StatusOpen       = "open"        // session opened today, still open
	StatusNeedsClose = "needs-close" // session left open from a prior day
	StatusClosed     = "closed"      // today's session already closed
)

type Session struct {
	ID             string          `json:"id"`
	OpenedBy       string          `json:"openedBy"`
	OpenedAt       time.Time       `json:"openedAt"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`

	ClosedAt       *time.Time       `json:"closedAt,omitempty"`
	ClosedBy       *string          `json:"closedBy,omitempty"`
	ClosingCash    *decimal.Decimal `json:"closingCash,omitempty"`
	ClosingNonCash *decimal.Decimal `json:"closingNonCash,omitempty"`
	ClosingNotes   *string          `json:"closingNotes,omitempty"`

	// Summary is written exactly once at close and never recomputed.
	Summary *Summary `json:"summary,omitempty"`
}

type Summary struct {
	TotalTransactions int             `json:"totalTransactions"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	TotalCash         decimal.Decimal `json:"totalCash"`
	TotalNonCash      decimal.Decimal `json:"totalNonCash"`
	ExpectedCash      decimal.Decimal `json:"expectedCash"`
	ExpectedNonCash   decimal.Decimal `json:"expectedNonCash"`
	VarianceCash      decimal.Decimal `json:"varianceCash"`
	VarianceNonCash   decimal.Decimal `json:"varianceNonCash"`
	VarianceTotal     decimal.Decimal `json:"varianceTotal"`
	TopProducts       []ProductQty    `json:"topProducts"`
}

type ProductQty struct {
	ProductName string `json:"productName"`
	Qty         int    `json:"qty"`
}

// Totals aggregates the operator's completed, non-voided transactions
// inside the session window [opened_at, close_time).
type Totals struct {
	Count       int
	Cash        decimal.Decimal
	NonCash     decimal.Decimal
	Revenue     decimal.Decimal
	TopProducts []ProductQty
}

type OpenInput struct {
	OpeningBalance *decimal.Decimal `json:"openingBalance"`
	OperatorID     string           `json:"-"`
}

type CloseInput struct {
	ClosingCash    *decimal.Decimal `json:"closingCash"`
	ClosingNonCash *decimal.Decimal `json:"closingNonCash"`
	Notes          *string          `json:"notes"`
	OperatorID     string           `json:"-"`
}

type StatusResult struct {
	Status  string   `json:"status"`
	Session *Session `json:"session,omitempty"`
}
