package cart

import (
	"errors"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rashiiddsr/kasir-cafe-backend/internal/money"
)

var (
	ErrInvalidLine = errors.New("invalid cart line")
	ErrEmptyCart   = errors.New("cart is empty")
)

// VariantOption is one selected option inside a named variant group,
// e.g. group "Ukuran", option "Besar".
type VariantOption struct {
	Group  string `json:"group"`
	Option string `json:"option"`
}

// Addon is an extra charged on top of the unit price, e.g. "Extra Shot".
type Addon struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Line is one distinct product+variant+addon combination. UnitPrice is a
// snapshot taken when the product was added; later catalog edits do not
// touch lines already in a cart.
type Line struct {
	Key         string          `json:"key"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Qty         int             `json:"qty"`
	Variants    []VariantOption `json:"variants,omitempty"`
	Addons      []Addon         `json:"addons,omitempty"`
}

// Subtotal is always recomputed from its inputs, never cached.
func (l Line) Subtotal() decimal.Decimal {
	unit := l.UnitPrice
	for _, a := range l.Addons {
		unit = unit.Add(a.Price)
	}
	return money.Round(unit.Mul(decimal.NewFromInt(int64(l.Qty))))
}

// VariantLabel renders the selected options for receipt snapshots,
// e.g. "Ukuran: Besar, Es: Sedikit".
func (l Line) VariantLabel() string {
	if len(l.Variants) == 0 {
		return ""
	}
	parts := make([]string, 0, len(l.Variants))
	for _, v := range l.Variants {
		parts = append(parts, v.Group+": "+v.Option)
	}
	return strings.Join(parts, ", ")
}

// Cart holds the live line items of one checkout in progress.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// FromLines rebuilds a cart from a client snapshot, recomputing every
// line key server-side so the identity rule cannot be bypassed.
func FromLines(lines []Line) (*Cart, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	c := New()
	for _, l := range lines {
		if l.Qty < 1 || l.ProductID == "" || l.UnitPrice.IsNegative() {
			return nil, ErrInvalidLine
		}
		// AddLine contributes 1; identical selections split across
		// snapshot entries collapse into one line.
		added := c.AddLine(l.ProductID, l.ProductName, l.UnitPrice, l.Variants, l.Addons)
		added.Qty += l.Qty - 1
	}
	return c, nil
}

// LineKey derives the order-independent identity of a selection. Two
// semantically identical selections always map to the same key, no matter
// the order the options were picked in.
func LineKey(productID string, variants []VariantOption, addons []Addon) string {
	vs := make([]string, 0, len(variants))
	for _, v := range variants {
		vs = append(vs, v.Group+"="+v.Option)
	}
	sort.Strings(vs)

	as := make([]string, 0, len(addons))
	for _, a := range addons {
		as = append(as, a.ID)
	}
	sort.Strings(as)

	parts := append([]string{productID}, vs...)
	parts = append(parts, as...)
	return strings.Join(parts, "|")
}

// AddLine merges into an existing line with the same identity key
// (incrementing quantity) or appends a fresh line with quantity 1.
func (c *Cart) AddLine(productID, productName string, unitPrice decimal.Decimal, variants []VariantOption, addons []Addon) *Line {
	key := LineKey(productID, variants, addons)
	for i := range c.lines {
		if c.lines[i].Key == key {
			c.lines[i].Qty++
			return &c.lines[i]
		}
	}
	c.lines = append(c.lines, Line{
		Key:         key,
		ProductID:   productID,
		ProductName: productName,
		UnitPrice:   unitPrice,
		Qty:         1,
		Variants:    variants,
		Addons:      addons,
	})
	return &c.lines[len(c.lines)-1]
}

// SetQuantity removes the line when n <= 0.
func (c *Cart) SetQuantity(key string, n int) {
	if n <= 0 {
		c.RemoveLine(key)
		return
	}
	for i := range c.lines {
		if c.lines[i].Key == key {
			c.lines[i].Qty = n
			return
		}
	}
}

func (c *Cart) RemoveLine(key string) {
	for i := range c.lines {
		if c.lines[i].Key == key {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) Lines() []Line {
	return c.lines
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Total is the rounded sum of all line subtotals.
func (c *Cart) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.Subtotal())
	}
	return money.Round(sum)
}

// QtyOf aggregates quantity across every line of the product, regardless
// of variant or addon selection.
func (c *Cart) QtyOf(productID string) int {
	n := 0
	for _, l := range c.lines {
		if l.ProductID == productID {
			n += l.Qty
		}
	}
	return n
}

// UnitPriceOf derives the effective per-unit price of a product from the
// aggregate subtotal over aggregate quantity, so add-on costs bought with
// the product are respected. Zero when the product is absent.
func (c *Cart) UnitPriceOf(productID string) decimal.Decimal {
	qty := 0
	sub := decimal.Zero
	for _, l := range c.lines {
		if l.ProductID == productID {
			qty += l.Qty
			sub = sub.Add(l.Subtotal())
		}
	}
	if qty == 0 {
		return decimal.Zero
	}
	return money.Round(sub.Div(decimal.NewFromInt(int64(qty))))
}
