package discount

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rashiiddsr/kasir-cafe-backend/internal/money"
	"github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/cart"
)

// Result is produced fresh on every cart change and never persisted.
// Message is a user-facing contract: the checkout UI shows it verbatim to
// explain why a discount does or does not apply.
type Result struct {
	Amount     decimal.Decimal `json:"amount"`
	IsEligible bool            `json:"isEligible"`
	Message    string          `json:"message"`
}

func notEligible(msg string) Result {
	return Result{Amount: decimal.Zero, IsEligible: false, Message: msg}
}

// Evaluate decides eligibility and the computed discount amount for one
// candidate discount against the current cart. It is pure: the same
// discount and an unchanged cart always yield an identical result.
func Evaluate(d *Discount, c *cart.Cart, now time.Time) Result {
	if d == nil {
		return notEligible("tidak ada diskon dipilih")
	}

	// Precondition chain, first failure wins.
	if !d.IsActive {
		return notEligible("diskon tidak aktif")
	}
	if d.Stock != nil && *d.Stock <= 0 {
		return notEligible("kuota diskon sudah habis")
	}
	if d.ValidFrom != nil && now.Before(*d.ValidFrom) {
		return notEligible("diskon belum berlaku")
	}
	if d.ValidUntil != nil && now.After(endOfDay(*d.ValidUntil)) {
		return notEligible("masa berlaku diskon sudah berakhir")
	}

	switch d.Type {
	case TypeOrder:
		return evaluateOrder(d, c)
	case TypeProduct:
		return evaluateProduct(d, c)
	case TypeCombo:
		return evaluateCombo(d, c)
	default:
		return notEligible("jenis diskon tidak dikenal")
	}
}

// valid_until is inclusive through the end of its calendar day.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

func evaluateOrder(d *Discount, c *cart.Cart) Result {
	total := c.Total()

	// An amount discount without an explicit threshold must not exceed
	// its own minimum purchase.
	min := decimal.Zero
	switch {
	case d.MinPurchase != nil:
		min = *d.MinPurchase
	case d.ValueType == ValueAmount:
		min = d.Value
	}
	if total.LessThan(min) {
		return notEligible(fmt.Sprintf("minimal pembelian %s belum terpenuhi", money.FormatRupiah(min)))
	}

	var amount decimal.Decimal
	if d.ValueType == ValuePercent {
		amount = money.Percent(total, d.Value)
		if d.MaxDiscount != nil && amount.GreaterThan(*d.MaxDiscount) {
			amount = *d.MaxDiscount
		}
	} else {
		amount = d.Value
	}

	amount = money.Cap(amount, total)
	return Result{
		Amount:     amount,
		IsEligible: true,
		Message:    fmt.Sprintf("diskon %s diterapkan", money.FormatRupiah(amount)),
	}
}

func evaluateProduct(d *Discount, c *cart.Cart) Result {
	total := c.Total()
	minQty := d.MinQuantity
	if minQty < 1 {
		minQty = 1
	}
	sum := decimal.Zero
	anyInCart := false
	anyEligible := false

	for _, pid := range d.TargetProductIDs() {
		qty := c.QtyOf(pid)
		if qty == 0 {
			continue
		}
		anyInCart = true

		var multiplier int
		if d.IsMultiple {
			multiplier = qty / minQty
		} else if qty >= minQty {
			multiplier = 1
		}
		if multiplier == 0 {
			continue
		}
		anyEligible = true

		// The discount covers exactly multiplier*min_quantity units at
		// the cart-derived per-unit price (add-ons included).
		units := int64(multiplier * minQty)
		unit := c.UnitPriceOf(pid)
		eligibleSubtotal := money.Round(unit.Mul(decimal.NewFromInt(units)))

		if d.ValueType == ValuePercent {
			sum = sum.Add(money.Percent(eligibleSubtotal, d.Value))
		} else {
			sum = sum.Add(money.Cap(money.Round(d.Value.Mul(decimal.NewFromInt(units))), eligibleSubtotal))
		}
	}

	if !anyEligible {
		if !anyInCart {
			return notEligible("produk promo tidak ada di keranjang")
		}
		return notEligible("jumlah produk promo kurang dari minimal " + strconv.Itoa(minQty))
	}

	amount := money.Cap(money.Round(sum), total)
	return Result{
		Amount:     amount,
		IsEligible: true,
		Message:    fmt.Sprintf("diskon produk %s diterapkan", money.FormatRupiah(amount)),
	}
}

func evaluateCombo(d *Discount, c *cart.Cart) Result {
	total := c.Total()

	// Write-time validation rejects combo items with qty < 1; a row that
	// slipped past it is treated as ineligible rather than divided by.
	for _, it := range d.ComboItems {
		if it.Qty < 1 {
			return notEligible("paket combo tidak valid")
		}
	}

	// Satisfiable instances = the weakest pair; an entirely absent pair
	// makes the whole bundle ineligible.
	instances := 0
	for i, it := range d.ComboItems {
		qty := c.QtyOf(it.ProductID)
		if qty < it.Qty {
			return notEligible("paket combo belum lengkap di keranjang")
		}
		n := qty / it.Qty
		if i == 0 || n < instances {
			instances = n
		}
	}
	if instances == 0 {
		return notEligible("paket combo belum lengkap di keranjang")
	}

	// Per-instance base = the combined price of one bundle's constituent
	// quantities, derived from cart lines so add-ons are respected.
	base := decimal.Zero
	for _, it := range d.ComboItems {
		unit := c.UnitPriceOf(it.ProductID)
		base = base.Add(money.Round(unit.Mul(decimal.NewFromInt(int64(it.Qty)))))
	}

	var perInstance decimal.Decimal
	if d.ValueType == ValuePercent {
		perInstance = money.Percent(base, d.Value)
	} else {
		perInstance = money.Cap(d.Value, base)
	}

	amount := money.Cap(money.Round(perInstance.Mul(decimal.NewFromInt(int64(instances)))), total)
	return Result{
		Amount:     amount,
		IsEligible: true,
		Message:    fmt.Sprintf("diskon combo %s diterapkan (%dx)", money.FormatRupiah(amount), instances),
	}
}
