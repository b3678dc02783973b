package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rashiiddsr/kasir-cafe-backend/internal/repository/postgres/testutil"
	"github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/cart"
	chkuc "github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/checkout"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func uniqueNumber() string {
	return fmt.Sprintf("TRX-%d", time.Now().UnixNano())
}

func TestCheckout_Complete_OK(t *testing.T) {
	pool := testutil.MustOpenDB(t)
	t.Cleanup(pool.Close)

	discountStore := NewDiscountStoreAdapter(NewDiscountRepo(pool))
	store := NewCheckoutStoreAdapter(NewCheckoutRepo(pool), discountStore, pool)
	uc := chkuc.New(store)

	operatorID := testutil.MustInsertOperator(t, pool, "Budi", "kasir")
	productID := testutil.MustInsertProduct(t, pool, "Kopi Susu", "18000")

	out, err := uc.Complete(context.Background(), chkuc.CompleteInput{
		Number: uniqueNumber(),
		Lines: []cart.Line{{
			ProductID:   productID,
			ProductName: "Kopi Susu",
			UnitPrice:   dec(t, "18000"),
			Qty:         2,
		}},
		PaymentMethod: chkuc.PaymentCash,
		PaymentAmount: dec(t, "40000"),
		OperatorID:    operatorID,
	})
	require.NoError(t, err)
	require.NotEmpty(t, out.ID)
	require.Equal(t, chkuc.StatusCompleted, out.Status)
	require.True(t, out.TotalAmount.Equal(dec(t, "36000")), "got %s", out.TotalAmount)
	require.True(t, out.ChangeAmount.Equal(dec(t, "4000")))
	require.Len(t, out.Items, 1)

	// Round-trip: the stored record matches what Complete returned.
	got, err := uc.GetByID(context.Background(), out.ID)
	require.NoError(t, err)
	require.Equal(t, out.Number, got.Number)
	require.True(t, got.TotalAmount.Equal(out.TotalAmount))
	require.Len(t, got.Items, 1)
	require.Equal(t, "Kopi Susu", got.Items[0].ProductName)
}

func TestCheckout_Complete_DecrementsDiscountStock(t *testing.T) {
	pool := testutil.MustOpenDB(t)
	t.Cleanup(pool.Close)

	discountStore := NewDiscountStoreAdapter(NewDiscountRepo(pool))
	store := NewCheckoutStoreAdapter(NewCheckoutRepo(pool), discountStore, pool)
	uc := chkuc.New(store)

	operatorID := testutil.MustInsertOperator(t, pool, "Budi", "kasir")
	productID := testutil.MustInsertProduct(t, pool, "Kopi Susu", "18000")

	stock := 1
	discountID := testutil.MustInsertOrderDiscount(t, pool, "Promo Satu", "10", "percent", &stock)

	in := chkuc.CompleteInput{
		Number: uniqueNumber(),
		Lines: []cart.Line{{
			ProductID:   productID,
			ProductName: "Kopi Susu",
			UnitPrice:   dec(t, "18000"),
			Qty:         1,
		}},
		DiscountID:    &discountID,
		PaymentMethod: chkuc.PaymentNonCash,
		OperatorID:    operatorID,
	}

	out, err := uc.Complete(context.Background(), in)
	require.NoError(t, err)
	require.True(t, out.DiscountAmount.Equal(dec(t, "1800")), "got %s", out.DiscountAmount)

	var left int
	err = pool.QueryRow(context.Background(),
		`SELECT stock FROM discounts WHERE id = $1::uuid`, discountID).Scan(&left)
	require.NoError(t, err)
	require.Equal(t, 0, left)

	// Quota exhausted: the next redemption must fail before the insert.
	in.Number = uniqueNumber()
	_, err = uc.Complete(context.Background(), in)
	require.Error(t, err)
}

func TestCheckout_Complete_DuplicateNumber(t *testing.T) {
	pool := testutil.MustOpenDB(t)
	t.Cleanup(pool.Close)

	discountStore := NewDiscountStoreAdapter(NewDiscountRepo(pool))
	store := NewCheckoutStoreAdapter(NewCheckoutRepo(pool), discountStore, pool)
	uc := chkuc.New(store)

	operatorID := testutil.MustInsertOperator(t, pool, "Budi", "kasir")
	productID := testutil.MustInsertProduct(t, pool, "Kopi Susu", "18000")

	in := chkuc.CompleteInput{
		Number: uniqueNumber(),
		Lines: []cart.Line{{
			ProductID:   productID,
			ProductName: "Kopi Susu",
			UnitPrice:   dec(t, "18000"),
			Qty:         1,
		}},
		PaymentMethod: chkuc.PaymentNonCash,
		OperatorID:    operatorID,
	}

	_, err := uc.Complete(context.Background(), in)
	require.NoError(t, err)

	_, err = uc.Complete(context.Background(), in)
	require.ErrorIs(t, err, chkuc.ErrNumberTaken)
}

func TestCheckout_Void_TerminalState(t *testing.T) {
	pool := testutil.MustOpenDB(t)
	t.Cleanup(pool.Close)

	discountStore := NewDiscountStoreAdapter(NewDiscountRepo(pool))
	store := NewCheckoutStoreAdapter(NewCheckoutRepo(pool), discountStore, pool)
	uc := chkuc.New(store)

	operatorID := testutil.MustInsertOperator(t, pool, "Budi", "kasir")
	productID := testutil.MustInsertProduct(t, pool, "Kopi Susu", "18000")

	out, err := uc.Complete(context.Background(), chkuc.CompleteInput{
		Number: uniqueNumber(),
		Lines: []cart.Line{{
			ProductID:   productID,
			ProductName: "Kopi Susu",
			UnitPrice:   dec(t, "18000"),
			Qty:         1,
		}},
		PaymentMethod: chkuc.PaymentNonCash,
		OperatorID:    operatorID,
	})
	require.NoError(t, err)

	voided, err := uc.Void(context.Background(), out.ID, chkuc.VoidInput{
		OperatorID: operatorID,
		Reason:     "salah input pesanan",
	})
	require.NoError(t, err)
	require.Equal(t, chkuc.StatusVoided, voided.Status)
	require.Equal(t, "salah input pesanan", *voided.VoidReason)
	// Payment fields stay frozen.
	require.True(t, voided.TotalAmount.Equal(out.TotalAmount))

	_, err = uc.Void(context.Background(), out.ID, chkuc.VoidInput{OperatorID: operatorID})
	require.ErrorIs(t, err, chkuc.ErrAlreadyVoided)
}
