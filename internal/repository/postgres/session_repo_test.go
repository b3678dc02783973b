package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rashiiddsr/kasir-cafe-backend/internal/repository/postgres/testutil"
	"github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/cart"
	chkuc "github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/checkout"
	sessuc "github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/session"
)

func TestSession_OpenCloseLifecycle(t *testing.T) {
	pool := testutil.MustOpenDB(t)
	t.Cleanup(pool.Close)

	adapter := NewSessionStoreAdapter(NewSessionRepo(pool))
	uc := sessuc.New(adapter, time.UTC)
	operatorID := testutil.MustInsertOperator(t, pool, "Budi", "kasir")

	opening := dec(t, "300000")
	s, err := uc.Open(context.Background(), sessuc.OpenInput{
		OperatorID:     operatorID,
		OpeningBalance: &opening,
	})
	require.NoError(t, err)
	require.NotEmpty(t, s.ID)
	require.Nil(t, s.ClosedAt)

	// A second open while one is live must conflict.
	_, err = uc.Open(context.Background(), sessuc.OpenInput{
		OperatorID:     operatorID,
		OpeningBalance: &opening,
	})
	require.ErrorIs(t, err, sessuc.ErrAlreadyOpen)

	// Status reflects the live session.
	st, err := uc.Status(context.Background(), operatorID, time.Now().UTC())
	require.NoError(t, err)
	require.Equal(t, sessuc.StatusOpen, st.Status)

	// Sell something during the shift so the summary has substance.
	discountStore := NewDiscountStoreAdapter(NewDiscountRepo(pool))
	checkoutUC := chkuc.New(NewCheckoutStoreAdapter(NewCheckoutRepo(pool), discountStore, pool))
	productID := testutil.MustInsertProduct(t, pool, "Kopi Susu", "18000")

	_, err = checkoutUC.Complete(context.Background(), chkuc.CompleteInput{
		Number: uniqueNumber(),
		Lines: []cart.Line{{
			ProductID:   productID,
			ProductName: "Kopi Susu",
			UnitPrice:   dec(t, "18000"),
			Qty:         2,
		}},
		PaymentMethod: chkuc.PaymentCash,
		PaymentAmount: dec(t, "36000"),
		OperatorID:    operatorID,
	})
	require.NoError(t, err)

	closingCash := dec(t, "336000") // 300000 opening + 36000 cash sales
	closingNonCash := dec(t, "0")
	closed, err := uc.Close(context.Background(), s.ID, sessuc.CloseInput{
		OperatorID:     operatorID,
		ClosingCash:    &closingCash,
		ClosingNonCash: &closingNonCash,
	})
	require.NoError(t, err)
	require.NotNil(t, closed.ClosedAt)
	require.NotNil(t, closed.Summary)
	require.Equal(t, 1, closed.Summary.TotalTransactions)
	require.True(t, closed.Summary.ExpectedCash.Equal(dec(t, "336000")), "got %s", closed.Summary.ExpectedCash)
	require.True(t, closed.Summary.VarianceCash.IsZero(), "got %s", closed.Summary.VarianceCash)
	require.NotEmpty(t, closed.Summary.TopProducts)
	require.Equal(t, "Kopi Susu", closed.Summary.TopProducts[0].ProductName)

	// Closing twice must fail.
	_, err = uc.Close(context.Background(), s.ID, sessuc.CloseInput{
		OperatorID:     operatorID,
		ClosingCash:    &closingCash,
		ClosingNonCash: &closingNonCash,
	})
	require.ErrorIs(t, err, sessuc.ErrAlreadyClosed)

	// Reopening the same calendar day must fail.
	_, err = uc.Open(context.Background(), sessuc.OpenInput{
		OperatorID:     operatorID,
		OpeningBalance: &opening,
	})
	require.ErrorIs(t, err, sessuc.ErrOpenedToday)

	st, err = uc.Status(context.Background(), operatorID, time.Now().UTC())
	require.NoError(t, err)
	require.Equal(t, sessuc.StatusClosed, st.Status)
}

func TestSession_CloseBlockedBySavedCarts(t *testing.T) {
	pool := testutil.MustOpenDB(t)
	t.Cleanup(pool.Close)

	adapter := NewSessionStoreAdapter(NewSessionRepo(pool))
	uc := sessuc.New(adapter, time.UTC)
	operatorID := testutil.MustInsertOperator(t, pool, "Budi", "kasir")

	opening := dec(t, "100000")
	s, err := uc.Open(context.Background(), sessuc.OpenInput{
		OperatorID:     operatorID,
		OpeningBalance: &opening,
	})
	require.NoError(t, err)

	testutil.MustInsertSavedCart(t, pool, operatorID, "meja 4")

	closing := dec(t, "100000")
	_, err = uc.Close(context.Background(), s.ID, sessuc.CloseInput{
		OperatorID:     operatorID,
		ClosingCash:    &closing,
		ClosingNonCash: &closing,
	})
	require.ErrorIs(t, err, sessuc.ErrPendingCarts)
}

func TestSession_CloseOwnershipEnforced(t *testing.T) {
	pool := testutil.MustOpenDB(t)
	t.Cleanup(pool.Close)

	adapter := NewSessionStoreAdapter(NewSessionRepo(pool))
	uc := sessuc.New(adapter, time.UTC)
	owner := testutil.MustInsertOperator(t, pool, "Budi", "kasir")
	other := testutil.MustInsertOperator(t, pool, "Sari", "kasir")

	opening := dec(t, "100000")
	s, err := uc.Open(context.Background(), sessuc.OpenInput{
		OperatorID:     owner,
		OpeningBalance: &opening,
	})
	require.NoError(t, err)

	closing := dec(t, "100000")
	_, err = uc.Close(context.Background(), s.ID, sessuc.CloseInput{
		OperatorID:     other,
		ClosingCash:    &closing,
		ClosingNonCash: &closing,
	})
	require.ErrorIs(t, err, sessuc.ErrNotOwner)
}
