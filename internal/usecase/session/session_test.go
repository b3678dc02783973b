package session

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

var (
	loc     = time.FixedZone("WIB", 7*3600)
	testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, loc)
)

type fakeStore struct {
	open         *Session
	onDay        *Session
	byID         map[string]*Session
	savedCnt     int
	totals       *Totals
	opened       *Session
	closed       *Session
	totalFrom    time.Time
	totalTo      time.Time
	openDayStart time.Time
	openDayEnd   time.Time
}

func (f *fakeStore) FindOpenByOperator(_ context.Context, _ string) (*Session, error) {
	return f.open, nil
}

func (f *fakeStore) FindByOperatorOnDay(_ context.Context, _ string, _, _ time.Time) (*Session, error) {
	return f.onDay, nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*Session, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (f *fakeStore) Open(_ context.Context, _ string, dayStart, dayEnd time.Time, s *Session) (*Session, error) {
	f.openDayStart = dayStart
	f.openDayEnd = dayEnd
	out := *s
	out.ID = "sess-1"
	f.opened = &out
	return &out, nil
}

func (f *fakeStore) CountSavedCarts(_ context.Context, _ string) (int, error) {
	return f.savedCnt, nil
}

func (f *fakeStore) TotalsBetween(_ context.Context, _ string, from, to time.Time) (*Totals, error) {
	f.totalFrom = from
	f.totalTo = to
	if f.totals != nil {
		return f.totals, nil
	}
	return &Totals{}, nil
}

func (f *fakeStore) Close(_ context.Context, s *Session) (*Session, error) {
	f.closed = s
	return s, nil
}

func newUC(store *fakeStore) *Usecase {
	uc := New(store, loc)
	uc.now = func() time.Time { return testNow }
	return uc
}

func TestOpen_OK(t *testing.T) {
	store := &fakeStore{}
	uc := newUC(store)

	out, err := uc.Open(context.Background(), OpenInput{
		OperatorID:     "op-1",
		OpeningBalance: decPtr("300000"),
	})
	require.NoError(t, err)
	require.Equal(t, "op-1", out.OpenedBy)
	require.True(t, out.OpeningBalance.Equal(dec("300000")))
	require.True(t, out.OpenedAt.Equal(testNow))
}

func TestOpen_DayWindowInStoreTimezone(t *testing.T) {
	// 19:00 UTC is already 02:00 the NEXT day in the store timezone; the
	// window handed to the store must be that Jakarta-time day, not the
	// server clock's.
	store := &fakeStore{}
	uc := New(store, loc)
	uc.now = func() time.Time { return time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC) }

	_, err := uc.Open(context.Background(), OpenInput{
		OperatorID:     "op-1",
		OpeningBalance: decPtr("300000"),
	})
	require.NoError(t, err)

	wantStart := time.Date(2026, 3, 11, 0, 0, 0, 0, loc)
	require.True(t, store.openDayStart.Equal(wantStart), "got %s", store.openDayStart)
	require.True(t, store.openDayEnd.Equal(wantStart.AddDate(0, 0, 1)), "got %s", store.openDayEnd)
}

func TestOpen_RequiresBalance(t *testing.T) {
	uc := newUC(&fakeStore{})

	_, err := uc.Open(context.Background(), OpenInput{OperatorID: "op-1"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Open(context.Background(), OpenInput{
		OperatorID:     "op-1",
		OpeningBalance: decPtr("-1"),
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestOpen_AlreadyOpen(t *testing.T) {
	store := &fakeStore{open: &Session{ID: "sess-0", OpenedBy: "op-1", OpenedAt: testNow}}
	uc := newUC(store)

	_, err := uc.Open(context.Background(), OpenInput{
		OperatorID:     "op-1",
		OpeningBalance: decPtr("300000"),
	})
	require.ErrorIs(t, err, ErrAlreadyOpen)
}

func TestOpen_OncePerDay(t *testing.T) {
	closedAt := testNow.Add(-time.Hour)
	store := &fakeStore{onDay: &Session{
		ID: "sess-0", OpenedBy: "op-1",
		OpenedAt: testNow.Add(-2 * time.Hour),
		ClosedAt: &closedAt,
	}}
	uc := newUC(store)

	_, err := uc.Open(context.Background(), OpenInput{
		OperatorID:     "op-1",
		OpeningBalance: decPtr("300000"),
	})
	require.ErrorIs(t, err, ErrOpenedToday)
}

func TestStatus_Transitions(t *testing.T) {
	t.Run("needs-open", func(t *testing.T) {
		res, err := newUC(&fakeStore{}).Status(context.Background(), "op-1", testNow)
		require.NoError(t, err)
		require.Equal(t, StatusNeedsOpen, res.Status)
		require.Nil(t, res.Session)
	})

	t.Run("open", func(t *testing.T) {
		store := &fakeStore{open: &Session{ID: "sess-1", OpenedAt: testNow.Add(-time.Hour)}}
		res, err := newUC(store).Status(context.Background(), "op-1", testNow)
		require.NoError(t, err)
		require.Equal(t, StatusOpen, res.Status)
		require.NotNil(t, res.Session)
	})

	t.Run("needs-close for stale session", func(t *testing.T) {
		store := &fakeStore{open: &Session{ID: "sess-1", OpenedAt: testNow.AddDate(0, 0, -1)}}
		res, err := newUC(store).Status(context.Background(), "op-1", testNow)
		require.NoError(t, err)
		require.Equal(t, StatusNeedsClose, res.Status)
	})

	t.Run("closed", func(t *testing.T) {
		closedAt := testNow.Add(-time.Hour)
		store := &fakeStore{onDay: &Session{ID: "sess-1", OpenedAt: testNow.Add(-2 * time.Hour), ClosedAt: &closedAt}}
		res, err := newUC(store).Status(context.Background(), "op-1", testNow)
		require.NoError(t, err)
		require.Equal(t, StatusClosed, res.Status)
	})
}

func TestClose_Reconciliation(t *testing.T) {
	opened := testNow.Add(-8 * time.Hour)
	store := &fakeStore{
		byID: map[string]*Session{"sess-1": {
			ID: "sess-1", OpenedBy: "op-1", OpenedAt: opened,
			OpeningBalance: dec("300000"),
		}},
		totals: &Totals{
			Count:   42,
			Cash:    dec("1250000"),
			NonCash: dec("800000"),
			Revenue: dec("2050000"),
			TopProducts: []ProductQty{
				{ProductName: "Kopi Susu", Qty: 30},
			},
		},
	}
	uc := newUC(store)

	out, err := uc.Close(context.Background(), "sess-1", CloseInput{
		OperatorID:     "op-1",
		ClosingCash:    decPtr("1540000"), // expected 1550000 -> short 10000
		ClosingNonCash: decPtr("800000"),
	})
	require.NoError(t, err)
	require.NotNil(t, out.Summary)

	sum := out.Summary
	require.Equal(t, 42, sum.TotalTransactions)
	require.True(t, sum.ExpectedCash.Equal(dec("1550000")), "got %s", sum.ExpectedCash)
	require.True(t, sum.VarianceCash.Equal(dec("-10000")), "got %s", sum.VarianceCash)
	require.True(t, sum.VarianceNonCash.IsZero())
	require.True(t, sum.VarianceTotal.Equal(dec("-10000")))
	require.Len(t, sum.TopProducts, 1)

	// The aggregation window must end at the persisted close instant.
	require.True(t, store.totalFrom.Equal(opened))
	require.True(t, store.totalTo.Equal(*out.ClosedAt))
}

func TestClose_RequiresCounts(t *testing.T) {
	store := &fakeStore{byID: map[string]*Session{"sess-1": {ID: "sess-1", OpenedBy: "op-1"}}}
	uc := newUC(store)

	_, err := uc.Close(context.Background(), "sess-1", CloseInput{
		OperatorID:  "op-1",
		ClosingCash: decPtr("100000"),
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestClose_OwnershipEnforced(t *testing.T) {
	store := &fakeStore{byID: map[string]*Session{"sess-1": {ID: "sess-1", OpenedBy: "op-1"}}}
	uc := newUC(store)

	_, err := uc.Close(context.Background(), "sess-1", CloseInput{
		OperatorID:     "op-2",
		ClosingCash:    decPtr("0"),
		ClosingNonCash: decPtr("0"),
	})
	require.ErrorIs(t, err, ErrNotOwner)
}

func TestClose_AlreadyClosed(t *testing.T) {
	closedAt := testNow.Add(-time.Hour)
	store := &fakeStore{byID: map[string]*Session{"sess-1": {
		ID: "sess-1", OpenedBy: "op-1", ClosedAt: &closedAt,
	}}}
	uc := newUC(store)

	_, err := uc.Close(context.Background(), "sess-1", CloseInput{
		OperatorID:     "op-1",
		ClosingCash:    decPtr("0"),
		ClosingNonCash: decPtr("0"),
	})
	require.ErrorIs(t, err, ErrAlreadyClosed)
}

func TestClose_BlockedBySavedCarts(t *testing.T) {
	store := &fakeStore{
		byID:     map[string]*Session{"sess-1": {ID: "sess-1", OpenedBy: "op-1"}},
		savedCnt: 2,
	}
	uc := newUC(store)

	_, err := uc.Close(context.Background(), "sess-1", CloseInput{
		OperatorID:     "op-1",
		ClosingCash:    decPtr("0"),
		ClosingNonCash: decPtr("0"),
	})
	require.ErrorIs(t, err, ErrPendingCarts)
	require.Contains(t, err.Error(), "2 keranjang")
}
