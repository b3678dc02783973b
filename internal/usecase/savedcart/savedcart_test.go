package savedcart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/cart"
)

type fakeStore struct {
	saved   *SavedCart
	byID    map[string]*SavedCart
	deleted string
}

func (f *fakeStore) Save(_ context.Context, sc *SavedCart) (*SavedCart, error) {
	f.saved = sc
	return sc, nil
}

func (f *fakeStore) ListByOperator(_ context.Context, _ string) ([]SavedCart, error) {
	return nil, nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*SavedCart, error) {
	sc, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sc, nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	f.deleted = id
	return nil
}

func someLines() []cart.Line {
	return []cart.Line{{
		ProductID:   "p1",
		ProductName: "Kopi Susu",
		UnitPrice:   decimal.NewFromInt(18000),
		Qty:         2,
	}}
}

func TestSave_DefaultsLabel(t *testing.T) {
	store := &fakeStore{}
	uc := New(store)

	out, err := uc.Save(context.Background(), SaveInput{
		OperatorID: "op-1",
		Lines:      someLines(),
	})
	require.NoError(t, err)
	require.Equal(t, "tanpa nama", out.Label)
	require.NotEmpty(t, out.ID)
	require.Len(t, out.Lines, 1)
}

func TestSave_RejectsEmpty(t *testing.T) {
	uc := New(&fakeStore{})

	_, err := uc.Save(context.Background(), SaveInput{OperatorID: "op-1"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestDelete_OwnershipEnforced(t *testing.T) {
	store := &fakeStore{byID: map[string]*SavedCart{
		"sc-1": {ID: "sc-1", OperatorID: "op-1"},
	}}
	uc := New(store)

	err := uc.Delete(context.Background(), "sc-1", "op-2")
	require.ErrorIs(t, err, ErrNotOwner)
	require.Empty(t, store.deleted)

	err = uc.Delete(context.Background(), "sc-1", "op-1")
	require.NoError(t, err)
	require.Equal(t, "sc-1", store.deleted)
}
