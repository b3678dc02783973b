package discount

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	discuc "github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/discount"
)

type memStore struct {
	byID map[string]*discuc.Discount
}

func (m *memStore) Create(_ context.Context, d *discuc.Discount) (*discuc.Discount, error) {
	m.byID[d.ID] = d
	return d, nil
}

func (m *memStore) Update(_ context.Context, d *discuc.Discount) (*discuc.Discount, error) {
	if _, ok := m.byID[d.ID]; !ok {
		return nil, discuc.ErrNotFound
	}
	m.byID[d.ID] = d
	return d, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*discuc.Discount, error) {
	d, ok := m.byID[id]
	if !ok {
		return nil, discuc.ErrNotFound
	}
	return d, nil
}

func (m *memStore) List(_ context.Context, _, _ int) ([]discuc.Discount, error) {
	return nil, nil
}

type noLookup struct{}

func (noLookup) GetProduct(_ context.Context, _ string) (*discuc.Product, error) {
	return nil, discuc.ErrProductMissing
}

func newTestApp(store *memStore) *fiber.App {
	h := New(discuc.New(store, noLookup{}))
	app := fiber.New()
	app.Put("/discounts/:id", h.Update)
	return app
}

// Update replaces the whole object, so it is exposed as PUT; a client
// sending PATCH-style partial bodies must not reach it.
func TestUpdate_IsFullReplacePut(t *testing.T) {
	stock := 10
	store := &memStore{byID: map[string]*discuc.Discount{
		"d-1": {
			ID: "d-1", Name: "Promo", Code: "P", Type: discuc.TypeOrder,
			Value: decimal.NewFromInt(10), ValueType: discuc.ValuePercent,
			IsActive: true, Stock: &stock,
		},
	}}
	app := newTestApp(store)

	body := `{"name":"Promo Baru","code":"PB","type":"order","value":"15","valueType":"percent","isActive":true}`
	req := httptest.NewRequest("PUT", "/discounts/d-1", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	got := store.byID["d-1"]
	require.Equal(t, "Promo Baru", got.Name)
	require.Equal(t, "PB", got.Code)
	// Full replace: the omitted stock is gone, exactly what PUT promises
	// and PATCH would not.
	require.Nil(t, got.Stock)
}

func TestUpdate_PatchMethodRejected(t *testing.T) {
	store := &memStore{byID: map[string]*discuc.Discount{}}
	app := newTestApp(store)

	req := httptest.NewRequest("PATCH", "/discounts/d-1", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode)
}
