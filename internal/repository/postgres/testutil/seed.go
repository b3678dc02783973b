package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func MustInsertOperator(t *testing.T, db *pgxpool.Pool, name, role string) string {
	t.Helper()

	username := fmt.Sprintf("op%d", time.Now().UnixNano())

	var id string
	err := db.QueryRow(context.Background(), `
		INSERT INTO operators (username, name, role, password_hash, is_active)
		VALUES ($1, $2, $3, 'x', true)
		RETURNING id::text
	`, username, name, role).Scan(&id)

	require.NoError(t, err)
	require.NotEmpty(t, id)
	return id
}

func MustInsertProduct(t *testing.T, db *pgxpool.Pool, name, price string) string {
	t.Helper()

	var id string
	err := db.QueryRow(context.Background(), `
		INSERT INTO products (name, price, is_active)
		VALUES ($1, $2::numeric, true)
		RETURNING id::text
	`, name, price).Scan(&id)

	require.NoError(t, err)
	require.NotEmpty(t, id)
	return id
}

func MustInsertOrderDiscount(t *testing.T, db *pgxpool.Pool, name, value, valueType string, stock *int) string {
	t.Helper()

	code := fmt.Sprintf("D%d", time.Now().UnixNano())

	var id string
	err := db.QueryRow(context.Background(), `
		INSERT INTO discounts (name, code, discount_type, value, value_type, stock, is_active)
		VALUES ($1, $2, 'order', $3::numeric, $4, $5, true)
		RETURNING id::text
	`, name, code, value, valueType, stock).Scan(&id)

	require.NoError(t, err)
	require.NotEmpty(t, id)
	return id
}

func MustInsertSavedCart(t *testing.T, db *pgxpool.Pool, operatorID, label string) string {
	t.Helper()

	var id string
	err := db.QueryRow(context.Background(), `
		INSERT INTO saved_carts (operator_id, label, lines)
		VALUES ($1::uuid, $2, '[]'::jsonb)
		RETURNING id::text
	`, operatorID, label).Scan(&id)

	require.NoError(t, err)
	require.NotEmpty(t, id)
	return id
}
