package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	discuc "github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/discount"
	produc "github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/product"
)

type ProductRow struct {
	ID        string
	Name      string
	Price     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ProductRepo struct {
	db *pgxpool.Pool
}

func NewProductRepo(db *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*ProductRow, error) {
	const q = `
SELECT id::text, name, price::text, is_active, created_at, updated_at
FROM products
WHERE id = $1::uuid;
`
	var out ProductRow
	if err := r.db.QueryRow(ctx, q, id).Scan(
		&out.ID, &out.Name, &out.Price, &out.IsActive, &out.CreatedAt, &out.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]ProductRow, error) {
	const q = `
SELECT id::text, name, price::text, is_active, created_at, updated_at
FROM products
WHERE is_active = true
ORDER BY name ASC
LIMIT $1 OFFSET $2;
`
	rows, err := r.db.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ProductRow, 0, limit)
	for rows.Next() {
		var p ProductRow
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ProductLookupAdapter exposes the catalog read path the discount write
// path validates against.
type ProductLookupAdapter struct {
	repo *ProductRepo
}

func NewProductLookupAdapter(repo *ProductRepo) *ProductLookupAdapter {
	return &ProductLookupAdapter{repo: repo}
}

func (a *ProductLookupAdapter) GetProduct(ctx context.Context, id string) (*discuc.Product, error) {
	row, err := a.repo.GetByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, discuc.ErrProductMissing
		}
		return nil, err
	}
	price, err := parseDec(row.Price)
	if err != nil {
		return nil, err
	}
	return &discuc.Product{
		ID:       row.ID,
		Name:     row.Name,
		Price:    price,
		IsActive: row.IsActive,
	}, nil
}

// Compile-time check
var _ discuc.ProductLookup = (*ProductLookupAdapter)(nil)

type ProductStoreAdapter struct {
	repo *ProductRepo
}

func NewProductStoreAdapter(repo *ProductRepo) *ProductStoreAdapter {
	return &ProductStoreAdapter{repo: repo}
}

func (a *ProductStoreAdapter) GetByID(ctx context.Context, id string) (*produc.Product, error) {
	row, err := a.repo.GetByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, produc.ErrNotFound
		}
		return nil, err
	}
	return mapProductRow(row)
}

func (a *ProductStoreAdapter) List(ctx context.Context, limit, offset int) ([]produc.Product, error) {
	rows, err := a.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]produc.Product, 0, len(rows))
	for i := range rows {
		p, err := mapProductRow(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

func mapProductRow(r *ProductRow) (*produc.Product, error) {
	price, err := parseDec(r.Price)
	if err != nil {
		return nil, err
	}
	return &produc.Product{
		ID:        r.ID,
		Name:      r.Name,
		Price:     price,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

// Compile-time check
var _ produc.Store = (*ProductStoreAdapter)(nil)
