package postgres

import (
	"context"
	"encoding/json"

	discuc "github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/discount"
)

type DiscountStoreAdapter struct {
	repo *DiscountRepo
}

func NewDiscountStoreAdapter(repo *DiscountRepo) *DiscountStoreAdapter {
	return &DiscountStoreAdapter{repo: repo}
}

func (a *DiscountStoreAdapter) Create(ctx context.Context, d *discuc.Discount) (*discuc.Discount, error) {
	in, err := toDiscountRow(d)
	if err != nil {
		return nil, err
	}
	row, err := a.repo.Create(ctx, *in)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, discuc.ErrCodeTaken
		}
		return nil, err
	}
	return mapDiscountRow(row)
}

func (a *DiscountStoreAdapter) Update(ctx context.Context, d *discuc.Discount) (*discuc.Discount, error) {
	in, err := toDiscountRow(d)
	if err != nil {
		return nil, err
	}
	row, err := a.repo.Update(ctx, *in)
	if err != nil {
		if isNoRows(err) {
			return nil, discuc.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, discuc.ErrCodeTaken
		}
		return nil, err
	}
	return mapDiscountRow(row)
}

func (a *DiscountStoreAdapter) Delete(ctx context.Context, id string) error {
	ok, err := a.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return discuc.ErrNotFound
	}
	return nil
}

func (a *DiscountStoreAdapter) GetByID(ctx context.Context, id string) (*discuc.Discount, error) {
	row, err := a.repo.GetByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, discuc.ErrNotFound
		}
		return nil, err
	}
	return mapDiscountRow(row)
}

func (a *DiscountStoreAdapter) List(ctx context.Context, limit, offset int) ([]discuc.Discount, error) {
	rows, err := a.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]discuc.Discount, 0, len(rows))
	for i := range rows {
		d, err := mapDiscountRow(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

func toDiscountRow(d *discuc.Discount) (*DiscountRow, error) {
	var combo []byte
	if len(d.ComboItems) > 0 {
		b, err := json.Marshal(d.ComboItems)
		if err != nil {
			return nil, err
		}
		combo = b
	}

	row := &DiscountRow{
		ID:          d.ID,
		Name:        d.Name,
		Code:        d.Code,
		Type:        d.Type,
		Value:       d.Value.StringFixed(2),
		ValueType:   d.ValueType,
		Stock:       d.Stock,
		ValidFrom:   d.ValidFrom,
		ValidUntil:  d.ValidUntil,
		IsActive:    d.IsActive,
		ProductIDs:  d.ProductIDs,
		MinQuantity: d.MinQuantity,
		IsMultiple:  d.IsMultiple,
		ComboItems:  combo,
	}
	if d.MinPurchase != nil {
		s := d.MinPurchase.StringFixed(2)
		row.MinPurchase = &s
	}
	if d.MaxDiscount != nil {
		s := d.MaxDiscount.StringFixed(2)
		row.MaxDiscount = &s
	}
	return row, nil
}

func mapDiscountRow(r *DiscountRow) (*discuc.Discount, error) {
	value, err := parseDec(r.Value)
	if err != nil {
		return nil, err
	}
	minPurchase, err := parseDecPtr(r.MinPurchase)
	if err != nil {
		return nil, err
	}
	maxDiscount, err := parseDecPtr(r.MaxDiscount)
	if err != nil {
		return nil, err
	}

	var combo []discuc.ComboItem
	if len(r.ComboItems) > 0 {
		if err := json.Unmarshal(r.ComboItems, &combo); err != nil {
			return nil, err
		}
	}

	return &discuc.Discount{
		ID:          r.ID,
		Name:        r.Name,
		Code:        r.Code,
		Type:        r.Type,
		Value:       value,
		ValueType:   r.ValueType,
		MinPurchase: minPurchase,
		MaxDiscount: maxDiscount,
		Stock:       r.Stock,
		ValidFrom:   r.ValidFrom,
		ValidUntil:  r.ValidUntil,
		IsActive:    r.IsActive,
		ProductIDs:  r.ProductIDs,
		MinQuantity: r.MinQuantity,
		IsMultiple:  r.IsMultiple,
		ComboItems:  combo,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

// Compile-time check
var _ discuc.Store = (*DiscountStoreAdapter)(nil)
