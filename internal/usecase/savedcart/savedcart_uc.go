// Package savedcart keeps parked tabs: a cashier can put a cart aside
// for a waiting customer and pick it up later. Open saved carts block
// session close.
package savedcart

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/cart"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("saved cart not found")
	ErrNotOwner     = errors.New("saved cart belongs to another operator")
)

type SavedCart struct {
	ID         string      `json:"id"`
	OperatorID string      `json:"operatorId"`
	Label      string      `json:"label"`
	Lines      []cart.Line `json:"lines"`
	CreatedAt  time.Time   `json:"createdAt"`
}

type Store interface {
	Save(ctx context.Context, sc *SavedCart) (*SavedCart, error)
	ListByOperator(ctx context.Context, operatorID string) ([]SavedCart, error)
	GetByID(ctx context.Context, id string) (*SavedCart, error)
	Delete(ctx context.Context, id string) error
}

type Usecase struct {
	store Store
}

func New(store Store) *Usecase {
	return &Usecase{store: store}
}

type SaveInput struct {
	Label      string      `json:"label"`
	Lines      []cart.Line `json:"lines"`
	OperatorID string      `json:"-"`
}

func (u *Usecase) Save(ctx context.Context, in SaveInput) (*SavedCart, error) {
	if strings.TrimSpace(in.OperatorID) == "" || len(in.Lines) == 0 {
		return nil, ErrInvalidInput
	}
	// Rebuild server-side so a malformed snapshot is rejected here, not
	// at checkout.
	c, err := cart.FromLines(in.Lines)
	if err != nil {
		return nil, ErrInvalidInput
	}

	label := strings.TrimSpace(in.Label)
	if label == "" {
		label = "tanpa nama"
	}

	return u.store.Save(ctx, &SavedCart{
		ID:         uuid.NewString(),
		OperatorID: in.OperatorID,
		Label:      label,
		Lines:      c.Lines(),
		CreatedAt:  time.Now(),
	})
}

func (u *Usecase) ListByOperator(ctx context.Context, operatorID string) ([]SavedCart, error) {
	if strings.TrimSpace(operatorID) == "" {
		return nil, ErrInvalidInput
	}
	return u.store.ListByOperator(ctx, operatorID)
}

func (u *Usecase) Delete(ctx context.Context, id string, operatorID string) error {
	if id == "" || strings.TrimSpace(operatorID) == "" {
		return ErrInvalidInput
	}
	sc, err := u.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sc.OperatorID != operatorID {
		return ErrNotOwner
	}
	return u.store.Delete(ctx, id)
}
