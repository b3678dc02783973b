package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	sessuc "github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/session"
)

const topProductsLimit = 5

type SessionStoreAdapter struct {
	repo *SessionRepo
}

func NewSessionStoreAdapter(repo *SessionRepo) *SessionStoreAdapter {
	return &SessionStoreAdapter{repo: repo}
}

func (a *SessionStoreAdapter) FindOpenByOperator(ctx context.Context, operatorID string) (*sessuc.Session, error) {
	row, err := a.repo.FindOpenByOperator(ctx, operatorID)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return mapSessionRow(row)
}

func (a *SessionStoreAdapter) FindByOperatorOnDay(ctx context.Context, operatorID string, dayStart, dayEnd time.Time) (*sessuc.Session, error) {
	row, err := a.repo.FindByOperatorBetween(ctx, operatorID, dayStart, dayEnd)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return mapSessionRow(row)
}

func (a *SessionStoreAdapter) GetByID(ctx context.Context, id string) (*sessuc.Session, error) {
	row, err := a.repo.GetByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, sessuc.ErrNotFound
		}
		return nil, err
	}
	return mapSessionRow(row)
}

// Open repeats the no-open-session and not-yet-today checks under an
// operator row lock, then inserts. The usecase already checked both, but
// only this transaction can make the pair atomic. The day window arrives
// from the caller so both checks use the same store-timezone bounds.
func (a *SessionStoreAdapter) Open(ctx context.Context, operatorID string, dayStart, dayEnd time.Time, s *sessuc.Session) (*sessuc.Session, error) {
	tx, err := a.repo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := lockOperator(ctx, tx, operatorID); err != nil {
		return nil, err
	}

	if n, err := countOpenSessions(ctx, tx, operatorID); err != nil {
		return nil, err
	} else if n > 0 {
		return nil, sessuc.ErrAlreadyOpen
	}

	if n, err := countSessionsBetween(ctx, tx, operatorID, dayStart, dayEnd); err != nil {
		return nil, err
	} else if n > 0 {
		return nil, sessuc.ErrOpenedToday
	}

	row, err := insertSession(ctx, tx, operatorID, s.OpeningBalance.StringFixed(2), s.OpenedAt)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return mapSessionRow(row)
}

func (a *SessionStoreAdapter) CountSavedCarts(ctx context.Context, operatorID string) (int, error) {
	return countSavedCartsTx(ctx, a.repo.db, operatorID)
}

func (a *SessionStoreAdapter) TotalsBetween(ctx context.Context, operatorID string, from, to time.Time) (*sessuc.Totals, error) {
	row, err := a.repo.TotalsBetween(ctx, operatorID, from, to)
	if err != nil {
		return nil, err
	}
	cash, err := parseDec(row.Cash)
	if err != nil {
		return nil, err
	}
	nonCash, err := parseDec(row.NonCash)
	if err != nil {
		return nil, err
	}
	revenue, err := parseDec(row.Revenue)
	if err != nil {
		return nil, err
	}

	top, err := a.repo.TopProductsBetween(ctx, operatorID, from, to, topProductsLimit)
	if err != nil {
		return nil, err
	}
	products := make([]sessuc.ProductQty, 0, len(top))
	for _, p := range top {
		products = append(products, sessuc.ProductQty{ProductName: p.ProductName, Qty: p.Qty})
	}

	return &sessuc.Totals{
		Count:       row.Count,
		Cash:        cash,
		NonCash:     nonCash,
		Revenue:     revenue,
		TopProducts: products,
	}, nil
}

// Close re-asserts, under lock, that the session is still open and that
// the owner still has no saved carts, then writes the frozen summary.
func (a *SessionStoreAdapter) Close(ctx context.Context, s *sessuc.Session) (*sessuc.Session, error) {
	tx, err := a.repo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := lockOperator(ctx, tx, s.OpenedBy); err != nil {
		return nil, err
	}

	current, err := lockSession(ctx, tx, s.ID)
	if err != nil {
		if isNoRows(err) {
			return nil, sessuc.ErrNotFound
		}
		return nil, err
	}
	if current.ClosedAt != nil {
		return nil, sessuc.ErrAlreadyClosed
	}

	if n, err := countSavedCartsTx(ctx, tx, s.OpenedBy); err != nil {
		return nil, err
	} else if n > 0 {
		return nil, sessuc.ErrPendingCarts
	}

	in, err := toSessionCloseRow(s)
	if err != nil {
		return nil, err
	}
	row, err := closeSession(ctx, tx, *in)
	if err != nil {
		if isNoRows(err) {
			// closed_at guard in the UPDATE filtered the row out
			return nil, sessuc.ErrAlreadyClosed
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return mapSessionRow(row)
}

func toSessionCloseRow(s *sessuc.Session) (*SessionRow, error) {
	if s.Summary == nil {
		return nil, sessuc.ErrInvalidInput
	}
	sum := s.Summary

	top, err := json.Marshal(sum.TopProducts)
	if err != nil {
		return nil, err
	}

	row := SessionRow{
		ID:           s.ID,
		ClosedAt:     s.ClosedAt,
		ClosedBy:     s.ClosedBy,
		ClosingNotes: s.ClosingNotes,
		TopProducts:  top,
	}
	if s.ClosingCash != nil {
		v := s.ClosingCash.StringFixed(2)
		row.ClosingCash = &v
	}
	if s.ClosingNonCash != nil {
		v := s.ClosingNonCash.StringFixed(2)
		row.ClosingNonCash = &v
	}

	count := sum.TotalTransactions
	row.TotalTransactions = &count
	row.TotalRevenue = decString(sum.TotalRevenue)
	row.TotalCash = decString(sum.TotalCash)
	row.TotalNonCash = decString(sum.TotalNonCash)
	row.ExpectedCash = decString(sum.ExpectedCash)
	row.ExpectedNonCash = decString(sum.ExpectedNonCash)
	row.VarianceCash = decString(sum.VarianceCash)
	row.VarianceNonCash = decString(sum.VarianceNonCash)
	row.VarianceTotal = decString(sum.VarianceTotal)
	return &row, nil
}

func decString(d decimal.Decimal) *string {
	s := d.StringFixed(2)
	return &s
}

func mapSessionRow(r *SessionRow) (*sessuc.Session, error) {
	opening, err := parseDec(r.OpeningBalance)
	if err != nil {
		return nil, err
	}
	closingCash, err := parseDecPtr(r.ClosingCash)
	if err != nil {
		return nil, err
	}
	closingNonCash, err := parseDecPtr(r.ClosingNonCash)
	if err != nil {
		return nil, err
	}

	out := &sessuc.Session{
		ID:             r.ID,
		OpenedBy:       r.OpenedBy,
		OpenedAt:       r.OpenedAt,
		OpeningBalance: opening,
		ClosedAt:       r.ClosedAt,
		ClosedBy:       r.ClosedBy,
		ClosingCash:    closingCash,
		ClosingNonCash: closingNonCash,
		ClosingNotes:   r.ClosingNotes,
	}

	if r.TotalTransactions != nil {
		sum := &sessuc.Summary{TotalTransactions: *r.TotalTransactions}
		if sum.TotalRevenue, err = parseDecOrZero(r.TotalRevenue); err != nil {
			return nil, err
		}
		if sum.TotalCash, err = parseDecOrZero(r.TotalCash); err != nil {
			return nil, err
		}
		if sum.TotalNonCash, err = parseDecOrZero(r.TotalNonCash); err != nil {
			return nil, err
		}
		if sum.ExpectedCash, err = parseDecOrZero(r.ExpectedCash); err != nil {
			return nil, err
		}
		if sum.ExpectedNonCash, err = parseDecOrZero(r.ExpectedNonCash); err != nil {
			return nil, err
		}
		if sum.VarianceCash, err = parseDecOrZero(r.VarianceCash); err != nil {
			return nil, err
		}
		if sum.VarianceNonCash, err = parseDecOrZero(r.VarianceNonCash); err != nil {
			return nil, err
		}
		if sum.VarianceTotal, err = parseDecOrZero(r.VarianceTotal); err != nil {
			return nil, err
		}
		if len(r.TopProducts) > 0 {
			if err := json.Unmarshal(r.TopProducts, &sum.TopProducts); err != nil {
				return nil, err
			}
		}
		out.Summary = sum
	}
	return out, nil
}

// Compile-time check
var _ sessuc.Store = (*SessionStoreAdapter)(nil)
