package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rashiiddsr/kasir-cafe-backend/internal/money"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("session not found")
	ErrAlreadyOpen   = errors.New("masih ada sesi kasir yang terbuka")
	ErrOpenedToday   = errors.New("sesi kasir hari ini sudah pernah dibuka")
	ErrAlreadyClosed = errors.New("sesi kasir sudah ditutup")
	ErrNotOwner      = errors.New("sesi hanya bisa ditutup oleh kasir yang membukanya")
	ErrPendingCarts  = errors.New("masih ada keranjang tersimpan")
)

// Store implementations must re-assert the open/close preconditions
// inside the same database transaction as the write, under a row lock on
// the operator's session rows, so two concurrent requests cannot both
// pass the check before either commits.
type Store interface {
	FindOpenByOperator(ctx context.Context, operatorID string) (*Session, error)
	FindByOperatorOnDay(ctx context.Context, operatorID string, dayStart, dayEnd time.Time) (*Session, error)
	GetByID(ctx context.Context, id string) (*Session, error)
	Open(ctx context.Context, operatorID string, dayStart, dayEnd time.Time, s *Session) (*Session, error)
	CountSavedCarts(ctx context.Context, operatorID string) (int, error)
	TotalsBetween(ctx context.Context, operatorID string, from, to time.Time) (*Totals, error)
	Close(ctx context.Context, s *Session) (*Session, error)
}

type Usecase struct {
	store Store
	loc   *time.Location
	now   func() time.Time
}

// New builds the session usecase. loc is the store's local timezone; the
// one-session-per-day rule counts calendar days in that zone.
func New(store Store, loc *time.Location) *Usecase {
	if loc == nil {
		loc = time.Local
	}
	return &Usecase{store: store, loc: loc, now: time.Now}
}

func (u *Usecase) dayBounds(t time.Time) (time.Time, time.Time) {
	local := t.In(u.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, u.loc)
	return start, start.AddDate(0, 0, 1)
}

// Open starts the operator's shift for today.
func (u *Usecase) Open(ctx context.Context, in OpenInput) (*Session, error) {
	if strings.TrimSpace(in.OperatorID) == "" {
		return nil, ErrInvalidInput
	}
	if in.OpeningBalance == nil {
		return nil, fmt.Errorf("%w: modal awal harus diisi", ErrInvalidInput)
	}
	if in.OpeningBalance.IsNegative() {
		return nil, fmt.Errorf("%w: modal awal tidak boleh negatif", ErrInvalidInput)
	}

	now := u.now()

	if open, err := u.store.FindOpenByOperator(ctx, in.OperatorID); err != nil {
		return nil, err
	} else if open != nil {
		return nil, ErrAlreadyOpen
	}

	dayStart, dayEnd := u.dayBounds(now)
	if prev, err := u.store.FindByOperatorOnDay(ctx, in.OperatorID, dayStart, dayEnd); err != nil {
		return nil, err
	} else if prev != nil {
		return nil, ErrOpenedToday
	}

	s := &Session{
		OpenedBy:       in.OperatorID,
		OpenedAt:       now,
		OpeningBalance: money.Round(*in.OpeningBalance),
	}
	// The store repeats both checks under lock before inserting, against
	// the same store-timezone day window computed here.
	return u.store.Open(ctx, in.OperatorID, dayStart, dayEnd, s)
}

// Status tells the UI which modal to show for the operator today.
func (u *Usecase) Status(ctx context.Context, operatorID string, on time.Time) (*StatusResult, error) {
	if strings.TrimSpace(operatorID) == "" {
		return nil, ErrInvalidInput
	}
	if on.IsZero() {
		on = u.now()
	}
	dayStart, dayEnd := u.dayBounds(on)

	open, err := u.store.FindOpenByOperator(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		if open.OpenedAt.Before(dayStart) {
			// Left open from a prior day: new sales are blocked until a
			// forced close.
			return &StatusResult{Status: StatusNeedsClose, Session: open}, nil
		}
		return &StatusResult{Status: StatusOpen, Session: open}, nil
	}

	closed, err := u.store.FindByOperatorOnDay(ctx, operatorID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	if closed != nil {
		return &StatusResult{Status: StatusClosed, Session: closed}, nil
	}
	return &StatusResult{Status: StatusNeedsOpen}, nil
}

// Close reconciles counted cash against expected cash and freezes the
// session summary. The close instant is captured exactly once: the same
// timestamp bounds the aggregation window and is persisted as closed_at,
// so the totals the operator reviewed cannot silently diverge from the
// stored record.
func (u *Usecase) Close(ctx context.Context, sessionID string, in CloseInput) (*Session, error) {
	if sessionID == "" || strings.TrimSpace(in.OperatorID) == "" {
		return nil, ErrInvalidInput
	}
	if in.ClosingCash == nil || in.ClosingNonCash == nil {
		return nil, fmt.Errorf("%w: jumlah kas dan non-tunai hasil hitung harus diisi", ErrInvalidInput)
	}

	s, err := u.store.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.ClosedAt != nil {
		return nil, ErrAlreadyClosed
	}
	if s.OpenedBy != in.OperatorID {
		return nil, ErrNotOwner
	}

	// Hard gate: an open tab must never be silently lost.
	pending, err := u.store.CountSavedCarts(ctx, in.OperatorID)
	if err != nil {
		return nil, err
	}
	if pending > 0 {
		return nil, fmt.Errorf("%w: %d keranjang harus diselesaikan atau dihapus dulu", ErrPendingCarts, pending)
	}

	closeTime := u.now()

	totals, err := u.store.TotalsBetween(ctx, s.OpenedBy, s.OpenedAt, closeTime)
	if err != nil {
		return nil, err
	}

	actualCash := money.Round(*in.ClosingCash)
	actualNonCash := money.Round(*in.ClosingNonCash)

	expectedCash := money.Round(s.OpeningBalance.Add(totals.Cash))
	expectedNonCash := money.Round(totals.NonCash)

	summary := &Summary{
		TotalTransactions: totals.Count,
		TotalRevenue:      money.Round(totals.Revenue),
		TotalCash:         money.Round(totals.Cash),
		TotalNonCash:      money.Round(totals.NonCash),
		ExpectedCash:      expectedCash,
		ExpectedNonCash:   expectedNonCash,
		VarianceCash:      money.Round(actualCash.Sub(expectedCash)),
		VarianceNonCash:   money.Round(actualNonCash.Sub(expectedNonCash)),
		VarianceTotal:     money.Round(actualCash.Add(actualNonCash).Sub(expectedCash.Add(expectedNonCash))),
		TopProducts:       totals.TopProducts,
	}

	s.ClosedAt = &closeTime
	s.ClosedBy = &in.OperatorID
	s.ClosingCash = &actualCash
	s.ClosingNonCash = &actualNonCash
	s.ClosingNotes = in.Notes
	s.Summary = summary

	// The store re-locks the row, asserts it is still open and that no
	// saved cart appeared meanwhile, then writes everything at once.
	return u.store.Close(ctx, s)
}
