// Package booking owns the booking lifecycle: turning a player's slot
// selection into priced PENDING bookings, recording payments, and the
// PENDING → CONFIRMED / CANCELLED state machine.  The package performs
// no I/O of its own; persistence is injected through the narrow
// storage interface below, which the MySQL repository layer and the
// in-memory test storage both satisfy.
package booking

import (
    "context"
    "time"

    "github.com/courtside/tennis-booking/internal/model"
    "github.com/courtside/tennis-booking/internal/pricing"
    "github.com/courtside/tennis-booking/internal/schedule"
)

type storageReader interface {
    // ListWindows returns the existing bookings that could conflict
    // with a candidate range, regardless of status; the schedule
    // package decides which statuses block.
    ListWindows(ctx context.Context, coachID *uint64, from, to time.Time) ([]schedule.Window, error)
    GetBooking(ctx context.Context, id uint64) (*model.Booking, error)
    FindCompletedPayment(ctx context.Context, bookingID uint64) (*model.Payment, error)
}

type storageWriter interface {
    // CreateBookings persists all bookings of one selection in a
    // single transaction and must re-check for overlaps under a row
    // lock before inserting, returning *ConflictError when a
    // concurrent submission won the window.
    CreateBookings(ctx context.Context, bookings []*model.Booking) error
    UpdateBookingStatus(ctx context.Context, id uint64, status string) error
    InsertPayment(ctx context.Context, p *model.Payment) error
}

type storage interface {
    storageReader
    storageWriter
}

// CoachPick is the coach half of a selection: the coach's id and the
// hourly rate already parsed to a number at the repository boundary.
type CoachPick struct {
    ID          uint64
    RatePerHour float64
}

// Selection is a player's booking submission after the HTTP layer has
// bound and type-converted it: the picked slots, the optional coach
// and add-on, the settings snapshot to price against, and the total
// the client displayed (re-validated server-side, never trusted).
type Selection struct {
    PlayerID    uint64
    Coach       *CoachPick
    Slots       []schedule.Slot
    BallMachine bool
    Rates       pricing.Rates
    // ClientTotal is nil when the caller did not precompute a price.
    ClientTotal *float64
}

func (s *Selection) coachID() *uint64 {
    if s.Coach == nil {
        return nil
    }
    return &s.Coach.ID
}

func (s *Selection) coachRate() *float64 {
    if s.Coach == nil {
        return nil
    }
    return &s.Coach.RatePerHour
}

func (s *Selection) validate() error {
    inputErr := newInputError()
    if s.PlayerID == 0 {
        inputErr.add("player", "player is required")
    }
    if len(s.Slots) == 0 {
        inputErr.add("slots", "select at least one slot")
    }
    for _, slot := range s.Slots {
        sh, sm, err := schedule.ParseClock(slot.StartTime)
        if err != nil {
            inputErr.add("slots", err.Error())
            break
        }
        eh, em, err := schedule.ParseClock(slot.EndTime)
        if err != nil {
            inputErr.add("slots", err.Error())
            break
        }
        if eh*60+em <= sh*60+sm {
            inputErr.add("slots", "slot end must be after start")
            break
        }
    }
    if s.Coach != nil && s.Coach.RatePerHour < 0 {
        inputErr.add("coach", "coach rate must not be negative")
    }
    if inputErr.count() > 0 {
        return inputErr
    }
    return nil
}

// Manager coordinates the booking lifecycle against injected storage.
// It is stateless apart from its dependencies and safe for concurrent
// use.
type Manager struct {
    storage storage
    now     func() time.Time
}

// New returns a Manager using the given storage.
func New(storage storage) *Manager {
    return &Manager{storage: storage, now: time.Now}
}

// NewWithClock returns a Manager with a custom clock.  Tests use it to
// pin the cancellation notice window.
func NewWithClock(storage storage, now func() time.Time) *Manager {
    return &Manager{storage: storage, now: now}
}

// PricedInterval pairs one merged booking interval with its quote.
type PricedInterval struct {
    Interval schedule.Interval
    Quote    pricing.Quote
}

// Quote merges a selection and prices each resulting interval
// independently.  The grand total is the sum of per-interval totals;
// totals are never computed over the whole selection and divided, so
// every persisted booking carries an audit-ready breakdown of its own.
func (m *Manager) Quote(sel Selection) ([]PricedInterval, pricing.Quote, error) {
    if err := sel.validate(); err != nil {
        return nil, pricing.Quote{}, err
    }
    intervals := schedule.Merge(sel.Slots)
    priced := make([]PricedInterval, 0, len(intervals))
    var grand pricing.Quote
    for _, iv := range intervals {
        q := pricing.Calculate(iv.Hours(), sel.coachRate(), sel.Rates, sel.BallMachine)
        priced = append(priced, PricedInterval{Interval: iv, Quote: q})
        grand = grand.Add(q)
    }
    return priced, grand, nil
}

// CreateFromSelection validates, merges, prices and persists a
// selection as one PENDING booking per merged interval.  When the
// client supplied a precomputed total it is checked against the
// server's quote and a mismatch beyond one cent rejects the whole
// request with the authoritative breakdown attached.  Conflicts are
// checked twice: a read here for a precise error, and again under a
// row lock inside the storage transaction, which is what actually
// prevents two concurrent submissions from both winning the window.
func (m *Manager) CreateFromSelection(ctx context.Context, sel Selection) ([]*model.Booking, error) {
    priced, grand, err := m.Quote(sel)
    if err != nil {
        return nil, err
    }
    if sel.ClientTotal != nil {
        if err := pricing.VerifyClientTotal(grand, *sel.ClientTotal); err != nil {
            return nil, err
        }
    }

    from := priced[0].Interval.Start
    to := priced[len(priced)-1].Interval.End
    windows, err := m.storage.ListWindows(ctx, sel.coachID(), from, to)
    if err != nil {
        return nil, err
    }
    for _, p := range priced {
        if w := schedule.Conflicting(p.Interval.Start, p.Interval.End, sel.coachID(), windows); w != nil {
            return nil, &ConflictError{BookingID: w.BookingID, Start: p.Interval.Start, End: p.Interval.End}
        }
    }

    bookings := make([]*model.Booking, 0, len(priced))
    for _, p := range priced {
        bookings = append(bookings, &model.Booking{
            PlayerID:    sel.PlayerID,
            CoachID:     sel.coachID(),
            Day:         p.Interval.Day,
            StartTime:   p.Interval.Start,
            EndTime:     p.Interval.End,
            BallMachine: sel.BallMachine,
            Status:      model.BookingPending,
            CoachFee:    p.Quote.CoachFee,
            CourtFee:    p.Quote.CourtFee,
            MachineFee:  p.Quote.MachineFee,
            TotalCost:   p.Quote.Total,
        })
    }
    if err := m.storage.CreateBookings(ctx, bookings); err != nil {
        return nil, err
    }
    return bookings, nil
}

// RecordPayment stores a completed payment for a booking.  Recording a
// second payment for an already-paid booking is a no-op that returns
// the existing record, so webhook and polling confirmation paths can
// race without corrupting totals.
func (m *Manager) RecordPayment(ctx context.Context, bookingID, payerID uint64, amountCents int64, currency, providerPaymentID string) (*model.Payment, error) {
    if _, err := m.storage.GetBooking(ctx, bookingID); err != nil {
        return nil, err
    }
    if existing, err := m.storage.FindCompletedPayment(ctx, bookingID); err != nil {
        return nil, err
    } else if existing != nil {
        return existing, nil
    }
    p := &model.Payment{
        BookingID:         bookingID,
        PayerID:           payerID,
        AmountCents:       amountCents,
        Currency:          currency,
        Status:            model.PaymentCompleted,
        ProviderPaymentID: providerPaymentID,
    }
    if err := m.storage.InsertPayment(ctx, p); err != nil {
        return nil, err
    }
    return p, nil
}

// Confirm transitions a booking to CONFIRMED.  The transition is
// refused with a *TransitionError unless a completed payment exists
// for the booking, whichever caller asks — owner dashboard, payment
// poll or webhook all go through this guard.  Confirming an
// already-confirmed booking is a no-op.
func (m *Manager) Confirm(ctx context.Context, bookingID uint64) error {
    b, err := m.storage.GetBooking(ctx, bookingID)
    if err != nil {
        return err
    }
    switch b.Status {
    case model.BookingConfirmed:
        return nil
    case model.BookingCancelled:
        return &TransitionError{BookingID: bookingID, From: b.Status, Reason: "booking is cancelled"}
    }
    payment, err := m.storage.FindCompletedPayment(ctx, bookingID)
    if err != nil {
        return err
    }
    if payment == nil {
        return &TransitionError{BookingID: bookingID, From: b.Status, Reason: "no completed payment"}
    }
    return m.storage.UpdateBookingStatus(ctx, bookingID, model.BookingConfirmed)
}

// cancelNotice is the minimum lead time a player must give when
// cancelling.  Owners may cancel at any time.
const cancelNotice = 24 * time.Hour

// Cancel transitions a booking to CANCELLED, releasing its window for
// re-booking.  Players may only cancel their own bookings and only
// with at least 24 hours' notice; ownerOverride bypasses both checks.
// Cancelling an already-cancelled booking is a no-op.
func (m *Manager) Cancel(ctx context.Context, bookingID, requesterID uint64, ownerOverride bool) error {
    b, err := m.storage.GetBooking(ctx, bookingID)
    if err != nil {
        return err
    }
    if b.Status == model.BookingCancelled {
        return nil
    }
    if !ownerOverride {
        if b.PlayerID != requesterID {
            return ErrForbidden
        }
        if m.now().Add(cancelNotice).After(b.StartTime) {
            return &TransitionError{BookingID: bookingID, From: b.Status, Reason: "less than 24 hours before start"}
        }
    }
    return m.storage.UpdateBookingStatus(ctx, bookingID, model.BookingCancelled)
}
