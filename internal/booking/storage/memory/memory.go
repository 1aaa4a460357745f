// Package memory is an in-memory implementation of the booking
// package's storage interface.  It backs the manager's unit tests and
// mirrors the MySQL repository's semantics: half-open overlap checks
// against pending/confirmed rows, conflict detection inside the
// "transaction" of CreateBookings, and at most one completed payment
// per booking.
package memory

import (
    "context"
    "sync"
    "time"

    "github.com/courtside/tennis-booking/internal/booking"
    "github.com/courtside/tennis-booking/internal/model"
    "github.com/courtside/tennis-booking/internal/schedule"
)

// Storage holds bookings and payments behind a single mutex, standing
// in for the database in tests.
type Storage struct {
    mu       sync.Mutex
    nextID   uint64
    bookings map[uint64]*model.Booking
    payments map[uint64]*model.Payment // keyed by payment id
}

// New returns an empty Storage.
func New() *Storage {
    return &Storage{
        nextID:   1,
        bookings: make(map[uint64]*model.Booking),
        payments: make(map[uint64]*model.Payment),
    }
}

func (s *Storage) id() uint64 {
    v := s.nextID
    s.nextID++
    return v
}

// ListWindows returns every stored booking overlapping [from, to),
// regardless of status or coach; filtering is the caller's job, as it
// is for the SQL implementation.
func (s *Storage) ListWindows(ctx context.Context, coachID *uint64, from, to time.Time) ([]schedule.Window, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    var out []schedule.Window
    for _, b := range s.bookings {
        if schedule.Overlaps(b.StartTime, b.EndTime, from, to) {
            out = append(out, window(b))
        }
    }
    return out, nil
}

func window(b *model.Booking) schedule.Window {
    return schedule.Window{
        BookingID: b.ID,
        CoachID:   b.CoachID,
        Start:     b.StartTime,
        End:       b.EndTime,
        Status:    b.Status,
    }
}

// CreateBookings inserts all bookings atomically, refusing the whole
// batch with a *booking.ConflictError when any booking overlaps an
// existing pending or confirmed row for the same resource.
func (s *Storage) CreateBookings(ctx context.Context, bookings []*model.Booking) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    for _, nb := range bookings {
        for _, existing := range s.bookings {
            if existing.Status != model.BookingPending && existing.Status != model.BookingConfirmed {
                continue
            }
            if !sameResource(nb.CoachID, existing.CoachID) {
                continue
            }
            if schedule.Overlaps(nb.StartTime, nb.EndTime, existing.StartTime, existing.EndTime) {
                return &booking.ConflictError{BookingID: existing.ID, Start: nb.StartTime, End: nb.EndTime}
            }
        }
    }
    now := time.Now().UTC()
    for _, nb := range bookings {
        nb.ID = s.id()
        nb.CreatedAt = now
        nb.UpdatedAt = now
        clone := *nb
        s.bookings[nb.ID] = &clone
    }
    return nil
}

func sameResource(a, b *uint64) bool {
    if a == nil || b == nil {
        return a == nil && b == nil
    }
    return *a == *b
}

// GetBooking returns a copy of the booking or booking.ErrBookingNotFound.
func (s *Storage) GetBooking(ctx context.Context, id uint64) (*model.Booking, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    b, ok := s.bookings[id]
    if !ok {
        return nil, booking.ErrBookingNotFound
    }
    clone := *b
    return &clone, nil
}

// UpdateBookingStatus sets the booking's status.
func (s *Storage) UpdateBookingStatus(ctx context.Context, id uint64, status string) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    b, ok := s.bookings[id]
    if !ok {
        return booking.ErrBookingNotFound
    }
    b.Status = status
    b.UpdatedAt = time.Now().UTC()
    return nil
}

// FindCompletedPayment returns the booking's completed payment, or nil
// when none exists.
func (s *Storage) FindCompletedPayment(ctx context.Context, bookingID uint64) (*model.Payment, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    for _, p := range s.payments {
        if p.BookingID == bookingID && p.Status == model.PaymentCompleted {
            clone := *p
            return &clone, nil
        }
    }
    return nil, nil
}

// InsertPayment stores a payment record.
func (s *Storage) InsertPayment(ctx context.Context, p *model.Payment) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    p.ID = s.id()
    now := time.Now().UTC()
    p.CreatedAt = now
    p.UpdatedAt = now
    clone := *p
    s.payments[p.ID] = &clone
    return nil
}

// PaymentCount reports how many payment rows exist for a booking.
// Tests use it to assert idempotency.
func (s *Storage) PaymentCount(bookingID uint64) int {
    s.mu.Lock()
    defer s.mu.Unlock()
    n := 0
    for _, p := range s.payments {
        if p.BookingID == bookingID {
            n++
        }
    }
    return n
}
