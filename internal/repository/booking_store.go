package repository

// BookingStore bundles the booking and payment repositories into the
// single storage dependency the booking manager expects.  Both halves
// share one *sql.DB, so the manager's operations run against the same
// pool and the conflict-checked insert keeps its transactional
// guarantees.
type BookingStore struct {
    *BookingRepo
    *PaymentRepo
}

// NewBookingStore combines the two repositories.
func NewBookingStore(bookings *BookingRepo, payments *PaymentRepo) *BookingStore {
    if bookings == nil || payments == nil {
        panic("nil repository passed to NewBookingStore")
    }
    return &BookingStore{BookingRepo: bookings, PaymentRepo: payments}
}
