package model

import "time"

// Booking statuses.  PENDING is the initial state set at submit time,
// CONFIRMED is reached only after a completed payment exists, and
// CANCELLED releases the time window for re-booking.
const (
    BookingPending   = "PENDING"
    BookingConfirmed = "CONFIRMED"
    BookingCancelled = "CANCELLED"
)

// Booking is a persisted court reservation: one merged interval of
// contiguous hourly slots for a player, optionally with a coach and a
// ball machine.  Start and end are absolute UTC instants obeying
// StartTime < EndTime; the fee breakdown is computed server-side by
// the pricing package and stored alongside the total for auditing.
//
// Fields:
//  ID          – primary key identifier.
//  PlayerID    – user who booked the court.
//  CoachID     – booked coach, nil for a court-only booking.
//  Day         – weekday label of the booked window.
//  StartTime   – start instant (UTC).
//  EndTime     – end instant (UTC), strictly after StartTime.
//  BallMachine – whether the ball-machine add-on was rented.
//  Status      – PENDING, CONFIRMED or CANCELLED.
//  CoachFee    – coaching component of the total, whole currency units.
//  CourtFee    – court-rental component.
//  MachineFee  – ball-machine component.
//  TotalCost   – sum of the three components.
//  CheckoutRef – payment-provider charge id while awaiting payment.
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type Booking struct {
    ID          uint64    // bookings.id
    PlayerID    uint64    // bookings.player_id
    CoachID     *uint64   // bookings.coach_id (nullable)
    Day         string    // bookings.day
    StartTime   time.Time // bookings.start_time
    EndTime     time.Time // bookings.end_time
    BallMachine bool      // bookings.ball_machine
    Status      string    // bookings.status
    CoachFee    float64   // bookings.coach_fee
    CourtFee    float64   // bookings.court_fee
    MachineFee  float64   // bookings.machine_fee
    TotalCost   float64   // bookings.total_cost
    CheckoutRef *string   // bookings.checkout_ref (nullable)
    CreatedAt   time.Time // bookings.created_at
    UpdatedAt   time.Time // bookings.updated_at
}

// Hours returns the booked duration in hours.
func (b *Booking) Hours() float64 {
    return b.EndTime.Sub(b.StartTime).Hours()
}
