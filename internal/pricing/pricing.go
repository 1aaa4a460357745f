// Package pricing computes the price breakdown of a booking as a pure
// function of its duration, the selected coach's hourly rate, the club
// settings snapshot and the ball-machine add-on.  It is the single
// cost implementation in the codebase: handlers, the booking manager
// and the payment boundary all route through it, and none of them may
// carry a local fallback rate.
//
// Amounts are whole currency units (dollars) end to end; rounding
// happens only when converting to integer cents at the payment
// boundary, never between intermediate computations, so merged
// bookings cannot accumulate rounding drift.
package pricing

import (
    "fmt"
    "math"
)

// Default hourly rates applied only when no settings row exists yet.
// A running deployment always reads real settings; these keep a fresh
// database usable before the owner saves theirs.
const (
    DefaultCourtPerHour   = 20.0
    DefaultMachinePerHour = 40.0
)

// Rates is an immutable snapshot of the club settings consulted by a
// single quote.  Callers build it from the settings row per request;
// the package never caches one.
type Rates struct {
    CourtPerHour   float64
    MachinePerHour float64
}

// DefaultRates returns the fallback rate table for an unconfigured club.
func DefaultRates() Rates {
    return Rates{CourtPerHour: DefaultCourtPerHour, MachinePerHour: DefaultMachinePerHour}
}

// Quote is the additive price breakdown of one booking.
type Quote struct {
    CoachFee   float64 `json:"coach_fee"`
    CourtFee   float64 `json:"court_fee"`
    MachineFee float64 `json:"machine_fee"`
    Total      float64 `json:"total"`
}

// Add returns the component-wise sum of two quotes.  Owners' revenue
// views sum per-booking quotes rather than re-pricing whole selections.
func (q Quote) Add(o Quote) Quote {
    return Quote{
        CoachFee:   q.CoachFee + o.CoachFee,
        CourtFee:   q.CourtFee + o.CourtFee,
        MachineFee: q.MachineFee + o.MachineFee,
        Total:      q.Total + o.Total,
    }
}

// Calculate prices hours of court time.  A nil coachRate means no
// coach was selected and the coach fee is zero; there is deliberately
// no nonzero fallback.  All fees are linear in hours.
func Calculate(hours float64, coachRate *float64, r Rates, ballMachine bool) Quote {
    if hours < 0 {
        hours = 0
    }
    var q Quote
    if coachRate != nil {
        q.CoachFee = *coachRate * hours
    }
    q.CourtFee = r.CourtPerHour * hours
    if ballMachine {
        q.MachineFee = r.MachinePerHour * hours
    }
    q.Total = q.CoachFee + q.CourtFee + q.MachineFee
    return q
}

// Cents converts a dollar amount to integer cents, rounding half away
// from zero.  This is the only sanctioned conversion point; it exists
// for the payment-provider boundary, which bills in minor units.
func Cents(v float64) int64 {
    return int64(math.Round(v * 100))
}

// MismatchTolerance is how far a client-submitted total may drift from
// the server-computed one before the request is rejected.  One cent
// absorbs client-side display rounding.
const MismatchTolerance = 0.01

// CostMismatchError reports that a client-submitted total disagrees
// with the server's independent computation.  It carries the
// authoritative breakdown so the caller can show the player exactly
// what the server expects instead of silently correcting the amount.
type CostMismatchError struct {
    Submitted float64
    Server    Quote
}

func (e *CostMismatchError) Error() string {
    return fmt.Sprintf("submitted total %.2f does not match computed total %.2f", e.Submitted, e.Server.Total)
}

// VerifyClientTotal recomputes nothing itself; it compares a
// client-submitted total against the server quote and returns a
// *CostMismatchError when the difference exceeds MismatchTolerance.
// A drift of exactly one cent is accepted.
func VerifyClientTotal(server Quote, clientTotal float64) error {
    diff := math.Abs(clientTotal - server.Total)
    // Nudge by a half-cent epsilon so a drift of exactly 0.01 passes
    // despite binary float representation.
    if diff > MismatchTolerance+1e-9 {
        return &CostMismatchError{Submitted: clientTotal, Server: server}
    }
    return nil
}
