// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking is successfully confirmed.
// It contains enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.  Fee amounts are
// whole currency units matching the persisted breakdown; the charged amount
// in cents travels separately because it is what the provider settled.
type BookingConfirmedEvent struct {
    BookingID       uint64  `json:"booking_id"`
    PlayerID        uint64  `json:"player_id"`
    CoachID         *uint64 `json:"coach_id,omitempty"`
    CoachName       string  `json:"coach_name,omitempty"`
    Day             string  `json:"day"`
    StartsAt        string  `json:"starts_at"`
    EndsAt          string  `json:"ends_at"`
    BallMachine     bool    `json:"ball_machine"`
    CoachFee        float64 `json:"coach_fee"`
    CourtFee        float64 `json:"court_fee"`
    MachineFee      float64 `json:"machine_fee"`
    TotalCost       float64 `json:"total_cost"`
    AmountCents     int64   `json:"amount_cents"`
    ProviderPayment string  `json:"provider_payment_id"`
    ConfirmedAt     string  `json:"confirmed_at"`
}
