package model

import "time"

// Payment statuses.
const (
    PaymentPending   = "PENDING"
    PaymentCompleted = "COMPLETED"
)

// Payment records money received for a booking.  At most one
// COMPLETED payment may exist per booking; the repository enforces
// this with an existence check inside the insert transaction and a
// uniqueness constraint on the provider payment id, so webhook and
// polling confirmation paths cannot double-record the same charge.
//
// Amounts are integer cents because that is what the payment provider
// bills in; the conversion from the booking's dollar total happens at
// the checkout boundary only.
//
// Fields:
//  ID                – primary key identifier.
//  BookingID         – booking this payment settles.
//  PayerID           – user who paid.
//  AmountCents       – amount charged, in minor currency units.
//  Currency          – ISO currency code, lower case (e.g. "usd").
//  Status            – PENDING or COMPLETED.
//  ProviderPaymentID – charge identifier at the payment provider.
//  CreatedAt         – timestamp of creation.
//  UpdatedAt         – timestamp of last update.
type Payment struct {
    ID                uint64    // payments.id
    BookingID         uint64    // payments.booking_id
    PayerID           uint64    // payments.payer_id
    AmountCents       int64     // payments.amount_cents
    Currency          string    // payments.currency
    Status            string    // payments.status
    ProviderPaymentID string    // payments.provider_payment_id
    CreatedAt         time.Time // payments.created_at
    UpdatedAt         time.Time // payments.updated_at
}
