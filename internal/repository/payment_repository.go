package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/courtside/tennis-booking/internal/model"
)

// ErrDuplicatePayment is returned when a booking/provider-payment pair
// has already been recorded.  The payments table carries a uniqueness
// constraint on (booking_id, provider_payment_id) — the idempotency
// key — so a webhook delivered twice (or racing the polling path) hits
// this instead of inserting a second row.
var ErrDuplicatePayment = errors.New("payment already recorded")

// PaymentRepo provides data access to the payments table.
type PaymentRepo struct {
    db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentColumns = "id, booking_id, payer_id, amount_cents, currency, status, provider_payment_id, created_at, updated_at"

func scanPayment(row interface{ Scan(...any) error }) (*model.Payment, error) {
    var p model.Payment
    err := row.Scan(&p.ID, &p.BookingID, &p.PayerID, &p.AmountCents, &p.Currency,
        &p.Status, &p.ProviderPaymentID, &p.CreatedAt, &p.UpdatedAt)
    if err != nil {
        return nil, err
    }
    return &p, nil
}

// FindCompletedPayment returns the completed payment for a booking, or
// nil when the booking has not been paid.
func (r *PaymentRepo) FindCompletedPayment(ctx context.Context, bookingID uint64) (*model.Payment, error) {
    p, err := scanPayment(r.db.QueryRowContext(ctx,
        `SELECT `+paymentColumns+` FROM payments WHERE booking_id = ? AND status = 'COMPLETED' LIMIT 1`,
        bookingID))
    if err == sql.ErrNoRows {
        return nil, nil
    }
    return p, err
}

// InsertPayment stores a payment row, populating the generated id and
// returning ErrDuplicatePayment when the provider payment id was
// already recorded.
func (r *PaymentRepo) InsertPayment(ctx context.Context, p *model.Payment) error {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO payments (booking_id, payer_id, amount_cents, currency, status, provider_payment_id)
         VALUES (?, ?, ?, ?, ?, ?)`,
        p.BookingID, p.PayerID, p.AmountCents, p.Currency, p.Status, p.ProviderPaymentID)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrDuplicatePayment
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    p.ID = uint64(id)
    return nil
}

// ListAll returns every payment, newest first.  The owner dashboard is
// the only caller.
func (r *PaymentRepo) ListAll(ctx context.Context) ([]*model.Payment, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+paymentColumns+` FROM payments ORDER BY created_at DESC`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []*model.Payment
    for rows.Next() {
        p, err := scanPayment(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, p)
    }
    return out, rows.Err()
}
