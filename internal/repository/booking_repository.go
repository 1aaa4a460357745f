package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/courtside/tennis-booking/internal/booking"
    "github.com/courtside/tennis-booking/internal/model"
    "github.com/courtside/tennis-booking/internal/schedule"
)

// BookingRepo provides data access to the bookings table.  All
// timestamps are stored and compared in UTC.  Overlap checks use
// half-open semantics (start_time < end AND end_time > start) so
// back-to-back bookings never collide.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, player_id, coach_id, day, start_time, end_time, ball_machine,
    status, coach_fee, court_fee, machine_fee, total_cost, checkout_ref, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
    var b model.Booking
    var coachID sql.NullInt64
    var checkoutRef sql.NullString
    err := row.Scan(&b.ID, &b.PlayerID, &coachID, &b.Day, &b.StartTime, &b.EndTime,
        &b.BallMachine, &b.Status, &b.CoachFee, &b.CourtFee, &b.MachineFee,
        &b.TotalCost, &checkoutRef, &b.CreatedAt, &b.UpdatedAt)
    if err != nil {
        return nil, err
    }
    if coachID.Valid {
        v := uint64(coachID.Int64)
        b.CoachID = &v
    }
    if checkoutRef.Valid {
        v := checkoutRef.String
        b.CheckoutRef = &v
    }
    return &b, nil
}

func coachArg(coachID *uint64) any {
    if coachID == nil {
        return nil
    }
    return *coachID
}

// CreateBookings persists every booking of one selection inside a
// single transaction.  Before each insert it locks any pending or
// confirmed row for the same resource that would overlap the new
// window (SELECT ... FOR UPDATE); a locked candidate means a
// concurrent submission already took the window and the whole batch is
// rejected with a *booking.ConflictError naming the blocking row.
// This is the at-most-one-in-flight guarantee the availability filter
// alone cannot provide.
func (r *BookingRepo) CreateBookings(ctx context.Context, bookings []*model.Booking) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    defer func() { _ = tx.Rollback() }()

    for _, b := range bookings {
        var blockingID uint64
        err := tx.QueryRowContext(ctx,
            `SELECT id FROM bookings
             WHERE status IN ('PENDING','CONFIRMED')
               AND coach_id <=> ?
               AND start_time < ? AND end_time > ?
             LIMIT 1 FOR UPDATE`,
            coachArg(b.CoachID), b.EndTime.UTC(), b.StartTime.UTC(),
        ).Scan(&blockingID)
        if err == nil {
            return &booking.ConflictError{BookingID: blockingID, Start: b.StartTime, End: b.EndTime}
        }
        if err != sql.ErrNoRows {
            return err
        }

        res, err := tx.ExecContext(ctx,
            `INSERT INTO bookings (player_id, coach_id, day, start_time, end_time, ball_machine,
                 status, coach_fee, court_fee, machine_fee, total_cost)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
            b.PlayerID, coachArg(b.CoachID), b.Day, b.StartTime.UTC(), b.EndTime.UTC(),
            b.BallMachine, b.Status, b.CoachFee, b.CourtFee, b.MachineFee, b.TotalCost)
        if err != nil {
            return err
        }
        id, err := res.LastInsertId()
        if err != nil {
            return err
        }
        b.ID = uint64(id)
    }
    return tx.Commit()
}

// ListWindows returns every booking overlapping [from, to) as a
// conflict-check window, regardless of coach or status; the schedule
// package applies the resource and status rules.
func (r *BookingRepo) ListWindows(ctx context.Context, coachID *uint64, from, to time.Time) ([]schedule.Window, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, coach_id, start_time, end_time, status FROM bookings
         WHERE start_time < ? AND end_time > ?`,
        to.UTC(), from.UTC())
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []schedule.Window
    for rows.Next() {
        var w schedule.Window
        var cid sql.NullInt64
        if err := rows.Scan(&w.BookingID, &cid, &w.Start, &w.End, &w.Status); err != nil {
            return nil, err
        }
        if cid.Valid {
            v := uint64(cid.Int64)
            w.CoachID = &v
        }
        out = append(out, w)
    }
    return out, rows.Err()
}

// GetBooking fetches a booking by primary key.
func (r *BookingRepo) GetBooking(ctx context.Context, id uint64) (*model.Booking, error) {
    b, err := scanBooking(r.db.QueryRowContext(ctx,
        `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id))
    if err == sql.ErrNoRows {
        return nil, booking.ErrBookingNotFound
    }
    return b, err
}

// UpdateBookingStatus sets a booking's status.
func (r *BookingRepo) UpdateBookingStatus(ctx context.Context, id uint64, status string) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE bookings SET status = ? WHERE id = ?`, status, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        if _, err := r.GetBooking(ctx, id); err != nil {
            return err
        }
    }
    return nil
}

// SetCheckoutRef records the payment-provider charge id a booking is
// waiting on.
func (r *BookingRepo) SetCheckoutRef(ctx context.Context, id uint64, ref string) error {
    _, err := r.db.ExecContext(ctx,
        `UPDATE bookings SET checkout_ref = ? WHERE id = ?`, ref, id)
    return err
}

// ListByPlayer returns a player's bookings, newest window first.
func (r *BookingRepo) ListByPlayer(ctx context.Context, playerID uint64) ([]*model.Booking, error) {
    return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE player_id = ? ORDER BY start_time DESC`, playerID)
}

// ListByCoach returns a coach's bookings, newest window first.
func (r *BookingRepo) ListByCoach(ctx context.Context, coachID uint64) ([]*model.Booking, error) {
    return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE coach_id = ? ORDER BY start_time DESC`, coachID)
}

// ListAll returns every booking, newest window first.  The owner
// dashboard is the only caller.
func (r *BookingRepo) ListAll(ctx context.Context) ([]*model.Booking, error) {
    return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY start_time DESC`)
}

func (r *BookingRepo) list(ctx context.Context, query string, args ...any) ([]*model.Booking, error) {
    rows, err := r.db.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []*model.Booking
    for rows.Next() {
        b, err := scanBooking(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, b)
    }
    return out, rows.Err()
}
