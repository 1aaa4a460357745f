package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/courtside/tennis-booking/internal/model"
)

// ErrCoachNotFound is returned when a coach id does not exist.
var ErrCoachNotFound = errors.New("coach not found")

// CoachRepo provides data access to the coaches and coach_availability
// tables.  The hourly rate column is DECIMAL(8,2); this repository is
// the single place it is scanned into a float64 — nothing above this
// layer ever sees money as a string.
type CoachRepo struct {
    db *sql.DB
}

// NewCoachRepo returns a new CoachRepo bound to the given database.
func NewCoachRepo(db *sql.DB) *CoachRepo { return &CoachRepo{db: db} }

const coachColumns = "id, user_id, name, specialty, rate_per_hour, bio, is_active, created_at, updated_at"

func scanCoach(row interface{ Scan(...any) error }) (model.Coach, error) {
    var c model.Coach
    err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Specialty, &c.RatePerHour,
        &c.Bio, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
    return c, err
}

// Create inserts a coach profile and returns its ID.
func (r *CoachRepo) Create(ctx context.Context, c *model.Coach) (uint64, error) {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO coaches (user_id, name, specialty, rate_per_hour, bio, is_active) VALUES (?, ?, ?, ?, ?, ?)`,
        c.UserID, c.Name, c.Specialty, c.RatePerHour, c.Bio, c.IsActive)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    c.ID = uint64(id)
    return c.ID, nil
}

// Update rewrites a coach's editable fields (name, specialty, rate,
// bio, active flag).
func (r *CoachRepo) Update(ctx context.Context, c *model.Coach) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE coaches SET name = ?, specialty = ?, rate_per_hour = ?, bio = ?, is_active = ? WHERE id = ?`,
        c.Name, c.Specialty, c.RatePerHour, c.Bio, c.IsActive, c.ID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        // RowsAffected is 0 both for a missing row and for a no-op
        // update; distinguish with an existence probe.
        if _, err := r.GetByID(ctx, c.ID); err != nil {
            return err
        }
    }
    return nil
}

// GetByID fetches a coach by primary key.
func (r *CoachRepo) GetByID(ctx context.Context, id uint64) (model.Coach, error) {
    c, err := scanCoach(r.db.QueryRowContext(ctx,
        `SELECT `+coachColumns+` FROM coaches WHERE id = ?`, id))
    if err == sql.ErrNoRows {
        return model.Coach{}, ErrCoachNotFound
    }
    return c, err
}

// GetByUserID fetches the coach profile backing a user account.
func (r *CoachRepo) GetByUserID(ctx context.Context, userID uint64) (model.Coach, error) {
    c, err := scanCoach(r.db.QueryRowContext(ctx,
        `SELECT `+coachColumns+` FROM coaches WHERE user_id = ?`, userID))
    if err == sql.ErrNoRows {
        return model.Coach{}, ErrCoachNotFound
    }
    return c, err
}

// ListActive returns every bookable coach, ordered by name.
func (r *CoachRepo) ListActive(ctx context.Context) ([]model.Coach, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+coachColumns+` FROM coaches WHERE is_active = 1 ORDER BY name`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Coach
    for rows.Next() {
        c, err := scanCoach(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, c)
    }
    return out, rows.Err()
}

// ListAvailability returns a coach's weekly availability spans ordered
// by day then start time.
func (r *CoachRepo) ListAvailability(ctx context.Context, coachID uint64) ([]model.CoachAvailability, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, coach_id, day, start_time, end_time FROM coach_availability
         WHERE coach_id = ? ORDER BY FIELD(day,'Monday','Tuesday','Wednesday','Thursday','Friday','Saturday','Sunday'), start_time`,
        coachID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.CoachAvailability
    for rows.Next() {
        var a model.CoachAvailability
        if err := rows.Scan(&a.ID, &a.CoachID, &a.Day, &a.StartTime, &a.EndTime); err != nil {
            return nil, err
        }
        out = append(out, a)
    }
    return out, rows.Err()
}

// ReplaceAvailability swaps a coach's entire weekly availability in one
// transaction.  The owner edit form always submits the full week, so a
// delete-and-reinsert keeps the table consistent without diffing.
func (r *CoachRepo) ReplaceAvailability(ctx context.Context, coachID uint64, spans []model.CoachAvailability) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    defer func() { _ = tx.Rollback() }()

    if _, err := tx.ExecContext(ctx, `DELETE FROM coach_availability WHERE coach_id = ?`, coachID); err != nil {
        return err
    }
    if len(spans) > 0 {
        query := `INSERT INTO coach_availability (coach_id, day, start_time, end_time) VALUES `
        args := make([]any, 0, len(spans)*4)
        for i, s := range spans {
            if i > 0 {
                query += ","
            }
            query += "(?, ?, ?, ?)"
            args = append(args, coachID, s.Day, s.StartTime, s.EndTime)
        }
        if _, err := tx.ExecContext(ctx, query, args...); err != nil {
            return err
        }
    }
    return tx.Commit()
}
