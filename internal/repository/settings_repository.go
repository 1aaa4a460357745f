package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/courtside/tennis-booking/internal/model"
)

// ErrNoSettings is returned when the singleton settings row has not
// been created yet.  Callers fall back to the pricing package's
// defaults but must never persist a booking priced against them
// without surfacing that the club is unconfigured.
var ErrNoSettings = errors.New("settings not configured")

// SettingsRepo provides access to the singleton settings row.
type SettingsRepo struct {
    db *sql.DB
}

// NewSettingsRepo returns a new SettingsRepo bound to the given database.
func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{db: db} }

// Get reads the settings snapshot.  The table holds at most one row.
func (r *SettingsRepo) Get(ctx context.Context) (model.Settings, error) {
    var s model.Settings
    err := r.db.QueryRowContext(ctx,
        `SELECT id, court_cost_per_hour, machine_cost_per_hour, coach_share_percent, updated_at
         FROM settings LIMIT 1`).
        Scan(&s.ID, &s.CourtCostPerHour, &s.MachineCostPerHour, &s.CoachSharePercent, &s.UpdatedAt)
    if err == sql.ErrNoRows {
        return model.Settings{}, ErrNoSettings
    }
    return s, err
}

// Update upserts the singleton row.  Only the owner handler calls it.
func (r *SettingsRepo) Update(ctx context.Context, s model.Settings) error {
    _, err := r.db.ExecContext(ctx,
        `INSERT INTO settings (id, court_cost_per_hour, machine_cost_per_hour, coach_share_percent)
         VALUES (1, ?, ?, ?)
         ON DUPLICATE KEY UPDATE
             court_cost_per_hour = VALUES(court_cost_per_hour),
             machine_cost_per_hour = VALUES(machine_cost_per_hour),
             coach_share_percent = VALUES(coach_share_percent)`,
        s.CourtCostPerHour, s.MachineCostPerHour, s.CoachSharePercent)
    return err
}
