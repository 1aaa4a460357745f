package model

import "time"

// Coach represents a coaching profile managed by the club owner.  A
// coach is always backed by a user account (users.role = COACH) and is
// never hard-deleted; deactivation hides the profile from players
// while preserving booking history.
//
// The hourly rate is stored as DECIMAL(8,2) in MySQL and scanned into
// a float64 exactly once, in the repository layer.  No other part of
// the codebase parses money from strings.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – user account backing this coach.
//  Name        – display name shown to players.
//  Specialty   – free-form specialty tag, e.g. "serve technique".
//  RatePerHour – hourly coaching fee in whole currency units.
//  Bio         – free-text biography.
//  IsActive    – whether the coach is currently bookable.
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type Coach struct {
    ID          uint64    // coaches.id
    UserID      uint64    // coaches.user_id
    Name        string    // coaches.name
    Specialty   string    // coaches.specialty
    RatePerHour float64   // coaches.rate_per_hour
    Bio         string    // coaches.bio
    IsActive    bool      // coaches.is_active
    CreatedAt   time.Time // coaches.created_at
    UpdatedAt   time.Time // coaches.updated_at
}

// CoachAvailability is one weekly availability span for a coach: a
// single day-of-week with a wall-clock start and end.  A coach has at
// most one span per day.  Times are "HH:MM" 24-hour strings; the
// schedule package expands them into concrete slots per date.
//
// Fields:
//  ID        – primary key identifier.
//  CoachID   – owning coach.
//  Day       – weekday label ("Monday" … "Sunday").
//  StartTime – span start, "HH:MM".
//  EndTime   – span end, "HH:MM", strictly after StartTime.
type CoachAvailability struct {
    ID        uint64 // coach_availability.id
    CoachID   uint64 // coach_availability.coach_id
    Day       string // coach_availability.day
    StartTime string // coach_availability.start_time
    EndTime   string // coach_availability.end_time
}
