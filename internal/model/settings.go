package model

import "time"

// Settings is the singleton club configuration row.  Every cost
// computation reads it; only an owner action mutates it.  Callers
// treat a loaded Settings value as an immutable per-request snapshot —
// nothing below the handler layer caches or mutates one.
//
// Fields:
//  ID                 – primary key (always the single row's id).
//  CourtCostPerHour   – court rental fee per hour, whole currency units.
//  MachineCostPerHour – ball-machine rental fee per hour.
//  CoachSharePercent  – percentage of the coach fee the coach keeps;
//                       the remainder is the owner's share.
//  UpdatedAt          – timestamp of last owner edit.
type Settings struct {
    ID                 uint64    // settings.id
    CourtCostPerHour   float64   // settings.court_cost_per_hour
    MachineCostPerHour float64   // settings.machine_cost_per_hour
    CoachSharePercent  float64   // settings.coach_share_percent
    UpdatedAt          time.Time // settings.updated_at
}
