// Package schedule turns a coach's weekly availability into concrete
// bookable one-hour slots, filters them against existing bookings and
// merges a player's selection into the minimum number of booking
// intervals.  Everything in this package is a pure function of its
// inputs: no I/O, no shared state, safe to call concurrently from any
// number of request handlers.
package schedule

import (
    "fmt"
    "strconv"
    "strings"
    "time"
)

// Slot is a single candidate one-hour window on a concrete calendar
// date.  Slots are ephemeral: they exist only between availability
// lookup and booking creation and are never persisted.
//
// Fields:
//  Day       – weekday label, e.g. "Monday".
//  StartTime – "HH:MM" 24-hour wall clock start.
//  EndTime   – "HH:MM" wall clock end, always one hour after StartTime.
//  Date      – the slot's start as an absolute UTC instant.
type Slot struct {
    Day       string    `json:"day"`
    StartTime string    `json:"start_time"`
    EndTime   string    `json:"end_time"`
    Date      time.Time `json:"date"`
}

// End returns the slot's end as an absolute instant.  Slots generated
// by this package always span exactly one hour, but End derives the
// value from the clock strings so that multi-hour slots (for example
// already-merged intervals fed back through Merge) keep their real
// duration.
func (s Slot) End() time.Time {
    sh, sm, err1 := ParseClock(s.StartTime)
    eh, em, err2 := ParseClock(s.EndTime)
    if err1 != nil || err2 != nil {
        return s.Date.Add(time.Hour)
    }
    d := time.Duration(eh-sh)*time.Hour + time.Duration(em-sm)*time.Minute
    if d <= 0 {
        d = time.Hour
    }
    return s.Date.Add(d)
}

// ParseClock parses a 24-hour "HH:MM" string into its hour and minute
// components.  It is the single place clock strings are parsed; every
// other function in this package goes through it.
func ParseClock(v string) (hour, min int, err error) {
    parts := strings.SplitN(strings.TrimSpace(v), ":", 2)
    if len(parts) != 2 {
        return 0, 0, fmt.Errorf("invalid clock value %q", v)
    }
    hour, err = strconv.Atoi(parts[0])
    if err != nil || hour < 0 || hour > 23 {
        return 0, 0, fmt.Errorf("invalid hour in clock value %q", v)
    }
    min, err = strconv.Atoi(parts[1])
    if err != nil || min < 0 || min > 59 {
        return 0, 0, fmt.Errorf("invalid minute in clock value %q", v)
    }
    return hour, min, nil
}

// formatClock renders an hour/minute pair back into "HH:MM".
func formatClock(hour, min int) string {
    return fmt.Sprintf("%02d:%02d", hour, min)
}

// GenerateSlots expands one availability span on a concrete date into
// the ordered sequence of one-hour slots covering [start, end).  The
// span is truncated to whole hours; a malformed clock string or an end
// not strictly after the start yields an empty sequence rather than an
// error, mirroring how an empty availability row should simply offer
// nothing.
func GenerateSlots(day, start, end string, date time.Time) []Slot {
    sh, _, err := ParseClock(start)
    if err != nil {
        return nil
    }
    eh, em, err := ParseClock(end)
    if err != nil {
        return nil
    }
    if em > 0 {
        // A partial trailing hour is not bookable; ignore the minutes.
        em = 0
    }
    if eh <= sh {
        return nil
    }
    base := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
    slots := make([]Slot, 0, eh-sh)
    for h := sh; h < eh; h++ {
        slots = append(slots, Slot{
            Day:       day,
            StartTime: formatClock(h, 0),
            EndTime:   formatClock(h+1, 0),
            Date:      base.Add(time.Duration(h) * time.Hour),
        })
    }
    return slots
}
