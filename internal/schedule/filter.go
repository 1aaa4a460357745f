package schedule

import "time"

// Booking statuses that block a slot from being offered again.  Any
// other status (notably CANCELLED) releases the window.
const (
    StatusPending   = "PENDING"
    StatusConfirmed = "CONFIRMED"
    StatusCancelled = "CANCELLED"
)

// Window is the shape of an existing booking as seen by the
// availability filter: the booked resource (coach, or nil for a plain
// court booking), its absolute time range and its status.  BookingID
// identifies the underlying booking so conflict errors can name it.
type Window struct {
    BookingID uint64
    CoachID   *uint64
    Start     time.Time
    End       time.Time
    Status    string
}

// Overlaps reports whether the half-open intervals [aStart,aEnd) and
// [bStart,bEnd) intersect at all.  Touching endpoints do not overlap,
// so back-to-back bookings are allowed.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
    return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// sameResource reports whether a candidate slot for coachID competes
// with an existing window.  Two bookings compete when they reference
// the same coach, or when both are plain court bookings (nil on both
// sides).
func sameResource(coachID *uint64, w Window) bool {
    if coachID == nil || w.CoachID == nil {
        return coachID == nil && w.CoachID == nil
    }
    return *coachID == *w.CoachID
}

// blocks reports whether the window still occupies its time range.
func blocks(status string) bool {
    return status == StatusPending || status == StatusConfirmed
}

// FilterAvailable removes from slots every slot whose time range
// overlaps an existing pending or confirmed window for the same
// resource.  Input order is preserved.  Both the slot and the window
// may span multiple hours, which is why a full interval intersection
// is required rather than a start-time equality check.
func FilterAvailable(slots []Slot, coachID *uint64, existing []Window) []Slot {
    if len(slots) == 0 {
        return nil
    }
    out := make([]Slot, 0, len(slots))
    for _, s := range slots {
        conflicted := false
        for _, w := range existing {
            if !blocks(w.Status) || !sameResource(coachID, w) {
                continue
            }
            if Overlaps(s.Date, s.End(), w.Start, w.End) {
                conflicted = true
                break
            }
        }
        if !conflicted {
            out = append(out, s)
        }
    }
    return out
}

// Conflicting returns the first window that blocks the given range for
// the resource, or nil when the range is free.  Handlers use it to
// attach the offending booking to a conflict error.
func Conflicting(start, end time.Time, coachID *uint64, existing []Window) *Window {
    for i, w := range existing {
        if !blocks(w.Status) || !sameResource(coachID, w) {
            continue
        }
        if Overlaps(start, end, w.Start, w.End) {
            return &existing[i]
        }
    }
    return nil
}
