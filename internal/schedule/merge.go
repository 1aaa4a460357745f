package schedule

import (
    "sort"
    "time"
)

// Interval is one merged booking window: a run of contiguous slots on
// the same day collapsed into a single [Start, End) range.
type Interval struct {
    Day   string
    Start time.Time
    End   time.Time
}

// Hours returns the interval's length in whole-or-fractional hours.
func (iv Interval) Hours() float64 {
    return iv.End.Sub(iv.Start).Hours()
}

// Merge collapses a player's selected slots into the minimum number of
// booking intervals.  A slot extends the open interval when its start
// equals the interval's current end and its day label matches;
// anything else (a gap, or a day boundary) closes the interval and
// opens a new one.  The input is sorted by start instant first, so
// callers may pass picks in any order.  An empty selection yields an
// empty result and a single slot yields a single one-hour interval.
//
// Merge is idempotent: feeding already-merged intervals back through
// (as multi-hour slots) returns them unchanged.
func Merge(slots []Slot) []Interval {
    if len(slots) == 0 {
        return nil
    }
    sorted := make([]Slot, len(slots))
    copy(sorted, slots)
    sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

    out := make([]Interval, 0, len(sorted))
    cur := Interval{Day: sorted[0].Day, Start: sorted[0].Date, End: sorted[0].End()}
    for _, s := range sorted[1:] {
        if s.Date.Equal(cur.End) && s.Day == cur.Day {
            cur.End = s.End()
            continue
        }
        out = append(out, cur)
        cur = Interval{Day: s.Day, Start: s.Date, End: s.End()}
    }
    return append(out, cur)
}
