package schedule

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func day(t *testing.T, value string) time.Time {
    t.Helper()
    d, err := time.Parse("2006-01-02", value)
    require.NoError(t, err)
    return d
}

func coach(id uint64) *uint64 { return &id }

func TestGenerateSlots(t *testing.T) {
    monday := day(t, "2025-06-02")

    slots := GenerateSlots("Monday", "09:00", "12:00", monday)
    require.Len(t, slots, 3)
    assert.Equal(t, "09:00", slots[0].StartTime)
    assert.Equal(t, "10:00", slots[0].EndTime)
    assert.Equal(t, "11:00", slots[2].StartTime)
    assert.Equal(t, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), slots[0].Date)
    assert.Equal(t, time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC), slots[2].End())

    // end <= start produces an empty sequence, never an error
    assert.Empty(t, GenerateSlots("Monday", "12:00", "12:00", monday))
    assert.Empty(t, GenerateSlots("Monday", "14:00", "10:00", monday))

    // malformed clock strings degrade to an empty sequence
    assert.Empty(t, GenerateSlots("Monday", "morning", "12:00", monday))
    assert.Empty(t, GenerateSlots("Monday", "09:00", "25:00", monday))

    // a partial trailing hour is not offered
    assert.Len(t, GenerateSlots("Monday", "09:00", "11:30", monday), 2)
}

func TestParseClock(t *testing.T) {
    h, m, err := ParseClock("07:30")
    require.NoError(t, err)
    assert.Equal(t, 7, h)
    assert.Equal(t, 30, m)

    for _, bad := range []string{"", "7", "24:00", "10:60", "aa:bb"} {
        _, _, err := ParseClock(bad)
        assert.Error(t, err, bad)
    }
}

func TestMergeContiguousRun(t *testing.T) {
    monday := day(t, "2025-06-02")
    slots := GenerateSlots("Monday", "09:00", "12:00", monday)

    merged := Merge(slots)
    require.Len(t, merged, 1)
    assert.Equal(t, "Monday", merged[0].Day)
    assert.Equal(t, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), merged[0].Start)
    assert.Equal(t, time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC), merged[0].End)
    assert.Equal(t, 3.0, merged[0].Hours())
}

func TestMergeSplitsAtGap(t *testing.T) {
    monday := day(t, "2025-06-02")
    all := GenerateSlots("Monday", "09:00", "16:00", monday)
    // pick 09-12 and 14-16, leaving a gap at 12-14
    picks := append([]Slot{}, all[0], all[1], all[2], all[5], all[6])

    merged := Merge(picks)
    require.Len(t, merged, 2)
    assert.Equal(t, time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC), merged[0].End)
    assert.Equal(t, time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC), merged[1].Start)
}

func TestMergeUnsortedInput(t *testing.T) {
    monday := day(t, "2025-06-02")
    all := GenerateSlots("Monday", "09:00", "12:00", monday)
    picks := []Slot{all[2], all[0], all[1]}

    merged := Merge(picks)
    require.Len(t, merged, 1)
    assert.Equal(t, 3.0, merged[0].Hours())
}

func TestMergeSingleAndEmpty(t *testing.T) {
    monday := day(t, "2025-06-02")
    one := GenerateSlots("Monday", "09:00", "10:00", monday)

    merged := Merge(one)
    require.Len(t, merged, 1)
    assert.Equal(t, 1.0, merged[0].Hours())

    assert.Empty(t, Merge(nil))
}

func TestMergeIdempotent(t *testing.T) {
    monday := day(t, "2025-06-02")
    first := Merge(GenerateSlots("Monday", "09:00", "12:00", monday))
    require.Len(t, first, 1)

    // re-feed the merged interval as a multi-hour slot
    again := Merge([]Slot{{
        Day:       first[0].Day,
        StartTime: "09:00",
        EndTime:   "12:00",
        Date:      first[0].Start,
    }})
    require.Len(t, again, 1)
    assert.Equal(t, first[0], again[0])
}

func TestOverlapsHalfOpen(t *testing.T) {
    at := func(h int) time.Time { return time.Date(2025, 6, 2, h, 0, 0, 0, time.UTC) }

    assert.True(t, Overlaps(at(10), at(12), at(11), at(13)))  // partial
    assert.True(t, Overlaps(at(10), at(12), at(9), at(13)))   // contained
    assert.True(t, Overlaps(at(9), at(13), at(10), at(12)))   // containing
    assert.False(t, Overlaps(at(10), at(12), at(12), at(13))) // touching
    assert.False(t, Overlaps(at(10), at(12), at(8), at(10)))  // touching before
}

func TestFilterAvailableConflictRules(t *testing.T) {
    monday := day(t, "2025-06-02")
    slots := GenerateSlots("Monday", "09:00", "13:00", monday)

    booked := Window{
        CoachID: coach(7),
        Start:   time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
        End:     time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
        Status:  StatusConfirmed,
    }

    // same coach: 10-11 and 11-12 are blocked, 09-10 and 12-13 survive
    free := FilterAvailable(slots, coach(7), []Window{booked})
    require.Len(t, free, 2)
    assert.Equal(t, "09:00", free[0].StartTime)
    assert.Equal(t, "12:00", free[1].StartTime)

    // a different coach is a different resource
    assert.Len(t, FilterAvailable(slots, coach(8), []Window{booked}), 4)

    // no-coach candidates only compete with no-coach windows
    assert.Len(t, FilterAvailable(slots, nil, []Window{booked}), 4)
    courtOnly := booked
    courtOnly.CoachID = nil
    assert.Len(t, FilterAvailable(slots, nil, []Window{courtOnly}), 2)
}

func TestFilterIgnoresCancelled(t *testing.T) {
    monday := day(t, "2025-06-02")
    slots := GenerateSlots("Monday", "09:00", "11:00", monday)

    cancelled := Window{
        CoachID: coach(7),
        Start:   time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
        End:     time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC),
        Status:  StatusCancelled,
    }
    assert.Len(t, FilterAvailable(slots, coach(7), []Window{cancelled}), 2)

    pending := cancelled
    pending.Status = StatusPending
    assert.Empty(t, FilterAvailable(slots, coach(7), []Window{pending}))
}

func TestConflicting(t *testing.T) {
    start := time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC)
    end := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

    booked := Window{
        CoachID: coach(7),
        Start:   time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
        End:     end,
        Status:  StatusConfirmed,
    }

    hit := Conflicting(start, end, coach(7), []Window{booked})
    require.NotNil(t, hit)
    assert.Equal(t, booked.Start, hit.Start)

    assert.Nil(t, Conflicting(start, end, coach(9), []Window{booked}))
    assert.Nil(t, Conflicting(start, end, nil, []Window{booked}))
}
