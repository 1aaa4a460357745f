package booking_test

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/courtside/tennis-booking/internal/booking"
    "github.com/courtside/tennis-booking/internal/booking/storage/memory"
    "github.com/courtside/tennis-booking/internal/model"
    "github.com/courtside/tennis-booking/internal/pricing"
    "github.com/courtside/tennis-booking/internal/schedule"
)

var monday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func standardRates() pricing.Rates {
    return pricing.Rates{CourtPerHour: 20, MachinePerHour: 40}
}

func coachPick() *booking.CoachPick {
    return &booking.CoachPick{ID: 7, RatePerHour: 30}
}

func selection(slots []schedule.Slot) booking.Selection {
    return booking.Selection{
        PlayerID:    1,
        Coach:       coachPick(),
        Slots:       slots,
        BallMachine: true,
        Rates:       standardRates(),
    }
}

func TestCreateFromSelectionMergesAndPrices(t *testing.T) {
    store := memory.New()
    mgr := booking.New(store)

    // coach $30/hr, court $20/hr, machine $40/hr, slots 9-10, 10-11,
    // 11-12 on the same day: one booking 9-12 totalling 270.00
    sel := selection(schedule.GenerateSlots("Monday", "09:00", "12:00", monday))

    created, err := mgr.CreateFromSelection(context.Background(), sel)
    require.NoError(t, err)
    require.Len(t, created, 1)

    b := created[0]
    assert.Equal(t, model.BookingPending, b.Status)
    assert.Equal(t, monday.Add(9*time.Hour), b.StartTime)
    assert.Equal(t, monday.Add(12*time.Hour), b.EndTime)
    assert.Equal(t, 90.0, b.CoachFee)
    assert.Equal(t, 60.0, b.CourtFee)
    assert.Equal(t, 120.0, b.MachineFee)
    assert.Equal(t, 270.0, b.TotalCost)
    assert.NotZero(t, b.ID)
}

func TestCreateFromSelectionSplitsAtGap(t *testing.T) {
    store := memory.New()
    mgr := booking.New(store)

    all := schedule.GenerateSlots("Monday", "09:00", "16:00", monday)
    sel := selection([]schedule.Slot{all[0], all[5]}) // 9-10 and 14-15

    created, err := mgr.CreateFromSelection(context.Background(), sel)
    require.NoError(t, err)
    require.Len(t, created, 2)

    // each booking is priced independently; the sum equals pricing the
    // slots without merging
    perSlot := pricing.Calculate(1, &coachPick().RatePerHour, standardRates(), true)
    assert.Equal(t, perSlot.Total, created[0].TotalCost)
    assert.Equal(t, perSlot.Total, created[1].TotalCost)
    assert.InDelta(t, perSlot.Total*2, created[0].TotalCost+created[1].TotalCost, 1e-9)
}

func TestCreateFromSelectionEmptySlots(t *testing.T) {
    mgr := booking.New(memory.New())

    sel := selection(nil)
    _, err := mgr.CreateFromSelection(context.Background(), sel)
    require.Error(t, err)
    require.NotNil(t, booking.IsInputError(err))
    assert.Contains(t, booking.IsInputError(err).Fields(), "slots")
}

func TestCreateFromSelectionMalformedSlotTimes(t *testing.T) {
    mgr := booking.New(memory.New())

    // a bogus end clock must be rejected up front, not defaulted to a
    // one-hour span and persisted
    bad := schedule.Slot{Day: "Monday", StartTime: "09:00", EndTime: "bogus", Date: monday.Add(9 * time.Hour)}
    created, err := mgr.CreateFromSelection(context.Background(), selection([]schedule.Slot{bad}))
    require.Error(t, err)
    require.NotNil(t, booking.IsInputError(err))
    assert.Contains(t, booking.IsInputError(err).Fields(), "slots")
    assert.Nil(t, created)

    // same for an end that does not come after the start
    inverted := schedule.Slot{Day: "Monday", StartTime: "10:00", EndTime: "10:00", Date: monday.Add(10 * time.Hour)}
    created, err = mgr.CreateFromSelection(context.Background(), selection([]schedule.Slot{inverted}))
    require.Error(t, err)
    require.NotNil(t, booking.IsInputError(err))
    assert.Nil(t, created)
}

func TestCreateFromSelectionCostMismatch(t *testing.T) {
    mgr := booking.New(memory.New())
    sel := selection(schedule.GenerateSlots("Monday", "09:00", "12:00", monday))

    within := 270.01
    sel.ClientTotal = &within
    _, err := mgr.CreateFromSelection(context.Background(), sel)
    assert.NoError(t, err)

    mgr = booking.New(memory.New())
    beyond := 270.02
    sel.ClientTotal = &beyond
    _, err = mgr.CreateFromSelection(context.Background(), sel)
    require.Error(t, err)
    var mismatch *pricing.CostMismatchError
    require.ErrorAs(t, err, &mismatch)
    assert.Equal(t, 270.0, mismatch.Server.Total)
}

func TestCreateFromSelectionConflict(t *testing.T) {
    store := memory.New()
    mgr := booking.New(store)

    first, err := mgr.CreateFromSelection(context.Background(),
        selection(schedule.GenerateSlots("Monday", "10:00", "12:00", monday)))
    require.NoError(t, err)

    // same coach, overlapping 11-12: rejected with the blocking id
    _, err = mgr.CreateFromSelection(context.Background(),
        selection(schedule.GenerateSlots("Monday", "11:00", "12:00", monday)))
    require.Error(t, err)
    conflict := booking.IsConflictError(err)
    require.NotNil(t, conflict)
    assert.Equal(t, first[0].ID, conflict.BookingID)

    // a different coach at the same time is fine
    other := selection(schedule.GenerateSlots("Monday", "11:00", "12:00", monday))
    other.Coach = &booking.CoachPick{ID: 8, RatePerHour: 25}
    _, err = mgr.CreateFromSelection(context.Background(), other)
    assert.NoError(t, err)

    // and so is a court-only booking
    courtOnly := selection(schedule.GenerateSlots("Monday", "11:00", "12:00", monday))
    courtOnly.Coach = nil
    _, err = mgr.CreateFromSelection(context.Background(), courtOnly)
    assert.NoError(t, err)
}

func TestCancelledBookingStopsBlocking(t *testing.T) {
    store := memory.New()
    now := func() time.Time { return monday.Add(-48 * time.Hour) }
    mgr := booking.NewWithClock(store, now)

    created, err := mgr.CreateFromSelection(context.Background(),
        selection(schedule.GenerateSlots("Monday", "10:00", "12:00", monday)))
    require.NoError(t, err)

    require.NoError(t, mgr.Cancel(context.Background(), created[0].ID, 1, false))

    _, err = mgr.CreateFromSelection(context.Background(),
        selection(schedule.GenerateSlots("Monday", "10:00", "12:00", monday)))
    assert.NoError(t, err)
}

func TestConfirmRequiresCompletedPayment(t *testing.T) {
    store := memory.New()
    mgr := booking.New(store)

    created, err := mgr.CreateFromSelection(context.Background(),
        selection(schedule.GenerateSlots("Monday", "09:00", "10:00", monday)))
    require.NoError(t, err)
    id := created[0].ID

    // no payment yet: transition refused
    err = mgr.Confirm(context.Background(), id)
    require.Error(t, err)
    transition := booking.IsTransitionError(err)
    require.NotNil(t, transition)
    assert.Equal(t, model.BookingPending, transition.From)

    // record the payment, then confirm succeeds
    _, err = mgr.RecordPayment(context.Background(), id, 1, pricing.Cents(created[0].TotalCost), "usd", "chrg_test_1")
    require.NoError(t, err)
    require.NoError(t, mgr.Confirm(context.Background(), id))

    b, err := store.GetBooking(context.Background(), id)
    require.NoError(t, err)
    assert.Equal(t, model.BookingConfirmed, b.Status)

    // repeated confirmation is a no-op
    require.NoError(t, mgr.Confirm(context.Background(), id))
}

func TestRecordPaymentIdempotent(t *testing.T) {
    store := memory.New()
    mgr := booking.New(store)

    created, err := mgr.CreateFromSelection(context.Background(),
        selection(schedule.GenerateSlots("Monday", "09:00", "10:00", monday)))
    require.NoError(t, err)
    id := created[0].ID

    first, err := mgr.RecordPayment(context.Background(), id, 1, 9000, "usd", "chrg_test_1")
    require.NoError(t, err)

    // a second attempt (e.g. webhook racing the polling path) returns
    // the existing record and writes nothing
    second, err := mgr.RecordPayment(context.Background(), id, 1, 9000, "usd", "chrg_test_1")
    require.NoError(t, err)
    assert.Equal(t, first.ID, second.ID)
    assert.Equal(t, 1, store.PaymentCount(id))
}

func TestRecordPaymentUnknownBooking(t *testing.T) {
    mgr := booking.New(memory.New())
    _, err := mgr.RecordPayment(context.Background(), 999, 1, 9000, "usd", "chrg_test_1")
    assert.ErrorIs(t, err, booking.ErrBookingNotFound)
}

func TestConfirmCancelledBookingRefused(t *testing.T) {
    store := memory.New()
    now := func() time.Time { return monday.Add(-48 * time.Hour) }
    mgr := booking.NewWithClock(store, now)

    created, err := mgr.CreateFromSelection(context.Background(),
        selection(schedule.GenerateSlots("Monday", "09:00", "10:00", monday)))
    require.NoError(t, err)
    id := created[0].ID

    require.NoError(t, mgr.Cancel(context.Background(), id, 1, false))

    _, err = mgr.RecordPayment(context.Background(), id, 1, 9000, "usd", "chrg_test_1")
    require.NoError(t, err)
    err = mgr.Confirm(context.Background(), id)
    require.NotNil(t, booking.IsTransitionError(err))
}

func TestCancelRules(t *testing.T) {
    store := memory.New()
    // fixed clock 12 hours before the booking start
    now := func() time.Time { return monday.Add(9*time.Hour - 12*time.Hour) }
    mgr := booking.NewWithClock(store, now)

    created, err := mgr.CreateFromSelection(context.Background(),
        selection(schedule.GenerateSlots("Monday", "09:00", "10:00", monday)))
    require.NoError(t, err)
    id := created[0].ID

    // inside the 24h notice window: player cancellation refused
    err = mgr.Cancel(context.Background(), id, 1, false)
    require.NotNil(t, booking.IsTransitionError(err))

    // someone else's booking: forbidden
    assert.ErrorIs(t, mgr.Cancel(context.Background(), id, 2, false), booking.ErrForbidden)

    // the owner can always cancel, and cancelling twice is a no-op
    require.NoError(t, mgr.Cancel(context.Background(), id, 0, true))
    require.NoError(t, mgr.Cancel(context.Background(), id, 1, false))

    b, err := store.GetBooking(context.Background(), id)
    require.NoError(t, err)
    assert.Equal(t, model.BookingCancelled, b.Status)
}

func TestQuoteReturnsPerIntervalBreakdown(t *testing.T) {
    mgr := booking.New(memory.New())

    all := schedule.GenerateSlots("Monday", "09:00", "16:00", monday)
    sel := selection([]schedule.Slot{all[0], all[1], all[5]}) // 9-11 and 14-15

    priced, grand, err := mgr.Quote(sel)
    require.NoError(t, err)
    require.Len(t, priced, 2)
    assert.Equal(t, 2.0, priced[0].Interval.Hours())
    assert.Equal(t, 1.0, priced[1].Interval.Hours())
    assert.InDelta(t, priced[0].Quote.Total+priced[1].Quote.Total, grand.Total, 1e-9)
}
