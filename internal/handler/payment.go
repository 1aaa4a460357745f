package handler

import (
    "context"
    "encoding/json"
    "log"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/omise/omise-go"

    "github.com/courtside/tennis-booking/internal/booking"
    "github.com/courtside/tennis-booking/internal/checkout"
    "github.com/courtside/tennis-booking/internal/pricing"
    "github.com/courtside/tennis-booking/internal/queue"
    "github.com/courtside/tennis-booking/internal/repository"
    queue_publisher "github.com/courtside/tennis-booking/internal/service"
)

// PaymentHandler settles charges coming back from the payment
// provider, through either the webhook or the player's verification
// poll.  Both paths re-fetch the charge from the provider instead of
// trusting the request payload, then run the same settle step: record
// the payment, confirm the booking through the state-machine guard and
// publish the confirmation event.  Every step is idempotent, so the
// two paths can race for the same charge without double-recording.
type PaymentHandler struct {
    Manager     *booking.Manager
    BookingRepo *repository.BookingRepo
    CoachRepo   *repository.CoachRepo
    Checkout    *checkout.Client
}

// NewPaymentHandler constructs a PaymentHandler.  All dependencies
// must be non-nil.
func NewPaymentHandler(mgr *booking.Manager, bookingRepo *repository.BookingRepo, coachRepo *repository.CoachRepo, co *checkout.Client) *PaymentHandler {
    if mgr == nil || bookingRepo == nil || coachRepo == nil || co == nil {
        panic("nil dependency passed to NewPaymentHandler")
    }
    return &PaymentHandler{Manager: mgr, BookingRepo: bookingRepo, CoachRepo: coachRepo, Checkout: co}
}

// incomingEvent is the provider's webhook envelope.  Only the event
// key and the embedded object id are read; everything else is
// re-fetched from the provider.
type incomingEvent struct {
    ID   string          `json:"id"`
    Key  string          `json:"key"`
    Data json.RawMessage `json:"data"`
}

// Webhook handles POST /v1/payments/webhook.  Unknown event keys are
// acknowledged with 200 so the provider stops redelivering them.
func (h *PaymentHandler) Webhook(c echo.Context) error {
    var ev incomingEvent
    if err := c.Bind(&ev); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event"})
    }
    if ev.Key != "charge.complete" {
        return c.NoContent(http.StatusOK)
    }
    var payload struct {
        ID string `json:"id"`
    }
    if err := json.Unmarshal(ev.Data, &payload); err != nil || payload.ID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid charge payload"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
    defer cancel()

    if err := h.settleCharge(ctx, payload.ID); err != nil {
        // Non-2xx makes the provider redeliver; settlement is
        // idempotent so redelivery is safe.
        log.Printf("webhook: settle charge %s failed: %v", payload.ID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "settlement failed"})
    }
    return c.NoContent(http.StatusOK)
}

// Verify handles POST /v1/payments/:charge_id/verify, the polling
// path a client uses after the hosted-checkout redirect.
func (h *PaymentHandler) Verify(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    chargeID := c.Param("charge_id")
    if chargeID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "charge id required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
    defer cancel()

    ch, err := h.Checkout.RetrieveCharge(chargeID)
    if err != nil {
        return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment provider error"})
    }
    if !checkout.ChargePaid(ch) {
        return c.JSON(http.StatusOK, echo.Map{"paid": false, "status": string(ch.Status)})
    }
    if err := h.settle(ctx, ch); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "settlement failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"paid": true, "bookings": checkout.BookingIDs(ch)})
}

func (h *PaymentHandler) settleCharge(ctx context.Context, chargeID string) error {
    ch, err := h.Checkout.RetrieveCharge(chargeID)
    if err != nil {
        return err
    }
    if !checkout.ChargePaid(ch) {
        // The provider signalled completion but the charge did not
        // settle (failed or reversed); nothing to record.
        return nil
    }
    return h.settle(ctx, ch)
}

// settle records the payment and confirms every booking covered by a
// settled charge.  Payment recording and confirmation are no-ops when
// a racing path got there first.
func (h *PaymentHandler) settle(ctx context.Context, ch *omise.Charge) error {
    payerID := checkout.PayerID(ch)
    for _, bookingID := range checkout.BookingIDs(ch) {
        b, err := h.BookingRepo.GetBooking(ctx, bookingID)
        if err != nil {
            return err
        }
        // Each booking's payment row carries its own share of the
        // charge: the booking's recorded total in cents.
        _, err = h.Manager.RecordPayment(ctx, bookingID, payerID, pricing.Cents(b.TotalCost), ch.Currency, ch.ID)
        if err != nil && err != repository.ErrDuplicatePayment {
            return err
        }
        if err := h.Manager.Confirm(ctx, bookingID); err != nil {
            return err
        }
        h.publishConfirmed(ctx, bookingID, ch.ID)
    }
    return nil
}

// publishConfirmed emits the booking.confirmed event.  Publishing is
// best-effort: a broker outage must not fail a settled payment, so
// errors are logged and dropped.
func (h *PaymentHandler) publishConfirmed(ctx context.Context, bookingID uint64, providerPaymentID string) {
    publishBookingConfirmed(ctx, h.BookingRepo, h.CoachRepo, bookingID, providerPaymentID)
}

// publishBookingConfirmed is shared between the payment-settlement
// path and the owner's manual confirm so every confirmation, however
// triggered, produces the same event.
func publishBookingConfirmed(ctx context.Context, bookingRepo *repository.BookingRepo, coachRepo *repository.CoachRepo, bookingID uint64, providerPaymentID string) {
    b, err := bookingRepo.GetBooking(ctx, bookingID)
    if err != nil {
        log.Printf("publish confirmed: load booking %d failed: %v", bookingID, err)
        return
    }
    ev := queue.BookingConfirmedEvent{
        BookingID:       b.ID,
        PlayerID:        b.PlayerID,
        CoachID:         b.CoachID,
        Day:             b.Day,
        StartsAt:        b.StartTime.UTC().Format(time.RFC3339),
        EndsAt:          b.EndTime.UTC().Format(time.RFC3339),
        BallMachine:     b.BallMachine,
        CoachFee:        b.CoachFee,
        CourtFee:        b.CourtFee,
        MachineFee:      b.MachineFee,
        TotalCost:       b.TotalCost,
        AmountCents:     pricing.Cents(b.TotalCost),
        ProviderPayment: providerPaymentID,
        ConfirmedAt:     time.Now().UTC().Format(time.RFC3339),
    }
    if b.CoachID != nil {
        if co, err := coachRepo.GetByID(ctx, *b.CoachID); err == nil {
            ev.CoachName = co.Name
        }
    }
    _ = queue_publisher.PublishBookingConfirmed(ctx, ev)
}
