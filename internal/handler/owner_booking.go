package handler

import (
    "context"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/courtside/tennis-booking/internal/booking"
    "github.com/courtside/tennis-booking/internal/model"
    "github.com/courtside/tennis-booking/internal/repository"
)

// ListAllBookings handles GET /v1/owner/bookings.
func (h *OwnerHandler) ListAllBookings(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    list, err := h.BookingRepo.ListAll(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"bookings": bookingViews(list)})
}

type paymentView struct {
    ID                uint64 `json:"id"`
    BookingID         uint64 `json:"booking_id"`
    PayerID           uint64 `json:"payer_id"`
    AmountCents       int64  `json:"amount_cents"`
    Currency          string `json:"currency"`
    Status            string `json:"status"`
    ProviderPaymentID string `json:"provider_payment_id"`
    CreatedAt         string `json:"created_at"`
}

// ListAllPayments handles GET /v1/owner/payments.
func (h *OwnerHandler) ListAllPayments(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    payments, err := h.PaymentRepo.ListAll(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]paymentView, 0, len(payments))
    for _, p := range payments {
        out = append(out, paymentView{
            ID:                p.ID,
            BookingID:         p.BookingID,
            PayerID:           p.PayerID,
            AmountCents:       p.AmountCents,
            Currency:          p.Currency,
            Status:            p.Status,
            ProviderPaymentID: p.ProviderPaymentID,
            CreatedAt:         p.CreatedAt.UTC().Format(time.RFC3339),
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"payments": out})
}

// RevenueSummary handles GET /v1/owner/revenue.  Only CONFIRMED
// bookings count; the coach fee is split by the configured share
// percentage and everything else goes to the club.
func (h *OwnerHandler) RevenueSummary(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    list, err := h.BookingRepo.ListAll(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    sharePct := 0.0
    if s, err := h.SettingsRepo.Get(ctx); err == nil {
        sharePct = s.CoachSharePercent
    } else if err != repository.ErrNoSettings {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    var total, coachFees, courtFees, machineFees float64
    var confirmed int
    for _, b := range list {
        if b.Status != model.BookingConfirmed {
            continue
        }
        confirmed++
        total += b.TotalCost
        coachFees += b.CoachFee
        courtFees += b.CourtFee
        machineFees += b.MachineFee
    }
    coachPayout := coachFees * sharePct / 100
    return c.JSON(http.StatusOK, echo.Map{
        "confirmed_bookings":  confirmed,
        "total_revenue":       total,
        "coach_fees":          coachFees,
        "court_fees":          courtFees,
        "machine_fees":        machineFees,
        "coach_share_percent": sharePct,
        "coach_payout":        coachPayout,
        "club_revenue":        total - coachPayout,
    })
}

// ConfirmBooking handles POST /v1/owner/bookings/:id/confirm.  This is
// the manual path for payments taken at the front desk; the same
// payment guard applies, so a completed payment row must exist first.
func (h *OwnerHandler) ConfirmBooking(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Manager.Confirm(ctx, id); err != nil {
        if err == booking.ErrBookingNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        if transition := booking.IsTransitionError(err); transition != nil {
            return c.JSON(http.StatusConflict, echo.Map{"error": transition.Error()})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "confirm failed"})
    }

    // Manual confirmations emit the same event as webhook settlement;
    // the guard above guarantees the completed payment exists.
    ref := ""
    if p, err := h.PaymentRepo.FindCompletedPayment(ctx, id); err == nil && p != nil {
        ref = p.ProviderPaymentID
    }
    publishBookingConfirmed(ctx, h.BookingRepo, h.CoachRepo, id, ref)

    return c.JSON(http.StatusOK, echo.Map{"status": model.BookingConfirmed})
}

// CancelBooking handles POST /v1/owner/bookings/:id/cancel.  Owners
// bypass both the ownership check and the notice window.
func (h *OwnerHandler) CancelBooking(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    ownerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Manager.Cancel(ctx, id, ownerID, true); err != nil {
        if err == booking.ErrBookingNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        if transition := booking.IsTransitionError(err); transition != nil {
            return c.JSON(http.StatusConflict, echo.Map{"error": transition.Error()})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"status": model.BookingCancelled})
}
