package handler

import (
    "context"
    "net/http"
    "strconv"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/courtside/tennis-booking/internal/booking"
    "github.com/courtside/tennis-booking/internal/checkout"
    "github.com/courtside/tennis-booking/internal/model"
    "github.com/courtside/tennis-booking/internal/pricing"
    "github.com/courtside/tennis-booking/internal/repository"
    "github.com/courtside/tennis-booking/internal/schedule"
)

// PlayerHandler groups the dependencies players need to quote, create,
// list, cancel and pay for bookings.  JWT authentication and the
// PLAYER role check have already run in middleware; every method still
// returns 401 when the user id cannot be extracted from the context.
type PlayerHandler struct {
    Manager      *booking.Manager
    BookingRepo  *repository.BookingRepo
    CoachRepo    *repository.CoachRepo
    SettingsRepo *repository.SettingsRepo
    Checkout     *checkout.Client
}

// NewPlayerHandler constructs a PlayerHandler.  All dependencies must
// be non-nil.
func NewPlayerHandler(mgr *booking.Manager, bookingRepo *repository.BookingRepo, coachRepo *repository.CoachRepo, settingsRepo *repository.SettingsRepo, co *checkout.Client) *PlayerHandler {
    if mgr == nil || bookingRepo == nil || coachRepo == nil || settingsRepo == nil || co == nil {
        panic("nil dependency passed to NewPlayerHandler")
    }
    return &PlayerHandler{Manager: mgr, BookingRepo: bookingRepo, CoachRepo: coachRepo, SettingsRepo: settingsRepo, Checkout: co}
}

type slotReq struct {
    Day       string    `json:"day"`
    StartTime string    `json:"start_time"`
    EndTime   string    `json:"end_time"`
    Date      time.Time `json:"date"`
}

type selectionReq struct {
    CoachID     uint64   `json:"coach_id"` // 0 means court only
    Slots       []slotReq `json:"slots"`
    BallMachine bool     `json:"ball_machine"`
    ClientTotal *float64 `json:"client_total"`
}

// buildSelection resolves a request body into the booking package's
// Selection: the coach's rate is read from the database (never from
// the client) and the settings snapshot is taken once per request.
func (h *PlayerHandler) buildSelection(ctx context.Context, playerID uint64, req selectionReq) (booking.Selection, error) {
    sel := booking.Selection{
        PlayerID:    playerID,
        BallMachine: req.BallMachine,
        Rates:       loadRates(ctx, h.SettingsRepo),
        ClientTotal: req.ClientTotal,
    }
    if req.CoachID != 0 {
        co, err := h.CoachRepo.GetByID(ctx, req.CoachID)
        if err != nil {
            return booking.Selection{}, err
        }
        sel.Coach = &booking.CoachPick{ID: co.ID, RatePerHour: co.RatePerHour}
    }
    for _, s := range req.Slots {
        sel.Slots = append(sel.Slots, schedule.Slot{
            Day: s.Day, StartTime: s.StartTime, EndTime: s.EndTime, Date: s.Date.UTC(),
        })
    }
    return sel, nil
}

// writeBookingError maps the booking package's error taxonomy onto
// HTTP responses: validation problems are 400 with per-field messages,
// a cost mismatch is 422 carrying the authoritative breakdown, and a
// conflict is 409 naming the blocking booking so the client can
// re-offer availability.
func writeBookingError(c echo.Context, err error) error {
    if inputErr := booking.IsInputError(err); inputErr != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid input", "fields": inputErr.Fields()})
    }
    if mismatch, ok := err.(*pricing.CostMismatchError); ok {
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{
            "error":     "cost mismatch",
            "submitted": mismatch.Submitted,
            "computed":  mismatch.Server,
        })
    }
    if conflict := booking.IsConflictError(err); conflict != nil {
        return c.JSON(http.StatusConflict, echo.Map{
            "error":               "slot no longer available",
            "conflicting_booking": conflict.BookingID,
        })
    }
    if err == repository.ErrCoachNotFound {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "coach not found"})
    }
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
}

// QuoteSelection handles POST /v1/bookings/quote.  It merges and
// prices the submitted slots without persisting anything, so the UI
// can show the authoritative total before submission.
func (h *PlayerHandler) QuoteSelection(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req selectionReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    sel, err := h.buildSelection(ctx, userID, req)
    if err != nil {
        return writeBookingError(c, err)
    }
    priced, grand, err := h.Manager.Quote(sel)
    if err != nil {
        return writeBookingError(c, err)
    }

    type quotedInterval struct {
        Day   string        `json:"day"`
        Start time.Time     `json:"start"`
        End   time.Time     `json:"end"`
        Quote pricing.Quote `json:"quote"`
    }
    out := make([]quotedInterval, 0, len(priced))
    for _, p := range priced {
        out = append(out, quotedInterval{Day: p.Interval.Day, Start: p.Interval.Start, End: p.Interval.End, Quote: p.Quote})
    }
    return c.JSON(http.StatusOK, echo.Map{"bookings": out, "total": grand})
}

// CreateBooking handles POST /v1/bookings.  It turns the selection
// into one PENDING booking per merged interval; the client-displayed
// total, when present, is re-validated server-side and a disagreement
// beyond one cent rejects the request.
func (h *PlayerHandler) CreateBooking(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req selectionReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    sel, err := h.buildSelection(ctx, userID, req)
    if err != nil {
        return writeBookingError(c, err)
    }
    created, err := h.Manager.CreateFromSelection(ctx, sel)
    if err != nil {
        return writeBookingError(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{"bookings": bookingViews(created)})
}

type bookingView struct {
    ID          uint64    `json:"id"`
    CoachID     *uint64   `json:"coach_id,omitempty"`
    Day         string    `json:"day"`
    Start       time.Time `json:"start"`
    End         time.Time `json:"end"`
    BallMachine bool      `json:"ball_machine"`
    Status      string    `json:"status"`
    CoachFee    float64   `json:"coach_fee"`
    CourtFee    float64   `json:"court_fee"`
    MachineFee  float64   `json:"machine_fee"`
    TotalCost   float64   `json:"total_cost"`
}

func bookingViews(list []*model.Booking) []bookingView {
    out := make([]bookingView, 0, len(list))
    for _, b := range list {
        out = append(out, bookingView{
            ID: b.ID, CoachID: b.CoachID, Day: b.Day, Start: b.StartTime, End: b.EndTime,
            BallMachine: b.BallMachine, Status: b.Status,
            CoachFee: b.CoachFee, CourtFee: b.CourtFee, MachineFee: b.MachineFee, TotalCost: b.TotalCost,
        })
    }
    return out
}

// ListMyBookings handles GET /v1/bookings.
func (h *PlayerHandler) ListMyBookings(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    list, err := h.BookingRepo.ListByPlayer(ctx, userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"bookings": bookingViews(list)})
}

// CancelBooking handles POST /v1/bookings/:id/cancel.  Players may
// cancel their own bookings with at least 24 hours' notice.
func (h *PlayerHandler) CancelBooking(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    switch err := h.Manager.Cancel(ctx, id, userID, false); {
    case err == nil:
        return c.JSON(http.StatusOK, echo.Map{"status": model.BookingCancelled})
    case err == booking.ErrBookingNotFound:
        return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
    case err == booking.ErrForbidden:
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    default:
        if transition := booking.IsTransitionError(err); transition != nil {
            return c.JSON(http.StatusConflict, echo.Map{"error": transition.Reason})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
    }
}

type checkoutReq struct {
    BookingIDs []uint64 `json:"booking_ids"`
    Source     string   `json:"source"`
}

// StartCheckout handles POST /v1/bookings/checkout.  It opens one
// hosted-checkout charge covering the listed PENDING bookings and
// returns the authorize URI to redirect the player to.  Each booking
// records the charge id so the pending payment can be correlated later.
func (h *PlayerHandler) StartCheckout(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req checkoutReq
    if err := c.Bind(&req); err != nil || len(req.BookingIDs) == 0 || req.Source == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_ids and source are required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    bookings := make([]*model.Booking, 0, len(req.BookingIDs))
    for _, id := range req.BookingIDs {
        b, err := h.BookingRepo.GetBooking(ctx, id)
        if err != nil {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found", "booking_id": id})
        }
        if b.PlayerID != userID {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        if b.Status != model.BookingPending {
            return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not awaiting payment", "booking_id": id})
        }
        bookings = append(bookings, b)
    }

    session, err := h.Checkout.CreateSession(req.Source, userID, bookings, uuid.NewString())
    if err != nil {
        return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment provider error"})
    }
    for _, b := range bookings {
        if err := h.BookingRepo.SetCheckoutRef(ctx, b.ID, session.ChargeID); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
    }
    return c.JSON(http.StatusCreated, session)
}
