package handler

import (
    "context"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/courtside/tennis-booking/internal/booking"
    "github.com/courtside/tennis-booking/internal/model"
    "github.com/courtside/tennis-booking/internal/repository"
    "github.com/courtside/tennis-booking/internal/schedule"
)

// OwnerHandler bundles the repositories owners use to manage coaches,
// settings and the booking/payment ledgers.  The OWNER role check has
// already run in middleware.
type OwnerHandler struct {
    CoachRepo    *repository.CoachRepo
    BookingRepo  *repository.BookingRepo
    PaymentRepo  *repository.PaymentRepo
    SettingsRepo *repository.SettingsRepo
    Manager      *booking.Manager
}

// NewOwnerHandler constructs an OwnerHandler and panics if any
// dependency is nil.
func NewOwnerHandler(coachRepo *repository.CoachRepo, bookingRepo *repository.BookingRepo, paymentRepo *repository.PaymentRepo, settingsRepo *repository.SettingsRepo, mgr *booking.Manager) *OwnerHandler {
    if coachRepo == nil || bookingRepo == nil || paymentRepo == nil || settingsRepo == nil || mgr == nil {
        panic("nil dependency passed to NewOwnerHandler")
    }
    return &OwnerHandler{
        CoachRepo:    coachRepo,
        BookingRepo:  bookingRepo,
        PaymentRepo:  paymentRepo,
        SettingsRepo: settingsRepo,
        Manager:      mgr,
    }
}

type coachReq struct {
    UserID      uint64   `json:"user_id"`
    Name        string   `json:"name"`
    Specialty   string   `json:"specialty"`
    RatePerHour *float64 `json:"rate_per_hour"`
    Bio         string   `json:"bio"`
    IsActive    *bool    `json:"is_active"`
}

func (r *coachReq) validate(creating bool) (string, bool) {
    if creating && r.UserID == 0 {
        return "user_id is required", false
    }
    if strings.TrimSpace(r.Name) == "" {
        return "name is required", false
    }
    // There is no default coach rate anywhere in the system; the owner
    // must state one explicitly.
    if r.RatePerHour == nil || *r.RatePerHour < 0 {
        return "rate_per_hour is required and must not be negative", false
    }
    return "", true
}

// CreateCoach handles POST /v1/owner/coaches.
func (h *OwnerHandler) CreateCoach(c echo.Context) error {
    var req coachReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if msg, ok := req.validate(true); !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    coach := &model.Coach{
        UserID:      req.UserID,
        Name:        strings.TrimSpace(req.Name),
        Specialty:   strings.TrimSpace(req.Specialty),
        RatePerHour: *req.RatePerHour,
        Bio:         req.Bio,
        IsActive:    true,
    }
    if req.IsActive != nil {
        coach.IsActive = *req.IsActive
    }
    id, err := h.CoachRepo.Create(ctx, coach)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create coach failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// UpdateCoach handles PUT /v1/owner/coaches/:id.  Rate edits apply to
// future quotes only; persisted bookings keep their recorded breakdown.
func (h *OwnerHandler) UpdateCoach(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid coach id"})
    }
    var req coachReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if msg, ok := req.validate(false); !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    coach, err := h.CoachRepo.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrCoachNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "coach not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    coach.Name = strings.TrimSpace(req.Name)
    coach.Specialty = strings.TrimSpace(req.Specialty)
    coach.RatePerHour = *req.RatePerHour
    coach.Bio = req.Bio
    if req.IsActive != nil {
        coach.IsActive = *req.IsActive
    }
    if err := h.CoachRepo.Update(ctx, &coach); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update coach failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

type availabilityReq struct {
    Spans []availabilityView `json:"availability"`
}

// SetCoachAvailability handles PUT /v1/owner/coaches/:id/availability.
// The body carries the full week; one span per day, each validated as
// a well-formed "HH:MM" range before anything is written.
func (h *OwnerHandler) SetCoachAvailability(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid coach id"})
    }
    var req availabilityReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    seen := make(map[string]bool, len(req.Spans))
    spans := make([]model.CoachAvailability, 0, len(req.Spans))
    for _, s := range req.Spans {
        sh, sm, err := schedule.ParseClock(s.StartTime)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
        }
        eh, em, err := schedule.ParseClock(s.EndTime)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
        }
        if eh*60+em <= sh*60+sm {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be after start_time", "day": s.Day})
        }
        if seen[s.Day] {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "one span per day", "day": s.Day})
        }
        seen[s.Day] = true
        spans = append(spans, model.CoachAvailability{CoachID: id, Day: s.Day, StartTime: s.StartTime, EndTime: s.EndTime})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if _, err := h.CoachRepo.GetByID(ctx, id); err != nil {
        if err == repository.ErrCoachNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "coach not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if err := h.CoachRepo.ReplaceAvailability(ctx, id, spans); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save availability failed"})
    }
    return c.NoContent(http.StatusNoContent)
}
