package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/courtside/tennis-booking/internal/repository"
)

// CoachHandler serves the coach dashboard: a coach's own profile,
// weekly availability and booked lessons.  The COACH role check has
// already run in middleware; the profile is resolved from the
// authenticated user, so a coach can never read another coach's
// schedule.
type CoachHandler struct {
    CoachRepo   *repository.CoachRepo
    BookingRepo *repository.BookingRepo
}

// NewCoachHandler constructs a CoachHandler.  Both repositories must
// be non-nil.
func NewCoachHandler(coachRepo *repository.CoachRepo, bookingRepo *repository.BookingRepo) *CoachHandler {
    if coachRepo == nil || bookingRepo == nil {
        panic("nil repository passed to NewCoachHandler")
    }
    return &CoachHandler{CoachRepo: coachRepo, BookingRepo: bookingRepo}
}

type availabilityView struct {
    Day       string `json:"day"`
    StartTime string `json:"start_time"`
    EndTime   string `json:"end_time"`
}

// GetMySchedule handles GET /v1/coach/schedule.  It returns the
// coach's profile, weekly availability spans and upcoming bookings.
func (h *CoachHandler) GetMySchedule(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    coach, err := h.CoachRepo.GetByUserID(ctx, userID)
    if err != nil {
        if err == repository.ErrCoachNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "no coach profile for this account"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    spans, err := h.CoachRepo.ListAvailability(ctx, coach.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    bookings, err := h.BookingRepo.ListByCoach(ctx, coach.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    week := make([]availabilityView, 0, len(spans))
    for _, s := range spans {
        week = append(week, availabilityView{Day: s.Day, StartTime: s.StartTime, EndTime: s.EndTime})
    }

    return c.JSON(http.StatusOK, echo.Map{
        "coach": publicCoach{
            ID: coach.ID, Name: coach.Name, Specialty: coach.Specialty,
            RatePerHour: coach.RatePerHour, Bio: coach.Bio,
        },
        "availability": week,
        "bookings":     bookingViews(bookings),
    })
}
