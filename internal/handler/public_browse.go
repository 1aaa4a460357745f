package handler

import (
    "context"
    "log"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/courtside/tennis-booking/internal/model"
    "github.com/courtside/tennis-booking/internal/pricing"
    "github.com/courtside/tennis-booking/internal/repository"
    "github.com/courtside/tennis-booking/internal/schedule"
)

// PublicHandler exposes unauthenticated browse endpoints: the coach
// directory, per-date free slots and the current price card.  Guests
// use these to inspect the club before registering, so no JWT or role
// middleware applies and responses are cacheable.
type PublicHandler struct {
    CoachRepo    *repository.CoachRepo
    BookingRepo  *repository.BookingRepo
    SettingsRepo *repository.SettingsRepo
}

// NewPublicHandler constructs a PublicHandler.  All dependencies must
// be non-nil.
func NewPublicHandler(coachRepo *repository.CoachRepo, bookingRepo *repository.BookingRepo, settingsRepo *repository.SettingsRepo) *PublicHandler {
    if coachRepo == nil || bookingRepo == nil || settingsRepo == nil {
        panic("nil repository passed to NewPublicHandler")
    }
    return &PublicHandler{CoachRepo: coachRepo, BookingRepo: bookingRepo, SettingsRepo: settingsRepo}
}

// settingsGetter is the slice of SettingsRepo loadRates needs.
type settingsGetter interface {
    Get(ctx context.Context) (model.Settings, error)
}

// loadRates reads the settings snapshot and reduces it to the rate
// table the pricing package consumes.  An unconfigured club falls back
// to the documented defaults; every fallback is logged, the missing-row
// case included, because a live deployment should always have a
// settings row.
func loadRates(ctx context.Context, repo settingsGetter) pricing.Rates {
    s, err := repo.Get(ctx)
    if err != nil {
        log.Printf("settings read failed, using defaults: %v", err)
        return pricing.DefaultRates()
    }
    return pricing.Rates{CourtPerHour: s.CourtCostPerHour, MachinePerHour: s.MachineCostPerHour}
}

type publicCoach struct {
    ID          uint64  `json:"id"`
    Name        string  `json:"name"`
    Specialty   string  `json:"specialty"`
    RatePerHour float64 `json:"rate_per_hour"`
    Bio         string  `json:"bio"`
}

// GetCoaches handles GET /v1/coaches.  It returns every bookable coach
// with the sanitized fields guests may see.
func (h *PublicHandler) GetCoaches(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    coaches, err := h.CoachRepo.ListActive(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]publicCoach, 0, len(coaches))
    for _, co := range coaches {
        out = append(out, publicCoach{
            ID: co.ID, Name: co.Name, Specialty: co.Specialty,
            RatePerHour: co.RatePerHour, Bio: co.Bio,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"coaches": out})
}

// GetCoachSlots handles GET /v1/coaches/:id/slots?date=YYYY-MM-DD.  It
// expands the coach's availability for the date's weekday into hourly
// slots and removes everything that overlaps an existing pending or
// confirmed booking for that coach.  Passing id=0 browses court-only
// availability over the club's full day.
func (h *PublicHandler) GetCoachSlots(c echo.Context) error {
    idRaw := c.Param("id")
    coachID, err := strconv.ParseUint(idRaw, 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid coach id"})
    }
    date, err := time.Parse("2006-01-02", c.QueryParam("date"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
    }
    weekday := date.Weekday().String()

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    var slots []schedule.Slot
    var resource *uint64
    if coachID == 0 {
        // Court-only browsing uses club hours rather than a coach's spans.
        slots = schedule.GenerateSlots(weekday, courtOpenTime, courtCloseTime, date)
    } else {
        if _, err := h.CoachRepo.GetByID(ctx, coachID); err != nil {
            if err == repository.ErrCoachNotFound {
                return c.JSON(http.StatusNotFound, echo.Map{"error": "coach not found"})
            }
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
        spans, err := h.CoachRepo.ListAvailability(ctx, coachID)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
        for _, span := range spans {
            if span.Day == weekday {
                slots = append(slots, schedule.GenerateSlots(span.Day, span.StartTime, span.EndTime, date)...)
            }
        }
        resource = &coachID
    }
    if len(slots) == 0 {
        return c.JSON(http.StatusOK, echo.Map{"date": c.QueryParam("date"), "slots": []schedule.Slot{}})
    }

    dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
    windows, err := h.BookingRepo.ListWindows(ctx, resource, dayStart, dayStart.Add(24*time.Hour))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    free := schedule.FilterAvailable(slots, resource, windows)
    if free == nil {
        free = []schedule.Slot{}
    }
    return c.JSON(http.StatusOK, echo.Map{"date": c.QueryParam("date"), "slots": free})
}

// Club hours used for court-only availability browsing.
const (
    courtOpenTime  = "08:00"
    courtCloseTime = "22:00"
)

// GetPricing handles GET /v1/pricing.  It returns the current hourly
// rates so clients can render a price card without recomputing costs
// themselves.
func (h *PublicHandler) GetPricing(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    rates := loadRates(ctx, h.SettingsRepo)
    return c.JSON(http.StatusOK, echo.Map{
        "court_per_hour":   rates.CourtPerHour,
        "machine_per_hour": rates.MachinePerHour,
    })
}
