package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/courtside/tennis-booking/internal/model"
    "github.com/courtside/tennis-booking/internal/repository"
)

type settingsView struct {
    CourtCostPerHour   float64 `json:"court_cost_per_hour"`
    MachineCostPerHour float64 `json:"machine_cost_per_hour"`
    CoachSharePercent  float64 `json:"coach_share_percent"`
}

// GetSettings handles GET /v1/owner/settings.
func (h *OwnerHandler) GetSettings(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    s, err := h.SettingsRepo.Get(ctx)
    if err != nil {
        if err == repository.ErrNoSettings {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "settings not configured"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, settingsView{
        CourtCostPerHour:   s.CourtCostPerHour,
        MachineCostPerHour: s.MachineCostPerHour,
        CoachSharePercent:  s.CoachSharePercent,
    })
}

// UpdateSettings handles PUT /v1/owner/settings.  New rates affect
// quotes from this point on; existing bookings keep their stored
// breakdown.
func (h *OwnerHandler) UpdateSettings(c echo.Context) error {
    var req settingsView
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.CourtCostPerHour < 0 || req.MachineCostPerHour < 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "rates must not be negative"})
    }
    if req.CoachSharePercent < 0 || req.CoachSharePercent > 100 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "coach_share_percent must be between 0 and 100"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    s := model.Settings{
        CourtCostPerHour:   req.CourtCostPerHour,
        MachineCostPerHour: req.MachineCostPerHour,
        CoachSharePercent:  req.CoachSharePercent,
    }
    if err := h.SettingsRepo.Update(ctx, s); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save settings failed"})
    }
    return c.NoContent(http.StatusNoContent)
}
