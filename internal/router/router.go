package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // import the Echo web framework to handle routing

    "github.com/courtside/tennis-booking/internal/handler"    // import the handlers that implement business logic
    "github.com/courtside/tennis-booking/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    // Map the GET request at path "/healthz" to the Health handler.  This
    // endpoint can be used by load balancers or monitoring systems to verify
    // that the service is up and running.
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    // Create a route group under the /v1/auth prefix for operations that do
    // not require an existing session (register, login, refresh).
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    // Refresh rotates the refresh token; refresh-access only mints a new
    // access token.
    g.POST("/refresh", a.Refresh)
    g.POST("/refresh-access", a.RefreshAccess)
    // Logout does not require JWT authentication.  The handler accepts a
    // JSON body containing a `refresh_token` and invalidates that token.
    g.POST("/logout", a.Logout)

    // Routes that require a valid access token, any role.
    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.Use(middleware.RequireRole("OWNER", "COACH", "PLAYER"))
    auth.GET("/me", a.Me)

    // Clients can call either /v1/auth/logout or /v1/logout with a valid
    // refresh token in the body to terminate a session.
    e.POST("/v1/logout", a.Logout)
}

// RegisterPublic registers unauthenticated browse endpoints: the coach
// roster, per-date open slots and the current price list.  cache is an
// optional response-cache middleware; pass nil to serve uncached.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
    g := e.Group("/v1")
    if cache != nil {
        g.Use(cache)
    }
    // Roster of active coaches with rates and specialties.
    g.GET("/coaches", p.GetCoaches)
    // Open one-hour slots for a coach on a given date; id 0 means a
    // court-only session with no coach.
    g.GET("/coaches/:id/slots", p.GetCoachSlots)
    // Current court, ball machine and coach pricing.
    g.GET("/pricing", p.GetPricing)
}

// RegisterPlayer registers the booking flow for authenticated players:
// quoting, creating, listing, cancelling and paying for bookings.
func RegisterPlayer(e *echo.Echo, p *handler.PlayerHandler, pay *handler.PaymentHandler, jwtSecret string) {
    g := e.Group("/v1")
    g.Use(middleware.JWTAuth(jwtSecret))
    g.Use(middleware.RequireRole("PLAYER"))
    // Price a slot selection without persisting anything.
    g.POST("/bookings/quote", p.QuoteSelection)
    // Create PENDING bookings from a slot selection.
    g.POST("/bookings", p.CreateBooking)
    g.GET("/bookings", p.ListMyBookings)
    g.POST("/bookings/:id/cancel", p.CancelBooking)
    // Open a payment charge for one or more PENDING bookings.
    g.POST("/checkout", p.StartCheckout)
    // Polling fallback for clients that return from the payment page
    // before the webhook lands.
    g.POST("/payments/:charge_id/verify", pay.Verify)
}

// RegisterCoach registers the coach-facing schedule view.
func RegisterCoach(e *echo.Echo, h *handler.CoachHandler, jwtSecret string) {
    g := e.Group("/v1/coach")
    g.Use(middleware.JWTAuth(jwtSecret))
    g.Use(middleware.RequireRole("COACH"))
    g.GET("/schedule", h.GetMySchedule)
}

// RegisterOwner registers club management endpoints: coach profiles and
// availability, pricing settings, the booking and payment ledgers, the
// revenue summary and manual confirm/cancel.
func RegisterOwner(e *echo.Echo, h *handler.OwnerHandler, jwtSecret string) {
    g := e.Group("/v1/owner")
    g.Use(middleware.JWTAuth(jwtSecret))
    g.Use(middleware.RequireRole("OWNER"))

    g.POST("/coaches", h.CreateCoach)
    g.PUT("/coaches/:id", h.UpdateCoach)
    g.PUT("/coaches/:id/availability", h.SetCoachAvailability)

    g.GET("/settings", h.GetSettings)
    g.PUT("/settings", h.UpdateSettings)

    g.GET("/bookings", h.ListAllBookings)
    g.GET("/payments", h.ListAllPayments)
    g.GET("/revenue", h.RevenueSummary)
    // Manual paths for front-desk payments and emergencies; the same
    // state-machine rules apply as on the player flow.
    g.POST("/bookings/:id/confirm", h.ConfirmBooking)
    g.POST("/bookings/:id/cancel", h.CancelBooking)
}

// RegisterWebhook registers the payment provider callback.  The
// provider cannot authenticate with our JWTs, so the route is public;
// the handler re-fetches every charge from the provider API before
// trusting it.
func RegisterWebhook(e *echo.Echo, pay *handler.PaymentHandler) {
    e.POST("/v1/payments/webhook", pay.Webhook)
}
