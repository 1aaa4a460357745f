package main // Entry point package

import (
    "log" // Logging library

    "github.com/joho/godotenv"    // .env loader for local development
    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/courtside/tennis-booking/internal/booking"    // booking manager (slots -> priced bookings)
    "github.com/courtside/tennis-booking/internal/checkout"   // payment provider client
    "github.com/courtside/tennis-booking/internal/config"     // Internal config loader
    "github.com/courtside/tennis-booking/internal/database"   // MySQL connector
    "github.com/courtside/tennis-booking/internal/handler"    // HTTP handlers
    "github.com/courtside/tennis-booking/internal/middleware" // rate limit and cache middleware
    "github.com/courtside/tennis-booking/internal/queue"      // RabbitMQ consumer
    "github.com/courtside/tennis-booking/internal/repository" // database repositories
    "github.com/courtside/tennis-booking/internal/router"     // Internal router setup
)

func main() {
    // Load .env if present; in production the variables come from the
    // environment and the file is simply absent.
    _ = godotenv.Load()

    cfg := config.Load() // Load environment config

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    rdb := config.NewRedisClient() // Redis backs rate limiting and the response cache

    // Repositories, one per table.
    userRepo := repository.NewUserRepo(db)
    tokenRepo := repository.NewTokenRepo(db)
    coachRepo := repository.NewCoachRepo(db)
    bookingRepo := repository.NewBookingRepo(db)
    paymentRepo := repository.NewPaymentRepo(db)
    settingsRepo := repository.NewSettingsRepo(db)

    // The manager owns the booking state machine and cost checks; it
    // talks to MySQL through the combined booking/payment store.
    store := repository.NewBookingStore(bookingRepo, paymentRepo)
    mgr := booking.New(store)

    co, err := checkout.New(cfg.OmisePublicKey, cfg.OmiseSecretKey, cfg.Currency, cfg.ReturnURI)
    if err != nil {
        log.Fatalf("checkout: %v", err)
    }

    authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
    publicH := handler.NewPublicHandler(coachRepo, bookingRepo, settingsRepo)
    playerH := handler.NewPlayerHandler(mgr, bookingRepo, coachRepo, settingsRepo, co)
    paymentH := handler.NewPaymentHandler(mgr, bookingRepo, coachRepo, co)
    coachH := handler.NewCoachHandler(coachRepo, bookingRepo)
    ownerH := handler.NewOwnerHandler(coachRepo, bookingRepo, paymentRepo, settingsRepo, mgr)

    e := echo.New() // Create Echo instance

    // Global token-bucket rate limiting in front of everything.
    e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

    router.RegisterRoutes(e) // health check
    router.RegisterAuth(e, authH, cfg.JWTSecret)
    // Public browse responses are cached in Redis; slot listings churn
    // with every booking, so the TTL stays short.
    router.RegisterPublic(e, publicH, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
    router.RegisterPlayer(e, playerH, paymentH, cfg.JWTSecret)
    router.RegisterCoach(e, coachH, cfg.JWTSecret)
    router.RegisterOwner(e, ownerH, cfg.JWTSecret)
    router.RegisterWebhook(e, paymentH)

    // Consume booking-confirmed events (notifications fan out from
    // here).  The consumer reconnects on its own; a hard failure only
    // logs, the HTTP API keeps serving.
    go func() {
        if err := queue.StartBookingConsumer(); err != nil {
            log.Printf("queue consumer stopped: %v", err)
        }
    }()

    addr := ":" + cfg.Port                                // Address string with port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

    if err := e.Start(addr); err != nil { // Start HTTP server
        log.Fatal(err) // Log and exit if server fails
    }
}
