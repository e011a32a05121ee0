package main // Entry point package

import (
	"log"  // Logging library
	"time" // Durations for booking tunables

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/bus-ticket-reservation/internal/booking"
	"github.com/iliyamo/bus-ticket-reservation/internal/config"
	"github.com/iliyamo/bus-ticket-reservation/internal/database"
	"github.com/iliyamo/bus-ticket-reservation/internal/handler"
	"github.com/iliyamo/bus-ticket-reservation/internal/middleware"
	"github.com/iliyamo/bus-ticket-reservation/internal/queue"
	"github.com/iliyamo/bus-ticket-reservation/internal/repository"
	"github.com/iliyamo/bus-ticket-reservation/internal/router"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables rate limiting and caching.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}

	// Repositories
	busRepo := repository.NewBusRepo(db)
	routeRepo := repository.NewRouteRepo(db)
	clientRepo := repository.NewClientRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	ticketRepo := repository.NewTicketRepo(db)
	reservationRepo := repository.NewReservationRepo(db)

	// Booking core: every seat-state transition goes through the ledger.
	seatStore := repository.NewSeatStore(db)
	ledger := booking.NewLedger(seatStore)
	holds := booking.NewManager(ledger, time.Duration(cfg.HoldTTLMin)*time.Minute)
	orch := booking.NewOrchestrator(
		holds,
		seatStore,
		repository.NewCatalog(routeRepo, busRepo),
		booking.PriceCalculator{BasePrice: cfg.BasePrice, PerHopRate: cfg.PerHopRate},
		time.Duration(cfg.CancelCutoffHours)*time.Hour,
	)

	// Handlers
	authHandler := handler.NewAuthHandler(cfg, clientRepo, tokenRepo)
	busHandler := handler.NewBusHandler(busRepo, ticketRepo, reservationRepo)
	routeHandler := handler.NewRouteHandler(routeRepo, busRepo, ticketRepo, reservationRepo)
	ticketHandler := handler.NewTicketHandler(orch, ticketRepo, routeRepo)

	e := echo.New()

	// Distributed token-bucket rate limit in front of everything.
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	// Public browse endpoints sit behind the Redis response cache.
	router.RegisterPublic(e, busHandler, routeHandler,
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterClient(e, busHandler, routeHandler, ticketHandler, cfg.JWTSecret)

	// Background consumer appends purchase events to logs/booking.log.
	go func() {
		if err := queue.StartTicketConsumer(); err != nil {
			log.Printf("ticket consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
