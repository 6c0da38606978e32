package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/cinetick/booking-engine/internal/config"
	"github.com/cinetick/booking-engine/internal/database"
	"github.com/cinetick/booking-engine/internal/handler"
	"github.com/cinetick/booking-engine/internal/queue"
	"github.com/cinetick/booking-engine/internal/repository"
	"github.com/cinetick/booking-engine/internal/router"
	"github.com/cinetick/booking-engine/internal/service"
)

func main() {
	_ = godotenv.Load() // best-effort: real deployments set env directly

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables response caching and
	// rate limiting but the booking paths keep working.
	rdb := config.NewRedisClient()

	showtimes := repository.NewShowtimeRepo(db)
	theaters := repository.NewTheaterRepo(db)
	inventory := repository.NewSeatInventoryRepo(db)
	bookings := repository.NewBookingRepo(db, showtimes, inventory)

	publisher := queue.NewPublisher()
	svc := service.NewBookingService(showtimes, theaters, inventory, bookings, publisher, nil)

	e := echo.New()
	router.Register(e, router.Deps{
		Public:    handler.NewPublicHandler(showtimes, theaters, inventory, nil),
		Bookings:  handler.NewBookingHandler(svc),
		Admin:     handler.NewAdminBookingHandler(svc),
		JWTSecret: cfg.JWTSecret,
		Redis:     rdb,
	})

	// The event consumer runs alongside the API and retries forever;
	// losing the broker never takes the booking paths down with it.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking-consumer: stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
