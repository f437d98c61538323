package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticketing-core/internal/config"
	"github.com/iliyamo/ticketing-core/internal/database"
	"github.com/iliyamo/ticketing-core/internal/handler"
	"github.com/iliyamo/ticketing-core/internal/lock"
	"github.com/iliyamo/ticketing-core/internal/middleware"
	"github.com/iliyamo/ticketing-core/internal/queue"
	"github.com/iliyamo/ticketing-core/internal/reclaimer"
	"github.com/iliyamo/ticketing-core/internal/repository"
	"github.com/iliyamo/ticketing-core/internal/router"
	"github.com/iliyamo/ticketing-core/internal/ticketing"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("info: .env not found; using defaults/env")
	}

	cfg := config.Load()
	tcfg := config.LoadTicketingConfig()
	rlCfg := config.LoadRateLimitConfig()
	cacheCfg := config.LoadCacheConfig()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	defer db.Close()

	// The coordination store backs distributed locks, priority streams and
	// the status registry — unlike the cache/rate-limit Redis uses below,
	// losing it means losing correctness, not just a performance feature,
	// so a failed connection here is fatal rather than degraded.
	coordRedis := config.NewRedisClient()
	if coordRedis == nil {
		log.Fatal("redis: coordination store unreachable")
	}
	defer coordRedis.Close()

	// Cache/rate-limit Redis: a second client built from the same REDIS_*
	// settings as the coordination store. Here nil is tolerated; the cache
	// and rate-limit middleware then pass requests through unchanged.
	sideRedis := config.NewRedisClient()

	events := repository.NewEventRepo(db)
	seats := repository.NewSeatRepo(db)
	reservations := repository.NewReservationRepo(db)
	bookings := repository.NewBookingRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	engine := ticketing.New(db, events, seats, reservations, bookings, tcfg.ReservationTimeout, tcfg.MaxSeatsPerBooking)
	immediate := ticketing.NewImmediatePath(engine, coordRedis, lock.Options{
		TTL:        tcfg.LockTimeout,
		RetryDelay: tcfg.LockRetryDelay,
		MaxRetries: tcfg.LockMaxRetries,
	})

	stream := queue.NewStream(coordRedis)
	statusRegistry := queue.NewStatusRegistry(coordRedis, tcfg.StatusTTL)
	workers := queue.NewWorkers(stream, statusRegistry, engine)
	queueService := queue.NewService(stream, statusRegistry, workers, tcfg.MaxSeatsPerBooking)

	recl := reclaimer.New(db, events, seats, reservations, tcfg.ReclaimInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var bg sync.WaitGroup
	bg.Add(1)
	go func() { defer bg.Done(); recl.Run(ctx) }()

	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking-consumer: stopped: %v", err)
		}
	}()

	e := echo.New()
	e.Use(middleware.NewTokenBucket(rlCfg, sideRedis))
	e.Use(middleware.NewRedisCache(cacheCfg, sideRedis))

	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, users, tokens),
		Reservations: handler.NewReservationHandler(immediate, reservations),
		Bookings:     handler.NewBookingHandler(immediate, bookings, seats),
		Queue:        handler.NewQueueHandler(queueService, users),
		AdminEvents:  handler.NewAdminEventHandler(events),
		AdminSeats:   handler.NewAdminSeatHandler(seats, events),
	}
	router.RegisterRoutes(e, handlers, cfg.JWTSecret)

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutdown signal received, draining")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}

	workers.StopAll()
	bg.Wait()
	log.Println("shutdown complete")
}
