package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-resource-booking/internal/availability"
	"github.com/iliyamo/lab-resource-booking/internal/config"
	"github.com/iliyamo/lab-resource-booking/internal/database"
	"github.com/iliyamo/lab-resource-booking/internal/handler"
	"github.com/iliyamo/lab-resource-booking/internal/middleware"
	"github.com/iliyamo/lab-resource-booking/internal/model"
	"github.com/iliyamo/lab-resource-booking/internal/queue"
	"github.com/iliyamo/lab-resource-booking/internal/repository"
	"github.com/iliyamo/lab-resource-booking/internal/requirements"
	"github.com/iliyamo/lab-resource-booking/internal/router"
	"github.com/iliyamo/lab-resource-booking/internal/scheduler"
	queuepublisher "github.com/iliyamo/lab-resource-booking/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories.
	labs := repository.NewLabRepo(db)
	resources := repository.NewResourceRepo(db)
	blocks := repository.NewCalendarBlockRepo(db)
	reservations := repository.NewReservationRepo(db)
	loans := repository.NewLoanRepo(db)
	trainings := repository.NewTrainingRepo(db)
	notifications := repository.NewNotificationRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	// Core services.
	checker := availability.NewChecker(blocks, resources)
	gate := requirements.NewGate(trainings, time.Now)

	schedCfg := config.LoadSchedulerConfig()
	sched := scheduler.New(reservations, loans, notifications,
		scheduler.WithInterval(schedCfg.PollInterval),
		scheduler.WithWindow(schedCfg.Window),
		scheduler.WithStages(scheduler.StagesFromMinutes(schedCfg.AheadMinutes)),
		scheduler.WithPublisher(func(ctx context.Context, n model.Notification) {
			if err := queuepublisher.PublishNotificationCreated(ctx, n); err != nil {
				log.Printf("publish notification.created: %v", err)
			}
		}),
	)
	sched.Start()
	defer sched.Stop()

	// Drain notification.created into the delivery log. The consumer
	// reconnects on its own; a missing broker only disables delivery.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer: %v", err)
		}
	}()

	e := echo.New()

	// Redis backs the rate limiter and the public catalog cache. Both
	// degrade to pass-through when no client is available.
	rdb := config.NewRedisClient()
	if rdb != nil {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	}
	var catalogCache echo.MiddlewareFunc
	if rdb != nil {
		catalogCache = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	}

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens)
	publicH := handler.NewPublicHandler(labs, resources)
	availH := handler.NewAvailabilityHandler(labs, checker, gate)
	bookingH := handler.NewBookingHandler(labs, resources, reservations, loans, checker, gate)
	notifH := handler.NewNotificationHandler(notifications)
	blockH := handler.NewBlockHandler(labs, resources, blocks)

	router.RegisterRoutes(e)
	router.RegisterPublic(e, publicH, catalogCache)
	auth := router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterBooking(auth, availH, bookingH, notifH)
	router.RegisterStaff(auth, blockH)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
