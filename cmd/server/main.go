package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/ironpeak/gym-class-booking/internal/config"
	"github.com/ironpeak/gym-class-booking/internal/database"
	"github.com/ironpeak/gym-class-booking/internal/handler"
	"github.com/ironpeak/gym-class-booking/internal/queue"
	"github.com/ironpeak/gym-class-booking/internal/repository"
	"github.com/ironpeak/gym-class-booking/internal/router"
	"github.com/ironpeak/gym-class-booking/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting and caching disabled")
	}

	notifier := queue.NewAMQPPublisher()
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	bookings := repository.NewBookingRepo(db)
	classes := repository.NewClassRepo(db)
	trainers := repository.NewTrainerRepo(db)
	applications := repository.NewMembershipRepo(db)
	plans := repository.NewPlanRepo(db)
	messages := repository.NewContactRepo(db)
	subscribers := repository.NewNewsletterRepo(db)
	testimonials := repository.NewTestimonialRepo(db)

	bookingSvc := service.NewBookingService(bookings, notifier)
	membershipSvc := service.NewMembershipService(applications, notifier)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e, router.Handlers{
		Bookings:     handler.NewBookingHandler(bookingSvc),
		Classes:      handler.NewClassHandler(classes, trainers),
		Trainers:     handler.NewTrainerHandler(trainers),
		Membership:   handler.NewMembershipHandler(membershipSvc, plans),
		Contact:      handler.NewContactHandler(messages),
		Newsletter:   handler.NewNewsletterHandler(subscribers),
		Testimonials: handler.NewTestimonialHandler(testimonials),
	}, cfg.JWTSecret, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
