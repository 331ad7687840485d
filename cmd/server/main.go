package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/robfig/cron/v3"
	"github.com/stripe/stripe-go/v82"

	"parkshare/internal/api"
	"parkshare/internal/cache"
	"parkshare/internal/config"
	"parkshare/internal/db"
	"parkshare/internal/logger"
	"parkshare/internal/repository"
	"parkshare/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}
	logger.Init(cfg.LogLevel)

	conn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}
	defer conn.Close()

	if err := db.RunMigrations(conn, cfg.MigrationsPath); err != nil {
		logger.Fatal("failed to run migrations", "error", err)
	}

	stripe.Key = cfg.StripeSecretKey

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatal("invalid timezone", "timezone", cfg.Timezone, "error", err)
	}

	redisClient := config.NewRedisClient(cfg)
	if redisClient == nil {
		logger.Warn("redis unavailable, availability cache disabled", "addr", cfg.RedisAddr)
	} else {
		defer redisClient.Close()
	}
	availabilityCache := cache.NewAvailabilityCache(redisClient, cfg.AvailabilityCacheTTL)

	spaceRepo := repository.NewSpaceRepository(conn)
	availabilityRepo := repository.NewAvailabilityRepository(conn)
	bookingRepo := repository.NewBookingRepository(conn)
	notificationRepo := repository.NewNotificationRepository(conn)
	jobRepo := repository.NewJobRepository(conn)

	availabilitySvc := service.NewAvailabilityService(availabilityRepo, availabilityCache, spaceRepo)
	stripeSvc := service.NewStripeService(cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL)
	senderSvc := service.NewSenderService(service.NewNotifyService(cfg), loc)
	bookingSvc := service.NewBookingService(spaceRepo, bookingRepo, availabilitySvc, stripeSvc, notificationRepo, senderSvc, loc)

	scheduler := cron.New()
	if err := service.NewJobService(jobRepo, stripeSvc).Schedule(scheduler); err != nil {
		logger.Fatal("failed to schedule jobs", "error", err)
	}
	scheduler.Start()

	router := api.NewRouter(api.Handlers{
		Availability: api.NewAvailabilityHandler(availabilitySvc),
		Bookings:     api.NewBookingHandler(bookingSvc),
		Stripe:       api.NewStripeWebhookHandler(cfg.StripeWebhookSecret, bookingSvc),
		DB:           conn,
		JWTSecret:    cfg.JWTSecret,
	})

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.CORSOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(cors(router)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server running", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	<-scheduler.Stop().Done()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
