// File: knipetak/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"knipetak/config"
	"knipetak/cron"
	"knipetak/database"
	bookingRepo "knipetak/database/repository/booking"
	locationRepo "knipetak/database/repository/location"
	scheduleRepo "knipetak/database/repository/schedule"
	treatmentRepo "knipetak/database/repository/treatment"
	"knipetak/handlers"
	"knipetak/middleware"
	"knipetak/routes"
	"knipetak/services/availability"
	"knipetak/services/scheduling"
	"knipetak/services/tasks"
	"knipetak/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()

	zone := config.Location()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	schedRepo := scheduleRepo.NewMongoScheduleRepo()
	bookRepo := bookingRepo.NewMongoBookingRepo()
	treatRepo := treatmentRepo.NewMongoTreatmentRepo()
	locRepo := locationRepo.NewMongoLocationRepo()

	// availability engine.
	resolver := &availability.Resolver{
		Schedule:            schedRepo,
		Bookings:            bookRepo,
		Treatments:          treatRepo,
		Zone:                zone,
		StepMinutes:         config.AppConfig.SlotStepMinutes,
		TravelBuffer:        time.Duration(config.AppConfig.TravelBufferMinutes) * time.Minute,
		FallbackMinDuration: config.AppConfig.FallbackMinDuration,
	}
	calendar := availability.NewCalendar(
		resolver,
		config.AppConfig.PrefetchConcurrency,
		config.AppConfig.PrefetchSafetyTimeout,
	)

	// Warm the current month immediately so the first calendar render has
	// data.
	calendar.ChangeVisibleMonth(context.Background(), time.Now().In(zone))

	// appointment reminders.
	reminderQueue := tasks.NewReminderQueue(config.AppConfig.ReminderLeadTime, zone)
	defer reminderQueue.Close()
	cron.InitReminderWorker(bookRepo, cron.LogNotifier{})

	// scheduling flow.
	schedulingService := &scheduling.Service{
		Calendar:           calendar,
		Bookings:           bookRepo,
		Treatments:         treatRepo,
		Reminders:          reminderQueue,
		Zone:               zone,
		CommitSettleDelay:  config.AppConfig.CommitSettleDelay,
		CancelRefreshDelay: config.AppConfig.CancelRefreshDelay,
	}
	sessionManager := scheduling.NewManager(schedulingService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Availability: handlers.NewAvailabilityHandler(calendar, zone),
		Booking:      handlers.NewBookingHandler(sessionManager, bookRepo, logger),
		Schedule:     handlers.NewScheduleHandler(schedRepo, calendar, zone),
		Catalog:      handlers.NewCatalogHandler(treatRepo, locRepo),
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	calendar.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
