package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"villacarmen/config"
	"villacarmen/cron"
	"villacarmen/database"
	bookingRepo "villacarmen/database/repository/booking"
	capacityRepo "villacarmen/database/repository/capacity"
	"villacarmen/handlers"
	"villacarmen/middleware"
	"villacarmen/routes"
	"villacarmen/services/availability"
	"villacarmen/services/flow"
	ai "villacarmen/services/intelligence"
	"villacarmen/services/messaging"
	"villacarmen/services/session"
	"villacarmen/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.Default())

	// repositories.
	bookings := bookingRepo.NewMongoBookingRepo()
	capacity := capacityRepo.NewMongoCapacityRepo()
	if err := bookings.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure booking indexes: %v", err)
	}
	if err := capacity.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure capacity indexes: %v", err)
	}

	// collaborators.
	gateway := messaging.NewUazapiGateway(config.AppConfig.UazapiBaseURL, config.AppConfig.UazapiToken)
	classifier := ai.NewGeminiClassifier(config.AppConfig.GeminiAPIKey)
	stores := session.NewRedisStores(utils.GetSessionCacheClient())
	reminders := cron.NewReminderQueue()

	engine := &availability.DefaultEngine{
		Capacity: capacity,
		Bookings: bookings,
	}

	conversationFlow := &flow.DefaultFlow{
		Stores:       stores,
		Availability: engine,
		Bookings:     bookings,
		Gateway:      gateway,
		Reminders:    reminders,
		Restaurant: flow.RestaurantInfo{
			Name:  config.AppConfig.RestaurantName,
			Phone: config.AppConfig.RestaurantPhone,
		},
	}

	webhookHandler := handlers.NewWebhookHandler(conversationFlow, classifier, gateway, stores)
	adminHandler := handlers.NewAdminHandler(capacity, engine)
	routes.RegisterRoutes(router, webhookHandler, adminHandler)

	cron.InitReminderWorker(bookings, gateway)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("main: listening on :%s", config.AppConfig.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server error: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: shutdown error: %v", err)
	}
}
