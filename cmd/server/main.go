package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travel-booking-service/config"
	"travel-booking-service/internal/api"
	"travel-booking-service/internal/broker"
	"travel-booking-service/internal/gateway"
	"travel-booking-service/internal/mailer"
	"travel-booking-service/internal/redisclient"
	"travel-booking-service/internal/service"
	"travel-booking-service/internal/store"
	"travel-booking-service/internal/util"
	"travel-booking-service/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting travel booking service")

	tp, err := util.InitTracer("travel-booking-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicNotification)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	jobPublisher := broker.NewJobPublisher(producer)

	chapaClient := gateway.NewClient(gateway.Config{
		SecretKey: cfg.Chapa.SecretKey,
		BaseURL:   cfg.Chapa.BaseURL,
		Timeout:   time.Duration(cfg.Chapa.TimeoutSeconds) * time.Second,
	})

	mailClient := mailer.NewClient(mailer.Config{
		APIURL:    cfg.Mail.APIURL,
		APIToken:  cfg.Mail.APIToken,
		FromEmail: cfg.Mail.FromEmail,
		FromName:  cfg.Mail.FromName,
	})

	listingService := service.NewListingService(db, redisClient)
	paymentService := service.NewPaymentService(db, chapaClient, jobPublisher, redisClient)
	bookingService := service.NewBookingService(db, paymentService, jobPublisher)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	notificationConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicNotification, cfg.Kafka.ConsumerGroup)
	notificationWorker := worker.NewNotificationWorker(notificationConsumer, mailClient)
	go func() {
		if err := notificationWorker.Start(workerCtx); err != nil {
			log.Printf("Notification worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(listingService, bookingService, paymentService, api.JWTAuth(cfg.Auth.JWTSecret))
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	notificationWorker.Stop()

	log.Println("Server exited")
}
