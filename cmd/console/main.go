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

	"seller-console/config"
	"seller-console/internal/api"
	"seller-console/internal/backend"
	"seller-console/internal/notify"
	"seller-console/internal/redisclient"
	"seller-console/internal/service"
	"seller-console/internal/session"
	"seller-console/internal/status"
	"seller-console/internal/util"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting seller console")

	tp, err := util.InitTracer("seller-console", cfg.Observ.JaegerEndpoint)
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

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Session.TTL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	backendClient := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)

	catalog := status.NewCatalog(backendClient, redisClient)
	if err := catalog.Load(context.Background()); err != nil {
		log.Printf("Status catalog unavailable at startup: %v", err)
	}

	sessions := session.NewService(backendClient, redisClient)
	orderService := service.NewOrderService(backendClient, catalog)
	stockService := service.NewStockService(backendClient)
	couponService := service.NewCouponService(backendClient)
	walletService := service.NewWalletService(backendClient)
	sellerService := service.NewSellerService(backendClient)

	consumer := notify.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrders, cfg.Kafka.ConsumerGroup, notify.BackoffConfig{
		Min:        cfg.Realtime.BackoffMin,
		Max:        cfg.Realtime.BackoffMax,
		MaxRetries: cfg.Realtime.MaxRetries,
	})
	notifier := notify.NewOrderNotifier(consumer, orderService)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	go func() {
		if err := notifier.Start(workerCtx); err != nil {
			log.Printf("Order notifier error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(sessions, orderService, stockService, couponService, walletService, sellerService, catalog, notifier)
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
	if err := notifier.Stop(); err != nil {
		log.Printf("Error stopping notifier: %v", err)
	}

	log.Println("Server exited")
}
