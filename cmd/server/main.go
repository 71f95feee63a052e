package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"order-view-service/internal/backend"
	"order-view-service/internal/config"
	"order-view-service/internal/controller"
	"order-view-service/internal/logger"
	"order-view-service/internal/middleware"
	"order-view-service/internal/notification"
	"order-view-service/internal/rabbit"
	"order-view-service/internal/repository"
	"order-view-service/internal/service"
)

func main() {
	cfg := config.Load()

	lg, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// MongoDB
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		lg.Fatal("Error connecting to MongoDB", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(connectCtx, nil); err != nil {
		lg.Fatal("Error pinging MongoDB", zap.Error(err))
	}

	repo := repository.NewMongoOrderRepository(client.Database(cfg.MongoDBName))
	if err := repo.EnsureIndexes(connectCtx); err != nil {
		lg.Fatal("Error creating indexes", zap.Error(err))
	}

	// dependency injection
	hub := notification.NewHub(lg)
	defer hub.Close()

	source := backend.NewClient(cfg.BackendURL, cfg.BackendToken, cfg.HTTPTimeout)
	orderService := service.NewOrderViewService(repo, source, hub, lg)
	authService := service.NewAuthService(cfg.BackendURL, cfg.HTTPTimeout)

	orderCtl := controller.NewOrderController(orderService, lg)
	notificationCtl := controller.NewNotificationController(hub, cfg.CORSOrigins, lg)

	// RabbitMQ
	conn, err := amqp091.Dial(cfg.RabbitURL)
	if err != nil {
		lg.Fatal("Error connecting to RabbitMQ", zap.Error(err))
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		lg.Fatal("Error opening RabbitMQ channel", zap.Error(err))
	}
	defer ch.Close()

	consumer := rabbit.NewEventConsumer(orderService, lg)
	if err := rabbit.SetupConsumers(ctx, ch, cfg.RabbitExchange, consumer, lg); err != nil {
		lg.Fatal("Error setting up consumers", zap.Error(err))
	}

	// Router
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logging(lg))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: !slices.Contains(cfg.CORSOrigins, "*"),
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "wsClients": hub.Clients()})
	})

	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(authService))

	auth.GET("/orders/mine", orderCtl.GetMyOrders)
	auth.GET("/orders/:orderId", orderCtl.GetOrderView)
	auth.GET("/orders/:orderId/timeline", orderCtl.GetTimeline)
	auth.GET("/orders/:orderId/summary", orderCtl.GetSummary)
	auth.GET("/ws/notifications", notificationCtl.Subscribe)

	admin := auth.Group("/admin")
	admin.Use(middleware.AdminOnly())
	admin.GET("/orders", orderCtl.GetAllOrders)
	admin.POST("/orders/:orderId/refresh", orderCtl.RefreshOrder)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		<-ctx.Done()
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			lg.Error("Error shutting down server", zap.Error(err))
		}
	}()

	lg.Info("Order view service running", zap.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lg.Fatal("Error starting server", zap.Error(err))
	}
}
