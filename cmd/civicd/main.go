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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ashwin76038/civic-ai/internal/backbone"
	"github.com/Ashwin76038/civic-ai/internal/classify"
	"github.com/Ashwin76038/civic-ai/internal/config"
	"github.com/Ashwin76038/civic-ai/internal/feed"
	"github.com/Ashwin76038/civic-ai/internal/handlers"
	"github.com/Ashwin76038/civic-ai/internal/middleware"
	"github.com/Ashwin76038/civic-ai/internal/store"
)

type server struct {
	router      *gin.Engine
	logger      *zap.Logger
	store       *store.Store
	extractor   *backbone.Extractor
	hub         *feed.Hub
	rateLimiter *middleware.RateLimiter
	config      *config.Config
}

func main() {
	cfg := config.Load()

	var logger *zap.Logger
	var err error
	if cfg.Logging.Format == "json" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	if err := cfg.Validate(logger); err != nil {
		logger.Fatal("Configuration validation failed", zap.Error(err))
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv, err := newServer(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create server", zap.Error(err))
	}

	go srv.hub.Run()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
			zap.String("classifier_mode", cfg.Model.ClassifierMode))

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	srv.hub.Shutdown()

	if srv.rateLimiter != nil {
		srv.rateLimiter.Shutdown()
	}

	if srv.store != nil {
		if err := srv.store.Close(ctx); err != nil {
			logger.Error("Failed to close MongoDB connection", zap.Error(err))
		}
	}

	if srv.extractor != nil {
		srv.extractor.Close()
	}

	logger.Info("Server exited")
}

func newServer(cfg *config.Config, logger *zap.Logger) (*server, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.Timeout)
	defer cancel()

	st, err := store.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Timeout, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	var classifier classify.Classifier
	var registry *classify.Registry
	var extractor *backbone.Extractor

	switch cfg.Model.ClassifierMode {
	case config.ClassifierModeReal:
		extractor, err = backbone.New(cfg.Model.BackbonePath, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to load backbone: %w", err)
		}
		registry = classify.LoadRegistry(cfg.Model.CheckpointDir, logger)
		classifier = classify.NewService(registry, extractor, logger)
	case config.ClassifierModeStub:
		classifier = classify.NewStub(time.Now().UnixNano())
	default:
		return nil, fmt.Errorf("unknown classifier mode %q", cfg.Model.ClassifierMode)
	}

	hub := feed.NewHub(logger)
	feedHandler := feed.NewHandler(hub, logger)

	rateLimiter := middleware.NewRateLimiter(
		cfg.Security.RateLimitRPS,
		cfg.Security.RateLimitBurst,
		logger,
	)

	h := handlers.New(classifier, st, st, hub, registry, logger)

	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(cfg.Security.AllowedOrigins))
	router.Use(middleware.RequestSizeLimit(cfg.Security.MaxRequestSize))

	setupRoutes(router, h, feedHandler, rateLimiter)

	return &server{
		router:      router,
		logger:      logger,
		store:       st,
		extractor:   extractor,
		hub:         hub,
		rateLimiter: rateLimiter,
		config:      cfg,
	}, nil
}

func setupRoutes(router *gin.Engine, h *handlers.Handler, feedHandler *feed.Handler, rateLimiter *middleware.RateLimiter) {
	router.GET("/health", h.Health)

	// Live report feed for dashboards.
	router.GET("/ws/reports", rateLimiter.RateLimit(), feedHandler.Subscribe)

	limited := router.Group("/")
	limited.Use(rateLimiter.RateLimit())
	{
		limited.POST("/predict", h.Predict)
		limited.POST("/reports", h.SubmitReport)
		limited.GET("/complaints", h.ListComplaints)
		limited.POST("/register", h.Register)
		limited.POST("/login", h.Login)
		limited.GET("/stats", h.Stats)
	}
}
