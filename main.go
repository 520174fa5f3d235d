package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/api"
	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/clients/leadapi"
	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/clients/metapixel"
	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/config"
	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/countdown"
	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/logging"
	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/metrics"
	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/middleware"
	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/services"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	schedule, err := countdown.NewSchedule(cfg.EventTimezone, cfg.EventWeekday, cfg.EventHour)
	if err != nil {
		log.Fatalf("Error loading event schedule: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	leadMetrics := metrics.NewLeadMetrics(registry)

	// Initialize API clients
	leadClient := leadapi.NewClient(cfg.LeadEndpoint, cfg.LeadTimeout)

	var tracker metapixel.Tracker
	if cfg.PixelEnabled() {
		tracker = metapixel.NewClient(cfg.MetaGraphURL, cfg.MetaPixelID, cfg.MetaAccessToken, cfg.MetaTestCode)
	}

	guard := buildGuard(cfg, logger)

	// Initialize services
	submissionService := services.NewLandingSubmissionService(
		leadClient,
		tracker,
		guard,
		leadMetrics,
		logger,
		cfg,
	)

	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.AllowedOrigins...))
	router.SetHTMLTemplate(api.Templates())

	if cfg.StaticDir != "" {
		router.Static("/static", cfg.StaticDir)
	}

	// Initialize handlers
	handlers := api.NewHandlers(submissionService, countdown.New(schedule), leadMetrics, logger, cfg)

	// Register routes
	handlers.RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "port", cfg.Port, "pixel_enabled", cfg.PixelEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	// countdown streams only end with their client, so shutdown is bounded
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
}

func buildGuard(cfg *config.Config, logger *logging.Logger) services.SubmissionGuard {
	if cfg.RedisAddr == "" {
		return services.NewMemoryGuard(cfg.GuardTTL)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available, using in-memory submission guard", "error", err)
		_ = client.Close()
		return services.NewMemoryGuard(cfg.GuardTTL)
	}
	return services.NewRedisGuard(client, cfg.GuardTTL)
}
