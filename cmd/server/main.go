package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"github.com/skyline/air-reservation/internal/cache"
	"github.com/skyline/air-reservation/internal/config"
	"github.com/skyline/air-reservation/internal/database"
	"github.com/skyline/air-reservation/internal/events"
	"github.com/skyline/air-reservation/internal/handlers"
	"github.com/skyline/air-reservation/internal/middleware"
	"github.com/skyline/air-reservation/internal/services"
	"github.com/skyline/air-reservation/pkg/boardingpass"
	"github.com/skyline/air-reservation/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting airline reservation backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Database
	logger.WithField("driver", cfg.Database.Driver).Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	healthChecks := map[string]handlers.HealthCheck{
		"database": db.PingContext,
	}

	// Optional search cache
	var searchCache cache.SearchCache = cache.NoopSearchCache{}
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = cache.Connect(context.Background(), cfg.Redis.URL)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, flight search cache disabled")
		} else {
			searchCache = cache.NewRedisSearchCache(redisClient, cfg.Redis.SearchCacheTTL, logger)
			healthChecks["redis"] = func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}
			logger.WithField("ttl", cfg.Redis.SearchCacheTTL.String()).Info("Flight search cache enabled")
		}
	}

	// Optional event producer
	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		logger.WithFields(logrus.Fields{
			"brokers": cfg.Kafka.Brokers,
			"topic":   cfg.Kafka.Topic,
		}).Info("Kafka event publishing enabled")
	}

	// Repositories
	flightRepository := database.NewFlightRepository(db)
	fleetRepository := database.NewFleetRepository(db)
	ticketRepository := database.NewTicketRepository(db)
	customerRepository := database.NewCustomerRepository(db)
	agentRepository := database.NewBookingAgentRepository(db)
	staffRepository := database.NewAirlineStaffRepository(db)
	airlineRepository := database.NewAirlineRepository(db)
	authorizationRepository := database.NewAuthorizationRepository(db)
	sessionRepository := database.NewSessionRepository(db)
	reportRepository := database.NewReportRepository(db)

	// Services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.SessionExpiry)
	authService := services.NewAuthService(
		customerRepository,
		agentRepository,
		staffRepository,
		airlineRepository,
		sessionRepository,
		jwtService,
		cfg.Security.BcryptCost,
		logger,
	)
	searchService := services.NewSearchService(flightRepository, authorizationRepository, searchCache, logger)
	ticketService := services.NewTicketService(
		flightRepository,
		ticketRepository,
		customerRepository,
		authorizationRepository,
		publisher,
		boardingpass.NewGenerator(cfg.BoardingPass.SigningSecret, cfg.BoardingPass.QRSize),
		logger,
	)
	reportService := services.NewReportService(flightRepository, ticketRepository, reportRepository, authorizationRepository, logger)
	staffService := services.NewStaffService(
		flightRepository,
		fleetRepository,
		ticketRepository,
		agentRepository,
		airlineRepository,
		authorizationRepository,
		searchService,
		publisher,
		logger,
	)

	cronService := services.NewCronService(sessionRepository, cfg.Cron.SessionPurgeSchedule, logger)
	if err := cronService.Start(); err != nil {
		logger.Fatalf("Failed to start cron service: %v", err)
	}

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(middleware.RequestLogger(logger))
	}

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	handlers.RegisterRoutes(router, handlers.Handlers{
		Auth:     handlers.NewAuthHandler(authService, logger),
		Search:   handlers.NewSearchHandler(searchService, logger),
		Customer: handlers.NewCustomerHandler(ticketService, reportService, logger),
		Agent:    handlers.NewAgentHandler(ticketService, reportService, logger),
		Staff:    handlers.NewStaffHandler(staffService, reportService, logger),
		Health:   handlers.NewHealthHandler(version, healthChecks),
	}, authService, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cronService.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	if err := publisher.Close(); err != nil {
		logger.WithError(err).Warn("Failed to close event publisher")
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close redis client")
		}
	}

	logger.Info("Server exited successfully")
}
