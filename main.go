package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleettrack/internal/api"
	"fleettrack/internal/config"
	"fleettrack/internal/database"
	"fleettrack/internal/document"
	"fleettrack/internal/logger"
	"fleettrack/internal/middleware"
	"fleettrack/internal/monitoring"
	"fleettrack/internal/repository"
	"fleettrack/internal/service"
	"fleettrack/internal/storage"
	"fleettrack/internal/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/postgres/v3"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()

	telemetry, err := monitoring.NewOpenTelemetry(cfg.Telemetry)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	slogger := logger.New(cfg)

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := repository.NewPostgresRepository(db)

	// Session cookies are backed by their own postgres table.
	sessionStorage := postgres.New(postgres.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Database: cfg.Database.Name,
		Username: cfg.Database.User,
		Password: cfg.Database.Password,
		Table:    cfg.Session.Table,
		Reset:    false,
	})
	store := session.New(session.Config{
		Storage:        sessionStorage,
		KeyLookup:      "cookie:session_id",
		CookiePath:     "/",
		CookieSecure:   cfg.Server.Environment == "production",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		Expiration:     cfg.Session.Expiration,
	})

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	rateLimiter := service.NewRateLimiter(redisClient)

	storageBackend, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	generator := document.NewGenerator(storageBackend, slogger)

	validate := validator.New()

	authz, err := service.NewAuthorizationService(cfg, slogger)
	if err != nil {
		log.Fatalf("Failed to initialize authorization: %v", err)
	}
	defer authz.Close()

	authService := service.NewAuthService(repo, rateLimiter, validate, slogger)
	deviceService := service.NewDeviceService(repo, validate, slogger)
	employeeService := service.NewEmployeeService(repo, validate, slogger)
	assignmentService := service.NewAssignmentService(repo, generator, storageBackend, telemetry, validate, slogger, cfg.Storage.RenderTimeout)
	planService := service.NewPlanService(repo, validate, slogger)
	reportService := service.NewReportService(repo, slogger)

	handler := api.NewHandler(store, repo, authService, authz, deviceService, employeeService, assignmentService, planService, reportService, slogger)

	app := fiber.New(fiber.Config{
		AppName:      "fleettrack",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(slogger))

	// Brute force protection on top of the per-username redis limiter.
	loginLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: 15 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many attempts, try again later",
			})
		},
	})
	app.Use("/auth/login", loginLimiter)

	api.RegisterRoutes(app, handler, store, repo, authz)

	go func() {
		if err := app.Listen(cfg.Server.Addr()); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	}()
	slogger.Info("server started", "addr", cfg.Server.Addr())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slogger.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slogger.Error("server shutdown failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		slogger.Error("telemetry shutdown failed", "error", err)
	}
	if err := redisClient.Close(); err != nil {
		slogger.Error("redis close failed", "error", err)
	}
}
