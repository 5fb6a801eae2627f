package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/sirupsen/logrus"

	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/config"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/database"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/handlers"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/mail"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/middleware"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/schedule"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/scheduler"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/services"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/sources"
	"github.com/AmbarSinha24/Contest-Alert-Updated/internal/types"
)

// @title Contest Alert API
// @version 1.0.0
// @description Contest reminder service aggregating Codeforces and LeetCode schedules
// @termsOfService http://swagger.io/terms/

// @host localhost:5001
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Contest types are a fixed enumeration the rest of the system keys on.
	if err := services.SeedContestTypes(db); err != nil {
		log.Fatalf("Failed to seed contest types: %v", err)
	}

	appLogger := logrus.New()
	appLogger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Contest sources and the aggregator that feeds the contests table
	srcs := []sources.Source{
		sources.NewCodeforcesClient(cfg.CodeforcesURL, cfg.FetchTimeout, appLogger),
		sources.NewLeetCodeSource(schedule.DefaultCalendar()),
	}
	aggregator := services.NewAggregator(db, srcs, appLogger)

	// Reminder sweeper, driven by a fixed-interval runner
	sender := mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom, 30*time.Second)
	sweeper := services.NewSweeper(db, sender, appLogger, services.SweeperOptions{
		Lead:      cfg.ReminderLead,
		Tolerance: cfg.ReminderTol,
		SendDelay: cfg.SendDelay,
	})
	runner := scheduler.NewRunner("reminder-sweep", cfg.SweepInterval, sweeper.Sweep, appLogger)

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runner.Start(runCtx)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(compress.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendOrigin,
		AllowCredentials: true,
	}))

	// Prometheus metrics
	prometheus := fiberprometheus.New("contest-alert")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Health endpoint
	app.Get("/healthz", func(c *fiber.Ctx) error {
		result := services.HealthCheck(cfg, db)
		status := fiber.StatusOK
		if result.Status != "healthy" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(result)
	})

	// API routes under /api
	api := app.Group("/api")

	contestHandler := &handlers.ContestHandler{DB: db, Aggregator: aggregator, Logger: appLogger}
	userHandler := &handlers.UserHandler{DB: db, Logger: appLogger}

	// Public contest routes
	api.Get("/contest-types", contestHandler.GetContestTypes)
	api.Get("/contests", contestHandler.ListContests)
	api.Post("/updateContests", contestHandler.UpdateContests)

	// User routes (all require an authorizer session)
	user := api.Group("/user", middleware.AuthUser(cfg, db))
	user.Get("/preferences", userHandler.GetPreferences)
	user.Post("/preferences", userHandler.UpdatePreferences)
	user.Get("/info", userHandler.GetInfo)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Resource not found",
		})
	})

	// Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		log.Println("Gracefully shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	// Start server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	// Let an in-flight sweep finish before the process exits.
	runner.Wait()
	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}
	if e, ok := err.(*types.CustomError); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}
