package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/schoolkit"
	"github.com/techmaster-vietnam/schoolkit/handlers"
	"github.com/techmaster-vietnam/schoolkit/logging"
	"go.uber.org/zap"
)

func main() {
	// 0. Load .env file
	if err := godotenv.Load(); err != nil {
		_ = goerrorkit.WrapWithMessage(err, "Warning: .env file not found, using environment variables")
	}

	// 1. Load configuration
	cfg := schoolkit.LoadConfig()

	// 2. Logger: zap cho ứng dụng, goerrorkit cho log lỗi
	zapLogger, err := logging.New(cfg.Log.Level, cfg.Log.Format, cfg.ServiceName)
	if err != nil {
		panic(goerrorkit.NewSystemError(err))
	}
	defer func() { _ = zapLogger.Sync() }()

	if cfg.Log.Backend == "zap" {
		goerrorkit.SetLogger(logging.NewErrorkitLogger(zapLogger))
	} else {
		goerrorkit.InitLogger(goerrorkit.LoggerOptions{
			ConsoleOutput: true,
			FileOutput:    cfg.Log.FilePath != "",
			FilePath:      cfg.Log.FilePath,
			JSONFormat:    cfg.Log.Format != "console",
			MaxFileSize:   10,
			MaxBackups:    5,
			MaxAge:        30,
			LogLevel:      cfg.Log.Level,
		})
	}
	goerrorkit.ConfigureForApplication("main")

	// 3. Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "School Management System",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	// RequestID phải đứng trước ErrorHandler
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(handlers.ErrorHandler())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// 4. Storage, services, handlers
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	kit, err := schoolkit.New(app).
		WithConfig(cfg).
		WithLogger(zapLogger).
		Initialize(ctx)
	cancel()
	if err != nil {
		panic(goerrorkit.WrapWithMessage(err, "Failed to initialize schoolkit").
			WithData(map[string]interface{}{
				"storage": cfg.Storage.Driver,
			}))
	}
	defer func() { _ = kit.Close() }()

	// 5. Routes
	kit.SetupRoutes()

	// 6. Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		zapLogger.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zapLogger.Error("Shutdown failed", zap.Error(err))
		}
	}()

	zapLogger.Info("Server starting",
		zap.String("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Driver),
		zap.Int("routes", len(kit.RouteRegistry.GetAllRoutes())))
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		zapLogger.Error("Server stopped", zap.Error(err))
	}
}
