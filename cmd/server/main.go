// Package main is the entry point for the PagCore API server.
package main

import (
	"context"
	"log"
	"time"

	"pagcore/internal/config"
	"pagcore/internal/repositories"
	"pagcore/internal/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadEnv()

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	sqlDB, err := repositories.DB.DB()
	if err != nil {
		log.Fatalf("failed to get database instance: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Printf("failed to close database connection: %v", err)
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("failed to close Redis connection: %v", err)
			}
		}
	}()

	// Periodic expiry sweep. Expiry is enforced lazily on every read, so
	// this only keeps the table tidy for reporting.
	sweepInterval := config.GetDurationEnv("QR_SWEEP_INTERVAL", time.Minute)
	tokenRepo := repositories.NewTokenRepository(repositories.DB)
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if n, err := tokenRepo.ExpireOverdue(ctx, time.Now()); err != nil {
				log.Printf("token expiry sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("token expiry sweep: expired %d tokens", n)
			}
			cancel()
		}
	}()

	app := fiber.New()
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ORIGINS", "*"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        config.GetIntEnv("RATE_LIMIT", 100),
		Expiration: time.Minute,
	}))

	routes.SetupRoutes(app, repositories.DB)

	port := config.GetEnv("PORT", "8080")
	log.Printf("starting server on :%s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
