package main // Entry point package

import (
	"log" // Logging library

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/expense-tracker/internal/config"
	"github.com/iliyamo/expense-tracker/internal/database"
	"github.com/iliyamo/expense-tracker/internal/handler"
	"github.com/iliyamo/expense-tracker/internal/middleware"
	"github.com/iliyamo/expense-tracker/internal/queue"
	"github.com/iliyamo/expense-tracker/internal/repository"
	"github.com/iliyamo/expense-tracker/internal/router"
	"github.com/iliyamo/expense-tracker/internal/service"
)

func main() {
	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the limiter on the credential endpoints.  A nil
	// client disables limiting rather than failing startup.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	users := service.NewUserService(repository.NewUserRepo(db), cfg.JWTSecret, cfg.AccessTTLHours, cfg.BcryptCost)
	expenses := service.NewExpenseService(repository.NewExpenseRepo(db), queue.NewRabbitPublisher())

	// Audit consumer runs for the lifetime of the process and
	// reconnects on its own; a broker outage never stops the API.
	go func() {
		if err := queue.StartExpenseConsumer(); err != nil {
			log.Printf("expense consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(users), cfg.JWTSecret, limiter)
	router.RegisterUser(e, handler.NewUserHandler(users), cfg.JWTSecret)
	router.RegisterExpenses(e, handler.NewExpenseHandler(expenses), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
