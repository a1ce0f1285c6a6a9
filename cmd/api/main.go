package main

import (
	"context"
	"fmt"

	"unistay-backend/internal/app"
	"unistay-backend/internal/config"
	"unistay-backend/internal/database"
	"unistay-backend/internal/jobs"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load: " + err.Error())
	}
	application, err := app.New(cfg)
	if err != nil {
		panic("app create: " + err.Error())
	}

	if application.DB != nil {
		sqlDB, err := application.DB.DB()
		if err != nil {
			panic("Postgres: get DB: " + err.Error())
		}
		if err := sqlDB.Ping(); err != nil {
			panic("Postgres connection failed: " + err.Error())
		}
		if err := database.AutoMigrate(application.DB); err != nil {
			panic("Migration failed: " + err.Error())
		}
		fmt.Println("Postgres connected")
	}
	if application.Rdb != nil {
		if err := application.Rdb.Ping(context.Background()).Err(); err != nil {
			panic("Redis connection failed: " + err.Error())
		}
		fmt.Println("Redis connected")
	}

	if application.Reservations != nil && cfg.ReservationSweepEvery > 0 {
		sched, err := jobs.StartReservationSweep(application.Reservations, cfg.ReservationSweepEvery)
		if err != nil {
			panic("scheduler: " + err.Error())
		}
		defer func() {
			if err := sched.Shutdown(); err != nil {
				log.Warn().Err(err).Msg("Scheduler shutdown failed")
			}
		}()
	}

	fmt.Printf("Server running at http://localhost:%s\n", cfg.Port)
	fmt.Printf("Health check: http://localhost:%s/health/json\n", cfg.Port)
	fmt.Println("---")

	if err := application.Fiber.Listen(":" + cfg.Port); err != nil {
		panic(err)
	}
}
