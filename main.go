// main.go
package main

import (
	"context"
	"log"
	"time"

	"bus-booking/cmd"
	"bus-booking/internal/data/repository"
	"bus-booking/internal/wire"
	"bus-booking/pkg/cache"
	"bus-booking/pkg/database"
	"bus-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if err := database.Migrate(context.Background(), db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Connect to redis for the seat map cache
	redisClient, err := cache.InitRedis(config.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	logger.Info("Redis connected successfully")

	seatMaps := cache.NewSeatMapCache(
		redisClient,
		time.Duration(config.Booking.SeatMapTTLSeconds)*time.Second,
		logger,
	)

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, seatMaps, config, logger)

	// Release seats of pending bookings whose hold window elapsed
	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go app.Service.Booking.RunHoldSweeper(sweeperCtx)

	// Start server
	cmd.APIServer(app.Router, config.App.Port, logger)
}
