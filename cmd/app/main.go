package main

import (
	"github.com/JustAdi10/Booking/config"
	"github.com/JustAdi10/Booking/di"
	"github.com/JustAdi10/Booking/helper"
	"github.com/JustAdi10/Booking/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Booking API
// @version 1.0
// @description Reservations for grounds and rooms, housekeeping tasks and user management.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if closer := logger.SetFileOutput(cfg); closer != nil {
		defer closer.Close()
	}

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
