//go:build wireinject
// +build wireinject

package di

import (
	"github.com/JustAdi10/Booking/config"
	"github.com/JustAdi10/Booking/infras/jwt"
	"github.com/JustAdi10/Booking/infras/kafka"
	"github.com/JustAdi10/Booking/infras/otel"
	"github.com/JustAdi10/Booking/infras/postgres"
	"github.com/JustAdi10/Booking/infras/redis"
	"github.com/JustAdi10/Booking/permissions"
	"github.com/JustAdi10/Booking/shared/cache"
	"github.com/JustAdi10/Booking/shared/transaction"
	"github.com/JustAdi10/Booking/transport/http"
	"github.com/JustAdi10/Booking/transport/http/middleware"
	"github.com/JustAdi10/Booking/transport/http/router"

	authService "github.com/JustAdi10/Booking/internal/domains/auth/service"
	bookingRepository "github.com/JustAdi10/Booking/internal/domains/booking/repository"
	bookingService "github.com/JustAdi10/Booking/internal/domains/booking/service"
	facilityRepository "github.com/JustAdi10/Booking/internal/domains/facility/repository"
	facilityService "github.com/JustAdi10/Booking/internal/domains/facility/service"
	housekeepingRepository "github.com/JustAdi10/Booking/internal/domains/housekeeping/repository"
	housekeepingService "github.com/JustAdi10/Booking/internal/domains/housekeeping/service"
	roomRepository "github.com/JustAdi10/Booking/internal/domains/room/repository"
	roomService "github.com/JustAdi10/Booking/internal/domains/room/service"
	userRepository "github.com/JustAdi10/Booking/internal/domains/user/repository"
	userService "github.com/JustAdi10/Booking/internal/domains/user/service"
	authHandler "github.com/JustAdi10/Booking/internal/handlers/auth"
	bookingHandler "github.com/JustAdi10/Booking/internal/handlers/booking"
	facilityHandler "github.com/JustAdi10/Booking/internal/handlers/facility"
	housekeepingHandler "github.com/JustAdi10/Booking/internal/handlers/housekeeping"
	roomHandler "github.com/JustAdi10/Booking/internal/handlers/room"
	userHandler "github.com/JustAdi10/Booking/internal/handlers/user"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	transaction.New,
)

var repositories = wire.NewSet(
	userRepository.New,
	facilityRepository.New,
	roomRepository.New,
	bookingRepository.New,
	housekeepingRepository.New,
)

var domains = wire.NewSet(
	authService.New,
	userService.New,
	roomService.New,
	facilityService.New,
	bookingService.New,
	housekeepingService.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	facilityHandler.New,
	roomHandler.New,
	bookingHandler.New,
	housekeepingHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		repositories,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
