//go:build wireinject
// +build wireinject

package di

import (
	"voyage/config"
	"voyage/infras/gateway"
	"voyage/infras/jwt"
	"voyage/infras/kafka"
	"voyage/infras/mongo"
	"voyage/infras/otel"
	"voyage/infras/postgres"
	"voyage/infras/redis"
	"voyage/infras/s3"
	"voyage/permissions"
	"voyage/shared/cache"
	"voyage/transport/http"
	"voyage/transport/http/middleware"
	"voyage/transport/http/router"

	"github.com/google/wire"

	bookingEvent "voyage/internal/domains/booking/event"
	bookingMirror "voyage/internal/domains/booking/mirror"
	bookingRepository "voyage/internal/domains/booking/repository"
	bookingService "voyage/internal/domains/booking/service"
	catalogRepository "voyage/internal/domains/catalog/repository"
	catalogService "voyage/internal/domains/catalog/service"
	draftRepository "voyage/internal/domains/draft/repository"
	draftService "voyage/internal/domains/draft/service"
	paymentLock "voyage/internal/domains/payment/lock"
	paymentReceipt "voyage/internal/domains/payment/receipt"
	paymentRepository "voyage/internal/domains/payment/repository"
	paymentService "voyage/internal/domains/payment/service"
	bookingHandler "voyage/internal/handlers/booking"
	catalogHandler "voyage/internal/handlers/catalog"
	draftHandler "voyage/internal/handlers/draft"
	paymentHandler "voyage/internal/handlers/payment"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	mongo.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
	gateway.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var catalogDomain = wire.NewSet(
	catalogRepository.New,
	catalogService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingEvent.NewPublisher,
	bookingEvent.NewFulfillmentConsumer,
	bookingService.New,
	bookingMirror.New,
	wire.Bind(new(bookingHandler.MyBookings), new(*bookingMirror.Mirror)),
	wire.Bind(new(paymentService.Confirmer), new(*bookingMirror.Mirror)),
)

var draftDomain = wire.NewSet(
	draftRepository.New,
	draftService.New,
)

var paymentDomain = wire.NewSet(
	paymentLock.New,
	paymentRepository.New,
	paymentReceipt.New,
	paymentService.New,
)

var domains = wire.NewSet(
	catalogDomain,
	bookingDomain,
	draftDomain,
	paymentDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	catalogHandler.New,
	draftHandler.New,
	bookingHandler.New,
	paymentHandler.New,
	router.New,
)

func InitializeService() *Application {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
		wire.Struct(new(Application), "*"),
	)

	return &Application{}
}
