package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"voyage/config"
	"voyage/infras/otel"
	"voyage/internal/domains/booking/model"
	"voyage/internal/domains/booking/model/dto"
	"voyage/internal/domains/booking/repository"
	catalogService "voyage/internal/domains/catalog/service"
	"voyage/shared"
	"voyage/shared/cache"
	"voyage/shared/constant"
	"voyage/shared/failure"
	"voyage/shared/timezone"
	"voyage/shared/validator"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking = "booking:get"

	maxTransitionAttempts = 3
)

// EventPublisher receives a lifecycle event after every committed mutation.
// Implementations must not block the caller.
type EventPublisher interface {
	Publish(ctx context.Context, event model.LifecycleEvent)
}

// Booking owns every booking mutation. Each one re-reads the stored record,
// checks the transition table and writes conditionally on the revision it read.
type Booking interface {
	CreateBooking(ctx context.Context, req dto.CreateBookingRequest) (model.Booking, error)
	ConfirmBookingPayment(ctx context.Context, id, paymentReference string) (model.Booking, error)
	CancelBooking(ctx context.Context, id, reason string) (model.Booking, error)
	AdvanceStatus(ctx context.Context, id string, event model.FulfillmentEvent, note string) (model.Booking, error)
	SettleRefund(ctx context.Context, id string) (model.Booking, error)
	GetUserBookings(ctx context.Context, userID string) ([]model.Booking, error)
	GetBookingByID(ctx context.Context, id string) (model.Booking, error)
	// FetchBooking skips the read cache. Use it before any decision that leads to a mutation.
	FetchBooking(ctx context.Context, id string) (model.Booking, error)
}

type serviceImpl struct {
	repo      repository.Booking
	catalog   catalogService.Catalog
	publisher EventPublisher
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(
	repo repository.Booking,
	catalog catalogService.Catalog,
	publisher EventPublisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:      repo,
		catalog:   catalog,
		publisher: publisher,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

func (s *serviceImpl) CreateBooking(ctx context.Context, req dto.CreateBookingRequest) (res model.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		return res, failure.Unauthorized("a signed-in user is required to book") // nolint:wrapcheck
	}

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	booking, err := req.ToModel(user, timezone.Now())
	if err != nil {
		return res, err
	}

	pkg, err := s.catalog.GetAvailable(ctx, req.PackageID)
	if err != nil {
		return res, fmt.Errorf("failed to resolve package: %w", err)
	}

	booking.PackageTitle = pkg.Title
	booking.Destination = pkg.Destination
	booking.Currency = pkg.Currency
	booking.TotalPrice = pkg.Price * int64(booking.TravelerCount())

	if booking.Currency == constant.Empty {
		booking.Currency = s.cfg.Payment.DefaultCurrency
	}

	if err = s.repo.Create(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	log.Info().Str("booking_id", booking.ID).Str("user_id", user).Msg("booking created")

	s.publisher.Publish(ctx, model.NewLifecycleEvent(model.LifecycleCreated, booking))

	return booking, nil
}

func (s *serviceImpl) ConfirmBookingPayment(ctx context.Context, id, paymentReference string) (res model.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ConfirmBookingPayment")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelBookingIDAttributeKey, id)

	return s.transition(ctx, id, model.LifecyclePaid, func(current model.Booking) (model.Transition, bool, error) {
		if current.IsConfirmedWith(paymentReference) {
			return model.Transition{}, true, nil
		}

		t, err := current.ConfirmPayment(paymentReference, timezone.Now())

		return t, false, err
	})
}

func (s *serviceImpl) CancelBooking(ctx context.Context, id, reason string) (res model.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CancelBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelBookingIDAttributeKey, id)

	return s.transition(ctx, id, model.LifecycleCancelled, func(current model.Booking) (model.Transition, bool, error) {
		t, err := current.Cancel(reason, timezone.Now())

		return t, false, err
	})
}

func (s *serviceImpl) AdvanceStatus(ctx context.Context, id string, event model.FulfillmentEvent, note string) (res model.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AdvanceStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelBookingIDAttributeKey, id)

	return s.transition(ctx, id, model.LifecycleAdvanced, func(current model.Booking) (model.Transition, bool, error) {
		t, err := current.Advance(event, note, timezone.Now())

		return t, false, err
	})
}

func (s *serviceImpl) SettleRefund(ctx context.Context, id string) (res model.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SettleRefund")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelBookingIDAttributeKey, id)

	return s.transition(ctx, id, model.LifecycleRefundSettled, func(current model.Booking) (model.Transition, bool, error) {
		t, err := current.SettleRefund()

		return t, false, err
	})
}

// transition runs decide against a fresh read and persists its result
// conditionally. A concurrent writer makes the write stale; the loop then
// re-reads and decides again, so the table is always checked against the
// state actually being replaced.
func (s *serviceImpl) transition(
	ctx context.Context,
	id string,
	eventType model.LifecycleEventType,
	decide func(current model.Booking) (model.Transition, bool, error),
) (model.Booking, error) {
	for attempt := 1; attempt <= maxTransitionAttempts; attempt++ {
		current, err := s.FetchBooking(ctx, id)
		if err != nil {
			return model.Booking{}, err
		}

		t, done, err := decide(current)
		if err != nil {
			log.Warn().Err(err).Str("booking_id", id).Str("status", current.Status.String()).Msg("booking transition rejected")

			return model.Booking{}, err
		}

		if done {
			return current, nil
		}

		updated, err := s.repo.ApplyTransition(ctx, current, t, timezone.Now())
		if errors.Is(err, repository.ErrStale) {
			log.Warn().Str("booking_id", id).Int("attempt", attempt).Msg("booking changed during transition, retrying")

			continue
		}

		if err != nil {
			log.Error().Err(err).Str("booking_id", id).Msg("failed to update booking")

			return model.Booking{}, fmt.Errorf("failed to update booking: %w", err)
		}

		log.Info().
			Str("booking_id", id).
			Str("from", t.From.String()).
			Str("to", t.To.String()).
			Str("payment_status", string(t.PaymentStatus)).
			Msg("booking transitioned")

		if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Str("booking_id", id).Msg("failed to delete booking cache")
		}

		s.publisher.Publish(ctx, model.NewLifecycleEvent(eventType, updated))

		return updated, nil
	}

	return model.Booking{}, failure.InvalidState("booking is being updated by another request, refresh and try again") // nolint:wrapcheck
}

func (s *serviceImpl) GetUserBookings(ctx context.Context, userID string) (res []model.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetUserBookings")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelUserIDAttributeKey, userID)

	if !isPrivileged(ctx) {
		if caller, _ := ctx.Value(constant.ContextKeyUserID).(string); caller != userID {
			return nil, failure.ResourceRestrictedError
		}
	}

	res, err = s.repo.GetByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to get user bookings")

		return nil, fmt.Errorf("failed to get user bookings: %w", err)
	}

	return res, nil
}

func (s *serviceImpl) GetBookingByID(ctx context.Context, id string) (res model.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBookingByID")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		if err = authorize(ctx, res); err != nil {
			return model.Booking{}, err
		}

		return res, nil
	}

	res, err = s.FetchBooking(ctx, id)
	if err != nil {
		return res, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) FetchBooking(ctx context.Context, id string) (res model.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".FetchBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res, err = s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if err = authorize(ctx, res); err != nil {
		return model.Booking{}, err
	}

	return res, nil
}

// authorize lets owners see their own bookings. Staff and the system role see everything.
func authorize(ctx context.Context, booking model.Booking) error {
	if isPrivileged(ctx) {
		return nil
	}

	if user, _ := ctx.Value(constant.ContextKeyUserID).(string); user != booking.UserID {
		return failure.ResourceRestrictedError
	}

	return nil
}

func isPrivileged(ctx context.Context) bool {
	switch role, _ := ctx.Value(constant.ContextKeyUserRole).(string); role {
	case constant.RoleAdmin, constant.RoleOps, constant.RoleSystem:
		return true
	default:
		return false
	}
}
