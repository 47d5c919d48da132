package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"voyage/infras/otel"
	bookingModel "voyage/internal/domains/booking/model"
	bookingService "voyage/internal/domains/booking/service"
	catalogService "voyage/internal/domains/catalog/service"
	"voyage/internal/domains/draft/model"
	"voyage/internal/domains/draft/model/dto"
	"voyage/internal/domains/draft/repository"
	"voyage/internal/domains/payment/lock"
	"voyage/shared/constant"
	"voyage/shared/failure"
	"voyage/shared/timezone"
	"voyage/shared/validator"

	"github.com/rs/zerolog/log"
)

const entityName = "draft"

// Draft drives the booking wizard for the signed-in user. Nothing here
// creates a booking until Submit.
type Draft interface {
	Init(ctx context.Context, req dto.InitDraftRequest) (dto.DraftResponse, error)
	Get(ctx context.Context) (dto.DraftResponse, error)
	Update(ctx context.Context, req dto.UpdateDraftRequest) (dto.DraftResponse, error)
	SetTravelers(ctx context.Context, req dto.SetTravelersRequest) (dto.DraftResponse, error)
	Submit(ctx context.Context) (bookingModel.Booking, error)
	Discard(ctx context.Context) error
}

type serviceImpl struct {
	repo     repository.Draft
	catalog  catalogService.Catalog
	bookings bookingService.Booking
	locker   lock.Locker
	otel     otel.Otel
}

func New(
	repo repository.Draft,
	catalog catalogService.Catalog,
	bookings bookingService.Booking,
	locker lock.Locker,
	otel otel.Otel,
) Draft {
	return &serviceImpl{
		repo:     repo,
		catalog:  catalog,
		bookings: bookings,
		locker:   locker,
		otel:     otel,
	}
}

func currentUser(ctx context.Context) (string, error) {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		return constant.Empty, failure.Unauthorized("a signed-in user is required to build a booking") // nolint:wrapcheck
	}

	return user, nil
}

func (s *serviceImpl) Init(ctx context.Context, req dto.InitDraftRequest) (res dto.DraftResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".InitDraft")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, err := currentUser(ctx)
	if err != nil {
		return res, err
	}

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	pkg, err := s.catalog.GetAvailable(ctx, req.PackageID)
	if err != nil {
		return res, fmt.Errorf("failed to resolve package: %w", err)
	}

	draft := model.InitDraft(model.PackageSnapshot{
		ID:          pkg.ID,
		Title:       pkg.Title,
		Destination: pkg.Destination,
		Price:       pkg.Price,
		Currency:    pkg.Currency,
	}, req.SearchContext())
	draft.UserID = user

	return s.save(ctx, draft)
}

func (s *serviceImpl) Get(ctx context.Context) (res dto.DraftResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetDraft")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	draft, err := s.load(ctx)
	if err != nil {
		return res, err
	}

	res.FromModel(draft)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateDraftRequest) (res dto.DraftResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateDraft")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	draft, err := s.load(ctx)
	if err != nil {
		return res, err
	}

	return s.save(ctx, req.Apply(draft))
}

func (s *serviceImpl) SetTravelers(ctx context.Context, req dto.SetTravelersRequest) (res dto.DraftResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetDraftTravelers")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	draft, err := s.load(ctx)
	if err != nil {
		return res, err
	}

	return s.save(ctx, draft.SetTravelers(req.ToModels()))
}

// Submit hands the draft to the booking service. The draft survives a
// rejected submission so the customer can fix it. Only one submission per
// user runs at a time; a concurrent one is rejected as already in progress.
func (s *serviceImpl) Submit(ctx context.Context) (res bookingModel.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SubmitDraft")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, err := currentUser(ctx)
	if err != nil {
		return res, err
	}

	release, acquired, err := s.locker.TryAcquire(ctx, lock.SubmitKey(user))
	if err != nil {
		log.Error().Err(err).Str("user_id", user).Msg("failed to acquire draft submit lock")

		return res, fmt.Errorf("failed to acquire draft submit lock: %w", err)
	}

	if !acquired {
		return res, failure.AlreadyInProgress("this draft is already being submitted") // nolint:wrapcheck
	}
	defer release()

	draft, err := s.load(ctx)
	if err != nil {
		return res, err
	}

	payload, err := draft.ToBookingPayload()
	if err != nil {
		return res, err
	}

	res, err = s.bookings.CreateBooking(ctx, payload)
	if err != nil {
		return res, fmt.Errorf("failed to submit draft: %w", err)
	}

	if err := s.repo.Delete(ctx, draft.UserID); err != nil {
		log.Error().Err(err).Str("user_id", draft.UserID).Msg("failed to delete submitted draft")
	}

	return res, nil
}

func (s *serviceImpl) Discard(ctx context.Context) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DiscardDraft")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, err := currentUser(ctx)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, user); err != nil {
		log.Error().Err(err).Str("user_id", user).Msg("failed to discard draft")

		return fmt.Errorf("failed to discard draft: %w", err)
	}

	return nil
}

func (s *serviceImpl) load(ctx context.Context) (model.Draft, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return model.Draft{}, err
	}

	draft, err := s.repo.Get(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Draft{}, failure.NotFound(entityName) // nolint:wrapcheck
		}

		log.Error().Err(err).Str("user_id", user).Msg("failed to load draft")

		return model.Draft{}, fmt.Errorf("failed to load draft: %w", err)
	}

	return draft, nil
}

func (s *serviceImpl) save(ctx context.Context, draft model.Draft) (res dto.DraftResponse, err error) {
	draft.UpdatedAt = timezone.Now()

	if err = s.repo.Save(ctx, draft); err != nil {
		log.Error().Err(err).Str("user_id", draft.UserID).Msg("failed to save draft")

		return res, fmt.Errorf("failed to save draft: %w", err)
	}

	res.FromModel(draft)

	return res, nil
}
