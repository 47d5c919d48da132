package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"
	"voyage/config"
	"voyage/infras/gateway"
	"voyage/infras/otel"
	bookingModel "voyage/internal/domains/booking/model"
	bookingService "voyage/internal/domains/booking/service"
	"voyage/internal/domains/payment/lock"
	"voyage/internal/domains/payment/model"
	"voyage/internal/domains/payment/model/dto"
	"voyage/internal/domains/payment/receipt"
	"voyage/internal/domains/payment/repository"
	"voyage/shared"
	"voyage/shared/constant"
	gDto "voyage/shared/dto"
	"voyage/shared/failure"
	"voyage/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const defaultConfirmRetryDelay = 1500 * time.Millisecond

// Confirmer applies an authorized payment to its booking.
type Confirmer interface {
	ConfirmBookingPayment(ctx context.Context, id, paymentReference string) (bookingModel.Booking, error)
}

type Payment interface {
	// StartPayment runs intent creation, authorization and confirmation for
	// one booking. Cancelled and declined authorizations come back as a
	// Result with a nil error.
	StartPayment(ctx context.Context, bookingID string, amount int64) (model.Result, error)
	GetAudits(ctx context.Context, bookingID string) (dto.GetAuditsResponse, error)
}

type serviceImpl struct {
	bookings   bookingService.Booking
	confirmer  Confirmer
	gateway    gateway.Gateway
	locker     lock.Locker
	audits     repository.Audit
	archiver   receipt.Archiver
	retryDelay time.Duration
	otel       otel.Otel
}

func New(
	bookings bookingService.Booking,
	confirmer Confirmer,
	gw gateway.Gateway,
	locker lock.Locker,
	audits repository.Audit,
	archiver receipt.Archiver,
	cfg *config.Config,
	otel otel.Otel,
) Payment {
	retryDelay := time.Duration(cfg.Payment.ConfirmRetryDelayMillis) * time.Millisecond
	if retryDelay <= 0 {
		retryDelay = defaultConfirmRetryDelay
	}

	return &serviceImpl{
		bookings:   bookings,
		confirmer:  confirmer,
		gateway:    gw,
		locker:     locker,
		audits:     audits,
		archiver:   archiver,
		retryDelay: retryDelay,
		otel:       otel,
	}
}

func (s *serviceImpl) StartPayment(ctx context.Context, bookingID string, amount int64) (res model.Result, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".StartPayment")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelBookingIDAttributeKey, bookingID)

	if amount <= 0 {
		return res, failure.Validation("amount must be greater than zero") // nolint:wrapcheck
	}

	release, acquired, err := s.locker.TryAcquire(ctx, lock.Key(bookingID))
	if err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to acquire payment lock")

		return res, fmt.Errorf("failed to acquire payment lock: %w", err)
	}

	if !acquired {
		return res, failure.AlreadyInProgress("a payment for this booking is already in progress, please wait for it to finish") // nolint:wrapcheck
	}
	defer release()

	booking, err := s.bookings.FetchBooking(ctx, bookingID)
	if err != nil {
		return res, fmt.Errorf("failed to load booking for payment: %w", err)
	}

	if booking.Status != bookingModel.StatusPendingPayment {
		return res, failure.InvalidState("booking is " + booking.Status.String() + ", only pending_payment bookings can be paid") // nolint:wrapcheck
	}

	if amount != booking.TotalPrice {
		return res, failure.Validation(fmt.Sprintf("amount %d does not match the booking total %d", amount, booking.TotalPrice)) // nolint:wrapcheck
	}

	attemptID := uuid.NewString()

	intent, err := s.gateway.CreateIntent(ctx, amount, booking.Currency, booking.ID, attemptID)
	if err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to create payment intent")

		return res, fmt.Errorf("failed to create payment intent: %w", err)
	}

	attempt := model.Attempt{
		ID:        attemptID,
		BookingID: booking.ID,
		IntentID:  intent.ID,
		Amount:    amount,
		Currency:  booking.Currency,
	}

	// From here on the attempt is driven to a resolution even if the caller
	// goes away, so an authorization is never left without a confirmation try.
	flowCtx := context.WithoutCancel(ctx)

	s.audit(flowCtx, attempt, model.AuditInitiated, constant.Empty, constant.Empty)

	auth, err := s.gateway.PresentAuthorization(flowCtx, intent)
	if err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Str("intent_id", intent.ID).Msg("payment authorization did not resolve")
		s.audit(flowCtx, attempt, model.AuditFailed, constant.Empty, err.Error())

		return res, fmt.Errorf("failed to resolve payment authorization: %w", err)
	}

	switch auth.Status {
	case gateway.StatusCancelled:
		s.audit(flowCtx, attempt, model.AuditCancelled, constant.Empty, constant.Empty)

		return model.Result{Status: model.OutcomeCancelled, Reason: "payment was cancelled"}, nil
	case gateway.StatusFailed:
		s.audit(flowCtx, attempt, model.AuditFailed, constant.Empty, auth.Reason)

		return model.Result{Status: model.OutcomeFailed, Reason: auth.Reason}, nil
	case gateway.StatusAuthorized:
	default:
		return res, fmt.Errorf("%w: authorization status %q", gateway.ErrUnexpectedStatus, auth.Status)
	}

	s.audit(flowCtx, attempt, model.AuditAuthorized, auth.Reference, constant.Empty)

	res = model.Result{Status: model.OutcomeAuthorized, PaymentReference: auth.Reference}

	confirmed, err := s.confirm(flowCtx, bookingID, auth.Reference)
	if err != nil {
		log.Error().
			Err(err).
			Str("booking_id", bookingID).
			Str("payment_reference", auth.Reference).
			Msg("payment authorized but booking confirmation failed")
		s.audit(flowCtx, attempt, model.AuditConfirmationFailed, auth.Reference, err.Error())

		return res, failure.AuthorizedNotConfirmed(bookingID, auth.Reference, err) // nolint:wrapcheck
	}

	s.audit(flowCtx, attempt, model.AuditConfirmed, auth.Reference, constant.Empty)
	s.archive(flowCtx, confirmed, amount)

	res.Success = true

	return res, nil
}

// confirm retries once, and only for infrastructure errors. A rule violation
// will not change on retry.
func (s *serviceImpl) confirm(ctx context.Context, bookingID, reference string) (bookingModel.Booking, error) {
	booking, err := s.confirmer.ConfirmBookingPayment(ctx, bookingID, reference)
	if err == nil || !failure.IsTransient(err) {
		return booking, err //nolint:wrapcheck
	}

	log.Warn().Err(err).Str("booking_id", bookingID).Dur("delay", s.retryDelay).Msg("retrying payment confirmation")

	time.Sleep(s.retryDelay)

	return s.confirmer.ConfirmBookingPayment(ctx, bookingID, reference) //nolint:wrapcheck
}

// audit never fails the payment; a missing row is logged for follow-up.
func (s *serviceImpl) audit(ctx context.Context, attempt model.Attempt, event model.AuditEvent, reference, detail string) {
	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)

	entry := model.Audit{
		ID:               uuid.NewString(),
		BookingID:        attempt.BookingID,
		Event:            event,
		Amount:           attempt.Amount,
		Currency:         attempt.Currency,
		IntentID:         attempt.IntentID,
		PaymentReference: reference,
		Detail:           detail,
		Actor:            actor,
		CreatedAt:        timezone.Now(),
	}

	if err := s.audits.Insert(ctx, entry); err != nil {
		log.Error().
			Err(err).
			Str("booking_id", attempt.BookingID).
			Str("event", string(event)).
			Str("payment_reference", reference).
			Msg("failed to write payment audit")
	}
}

func (s *serviceImpl) archive(ctx context.Context, booking bookingModel.Booking, amount int64) {
	paid := model.Receipt{
		BookingID:        booking.ID,
		UserID:           booking.UserID,
		PackageTitle:     booking.PackageTitle,
		Destination:      booking.Destination,
		Amount:           amount,
		Currency:         booking.Currency,
		PaymentReference: booking.PaymentID,
		ConfirmedAt:      timezone.Now(),
	}

	go func() {
		url, err := s.archiver.Archive(ctx, paid)
		if err != nil {
			log.Error().Err(err).Str("booking_id", paid.BookingID).Msg("failed to archive payment receipt")

			return
		}

		log.Info().Str("booking_id", paid.BookingID).Str("url", url).Msg("payment receipt archived")
	}()
}

func (s *serviceImpl) GetAudits(ctx context.Context, bookingID string) (res dto.GetAuditsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAudits")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	audits, err := s.audits.GetAll(
		ctx,
		gDto.QueryParams{SortBy: model.FieldCreatedAt, SortDir: gDto.SortDirAsc},
		shared.FilterByField(model.FieldBookingID, bookingID, model.AuditTableName),
	)
	if err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to get payment audits")

		return res, fmt.Errorf("failed to get payment audits: %w", err)
	}

	res.FromModels(audits)

	return res, nil
}
