package booking

//go:generate go run go.uber.org/mock/mockgen -source=./handler.go -destination=./mocks/handler_mock.go -package=mocks

import (
	"context"
	"net/http"
	"voyage/infras/otel"
	"voyage/internal/domains/booking/mirror"
	"voyage/internal/domains/booking/model"
	"voyage/internal/domains/booking/model/dto"
	"voyage/internal/domains/booking/service"
	"voyage/shared"
	"voyage/shared/constant"
	"voyage/shared/failure"
	"voyage/shared/validator"
	"voyage/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

// MyBookings is the per-user listing kept in process. Cancel and confirm go
// through it so the listing shows the expected state while they run.
type MyBookings interface {
	View(userID string) []mirror.View
	Refresh(ctx context.Context, userID string) []mirror.View
	CancelBooking(ctx context.Context, id, reason string) (model.Booking, error)
	ConfirmBookingPayment(ctx context.Context, id, paymentReference string) (model.Booking, error)
}

type Handler struct {
	service    service.Booking
	myBookings MyBookings
	otel       otel.Otel
}

func New(service service.Booking, myBookings MyBookings, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		myBookings: myBookings,
		otel:       otel,
	}
}

// Router registers the customer routes under /bookings.
func (handler *Handler) Router(router chi.Router) {
	router.Post("/", handler.CreateBooking)
	router.Get("/{id}", handler.GetBookingByID)
	router.Post("/{id}/cancel", handler.CancelBooking)
}

// MeRouter registers the caller's listing under /me.
func (handler *Handler) MeRouter(router chi.Router) {
	router.Get("/bookings", handler.GetMyBookings)
	router.Post("/bookings/refresh", handler.RefreshMyBookings)
}

// AdminRouter registers staff routes under /admin/bookings/{id}.
func (handler *Handler) AdminRouter(router chi.Router) {
	router.Post("/status", handler.AdvanceStatus)
	router.Post("/confirm", handler.ConfirmPayment)
	router.Post("/refund-settled", handler.SettleRefund)
}

// CreateBooking handles the creation of a new booking.
// @Summary Create a booking
// @Description Create a pending_payment booking from a complete payload.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} dto.BookingResponse
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error "Package unavailable"
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	booking, err := handler.service.CreateBooking(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking created successfully by user " + user)

	res := dto.BookingResponse{}
	res.FromModel(booking)

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetBookingByID retrieves a booking by its ID.
// @Summary Get a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	booking, err := handler.service.GetBookingByID(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by ID")

		response.WithError(w, err)

		return
	}

	res := dto.BookingResponse{}
	res.FromModel(booking)

	response.WithJSON(w, http.StatusOK, res)
}

// CancelBooking cancels a booking. Paid bookings move to refund_pending.
// @Summary Cancel a booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.CancelBookingRequest false "Cancel Booking Request"
// @Success 200 {object} dto.BookingResponse
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error "Not cancellable from the current status"
// @Router /v1/bookings/{id}/cancel [post]
// @Security BearerAuth
func (handler *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	scope.SetAttribute(constant.OtelBookingIDAttributeKey, id)

	req := dto.CancelBookingRequest{}
	if r.ContentLength != 0 {
		if err := validator.Validate(r.Body, &req); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to validate request body")

			response.WithError(w, err)

			return
		}
	}

	booking, err := handler.myBookings.CancelBooking(ctx, id, req.Reason)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel booking")

		response.WithError(w, err)

		return
	}

	res := dto.BookingResponse{}
	res.FromModel(booking)

	response.WithJSON(w, http.StatusOK, res)
}

// GetMyBookings lists the caller's bookings from the in-process view.
// @Summary List my bookings
// @Description Served from the local view. Pass refresh=true to reconcile with the store first.
// @Tags Booking
// @Produce json
// @Param refresh query boolean false "Reconcile before listing"
// @Success 200 {object} dto.GetMyBookingsResponse
// @Failure 401 {object} response.Error
// @Router /v1/me/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyBookings")
	defer scope.End()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		response.WithError(w, failure.Unauthorized("a signed-in user is required"))

		return
	}

	views := handler.myBookings.View(user)

	if refresh := shared.ConvertStringToBool(r.URL.Query().Get(constant.RequestParamRefresh)); len(views) == 0 || (refresh != nil && *refresh) {
		views = handler.myBookings.Refresh(ctx, user)
	}

	response.WithJSON(w, http.StatusOK, toMyBookings(views))
}

// RefreshMyBookings reconciles the caller's view with the store.
// @Summary Refresh my bookings
// @Tags Booking
// @Produce json
// @Success 200 {object} dto.GetMyBookingsResponse
// @Failure 401 {object} response.Error
// @Router /v1/me/bookings/refresh [post]
// @Security BearerAuth
func (handler *Handler) RefreshMyBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RefreshMyBookings")
	defer scope.End()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		response.WithError(w, failure.Unauthorized("a signed-in user is required"))

		return
	}

	response.WithJSON(w, http.StatusOK, toMyBookings(handler.myBookings.Refresh(ctx, user)))
}

// AdvanceStatus moves a paid booking through fulfillment.
// @Summary Advance booking fulfillment @Admin
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.AdvanceStatusRequest true "Advance Status Request"
// @Success 200 {object} dto.BookingResponse
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/admin/bookings/{id}/status [post]
// @Security BearerAuth
func (handler *Handler) AdvanceStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AdvanceStatus")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	scope.SetAttribute(constant.OtelBookingIDAttributeKey, id)

	req := dto.AdvanceStatusRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.AdvanceStatus(ctx, id, model.FulfillmentEvent(req.Event), req.Note)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to advance booking status")

		response.WithError(w, err)

		return
	}

	res := dto.BookingResponse{}
	res.FromModel(booking)

	response.WithJSON(w, http.StatusOK, res)
}

// ConfirmPayment records a payment reference that support verified with the gateway.
// @Summary Confirm a booking payment @Admin
// @Description Used to reconcile bookings whose payment was authorized but not confirmed.
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.ConfirmPaymentRequest true "Confirm Payment Request"
// @Success 200 {object} dto.BookingResponse
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/admin/bookings/{id}/confirm [post]
// @Security BearerAuth
func (handler *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ConfirmPayment")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	scope.SetAttribute(constant.OtelBookingIDAttributeKey, id)

	req := dto.ConfirmPaymentRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.myBookings.ConfirmBookingPayment(ctx, id, req.PaymentReference)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to confirm booking payment")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	log.Info().Str("booking_id", id).Str("actor", user).Msg("booking payment confirmed manually")

	res := dto.BookingResponse{}
	res.FromModel(booking)

	response.WithJSON(w, http.StatusOK, res)
}

// SettleRefund marks a refund_pending booking as refunded.
// @Summary Settle a booking refund @Admin
// @Tags Admin
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse
// @Failure 409 {object} response.Error
// @Router /v1/admin/bookings/{id}/refund-settled [post]
// @Security BearerAuth
func (handler *Handler) SettleRefund(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SettleRefund")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	scope.SetAttribute(constant.OtelBookingIDAttributeKey, id)

	booking, err := handler.service.SettleRefund(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to settle refund")

		response.WithError(w, err)

		return
	}

	res := dto.BookingResponse{}
	res.FromModel(booking)

	response.WithJSON(w, http.StatusOK, res)
}

func toMyBookings(views []mirror.View) dto.GetMyBookingsResponse {
	res := dto.GetMyBookingsResponse{Bookings: []dto.BookingViewResponse{}}

	for _, view := range views {
		res.Add(view.Booking, view.Reconciling)
	}

	return res
}
