package payment

import (
	"net/http"
	"voyage/infras/otel"
	"voyage/internal/domains/payment/model/dto"
	"voyage/internal/domains/payment/service"
	"voyage/shared/constant"
	"voyage/shared/validator"
	"voyage/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Payment
	otel    otel.Otel
}

func New(service service.Payment, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

// Router registers the payment route under /bookings.
func (handler *Handler) Router(router chi.Router) {
	router.Post("/{id}/payments", handler.StartPayment)
}

// AdminRouter registers the audit trail under /admin/bookings/{id}.
func (handler *Handler) AdminRouter(router chi.Router) {
	router.Get("/payment-audits", handler.GetAudits)
}

// StartPayment pays for a pending booking and blocks until the gateway resolves.
// @Summary Pay for a booking
// @Description Cancelled or declined authorizations return 200 with success=false; the booking stays payable.
// @Description A 502 with kind payment_authorized_not_confirmed means the money moved: contact support with the payment reference, do not retry.
// @Tags Payment
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.StartPaymentRequest true "Start Payment Request"
// @Success 200 {object} dto.PaymentResponse
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error "Payment already in progress or booking not payable"
// @Failure 502 {object} response.Error "Authorized but not confirmed"
// @Router /v1/bookings/{id}/payments [post]
// @Security BearerAuth
func (handler *Handler) StartPayment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".StartPayment")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	scope.SetAttribute(constant.OtelBookingIDAttributeKey, id)

	req := dto.StartPaymentRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	result, err := handler.service.StartPayment(ctx, id, req.Amount)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", id).Msg("failed to process payment")

		response.WithError(w, err)

		return
	}

	res := dto.PaymentResponse{}
	res.FromModel(result)

	response.WithJSON(w, http.StatusOK, res)
}

// GetAudits lists the payment trail of a booking, oldest first.
// @Summary Payment audit trail @Admin
// @Tags Admin
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.GetAuditsResponse
// @Failure 500 {object} response.Error
// @Router /v1/admin/bookings/{id}/payment-audits [get]
// @Security BearerAuth
func (handler *Handler) GetAudits(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAudits")
	defer scope.End()

	audits, err := handler.service.GetAudits(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get payment audits")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, audits)
}
