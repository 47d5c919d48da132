package draft

import (
	"net/http"
	"voyage/infras/otel"
	bookingDto "voyage/internal/domains/booking/model/dto"
	"voyage/internal/domains/draft/model/dto"
	"voyage/internal/domains/draft/service"
	"voyage/shared/constant"
	"voyage/shared/validator"
	"voyage/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Draft
	otel    otel.Otel
}

func New(service service.Draft, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/drafts", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.InitDraft)
		routerGroup.Get("/", handler.GetDraft)
		routerGroup.Patch("/", handler.UpdateDraft)
		routerGroup.Delete("/", handler.DiscardDraft)
		routerGroup.Put("/travelers", handler.SetTravelers)
		routerGroup.Post("/submit", handler.SubmitDraft)
	})
}

// InitDraft starts the caller's draft from a package, replacing any previous one.
// @Summary Start a booking draft
// @Tags Draft
// @Accept json
// @Produce json
// @Param request body dto.InitDraftRequest true "Init Draft Request"
// @Success 201 {object} dto.DraftResponse
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error "Package unavailable"
// @Router /v1/drafts [post]
// @Security BearerAuth
func (handler *Handler) InitDraft(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".InitDraft")
	defer scope.End()

	req := dto.InitDraftRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	draft, err := handler.service.Init(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to init draft")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, draft)
}

// GetDraft returns the caller's draft.
// @Summary Get the current booking draft
// @Tags Draft
// @Produce json
// @Success 200 {object} dto.DraftResponse
// @Failure 404 {object} response.Error
// @Router /v1/drafts [get]
// @Security BearerAuth
func (handler *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDraft")
	defer scope.End()

	draft, err := handler.service.Get(ctx)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, draft)
}

// UpdateDraft applies dates, party, add-ons, work trip details or the wizard step.
// @Summary Update the booking draft
// @Tags Draft
// @Accept json
// @Produce json
// @Param request body dto.UpdateDraftRequest true "Update Draft Request"
// @Success 200 {object} dto.DraftResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/drafts [patch]
// @Security BearerAuth
func (handler *Handler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateDraft")
	defer scope.End()

	req := dto.UpdateDraftRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	draft, err := handler.service.Update(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update draft")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, draft)
}

// SetTravelers replaces the draft's traveler list.
// @Summary Set draft travelers
// @Tags Draft
// @Accept json
// @Produce json
// @Param request body dto.SetTravelersRequest true "Travelers"
// @Success 200 {object} dto.DraftResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/drafts/travelers [put]
// @Security BearerAuth
func (handler *Handler) SetTravelers(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SetTravelers")
	defer scope.End()

	req := dto.SetTravelersRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	draft, err := handler.service.SetTravelers(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to set draft travelers")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, draft)
}

// SubmitDraft turns the draft into a pending booking. The draft survives a rejected submit.
// @Summary Submit the booking draft
// @Tags Draft
// @Produce json
// @Success 201 {object} bookingDto.BookingResponse
// @Failure 400 {object} response.Error "Draft incomplete"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error "Package unavailable or submission already in progress"
// @Router /v1/drafts/submit [post]
// @Security BearerAuth
func (handler *Handler) SubmitDraft(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SubmitDraft")
	defer scope.End()

	booking, err := handler.service.Submit(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to submit draft")

		response.WithError(w, err)

		return
	}

	scope.SetAttribute(constant.OtelBookingIDAttributeKey, booking.ID)

	res := bookingDto.BookingResponse{}
	res.FromModel(booking)

	response.WithJSON(w, http.StatusCreated, res)
}

// DiscardDraft deletes the caller's draft.
// @Summary Discard the booking draft
// @Tags Draft
// @Produce json
// @Success 200 {object} response.Message
// @Router /v1/drafts [delete]
// @Security BearerAuth
func (handler *Handler) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DiscardDraft")
	defer scope.End()

	if err := handler.service.Discard(ctx); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to discard draft")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Draft discarded")
}
