package catalog

import (
	"net/http"
	"strconv"
	"voyage/infras/otel"
	"voyage/internal/domains/catalog/model"
	"voyage/internal/domains/catalog/service"
	"voyage/shared/constant"
	"voyage/shared/failure"
	gDto "voyage/shared/dto"
	"voyage/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

const (
	paramMinPrice = "min_price"
	paramMaxPrice = "max_price"
)

type Handler struct {
	service service.Catalog
	otel    otel.Otel
}

func New(service service.Catalog, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/packages", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetPackages)
		routerGroup.Get("/{id}", handler.GetPackageByID)
	})
}

// GetPackages lists the active travel packages.
// @Summary List travel packages
// @Description List active packages with optional destination search, sorting and pagination.
// @Tags Package
// @Produce json
// @Param destination query string false "Filter by destination"
// @Param min_price query int false "Lowest price in minor units"
// @Param max_price query int false "Highest price in minor units"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param sort_by query string false "price, title, destination or duration_days"
// @Param sort_dir query string false "ASC or DESC"
// @Success 200 {object} dto.GetPackagesResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/packages [get]
func (handler *Handler) GetPackages(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPackages")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldActive,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    model.TableName,
			},
		},
	}

	if destination := r.URL.Query().Get(model.FieldDestination); destination != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldDestination,
			Operator: gDto.FilterOperatorLike,
			Value:    destination,
			Table:    model.TableName,
		})
	}

	for _, bound := range []struct {
		param    string
		operator string
	}{
		{paramMinPrice, gDto.FilterOperatorGreaterEq},
		{paramMaxPrice, gDto.FilterOperatorLessEq},
	} {
		raw := r.URL.Query().Get(bound.param)
		if raw == constant.Empty {
			continue
		}

		price, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || price < 0 {
			response.WithError(w, failure.Validation(bound.param+" must be a non negative integer"))

			return
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			ArgName:  bound.param,
			Field:    model.FieldPrice,
			Operator: bound.operator,
			Value:    price,
			Table:    model.TableName,
		})
	}

	packages, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get packages")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, packages)
}

// GetPackageByID returns one package.
// @Summary Get a travel package
// @Tags Package
// @Produce json
// @Param id path string true "Package ID"
// @Success 200 {object} dto.PackageResponse
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/packages/{id} [get]
func (handler *Handler) GetPackageByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPackageByID")
	defer scope.End()

	pkg, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get package")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, pkg)
}
