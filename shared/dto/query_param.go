package dto

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"voyage/shared/constant"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// FromRequest populates QueryParams from the HTTP request. With defaultRequest
// set, missing page and limit fall back to the package defaults.
func (q *QueryParams) FromRequest(r *http.Request, defaultRequest bool) {
	queryParams := r.URL.Query()

	if pageInt, err := strconv.Atoi(queryParams.Get(constant.RequestParamPage)); err == nil && pageInt > 0 {
		q.Page = pageInt
	}

	if limitInt, err := strconv.Atoi(queryParams.Get(constant.RequestParamLimit)); err == nil && limitInt > 0 {
		q.Limit = limitInt
	}

	if sortBy := queryParams.Get(constant.RequestParamSortBy); sortBy != "" {
		q.SortBy = sortBy
	}

	if sortDir := strings.ToUpper(queryParams.Get(constant.RequestParamSortDir)); sortDir == SortDirAsc || sortDir == SortDirDesc {
		q.SortDir = sortDir
	}

	if defaultRequest {
		if q.Page == 0 {
			q.Page = constant.DefaultValuePage
		}

		if q.Limit == 0 {
			q.Limit = constant.DefaultValueLimit
		}
	}
}

// RestrictSort drops a sort column that is not in allowed. SortBy is
// interpolated into ORDER BY, so it must never reach the query unchecked.
func (q *QueryParams) RestrictSort(allowed ...string) {
	if !slices.Contains(allowed, q.SortBy) {
		q.SortBy = constant.Empty
		q.SortDir = constant.Empty
	}
}
