package dto

import (
	"voyage/internal/domains/catalog/model"
	"voyage/shared"
	gDto "voyage/shared/dto"
)

type PackageResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Destination  string `json:"destination"`
	Description  string `json:"description"`
	Price        int64  `json:"price"`
	Currency     string `json:"currency"`
	DurationDays int    `json:"duration_days"`
	Active       bool   `json:"active"`
	gDto.Metadata
}

func (r *PackageResponse) FromModel(pkg model.Package) {
	r.ID = pkg.ID
	r.Title = pkg.Title
	r.Destination = pkg.Destination
	r.Description = pkg.Description
	r.Price = pkg.Price
	r.Currency = pkg.Currency
	r.DurationDays = pkg.DurationDays
	r.Active = pkg.Active
	r.Metadata.FromModel(pkg.Metadata)
}

type GetPackagesResponse struct {
	Packages  []PackageResponse `json:"packages"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetPackagesResponse) FromModels(models []model.Package, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Packages = make([]PackageResponse, len(models))
	for i, mod := range models {
		r.Packages[i].FromModel(mod)
	}
}
