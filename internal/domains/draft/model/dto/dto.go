package dto

import (
	bookingModel "voyage/internal/domains/booking/model"
	bookingDto "voyage/internal/domains/booking/model/dto"
	"voyage/internal/domains/draft/model"
	"voyage/shared/constant"
)

type InitDraftRequest struct {
	PackageID     string `json:"package_id"     validate:"required,notblank"`
	Adults        int    `json:"adults"         validate:"gte=0,lte=20"`
	Children      int    `json:"children"       validate:"gte=0,lte=20"`
	Infants       int    `json:"infants"        validate:"gte=0,lte=20"`
	DepartureDate string `json:"departure_date" validate:"omitempty,datetime=2006-01-02"`
	ReturnDate    string `json:"return_date"    validate:"omitempty,datetime=2006-01-02"`
}

func (r *InitDraftRequest) SearchContext() *model.SearchContext {
	if r.Adults == 0 && r.Children == 0 && r.Infants == 0 && r.DepartureDate == constant.Empty {
		return nil
	}

	return &model.SearchContext{
		Adults:        r.Adults,
		Children:      r.Children,
		Infants:       r.Infants,
		DepartureDate: r.DepartureDate,
		ReturnDate:    r.ReturnDate,
	}
}

// UpdateDraftRequest is a partial update. Nil fields are left untouched and an
// empty addons array clears the selection.
type UpdateDraftRequest struct {
	DepartureDate *string  `json:"departure_date" validate:"omitempty,datetime=2006-01-02"`
	ReturnDate    *string  `json:"return_date"    validate:"omitempty,datetime=2006-01-02"`
	AdultsCount   *int     `json:"adults_count"   validate:"omitempty,gte=1,lte=20"`
	ChildrenCount *int     `json:"children_count" validate:"omitempty,gte=0,lte=20"`
	InfantsCount  *int     `json:"infants_count"  validate:"omitempty,gte=0,lte=20"`
	Addons        []string `json:"addons"         validate:"omitempty,dive,notblank"`
	IsWorkTrip    *bool    `json:"is_work_trip"`
	CompanyName   *string  `json:"company_name"   validate:"omitempty,max=200"`
	TaxID         *string  `json:"tax_id"         validate:"omitempty,max=50"`
	CurrentStep   *int     `json:"current_step"   validate:"omitempty,gte=0,lte=10"`
}

func (r *UpdateDraftRequest) Apply(draft model.Draft) model.Draft {
	if r.DepartureDate != nil || r.ReturnDate != nil {
		departure, ret := draft.DepartureDate, draft.ReturnDate

		if r.DepartureDate != nil {
			departure = *r.DepartureDate
		}

		if r.ReturnDate != nil {
			ret = *r.ReturnDate
		}

		draft = draft.SetDates(departure, ret)
	}

	if r.AdultsCount != nil || r.ChildrenCount != nil || r.InfantsCount != nil {
		adults, children, infants := draft.AdultsCount, draft.ChildrenCount, draft.InfantsCount

		if r.AdultsCount != nil {
			adults = *r.AdultsCount
		}

		if r.ChildrenCount != nil {
			children = *r.ChildrenCount
		}

		if r.InfantsCount != nil {
			infants = *r.InfantsCount
		}

		draft = draft.SetParty(adults, children, infants)
	}

	if r.Addons != nil {
		draft = draft.SetAddons(r.Addons)
	}

	if r.IsWorkTrip != nil || r.CompanyName != nil || r.TaxID != nil {
		isWorkTrip, companyName, taxID := draft.IsWorkTrip, draft.CompanyName, draft.TaxID

		if r.IsWorkTrip != nil {
			isWorkTrip = *r.IsWorkTrip
		}

		if r.CompanyName != nil {
			companyName = *r.CompanyName
		}

		if r.TaxID != nil {
			taxID = *r.TaxID
		}

		draft = draft.SetWorkTrip(isWorkTrip, companyName, taxID)
	}

	if r.CurrentStep != nil {
		draft = draft.SetStep(*r.CurrentStep)
	}

	return draft
}

// SetTravelersRequest validates every traveler before the list reaches the draft.
type SetTravelersRequest struct {
	Travelers []bookingDto.TravelerRequest `json:"travelers" validate:"required,dive"`
}

func (r *SetTravelersRequest) ToModels() []bookingModel.Traveler {
	travelers := make([]bookingModel.Traveler, len(r.Travelers))
	for i, traveler := range r.Travelers {
		travelers[i] = traveler.ToModel()
	}

	return travelers
}

type DraftResponse struct {
	PackageID      string                        `json:"package_id"`
	PackageTitle   string                        `json:"package_title"`
	Destination    string                        `json:"destination"`
	Currency       string                        `json:"currency"`
	DepartureDate  string                        `json:"departure_date"`
	ReturnDate     string                        `json:"return_date"`
	AdultsCount    int                           `json:"adults_count"`
	ChildrenCount  int                           `json:"children_count"`
	InfantsCount   int                           `json:"infants_count"`
	Travelers      []bookingDto.TravelerResponse `json:"travelers"`
	SelectedAddons []string                      `json:"selected_addons"`
	IsWorkTrip     bool                          `json:"is_work_trip"`
	CompanyName    string                        `json:"company_name,omitempty"`
	TaxID          string                        `json:"tax_id,omitempty"`
	CurrentStep    int                           `json:"current_step"`
	EstimatedTotal int64                         `json:"estimated_total"`
	MissingFields  []string                      `json:"missing_fields"`
	UpdatedAt      string                        `json:"updated_at"`
}

func (r *DraftResponse) FromModel(draft model.Draft) {
	r.PackageID = draft.PackageID
	r.PackageTitle = draft.PackageTitle
	r.Destination = draft.Destination
	r.Currency = draft.Currency
	r.DepartureDate = draft.DepartureDate
	r.ReturnDate = draft.ReturnDate
	r.AdultsCount = draft.AdultsCount
	r.ChildrenCount = draft.ChildrenCount
	r.InfantsCount = draft.InfantsCount
	r.SelectedAddons = append([]string{}, draft.SelectedAddons...)
	r.IsWorkTrip = draft.IsWorkTrip
	r.CompanyName = draft.CompanyName
	r.TaxID = draft.TaxID
	r.CurrentStep = draft.CurrentStep
	r.EstimatedTotal = draft.EstimatedTotal()
	r.MissingFields = draft.MissingFields()

	r.Travelers = make([]bookingDto.TravelerResponse, len(draft.Travelers))
	for i, traveler := range draft.Travelers {
		r.Travelers[i].FromModel(traveler)
	}

	if !draft.UpdatedAt.IsZero() {
		r.UpdatedAt = draft.UpdatedAt.Format(constant.DateFormat)
	}
}
