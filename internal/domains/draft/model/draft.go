package model

import (
	"strings"
	"time"
	bookingModel "voyage/internal/domains/booking/model"
	"voyage/internal/domains/booking/model/dto"
	"voyage/shared/failure"
)

// DefaultAdults seeds a draft when the search carried no party.
const DefaultAdults = 1

type PackageSnapshot struct {
	ID          string
	Title       string
	Destination string
	Price       int64
	Currency    string
}

// SearchContext is what the customer searched with before picking a package.
type SearchContext struct {
	Adults        int
	Children      int
	Infants       int
	DepartureDate string
	ReturnDate    string
}

// Draft is the wizard state of a booking in progress. Every setter returns a
// new value and leaves the receiver untouched.
type Draft struct {
	UserID         string                  `json:"user_id"`
	PackageID      string                  `json:"package_id"`
	PackageTitle   string                  `json:"package_title"`
	Destination    string                  `json:"destination"`
	PackagePrice   int64                   `json:"package_price"`
	Currency       string                  `json:"currency"`
	DepartureDate  string                  `json:"departure_date"`
	ReturnDate     string                  `json:"return_date"`
	AdultsCount    int                     `json:"adults_count"`
	ChildrenCount  int                     `json:"children_count"`
	InfantsCount   int                     `json:"infants_count"`
	Travelers      []bookingModel.Traveler `json:"travelers"`
	SelectedAddons []string                `json:"selected_addons"`
	IsWorkTrip     bool                    `json:"is_work_trip"`
	CompanyName    string                  `json:"company_name"`
	TaxID          string                  `json:"tax_id"`
	CurrentStep    int                     `json:"current_step"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

func InitDraft(pkg PackageSnapshot, search *SearchContext) Draft {
	draft := Draft{
		PackageID:      pkg.ID,
		PackageTitle:   pkg.Title,
		Destination:    pkg.Destination,
		PackagePrice:   pkg.Price,
		Currency:       pkg.Currency,
		AdultsCount:    DefaultAdults,
		Travelers:      []bookingModel.Traveler{},
		SelectedAddons: []string{},
	}

	if search == nil {
		return draft
	}

	if search.Adults > 0 {
		draft.AdultsCount = search.Adults
	}

	draft.ChildrenCount = max(search.Children, 0)
	draft.InfantsCount = max(search.Infants, 0)
	draft.DepartureDate = search.DepartureDate
	draft.ReturnDate = search.ReturnDate

	return draft
}

func (d Draft) clone() Draft {
	next := d
	next.Travelers = append([]bookingModel.Traveler{}, d.Travelers...)
	next.SelectedAddons = append([]string{}, d.SelectedAddons...)

	return next
}

func (d Draft) SetDates(departure, ret string) Draft {
	next := d.clone()
	next.DepartureDate = departure
	next.ReturnDate = ret

	return next
}

func (d Draft) SetParty(adults, children, infants int) Draft {
	next := d.clone()
	next.AdultsCount = adults
	next.ChildrenCount = children
	next.InfantsCount = infants

	return next
}

// SetTravelers replaces the traveler list. Completeness is checked on submission.
func (d Draft) SetTravelers(travelers []bookingModel.Traveler) Draft {
	next := d.clone()
	next.Travelers = append([]bookingModel.Traveler{}, travelers...)

	return next
}

func (d Draft) SetAddons(addons []string) Draft {
	next := d.clone()
	next.SelectedAddons = append([]string{}, addons...)

	return next
}

func (d Draft) SetWorkTrip(isWorkTrip bool, companyName, taxID string) Draft {
	next := d.clone()
	next.IsWorkTrip = isWorkTrip
	next.CompanyName = companyName
	next.TaxID = taxID

	if !isWorkTrip {
		next.CompanyName = ""
		next.TaxID = ""
	}

	return next
}

func (d Draft) SetStep(step int) Draft {
	next := d.clone()
	next.CurrentStep = step

	return next
}

func (d Draft) PartySize() int {
	return d.AdultsCount + d.ChildrenCount + d.InfantsCount
}

// EstimatedTotal is the package price times the party size. The booking
// service recomputes it from the catalog on submission.
func (d Draft) EstimatedTotal() int64 {
	return d.PackagePrice * int64(d.PartySize())
}

// MissingFields lists what still blocks ToBookingPayload.
func (d Draft) MissingFields() []string {
	missing := []string{}

	if strings.TrimSpace(d.PackageID) == "" {
		missing = append(missing, "package_id")
	}

	if strings.TrimSpace(d.DepartureDate) == "" {
		missing = append(missing, "departure_date")
	}

	if d.AdultsCount < 1 {
		missing = append(missing, "adults_count")
	}

	if len(d.Travelers) == 0 {
		missing = append(missing, "travelers")
	}

	if d.IsWorkTrip && strings.TrimSpace(d.CompanyName) == "" {
		missing = append(missing, "company_name")
	}

	return missing
}

// ToBookingPayload converts the draft into a create request. The traveler
// invariant itself is enforced by the booking service.
func (d Draft) ToBookingPayload() (dto.CreateBookingRequest, error) {
	if missing := d.MissingFields(); len(missing) > 0 {
		return dto.CreateBookingRequest{}, failure.Validation("draft is incomplete, missing: " + strings.Join(missing, ", "))
	}

	travelers := make([]dto.TravelerRequest, len(d.Travelers))
	for i, traveler := range d.Travelers {
		travelers[i] = dto.TravelerRequest{
			ID:             traveler.ID,
			Name:           traveler.Name,
			Age:            traveler.Age,
			Type:           string(traveler.Type),
			PassportNumber: traveler.PassportNumber,
		}
	}

	return dto.CreateBookingRequest{
		PackageID:     d.PackageID,
		DepartureDate: d.DepartureDate,
		ReturnDate:    d.ReturnDate,
		AdultsCount:   d.AdultsCount,
		ChildrenCount: d.ChildrenCount,
		InfantsCount:  d.InfantsCount,
		Travelers:     travelers,
		Addons:        append([]string{}, d.SelectedAddons...),
		IsWorkTrip:    d.IsWorkTrip,
		CompanyName:   d.CompanyName,
		TaxID:         d.TaxID,
	}, nil
}
