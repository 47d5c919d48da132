package dto

import (
	"strings"
	"time"
	"voyage/internal/domains/booking/model"
	"voyage/shared/constant"
	"voyage/shared/failure"

	"github.com/google/uuid"
)

type TravelerRequest struct {
	ID             string `json:"id,omitempty"    validate:"omitempty,max=64"`
	Name           string `json:"name"            validate:"required,notblank,max=100"`
	Age            int    `json:"age"             validate:"gte=0,lte=120"`
	Type           string `json:"type"            validate:"required,oneof=adult child infant"`
	PassportNumber string `json:"passport_number" validate:"required,passport"`
}

func (t TravelerRequest) ToModel() model.Traveler {
	id := t.ID
	if id == "" {
		id = uuid.NewString()
	}

	return model.Traveler{
		ID:             id,
		Name:           strings.TrimSpace(t.Name),
		Age:            t.Age,
		Type:           model.TravelerType(t.Type),
		PassportNumber: strings.ToUpper(strings.TrimSpace(t.PassportNumber)),
	}
}

// CreateBookingRequest is the complete payload produced by a draft or sent directly by a client.
type CreateBookingRequest struct {
	PackageID     string            `json:"package_id"     validate:"required,notblank"`
	DepartureDate string            `json:"departure_date" validate:"required,datetime=2006-01-02"`
	ReturnDate    string            `json:"return_date"    validate:"omitempty,datetime=2006-01-02"`
	AdultsCount   int               `json:"adults_count"   validate:"gte=1"`
	ChildrenCount int               `json:"children_count" validate:"gte=0"`
	InfantsCount  int               `json:"infants_count"  validate:"gte=0"`
	Travelers     []TravelerRequest `json:"travelers"      validate:"required,dive"`
	Addons        []string          `json:"addons"         validate:"omitempty,dive,notblank"`
	IsWorkTrip    bool              `json:"is_work_trip"`
	CompanyName   string            `json:"company_name"   validate:"required_if=IsWorkTrip true,max=200"`
	TaxID         string            `json:"tax_id"         validate:"omitempty,max=50"`
}

// ToModel builds a pending booking owned by userID. Package fields and the total are filled by the caller.
func (c *CreateBookingRequest) ToModel(userID string, now time.Time) (model.Booking, error) {
	departure, err := time.ParseInLocation(constant.DayFormat, c.DepartureDate, now.Location())
	if err != nil {
		return model.Booking{}, failure.Validation("departure_date must match the format " + constant.DayFormat)
	}

	var returnDate *time.Time

	if c.ReturnDate != "" {
		parsed, err := time.ParseInLocation(constant.DayFormat, c.ReturnDate, now.Location())
		if err != nil {
			return model.Booking{}, failure.Validation("return_date must match the format " + constant.DayFormat)
		}

		if parsed.Before(departure) {
			return model.Booking{}, failure.Validation("return_date must not be before departure_date")
		}

		returnDate = &parsed
	}

	travelers := make([]model.Traveler, len(c.Travelers))
	for i, traveler := range c.Travelers {
		travelers[i] = traveler.ToModel()
	}

	if err := model.ValidateParty(c.AdultsCount, c.ChildrenCount, c.InfantsCount, travelers); err != nil {
		return model.Booking{}, err
	}

	var workTrip *model.WorkTrip
	if c.IsWorkTrip {
		workTrip = &model.WorkTrip{CompanyName: strings.TrimSpace(c.CompanyName), TaxID: strings.TrimSpace(c.TaxID)}
	}

	addons := append([]string{}, c.Addons...)

	return model.Booking{
		ID:            uuid.NewString(),
		UserID:        userID,
		PackageID:     c.PackageID,
		DepartureDate: departure,
		ReturnDate:    returnDate,
		AdultsCount:   c.AdultsCount,
		ChildrenCount: c.ChildrenCount,
		InfantsCount:  c.InfantsCount,
		Travelers:     travelers,
		Addons:        addons,
		WorkTrip:      workTrip,
		Status:        model.StatusPendingPayment,
		PaymentStatus: model.PaymentPending,
		StatusHistory: []model.StatusHistoryEntry{
			{Status: model.StatusPendingPayment, Date: now, Note: "Booking created"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type ConfirmPaymentRequest struct {
	PaymentReference string `json:"payment_reference" validate:"required,notblank,max=128"`
}

type AdvanceStatusRequest struct {
	Event string `json:"event" validate:"required,oneof=visa_submitted visa_approved ready_to_fly completed failed"`
	Note  string `json:"note"  validate:"omitempty,max=500"`
}

type TravelerResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Age            int    `json:"age"`
	Type           string `json:"type"`
	PassportNumber string `json:"passport_number"`
}

func (r *TravelerResponse) FromModel(traveler model.Traveler) {
	r.ID = traveler.ID
	r.Name = traveler.Name
	r.Age = traveler.Age
	r.Type = string(traveler.Type)
	r.PassportNumber = traveler.PassportNumber
}

type StatusHistoryResponse struct {
	Status string `json:"status"`
	Date   string `json:"date"`
	Note   string `json:"note,omitempty"`
}

type BookingResponse struct {
	ID            string                  `json:"id"`
	UserID        string                  `json:"user_id"`
	PackageID     string                  `json:"package_id"`
	PackageTitle  string                  `json:"package_title"`
	Destination   string                  `json:"destination"`
	Currency      string                  `json:"currency"`
	TotalPrice    int64                   `json:"total_price"`
	DepartureDate string                  `json:"departure_date"`
	ReturnDate    string                  `json:"return_date,omitempty"`
	AdultsCount   int                     `json:"adults_count"`
	ChildrenCount int                     `json:"children_count"`
	InfantsCount  int                     `json:"infants_count"`
	Travelers     []TravelerResponse      `json:"travelers"`
	Addons        []string                `json:"addons"`
	IsWorkTrip    bool                    `json:"is_work_trip"`
	CompanyName   string                  `json:"company_name,omitempty"`
	TaxID         string                  `json:"tax_id,omitempty"`
	Status        string                  `json:"status"`
	PaymentStatus string                  `json:"payment_status"`
	PaymentID     string                  `json:"payment_id,omitempty"`
	StatusHistory []StatusHistoryResponse `json:"status_history"`
	Revision      int64                   `json:"revision"`
	CreatedAt     string                  `json:"created_at"`
	UpdatedAt     string                  `json:"updated_at"`
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.UserID = booking.UserID
	r.PackageID = booking.PackageID
	r.PackageTitle = booking.PackageTitle
	r.Destination = booking.Destination
	r.Currency = booking.Currency
	r.TotalPrice = booking.TotalPrice
	r.DepartureDate = booking.DepartureDate.Format(constant.DayFormat)
	r.AdultsCount = booking.AdultsCount
	r.ChildrenCount = booking.ChildrenCount
	r.InfantsCount = booking.InfantsCount
	r.Addons = append([]string{}, booking.Addons...)
	r.Status = booking.Status.String()
	r.PaymentStatus = string(booking.PaymentStatus)
	r.PaymentID = booking.PaymentID
	r.Revision = booking.Revision
	r.CreatedAt = booking.CreatedAt.Format(constant.DateFormat)
	r.UpdatedAt = booking.UpdatedAt.Format(constant.DateFormat)

	if booking.ReturnDate != nil {
		r.ReturnDate = booking.ReturnDate.Format(constant.DayFormat)
	}

	if booking.WorkTrip != nil {
		r.IsWorkTrip = true
		r.CompanyName = booking.WorkTrip.CompanyName
		r.TaxID = booking.WorkTrip.TaxID
	}

	r.Travelers = make([]TravelerResponse, len(booking.Travelers))
	for i, traveler := range booking.Travelers {
		r.Travelers[i].FromModel(traveler)
	}

	r.StatusHistory = make([]StatusHistoryResponse, len(booking.StatusHistory))
	for i, entry := range booking.StatusHistory {
		r.StatusHistory[i] = StatusHistoryResponse{
			Status: entry.Status.String(),
			Date:   entry.Date.Format(constant.DateFormat),
			Note:   entry.Note,
		}
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(bookings []model.Booking) {
	r.TotalData = len(bookings)

	r.Bookings = make([]BookingResponse, len(bookings))
	for i, booking := range bookings {
		r.Bookings[i].FromModel(booking)
	}
}

// BookingViewResponse is a listed booking. Reconciling marks a value that is
// still waiting for the server to confirm a mutation.
type BookingViewResponse struct {
	BookingResponse
	Reconciling bool `json:"reconciling"`
}

type GetMyBookingsResponse struct {
	Bookings  []BookingViewResponse `json:"bookings"`
	TotalData int                   `json:"total_data"`
}

func (r *GetMyBookingsResponse) Add(booking model.Booking, reconciling bool) {
	view := BookingViewResponse{Reconciling: reconciling}
	view.FromModel(booking)

	r.Bookings = append(r.Bookings, view)
	r.TotalData = len(r.Bookings)
}
