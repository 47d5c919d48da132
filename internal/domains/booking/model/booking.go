package model

import (
	"fmt"
	"strings"
	"time"
	"voyage/shared/failure"
)

const (
	// AdultMinAge is the minimum age of a traveler booked as an adult.
	AdultMinAge = 12
	// PassportMinLength mirrors the passport tag of the request validator.
	PassportMinLength = 6
)

type TravelerType string

const (
	TravelerAdult  TravelerType = "adult"
	TravelerChild  TravelerType = "child"
	TravelerInfant TravelerType = "infant"
)

type Traveler struct {
	ID             string       `bson:"id" json:"id"`
	Name           string       `bson:"name" json:"name"`
	Age            int          `bson:"age" json:"age"`
	Type           TravelerType `bson:"type" json:"type"`
	PassportNumber string       `bson:"passport_number" json:"passport_number"`
}

type StatusHistoryEntry struct {
	Status Status    `bson:"status" json:"status"`
	Date   time.Time `bson:"date" json:"date"`
	Note   string    `bson:"note,omitempty" json:"note,omitempty"`
}

type WorkTrip struct {
	CompanyName string `bson:"company_name" json:"company_name"`
	TaxID       string `bson:"tax_id,omitempty" json:"tax_id,omitempty"`
}

// Booking is the persisted reservation. Amounts are in minor currency units.
type Booking struct {
	ID            string               `bson:"_id"`
	UserID        string               `bson:"user_id"`
	PackageID     string               `bson:"package_id"`
	PackageTitle  string               `bson:"package_title"`
	Destination   string               `bson:"destination"`
	Currency      string               `bson:"currency"`
	TotalPrice    int64                `bson:"total_price"`
	DepartureDate time.Time            `bson:"departure_date"`
	ReturnDate    *time.Time           `bson:"return_date,omitempty"`
	AdultsCount   int                  `bson:"adults_count"`
	ChildrenCount int                  `bson:"children_count"`
	InfantsCount  int                  `bson:"infants_count"`
	Travelers     []Traveler           `bson:"travelers"`
	Addons        []string             `bson:"addons"`
	WorkTrip      *WorkTrip            `bson:"work_trip,omitempty"`
	Status        Status               `bson:"status"`
	PaymentStatus PaymentStatus        `bson:"payment_status"`
	PaymentID     string               `bson:"payment_id,omitempty"`
	StatusHistory []StatusHistoryEntry `bson:"status_history"`
	Revision      int64                `bson:"revision"`
	CreatedAt     time.Time            `bson:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at"`
}

// Transition is a validated change to apply to a booking at a known revision.
// A nil Entry changes payment bookkeeping only and leaves the history untouched.
type Transition struct {
	From          Status
	To            Status
	PaymentStatus PaymentStatus
	PaymentID     string
	Entry         *StatusHistoryEntry
}

func (b Booking) TravelerCount() int {
	return b.AdultsCount + b.ChildrenCount + b.InfantsCount
}

func (b Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentPaid
}

// IsConfirmedWith reports whether the booking already records paymentReference as its confirmed payment.
func (b Booking) IsConfirmedWith(paymentReference string) bool {
	return b.PaymentID != "" && b.PaymentID == paymentReference && b.PaymentStatus == PaymentPaid
}

// ConfirmPayment moves a pending booking to processing and records the payment reference.
func (b Booking) ConfirmPayment(paymentReference string, at time.Time) (Transition, error) {
	if strings.TrimSpace(paymentReference) == "" {
		return Transition{}, failure.Validation("payment reference is required")
	}

	if b.Status != StatusPendingPayment {
		return Transition{}, failure.InvalidState(fmt.Sprintf("booking in status %s cannot accept a payment", b.Status))
	}

	return b.transition(StatusProcessing, PaymentPaid, paymentReference, "Payment confirmed", at)
}

// Cancel resolves to refunded for paid bookings and cancelled otherwise.
// A reason is mandatory once the booking has been paid.
func (b Booking) Cancel(reason string, at time.Time) (Transition, error) {
	if !b.Status.CanBeCancelled() {
		return Transition{}, failure.InvalidState(fmt.Sprintf("booking in status %s cannot be cancelled", b.Status))
	}

	reason = strings.TrimSpace(reason)
	if b.Status != StatusPendingPayment && reason == "" {
		return Transition{}, failure.Validation("cancellation reason is required")
	}

	note := "Cancelled"
	if reason != "" {
		note = "Cancelled: " + reason
	}

	if b.IsPaid() {
		return b.transition(StatusRefunded, PaymentPaid, b.PaymentID, note, at)
	}

	return b.transition(StatusCancelled, b.PaymentStatus, b.PaymentID, note, at)
}

// Advance applies a fulfillment event coming from the operations side.
func (b Booking) Advance(event FulfillmentEvent, note string, at time.Time) (Transition, error) {
	if event == EventFail {
		if b.Status.IsTerminal() {
			return Transition{}, failure.InvalidState(fmt.Sprintf("booking in status %s cannot fail", b.Status))
		}

		if b.IsPaid() {
			return b.transition(StatusRefunded, PaymentPaid, b.PaymentID, withDefault(note, "Failed"), at)
		}

		return b.transition(StatusFailed, PaymentFailed, b.PaymentID, withDefault(note, "Failed"), at)
	}

	step, exists := fulfillmentSteps[event]
	if !exists {
		return Transition{}, failure.Validation(fmt.Sprintf("unknown fulfillment event %q", event))
	}

	if b.Status != step.from {
		return Transition{}, failure.InvalidState(fmt.Sprintf("event %s is not valid for booking in status %s", event, b.Status))
	}

	return b.transition(step.to, b.PaymentStatus, b.PaymentID, withDefault(note, step.note), at)
}

// SettleRefund marks the money of a refunded booking as returned. The status does not change.
func (b Booking) SettleRefund() (Transition, error) {
	if b.Status != StatusRefunded {
		return Transition{}, failure.InvalidState(fmt.Sprintf("booking in status %s has no refund to settle", b.Status))
	}

	if b.PaymentStatus == PaymentRefunded {
		return Transition{}, failure.InvalidState("refund already settled")
	}

	return Transition{
		From:          b.Status,
		To:            b.Status,
		PaymentStatus: PaymentRefunded,
		PaymentID:     b.PaymentID,
	}, nil
}

func (b Booking) transition(to Status, paymentStatus PaymentStatus, paymentID, note string, at time.Time) (Transition, error) {
	if !b.Status.CanTransitionTo(to) {
		return Transition{}, failure.InvalidState(fmt.Sprintf("transition from %s to %s is not allowed", b.Status, to))
	}

	return Transition{
		From:          b.Status,
		To:            to,
		PaymentStatus: paymentStatus,
		PaymentID:     paymentID,
		Entry:         &StatusHistoryEntry{Status: to, Date: at, Note: note},
	}, nil
}

// Apply returns a copy of b with t applied, as the store would persist it.
func (b Booking) Apply(t Transition, at time.Time) Booking {
	next := b
	next.Status = t.To
	next.PaymentStatus = t.PaymentStatus
	next.PaymentID = t.PaymentID
	next.UpdatedAt = at
	next.Revision = b.Revision + 1

	next.StatusHistory = append([]StatusHistoryEntry(nil), b.StatusHistory...)
	if t.Entry != nil {
		next.StatusHistory = append(next.StatusHistory, *t.Entry)
	}

	return next
}

func withDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}
