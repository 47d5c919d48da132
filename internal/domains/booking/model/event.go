package model

import "time"

// FulfillmentEvent drives a paid booking through visa and travel preparation.
type FulfillmentEvent string

const (
	EventVisaSubmitted FulfillmentEvent = "visa_submitted"
	EventVisaApproved  FulfillmentEvent = "visa_approved"
	EventReadyToFly    FulfillmentEvent = "ready_to_fly"
	EventCompleted     FulfillmentEvent = "completed"
	EventFail          FulfillmentEvent = "failed"
)

type fulfillmentStep struct {
	from Status
	to   Status
	note string
}

var fulfillmentSteps = map[FulfillmentEvent]fulfillmentStep{
	EventVisaSubmitted: {from: StatusProcessing, to: StatusVisaSubmitted, note: "Visa application submitted"},
	EventVisaApproved:  {from: StatusVisaSubmitted, to: StatusVisaApproved, note: "Visa approved"},
	EventReadyToFly:    {from: StatusVisaApproved, to: StatusReadyToFly, note: "Ready to fly"},
	EventCompleted:     {from: StatusReadyToFly, to: StatusCompleted, note: "Trip completed"},
}

type LifecycleEventType string

const (
	LifecycleCreated       LifecycleEventType = "booking.created"
	LifecyclePaid          LifecycleEventType = "booking.payment_confirmed"
	LifecycleCancelled     LifecycleEventType = "booking.cancelled"
	LifecycleAdvanced      LifecycleEventType = "booking.status_advanced"
	LifecycleRefundSettled LifecycleEventType = "booking.refund_settled"
)

// LifecycleEvent is published after every committed booking mutation.
type LifecycleEvent struct {
	Type          LifecycleEventType `json:"type"`
	BookingID     string             `json:"booking_id"`
	UserID        string             `json:"user_id"`
	Status        Status             `json:"status"`
	PaymentStatus PaymentStatus      `json:"payment_status"`
	PaymentID     string             `json:"payment_id,omitempty"`
	Revision      int64              `json:"revision"`
	OccurredAt    time.Time          `json:"occurred_at"`
}

func NewLifecycleEvent(eventType LifecycleEventType, booking Booking) LifecycleEvent {
	return LifecycleEvent{
		Type:          eventType,
		BookingID:     booking.ID,
		UserID:        booking.UserID,
		Status:        booking.Status,
		PaymentStatus: booking.PaymentStatus,
		PaymentID:     booking.PaymentID,
		Revision:      booking.Revision,
		OccurredAt:    booking.UpdatedAt,
	}
}
