package model

import "slices"

type Status string

const (
	StatusPendingPayment Status = "pending_payment"
	StatusProcessing     Status = "processing"
	StatusVisaSubmitted  Status = "visa_submitted"
	StatusVisaApproved   Status = "visa_approved"
	StatusReadyToFly     Status = "ready_to_fly"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
	StatusRefunded       Status = "refunded"
	StatusFailed         Status = "failed"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

// validTransitions is the complete lifecycle graph. Any edge missing here is rejected.
var validTransitions = map[Status][]Status{
	StatusPendingPayment: {StatusProcessing, StatusCancelled, StatusFailed},
	StatusProcessing:     {StatusVisaSubmitted, StatusCancelled, StatusRefunded},
	StatusVisaSubmitted:  {StatusVisaApproved, StatusCancelled, StatusRefunded},
	StatusVisaApproved:   {StatusReadyToFly, StatusCancelled, StatusRefunded},
	StatusReadyToFly:     {StatusCompleted, StatusRefunded},
	StatusCompleted:      {},
	StatusCancelled:      {},
	StatusRefunded:       {},
	StatusFailed:         {},
}

var cancellable = []Status{StatusPendingPayment, StatusProcessing, StatusVisaSubmitted, StatusVisaApproved}

// paidStatuses are the only statuses a booking with PaymentPaid may be in.
var paidStatuses = []Status{
	StatusProcessing, StatusVisaSubmitted, StatusVisaApproved,
	StatusReadyToFly, StatusCompleted, StatusRefunded,
}

func (s Status) IsValid() bool {
	_, exists := validTransitions[s]

	return exists
}

func (s Status) CanTransitionTo(target Status) bool {
	return slices.Contains(validTransitions[s], target)
}

// IsTerminal reports whether no further transition is possible from s.
func (s Status) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

func (s Status) CanBeCancelled() bool {
	return slices.Contains(cancellable, s)
}

func (s Status) String() string {
	return string(s)
}

// AllowsPaid reports whether a paid booking may sit in status s.
func (s Status) AllowsPaid() bool {
	return slices.Contains(paidStatuses, s)
}
