package model

import "time"

const (
	AuditTableName  = "payment_audits"
	AuditEntityName = "payment audit"

	FieldID        = "id"
	FieldBookingID = "booking_id"
	FieldCreatedAt = "created_at"
)

type AuditEvent string

const (
	AuditInitiated          AuditEvent = "payment_initiated"
	AuditAuthorized         AuditEvent = "payment_authorized"
	AuditCancelled          AuditEvent = "payment_cancelled"
	AuditFailed             AuditEvent = "payment_failed"
	AuditConfirmed          AuditEvent = "booking_confirmed"
	AuditConfirmationFailed AuditEvent = "booking_confirmation_failed"
)

// Audit is one append-only row of the payment trail. Rows are never updated.
type Audit struct {
	ID               string     `db:"id"`
	BookingID        string     `db:"booking_id"`
	Event            AuditEvent `db:"event"`
	Amount           int64      `db:"amount"`
	Currency         string     `db:"currency"`
	IntentID         string     `db:"intent_id"`
	PaymentReference string     `db:"payment_reference"`
	Detail           string     `db:"detail"`
	Actor            string     `db:"actor"`
	CreatedAt        time.Time  `db:"created_at"`
}

// Outcome mirrors the gateway's resolution of an authorization flow.
type Outcome string

const (
	OutcomeAuthorized Outcome = "authorized"
	OutcomeCancelled  Outcome = "cancelled"
	OutcomeFailed     Outcome = "failed"
)

// Result is what a payment attempt resolved to. Cancelled and failed
// attempts are results, not errors: the booking stays payable.
type Result struct {
	Success          bool
	PaymentReference string
	Status           Outcome
	Reason           string
}

// Attempt is the in-flight state of one payment. It lives only for the
// duration of the call that owns the booking's payment lock.
type Attempt struct {
	ID        string
	BookingID string
	IntentID  string
	Amount    int64
	Currency  string
}

type Receipt struct {
	BookingID        string    `json:"booking_id"`
	UserID           string    `json:"user_id"`
	PackageTitle     string    `json:"package_title"`
	Destination      string    `json:"destination"`
	Amount           int64     `json:"amount"`
	Currency         string    `json:"currency"`
	PaymentReference string    `json:"payment_reference"`
	ConfirmedAt      time.Time `json:"confirmed_at"`
}
