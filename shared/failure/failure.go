package failure

import (
	"errors"
	"net/http"
)

// Kind classifies a Failure independently of its HTTP code so callers can branch on it.
type Kind string

const (
	KindValidation             Kind = "validation_error"
	KindPackageUnavailable     Kind = "package_unavailable"
	KindNotFound               Kind = "not_found"
	KindInvalidState           Kind = "invalid_state"
	KindAlreadyInProgress      Kind = "already_in_progress"
	KindAuthorizedNotConfirmed Kind = "payment_authorized_not_confirmed"
	KindUnauthorized           Kind = "unauthorized"
	KindForbidden              Kind = "forbidden"
	KindConflict               Kind = "conflict"
	KindInternal               Kind = "internal"
)

const (
	DetailPaymentReference = "payment_reference"
	DetailBookingID        = "booking_id"
	DetailAction           = "action"
)

const contactSupportAction = "contact_support"

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int            `json:"code"`
	Kind    Kind           `json:"kind,omitempty"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	cause   error
}

var ForbiddenError = &Failure{Code: http.StatusForbidden, Kind: KindForbidden, Message: "You don't have the required permissions"}
var ResourceRestrictedError = &Failure{Code: http.StatusForbidden, Kind: KindForbidden, Message: "You don't have permission to access this resource"}

// Error returns the error message.
func (e *Failure) Error() string {
	return e.Message
}

func (e *Failure) Unwrap() error {
	return e.cause
}

// BadRequest returns a new validation Failure with the message of err.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Kind:    KindValidation,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new validation Failure with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindValidation,
		Message: msg,
	}
}

// Validation is an alias of BadRequestFromString used by domain code.
func Validation(msg string) error {
	return BadRequestFromString(msg)
}

// PackageUnavailable is returned when a booking references an inactive or unknown package.
func PackageUnavailable(packageID string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindPackageUnavailable,
		Message: "package " + packageID + " is not available",
	}
}

func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		Kind:    KindUnauthorized,
		Message: msg,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Kind:    KindInternal,
			Message: err.Error(),
			cause:   err,
		}
	}

	return nil
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: entityName,
	}
}

// InvalidState is returned when a transition is absent from the booking state table.
func InvalidState(msg string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindInvalidState,
		Message: msg,
	}
}

func AlreadyInProgress(msg string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindAlreadyInProgress,
		Message: msg,
	}
}

// AuthorizedNotConfirmed means money moved at the gateway but the booking was not updated.
// The response must send the customer to support with the reference and never suggest a retry.
func AuthorizedNotConfirmed(bookingID, paymentReference string, cause error) error {
	return &Failure{
		Code:    http.StatusBadGateway,
		Kind:    KindAuthorizedNotConfirmed,
		Message: "payment was authorized but the booking could not be confirmed, please contact support with your payment reference",
		Details: map[string]any{
			DetailBookingID:        bookingID,
			DetailPaymentReference: paymentReference,
			DetailAction:           contactSupportAction,
		},
		cause: cause,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindConflict,
		Message: message,
	}
}

func Forbidden(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Kind:    KindForbidden,
		Message: msg,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind returns the Kind of the first Failure in the chain, or KindInternal.
func GetKind(err error) Kind {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Kind
	}

	return KindInternal
}

func GetDetails(err error) map[string]any {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Details
	}

	return nil
}

func IsKind(err error, kind Kind) bool {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Kind == kind
	}

	return false
}

// IsTransient reports whether err came from infrastructure rather than a domain rule.
// Only transient errors are worth retrying.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var fail *Failure
	if !errors.As(err, &fail) {
		return true
	}

	return fail.Kind == KindInternal
}
