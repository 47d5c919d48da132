package model

const (
	EntityName = "booking"

	FieldID            = "_id"
	FieldUserID        = "user_id"
	FieldStatus        = "status"
	FieldPaymentStatus = "payment_status"
	FieldPaymentID     = "payment_id"
	FieldStatusHistory = "status_history"
	FieldRevision      = "revision"
	FieldCreatedAt     = "created_at"
	FieldUpdatedAt     = "updated_at"
)
