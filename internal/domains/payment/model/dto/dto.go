package dto

import (
	"voyage/internal/domains/payment/model"
	"voyage/shared/constant"
)

type StartPaymentRequest struct {
	Amount int64 `json:"amount" validate:"gt=0"`
}

type PaymentResponse struct {
	Success          bool   `json:"success"`
	Status           string `json:"status"`
	PaymentReference string `json:"payment_reference,omitempty"`
	Reason           string `json:"reason,omitempty"`
}

func (r *PaymentResponse) FromModel(result model.Result) {
	r.Success = result.Success
	r.Status = string(result.Status)
	r.PaymentReference = result.PaymentReference
	r.Reason = result.Reason
}

type AuditResponse struct {
	ID               string `json:"id"`
	BookingID        string `json:"booking_id"`
	Event            string `json:"event"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	IntentID         string `json:"intent_id,omitempty"`
	PaymentReference string `json:"payment_reference,omitempty"`
	Detail           string `json:"detail,omitempty"`
	Actor            string `json:"actor"`
	CreatedAt        string `json:"created_at"`
}

func (r *AuditResponse) FromModel(audit model.Audit) {
	r.ID = audit.ID
	r.BookingID = audit.BookingID
	r.Event = string(audit.Event)
	r.Amount = audit.Amount
	r.Currency = audit.Currency
	r.IntentID = audit.IntentID
	r.PaymentReference = audit.PaymentReference
	r.Detail = audit.Detail
	r.Actor = audit.Actor
	r.CreatedAt = audit.CreatedAt.Format(constant.DateFormat)
}

type GetAuditsResponse struct {
	Audits []AuditResponse `json:"audits"`
}

func (r *GetAuditsResponse) FromModels(audits []model.Audit) {
	r.Audits = make([]AuditResponse, len(audits))
	for i, audit := range audits {
		r.Audits[i].FromModel(audit)
	}
}
