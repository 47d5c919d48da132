package payment_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"voyage/infras/otel/mocks"
	"voyage/internal/domains/payment/model"
	"voyage/internal/domains/payment/model/dto"
	serviceMocks "voyage/internal/domains/payment/service/mocks"
	"voyage/internal/handlers/payment"
	"voyage/shared/failure"
)

type body struct {
	Data *struct {
		Success          bool   `json:"success"`
		Status           string `json:"status"`
		PaymentReference string `json:"payment_reference"`
		Reason           string `json:"reason"`
	} `json:"data"`
	Error   string         `json:"error"`
	Kind    string         `json:"kind"`
	Details map[string]any `json:"details"`
}

func newRouter(h payment.Handler) http.Handler {
	r := chi.NewRouter()

	r.Route("/v1", func(v1 chi.Router) {
		v1.Route("/bookings", h.Router)
		v1.Route("/admin/bookings/{id}", h.AdminRouter)
	})

	return r
}

func TestHandler_StartPayment(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		setupMock func(m *serviceMocks.MockPayment)
		wantCode  int
		check     func(t *testing.T, res body)
	}{
		{
			name:    "authorized and confirmed",
			payload: `{"amount":250000}`,
			setupMock: func(m *serviceMocks.MockPayment) {
				m.EXPECT().
					StartPayment(gomock.Any(), "bk-1", int64(250000)).
					Return(model.Result{Success: true, Status: model.OutcomeAuthorized, PaymentReference: "pi_123"}, nil)
			},
			wantCode: http.StatusOK,
			check: func(t *testing.T, res body) {
				require.NotNil(t, res.Data)
				assert.True(t, res.Data.Success)
				assert.Equal(t, "pi_123", res.Data.PaymentReference)
			},
		},
		{
			name:    "cancelled by the customer is not an error",
			payload: `{"amount":250000}`,
			setupMock: func(m *serviceMocks.MockPayment) {
				m.EXPECT().
					StartPayment(gomock.Any(), "bk-1", int64(250000)).
					Return(model.Result{Status: model.OutcomeCancelled, Reason: "authorization cancelled"}, nil)
			},
			wantCode: http.StatusOK,
			check: func(t *testing.T, res body) {
				require.NotNil(t, res.Data)
				assert.False(t, res.Data.Success)
				assert.Equal(t, string(model.OutcomeCancelled), res.Data.Status)
			},
		},
		{
			name:    "authorized but not confirmed points to support",
			payload: `{"amount":250000}`,
			setupMock: func(m *serviceMocks.MockPayment) {
				m.EXPECT().
					StartPayment(gomock.Any(), "bk-1", int64(250000)).
					Return(
						model.Result{Status: model.OutcomeAuthorized, PaymentReference: "pi_123"},
						failure.AuthorizedNotConfirmed("bk-1", "pi_123", errors.New("mongo timeout")),
					)
			},
			wantCode: http.StatusBadGateway,
			check: func(t *testing.T, res body) {
				assert.Equal(t, string(failure.KindAuthorizedNotConfirmed), res.Kind)
				assert.Equal(t, "pi_123", res.Details[failure.DetailPaymentReference])
				assert.Equal(t, "contact_support", res.Details[failure.DetailAction])
				assert.NotContains(t, res.Error, "mongo")
			},
		},
		{
			name:    "second attempt while one is running",
			payload: `{"amount":250000}`,
			setupMock: func(m *serviceMocks.MockPayment) {
				m.EXPECT().
					StartPayment(gomock.Any(), "bk-1", int64(250000)).
					Return(model.Result{}, failure.AlreadyInProgress("a payment for this booking is already in progress"))
			},
			wantCode: http.StatusConflict,
			check: func(t *testing.T, res body) {
				assert.Equal(t, string(failure.KindAlreadyInProgress), res.Kind)
			},
		},
		{
			name:      "non positive amount never reaches the service",
			payload:   `{"amount":0}`,
			setupMock: func(_ *serviceMocks.MockPayment) {},
			wantCode:  http.StatusBadRequest,
			check: func(t *testing.T, res body) {
				assert.Equal(t, string(failure.KindValidation), res.Kind)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			svc := serviceMocks.NewMockPayment(ctrl)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/v1/bookings/bk-1/payments", strings.NewReader(tt.payload))
			rec := httptest.NewRecorder()

			newRouter(payment.New(svc, mocks.NewOtel())).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)

			res := body{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			tt.check(t, res)
		})
	}
}

func TestHandler_GetAudits(t *testing.T) {
	ctrl := gomock.NewController(t)

	svc := serviceMocks.NewMockPayment(ctrl)
	svc.EXPECT().
		GetAudits(gomock.Any(), "bk-1").
		Return(dto.GetAuditsResponse{Audits: []dto.AuditResponse{
			{ID: "a-1", BookingID: "bk-1", Event: string(model.AuditInitiated)},
			{ID: "a-2", BookingID: "bk-1", Event: string(model.AuditAuthorized)},
		}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/bookings/bk-1/payment-audits", nil)
	rec := httptest.NewRecorder()

	newRouter(payment.New(svc, mocks.NewOtel())).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"event":"payment_initiated"`)
	assert.Contains(t, rec.Body.String(), `"event":"payment_authorized"`)
}

func TestHandler_StartPayment_TracesFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	svc := serviceMocks.NewMockPayment(ctrl)
	svc.EXPECT().
		StartPayment(gomock.Any(), "bk-1", int64(250000)).
		Return(model.Result{}, failure.AlreadyInProgress("a payment for this booking is already in progress"))

	recorder := mocks.NewRecorder()

	req := httptest.NewRequest(http.MethodPost, "/v1/bookings/bk-1/payments", strings.NewReader(`{"amount":250000}`))
	rec := httptest.NewRecorder()

	newRouter(payment.New(svc, recorder)).ServeHTTP(rec, req)

	span := recorder.Span("handler.StartPayment")
	require.NotNil(t, span)
	assert.True(t, span.Ended)
	assert.Equal(t, "bk-1", span.Attributes["booking.id"])
	require.Len(t, span.Errors, 1)
	assert.True(t, failure.IsKind(span.Errors[0], failure.KindAlreadyInProgress))
}
