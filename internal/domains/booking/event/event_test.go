package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
	"voyage/config"
	kafkaInfra "voyage/infras/kafka"
	kafkaMocks "voyage/infras/kafka/mocks"
	"voyage/infras/otel/mocks"
	"voyage/internal/domains/booking/model"
	bookingMocks "voyage/internal/domains/booking/service/mocks"
	"voyage/shared/constant"
	"voyage/shared/failure"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func fulfillmentMessage(t *testing.T, payload FulfillmentMessage) kafkaGo.Message {
	t.Helper()

	value, err := json.Marshal(payload)
	require.NoError(t, err)

	return kafkaGo.Message{Key: []byte(payload.BookingID), Value: value}
}

func newConsumer(t *testing.T) (*FulfillmentConsumer, *bookingMocks.MockBooking) {
	t.Helper()

	ctrl := gomock.NewController(t)
	bookings := bookingMocks.NewMockBooking(ctrl)

	consumer := NewFulfillmentConsumer(kafkaMocks.NewMockClient(ctrl), bookings, &config.Config{}, mocks.NewOtel())
	consumer.retryDelay = time.Millisecond

	return consumer, bookings
}

func TestFulfillmentConsumer_Handle(t *testing.T) {
	tests := []struct {
		name      string
		payload   FulfillmentMessage
		setupMock func(bookings *bookingMocks.MockBooking)
		wantErr   bool
	}{
		{
			name:    "advance runs as the system role",
			payload: FulfillmentMessage{BookingID: "b1", Action: ActionAdvance, Event: model.EventVisaSubmitted, Note: "embassy slot 14:00"},
			setupMock: func(bookings *bookingMocks.MockBooking) {
				bookings.EXPECT().
					AdvanceStatus(gomock.Any(), "b1", model.EventVisaSubmitted, "embassy slot 14:00").
					DoAndReturn(func(ctx context.Context, id string, _ model.FulfillmentEvent, _ string) (model.Booking, error) {
						assert.Equal(t, constant.RoleSystem, ctx.Value(constant.ContextKeyUserRole))

						return model.Booking{ID: id, Status: model.StatusVisaSubmitted}, nil
					})
			},
		},
		{
			name:    "settle refund",
			payload: FulfillmentMessage{BookingID: "b1", Action: ActionSettleRefund},
			setupMock: func(bookings *bookingMocks.MockBooking) {
				bookings.EXPECT().
					SettleRefund(gomock.Any(), "b1").
					Return(model.Booking{ID: "b1", Status: model.StatusRefunded, PaymentStatus: model.PaymentRefunded}, nil)
			},
		},
		{
			name:    "rule violation is skipped",
			payload: FulfillmentMessage{BookingID: "b1", Action: ActionAdvance, Event: model.EventCompleted},
			setupMock: func(bookings *bookingMocks.MockBooking) {
				bookings.EXPECT().
					AdvanceStatus(gomock.Any(), "b1", model.EventCompleted, "").
					Return(model.Booking{}, failure.InvalidState("not ready"))
			},
		},
		{
			name:    "transient error is retried",
			payload: FulfillmentMessage{BookingID: "b1", Event: model.EventVisaApproved},
			setupMock: func(bookings *bookingMocks.MockBooking) {
				gomock.InOrder(
					bookings.EXPECT().
						AdvanceStatus(gomock.Any(), "b1", model.EventVisaApproved, "").
						Return(model.Booking{}, errors.New("connection reset")),
					bookings.EXPECT().
						AdvanceStatus(gomock.Any(), "b1", model.EventVisaApproved, "").
						Return(model.Booking{ID: "b1", Status: model.StatusVisaApproved}, nil),
				)
			},
		},
		{
			name:    "transient error exhausts retries",
			payload: FulfillmentMessage{BookingID: "b1", Action: ActionSettleRefund},
			setupMock: func(bookings *bookingMocks.MockBooking) {
				bookings.EXPECT().
					SettleRefund(gomock.Any(), "b1").
					Return(model.Booking{}, errors.New("connection reset")).
					Times(handleAttempts)
			},
			wantErr: true,
		},
		{
			name:      "unknown action",
			payload:   FulfillmentMessage{BookingID: "b1", Action: "teleport"},
			setupMock: func(*bookingMocks.MockBooking) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			consumer, bookings := newConsumer(t)
			tt.setupMock(bookings)

			err := consumer.Handle(context.Background(), fulfillmentMessage(t, tt.payload))

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFulfillmentConsumer_Handle_BadPayload(t *testing.T) {
	consumer, _ := newConsumer(t)

	err := consumer.Handle(context.Background(), kafkaGo.Message{Key: []byte("b1"), Value: []byte("{not json")})

	assert.NoError(t, err)
}

func TestPublisher_Publish(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := kafkaMocks.NewMockClient(ctrl)

	cfg := &config.Config{}
	cfg.Kafka.Topics.BookingLifecycle = "booking.lifecycle.test"

	sent := make(chan kafkaInfra.Message, 1)

	client.EXPECT().
		SendMessages(gomock.Any(), "booking.lifecycle.test", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, messages ...kafkaInfra.Message) error {
			sent <- messages[0]

			return nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	event := model.LifecycleEvent{Type: model.LifecyclePaid, BookingID: "b1", Status: model.StatusProcessing, Revision: 2}
	NewPublisher(client, cfg, mocks.NewOtel()).Publish(ctx, event)

	select {
	case message := <-sent:
		assert.Equal(t, "b1", message.Key)
		assert.Equal(t, event, message.Value)
	case <-time.After(time.Second):
		t.Fatal("event was not published")
	}
}
