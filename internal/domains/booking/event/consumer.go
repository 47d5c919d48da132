package event

import (
	"context"
	"fmt"
	"time"
	"voyage/config"
	"voyage/infras/kafka"
	"voyage/infras/otel"
	"voyage/internal/domains/booking/model"
	"voyage/internal/domains/booking/service"
	"voyage/shared/constant"
	"voyage/shared/failure"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

const (
	ActionAdvance      = "advance"
	ActionSettleRefund = "settle_refund"

	defaultFulfillmentTopic = "booking.fulfillment"
	handleAttempts          = 3
	defaultRetryDelay       = 500 * time.Millisecond
)

// FulfillmentMessage is produced by the operations side when a booking moves
// through visa and travel preparation, or when a refund has been paid out.
type FulfillmentMessage struct {
	BookingID string                 `json:"booking_id"`
	Action    string                 `json:"action"`
	Event     model.FulfillmentEvent `json:"event,omitempty"`
	Note      string                 `json:"note,omitempty"`
}

type FulfillmentConsumer struct {
	client     kafka.Client
	bookings   service.Booking
	group      string
	topic      string
	retryDelay time.Duration
	otel       otel.Otel
}

func NewFulfillmentConsumer(client kafka.Client, bookings service.Booking, cfg *config.Config, otel otel.Otel) *FulfillmentConsumer {
	topic := cfg.Kafka.Topics.BookingFulfillment
	if topic == constant.Empty {
		topic = defaultFulfillmentTopic
	}

	return &FulfillmentConsumer{
		client:     client,
		bookings:   bookings,
		group:      cfg.Kafka.ConsumerGroup,
		topic:      topic,
		retryDelay: defaultRetryDelay,
		otel:       otel,
	}
}

// Run blocks until ctx is cancelled.
func (c *FulfillmentConsumer) Run(ctx context.Context) {
	log.Info().Str("topic", c.topic).Msg("starting fulfillment consumer")

	c.client.Consume(ctx, c.group, c.topic, c.Handle)

	log.Info().Str("topic", c.topic).Msg("fulfillment consumer stopped")
}

// Handle applies one message. Malformed messages and rule violations are
// logged and skipped. Infrastructure errors are retried a few times and then
// returned, which leaves the message uncommitted for redelivery.
func (c *FulfillmentConsumer) Handle(ctx context.Context, msg kafkaGo.Message) (err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".HandleFulfillment")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	payload, err := kafka.Decode[FulfillmentMessage](msg)
	if err != nil {
		// a malformed message can never be applied, so it is skipped
		log.Error().Err(err).Str("key", string(msg.Key)).Int64("offset", msg.Offset).Msg("dropping undecodable fulfillment message")

		return nil
	}

	scope.SetAttribute(constant.OtelBookingIDAttributeKey, payload.BookingID)

	ctx = context.WithValue(ctx, constant.ContextKeyUserID, constant.RoleSystem)
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleSystem)

	for attempt := 1; attempt <= handleAttempts; attempt++ {
		err = c.apply(ctx, payload)
		if err == nil || !failure.IsTransient(err) {
			break
		}

		log.Warn().Err(err).Str("booking_id", payload.BookingID).Int("attempt", attempt).Msg("fulfillment update failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryDelay * time.Duration(attempt)):
		}
	}

	if err != nil && !failure.IsTransient(err) {
		log.Warn().
			Err(err).
			Str("booking_id", payload.BookingID).
			Str("action", payload.Action).
			Str("event", string(payload.Event)).
			Msg("fulfillment message rejected")

		return nil
	}

	return err
}

func (c *FulfillmentConsumer) apply(ctx context.Context, payload FulfillmentMessage) error {
	var (
		booking model.Booking
		err     error
	)

	switch payload.Action {
	case ActionAdvance, constant.Empty:
		booking, err = c.bookings.AdvanceStatus(ctx, payload.BookingID, payload.Event, payload.Note)
	case ActionSettleRefund:
		booking, err = c.bookings.SettleRefund(ctx, payload.BookingID)
	default:
		return failure.Validation(fmt.Sprintf("unknown fulfillment action %q", payload.Action))
	}

	if err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().
		Str("booking_id", booking.ID).
		Str("status", booking.Status.String()).
		Str("payment_status", string(booking.PaymentStatus)).
		Msg("fulfillment update applied")

	return nil
}
