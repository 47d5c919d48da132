package event

import (
	"context"
	"voyage/config"
	"voyage/infras/kafka"
	"voyage/infras/otel"
	"voyage/internal/domains/booking/model"
	"voyage/internal/domains/booking/service"
	"voyage/shared/constant"

	"github.com/rs/zerolog/log"
)

const defaultLifecycleTopic = "booking.lifecycle"

type publisher struct {
	client kafka.Client
	topic  string
	otel   otel.Otel
}

// NewPublisher sends lifecycle events keyed by booking id, so every event of
// one booking lands on the same partition. Consumers order them by revision.
func NewPublisher(client kafka.Client, cfg *config.Config, otel otel.Otel) service.EventPublisher {
	topic := cfg.Kafka.Topics.BookingLifecycle
	if topic == constant.Empty {
		topic = defaultLifecycleTopic
	}

	return &publisher{
		client: client,
		topic:  topic,
		otel:   otel,
	}
}

func (p *publisher) Publish(ctx context.Context, event model.LifecycleEvent) {
	go func() {
		c, scope := p.otel.NewScope(context.WithoutCancel(ctx), constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
		defer scope.End()

		scope.SetAttribute(constant.OtelBookingIDAttributeKey, event.BookingID)

		err := p.client.SendMessages(c, p.topic, kafka.Message{Key: event.BookingID, Value: event})
		if err != nil {
			scope.TraceError(err)
			log.Error().
				Err(err).
				Str("booking_id", event.BookingID).
				Str("type", string(event.Type)).
				Int64("revision", event.Revision).
				Msg("failed to publish booking event")
		}
	}()
}
