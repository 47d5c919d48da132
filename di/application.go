package di

import (
	"voyage/internal/domains/booking/event"
	"voyage/transport/http"
)

// Application is everything cmd/app runs: the HTTP server and the
// fulfillment consumer feeding booking status changes from Kafka.
type Application struct {
	HTTP     *http.HTTP
	Consumer *event.FulfillmentConsumer
}
