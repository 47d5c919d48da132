package mongo

import (
	"context"
	"time"
	"voyage/config"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connection is the document store holding booking records.
type Connection struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func New(config *config.Config) *Connection {
	cfg := config.DB.Mongo
	timeout := time.Duration(cfg.ConnectTimeoutSeconds) * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}

	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping MongoDB")
	}

	log.Info().Str("database", cfg.Database).Msg("Connected to MongoDB")

	return &Connection{
		Client:   client,
		Database: client.Database(cfg.Database),
	}
}

// WithTimeout bounds ctx by timeout unless it already carries an earlier
// deadline. Session contexts are returned unchanged so transactions keep working.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}

	return context.WithTimeout(ctx, timeout)
}
