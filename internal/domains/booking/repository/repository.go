package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"
	"voyage/config"
	"voyage/infras/mongo"
	"voyage/internal/domains/booking/model"

	"go.mongodb.org/mongo-driver/bson"
	goMongo "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound = errors.New("booking not found")
	// ErrStale means the booking changed between read and write; re-read and decide again.
	ErrStale = errors.New("booking was modified concurrently")
)

const (
	defaultCollection   = "bookings"
	defaultReadTimeout  = 5 * time.Second
	defaultWriteTimeout = 5 * time.Second
)

type Booking interface {
	Create(ctx context.Context, booking model.Booking) error
	Get(ctx context.Context, id string) (model.Booking, error)
	GetByUser(ctx context.Context, userID string) ([]model.Booking, error)
	// ApplyTransition persists t only if the stored booking still has current's status and revision.
	ApplyTransition(ctx context.Context, current model.Booking, t model.Transition, at time.Time) (model.Booking, error)
}

type bookingRepository struct {
	collection   *goMongo.Collection
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func New(cfg *config.Config, conn *mongo.Connection) Booking {
	name := cfg.DB.Mongo.BookingCollection
	if name == "" {
		name = defaultCollection
	}

	return newRepository(conn.Database.Collection(name), cfg)
}

func newRepository(collection *goMongo.Collection, cfg *config.Config) *bookingRepository {
	repo := &bookingRepository{
		collection:   collection,
		readTimeout:  time.Duration(cfg.DB.Mongo.ReadTimeoutSeconds) * time.Second,
		writeTimeout: time.Duration(cfg.DB.Mongo.WriteTimeoutSeconds) * time.Second,
	}

	if repo.readTimeout <= 0 {
		repo.readTimeout = defaultReadTimeout
	}

	if repo.writeTimeout <= 0 {
		repo.writeTimeout = defaultWriteTimeout
	}

	return repo
}

func (r *bookingRepository) Create(ctx context.Context, booking model.Booking) error {
	ctx, cancel := mongo.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	return nil
}

func (r *bookingRepository) Get(ctx context.Context, id string) (model.Booking, error) {
	ctx, cancel := mongo.WithTimeout(ctx, r.readTimeout)
	defer cancel()

	var booking model.Booking

	err := r.collection.FindOne(ctx, bson.M{model.FieldID: id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, goMongo.ErrNoDocuments) {
			return model.Booking{}, ErrNotFound
		}

		return model.Booking{}, fmt.Errorf("failed to find booking: %w", err)
	}

	return booking, nil
}

func (r *bookingRepository) GetByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	ctx, cancel := mongo.WithTimeout(ctx, r.readTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: model.FieldCreatedAt, Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{model.FieldUserID: userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []model.Booking{}
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) ApplyTransition(
	ctx context.Context,
	current model.Booking,
	t model.Transition,
	at time.Time,
) (model.Booking, error) {
	ctx, cancel := mongo.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	filter := bson.M{
		model.FieldID:       current.ID,
		model.FieldStatus:   t.From,
		model.FieldRevision: current.Revision,
	}

	update := bson.M{
		"$set": bson.M{
			model.FieldStatus:        t.To,
			model.FieldPaymentStatus: t.PaymentStatus,
			model.FieldPaymentID:     t.PaymentID,
			model.FieldUpdatedAt:     at,
		},
		"$inc": bson.M{model.FieldRevision: 1},
	}

	if t.Entry != nil {
		update["$push"] = bson.M{model.FieldStatusHistory: *t.Entry}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated model.Booking

	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, goMongo.ErrNoDocuments) {
			return model.Booking{}, ErrStale
		}

		return model.Booking{}, fmt.Errorf("failed to update booking: %w", err)
	}

	return updated, nil
}
