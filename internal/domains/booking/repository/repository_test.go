package repository

import (
	"context"
	"testing"
	"time"
	"voyage/config"
	"voyage/internal/domains/booking/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func toDocument(t *testing.T, booking model.Booking) bson.D {
	t.Helper()

	raw, err := bson.Marshal(booking)
	require.NoError(t, err)

	var doc bson.D
	require.NoError(t, bson.Unmarshal(raw, &doc))

	return doc
}

func sampleBooking() model.Booking {
	created := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)

	return model.Booking{
		ID:            "b1",
		UserID:        "u1",
		PackageID:     "pkg-1",
		Currency:      "USD",
		TotalPrice:    500,
		AdultsCount:   1,
		Travelers:     []model.Traveler{{ID: "t1", Name: "Ana Silva", Age: 34, Type: model.TravelerAdult, PassportNumber: "P1234567"}},
		Status:        model.StatusPendingPayment,
		PaymentStatus: model.PaymentPending,
		StatusHistory: []model.StatusHistoryEntry{{Status: model.StatusPendingPayment, Date: created}},
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func TestBookingRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	newRepo := func(mt *mtest.T) *bookingRepository {
		return newRepository(mt.Coll, &config.Config{})
	}

	namespace := func(mt *mtest.T) string {
		return mt.Coll.Database().Name() + "." + mt.Coll.Name()
	}

	mt.Run("create", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		assert.NoError(mt, newRepo(mt).Create(context.Background(), sampleBooking()))
	})

	mt.Run("create duplicate", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))

		assert.Error(mt, newRepo(mt).Create(context.Background(), sampleBooking()))
	})

	mt.Run("get", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, toDocument(t, sampleBooking())))

		booking, err := newRepo(mt).Get(context.Background(), "b1")
		require.NoError(mt, err)

		assert.Equal(mt, "b1", booking.ID)
		assert.Equal(mt, model.StatusPendingPayment, booking.Status)
		assert.Len(mt, booking.Travelers, 1)
		assert.Equal(mt, "P1234567", booking.Travelers[0].PassportNumber)
	})

	mt.Run("get not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := newRepo(mt).Get(context.Background(), "missing")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("get by user", func(mt *mtest.T) {
		second := sampleBooking()
		second.ID = "b2"

		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			toDocument(t, sampleBooking()), toDocument(t, second)))

		bookings, err := newRepo(mt).GetByUser(context.Background(), "u1")
		require.NoError(mt, err)
		assert.Len(mt, bookings, 2)
	})

	mt.Run("apply transition", func(mt *mtest.T) {
		current := sampleBooking()

		transition, err := current.ConfirmPayment("pay_1", current.CreatedAt.Add(time.Minute))
		require.NoError(mt, err)

		expected := current.Apply(transition, current.CreatedAt.Add(time.Minute))

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: toDocument(t, expected)}))

		updated, err := newRepo(mt).ApplyTransition(context.Background(), current, transition, expected.UpdatedAt)
		require.NoError(mt, err)

		assert.Equal(mt, model.StatusProcessing, updated.Status)
		assert.Equal(mt, int64(1), updated.Revision)
		assert.Len(mt, updated.StatusHistory, 2)
	})

	mt.Run("apply transition on stale revision", func(mt *mtest.T) {
		current := sampleBooking()

		transition, err := current.Cancel("", current.CreatedAt)
		require.NoError(mt, err)

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err = newRepo(mt).ApplyTransition(context.Background(), current, transition, current.CreatedAt)
		assert.ErrorIs(mt, err, ErrStale)
	})

	mt.Run("apply transition store failure", func(mt *mtest.T) {
		current := sampleBooking()

		transition, err := current.Cancel("", current.CreatedAt)
		require.NoError(mt, err)

		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: "bad update document"}))

		_, err = newRepo(mt).ApplyTransition(context.Background(), current, transition, current.CreatedAt)
		assert.Error(mt, err)
		assert.NotErrorIs(mt, err, ErrStale)
	})
}
