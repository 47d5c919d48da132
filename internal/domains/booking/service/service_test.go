package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"voyage/config"
	"voyage/infras/otel/mocks"
	bookingMocks "voyage/internal/domains/booking/mocks"
	"voyage/internal/domains/booking/model"
	"voyage/internal/domains/booking/model/dto"
	"voyage/internal/domains/booking/repository"
	"voyage/internal/domains/booking/service"
	serviceMocks "voyage/internal/domains/booking/service/mocks"
	catalogModel "voyage/internal/domains/catalog/model"
	catalogMocks "voyage/internal/domains/catalog/service/mocks"
	cacheMocks "voyage/shared/cache/mocks"
	"voyage/shared/constant"
	"voyage/shared/failure"
)

// memoryRepository applies transitions with the same status and revision guard as the store.
type memoryRepository struct {
	mu       sync.Mutex
	bookings map[string]model.Booking
	// beforeWrite runs once, just before the next conditional write.
	beforeWrite func()
}

func newMemoryRepository(bookings ...model.Booking) *memoryRepository {
	repo := &memoryRepository{bookings: map[string]model.Booking{}}
	for _, booking := range bookings {
		repo.bookings[booking.ID] = booking
	}

	return repo
}

func (r *memoryRepository) Create(_ context.Context, booking model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bookings[booking.ID] = booking

	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[id]
	if !ok {
		return model.Booking{}, repository.ErrNotFound
	}

	return booking, nil
}

func (r *memoryRepository) GetByUser(_ context.Context, userID string) ([]model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := []model.Booking{}

	for _, booking := range r.bookings {
		if booking.UserID == userID {
			res = append(res, booking)
		}
	}

	return res, nil
}

func (r *memoryRepository) ApplyTransition(_ context.Context, current model.Booking, t model.Transition, at time.Time) (model.Booking, error) {
	if hook := r.beforeWrite; hook != nil {
		r.beforeWrite = nil
		hook()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.bookings[current.ID]
	if !ok || stored.Status != t.From || stored.Revision != current.Revision {
		return model.Booking{}, repository.ErrStale
	}

	next := stored.Apply(t, at)
	r.bookings[current.ID] = next

	return next, nil
}

func (r *memoryRepository) stored(id string) model.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.bookings[id]
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.LifecycleEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event model.LifecycleEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []model.LifecycleEventType {
	p.mu.Lock()
	defer p.mu.Unlock()

	res := make([]model.LifecycleEventType, len(p.events))
	for i, event := range p.events {
		res[i] = event.Type
	}

	return res
}

func customerContext(userID string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleCustomer)
}

func systemContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, constant.RoleSystem)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleSystem)
}

func pendingBooking(id string) model.Booking {
	created := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)

	return model.Booking{
		ID:            id,
		UserID:        "u1",
		PackageID:     "pkg-1",
		Currency:      "USD",
		TotalPrice:    500,
		AdultsCount:   1,
		Status:        model.StatusPendingPayment,
		PaymentStatus: model.PaymentPending,
		StatusHistory: []model.StatusHistoryEntry{{Status: model.StatusPendingPayment, Date: created}},
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

type fixture struct {
	svc       service.Booking
	repo      *memoryRepository
	publisher *recordingPublisher
	catalog   *catalogMocks.MockCatalog
}

func newFixture(t *testing.T, bookings ...model.Booking) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Payment.DefaultCurrency = "USD"

	repo := newMemoryRepository(bookings...)
	publisher := &recordingPublisher{}
	catalog := catalogMocks.NewMockCatalog(ctrl)

	return fixture{
		svc:       service.New(repo, catalog, publisher, cfg, mockCache, mocks.NewOtel()),
		repo:      repo,
		publisher: publisher,
		catalog:   catalog,
	}
}

func validRequest() dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		PackageID:     "pkg-1",
		DepartureDate: "2026-09-14",
		ReturnDate:    "2026-09-20",
		AdultsCount:   2,
		Travelers: []dto.TravelerRequest{
			{Name: "Ana Silva", Age: 34, Type: "adult", PassportNumber: "P1234567"},
			{Name: "Joao Silva", Age: 36, Type: "adult", PassportNumber: "P7654321"},
		},
	}
}

func TestBookingService_CreateBooking(t *testing.T) {
	tests := []struct {
		name      string
		req       func() dto.CreateBookingRequest
		setupMock func(f fixture)
		wantKind  failure.Kind
	}{
		{
			name: "successful creation",
			req:  validRequest,
			setupMock: func(f fixture) {
				f.catalog.EXPECT().
					GetAvailable(gomock.Any(), "pkg-1").
					Return(catalogModel.Package{ID: "pkg-1", Title: "Kyoto", Destination: "Kyoto", Price: 250, Currency: "JPY", Active: true}, nil)
			},
		},
		{
			name: "missing traveler",
			req: func() dto.CreateBookingRequest {
				req := validRequest()
				req.Travelers = req.Travelers[:1]

				return req
			},
			setupMock: func(fixture) {},
			wantKind:  failure.KindValidation,
		},
		{
			name: "short passport",
			req: func() dto.CreateBookingRequest {
				req := validRequest()
				req.Travelers[1].PassportNumber = "P12"

				return req
			},
			setupMock: func(fixture) {},
			wantKind:  failure.KindValidation,
		},
		{
			name: "work trip without company",
			req: func() dto.CreateBookingRequest {
				req := validRequest()
				req.IsWorkTrip = true

				return req
			},
			setupMock: func(fixture) {},
			wantKind:  failure.KindValidation,
		},
		{
			name: "inactive package",
			req:  validRequest,
			setupMock: func(f fixture) {
				f.catalog.EXPECT().
					GetAvailable(gomock.Any(), "pkg-1").
					Return(catalogModel.Package{}, failure.PackageUnavailable("pkg-1"))
			},
			wantKind: failure.KindPackageUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			booking, err := f.svc.CreateBooking(customerContext("u1"), tt.req())

			if tt.wantKind != "" {
				assert.True(t, failure.IsKind(err, tt.wantKind), "got %v", err)
				assert.Empty(t, f.publisher.types())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, model.StatusPendingPayment, booking.Status)
			assert.Equal(t, model.PaymentPending, booking.PaymentStatus)
			assert.Equal(t, int64(500), booking.TotalPrice)
			assert.Equal(t, "JPY", booking.Currency)
			assert.Equal(t, "u1", booking.UserID)
			assert.Len(t, booking.StatusHistory, 1)
			assert.Equal(t, booking, f.repo.stored(booking.ID))
			assert.Equal(t, []model.LifecycleEventType{model.LifecycleCreated}, f.publisher.types())
		})
	}
}

func TestBookingService_CreateBooking_RequiresUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateBooking(context.Background(), validRequest())

	assert.True(t, failure.IsKind(err, failure.KindUnauthorized))
}

func TestBookingService_ConfirmBookingPayment(t *testing.T) {
	f := newFixture(t, pendingBooking("b1"))
	ctx := customerContext("u1")

	first, err := f.svc.ConfirmBookingPayment(ctx, "b1", "pay_1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessing, first.Status)
	assert.Equal(t, model.PaymentPaid, first.PaymentStatus)
	assert.Equal(t, "pay_1", first.PaymentID)
	assert.Len(t, first.StatusHistory, 2)

	second, err := f.svc.ConfirmBookingPayment(ctx, "b1", "pay_1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, f.repo.stored("b1").StatusHistory, 2)

	_, err = f.svc.ConfirmBookingPayment(ctx, "b1", "pay_2")
	assert.True(t, failure.IsKind(err, failure.KindInvalidState))

	assert.Equal(t, []model.LifecycleEventType{model.LifecyclePaid}, f.publisher.types())
}

func TestBookingService_CancelBooking(t *testing.T) {
	t.Run("unpaid booking is cancelled", func(t *testing.T) {
		f := newFixture(t, pendingBooking("b1"))

		booking, err := f.svc.CancelBooking(customerContext("u1"), "b1", "")
		require.NoError(t, err)

		assert.Equal(t, model.StatusCancelled, booking.Status)
		assert.Equal(t, model.PaymentPending, booking.PaymentStatus)
		assert.Equal(t, model.StatusCancelled, booking.StatusHistory[len(booking.StatusHistory)-1].Status)
	})

	t.Run("paid booking is refunded", func(t *testing.T) {
		f := newFixture(t, pendingBooking("b1"))
		ctx := customerContext("u1")

		_, err := f.svc.ConfirmBookingPayment(ctx, "b1", "pay_1")
		require.NoError(t, err)

		booking, err := f.svc.CancelBooking(ctx, "b1", "family emergency")
		require.NoError(t, err)

		assert.Equal(t, model.StatusRefunded, booking.Status)
		assert.Equal(t, model.PaymentPaid, booking.PaymentStatus)
		assert.Len(t, booking.StatusHistory, 3)
	})

	t.Run("ready to fly cannot be cancelled", func(t *testing.T) {
		ready := pendingBooking("b1")
		ready.Status = model.StatusReadyToFly
		ready.PaymentStatus = model.PaymentPaid
		ready.PaymentID = "pay_1"

		f := newFixture(t, ready)

		_, err := f.svc.CancelBooking(customerContext("u1"), "b1", "changed my mind")
		assert.True(t, failure.IsKind(err, failure.KindInvalidState))
		assert.Equal(t, ready, f.repo.stored("b1"))
	})

	t.Run("other users are rejected", func(t *testing.T) {
		f := newFixture(t, pendingBooking("b1"))

		_, err := f.svc.CancelBooking(customerContext("intruder"), "b1", "")
		assert.True(t, failure.IsKind(err, failure.KindForbidden))
		assert.Equal(t, model.StatusPendingPayment, f.repo.stored("b1").Status)
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.CancelBooking(customerContext("u1"), "missing", "")
		assert.True(t, failure.IsKind(err, failure.KindNotFound))
	})
}

// A cancel that lands between the confirm's read and write must win or lose
// cleanly; the confirm re-reads and is rejected against the cancelled state.
func TestBookingService_ConfirmLosesToConcurrentCancel(t *testing.T) {
	f := newFixture(t, pendingBooking("b1"))
	ctx := customerContext("u1")

	f.repo.beforeWrite = func() {
		_, err := f.svc.CancelBooking(ctx, "b1", "")
		require.NoError(t, err)
	}

	_, err := f.svc.ConfirmBookingPayment(ctx, "b1", "pay_1")

	assert.True(t, failure.IsKind(err, failure.KindInvalidState), "got %v", err)

	stored := f.repo.stored("b1")
	assert.Equal(t, model.StatusCancelled, stored.Status)
	assert.Equal(t, model.PaymentPending, stored.PaymentStatus)
	assert.Len(t, stored.StatusHistory, 2)
}

func TestBookingService_AdvanceStatus(t *testing.T) {
	f := newFixture(t, pendingBooking("b1"))

	_, err := f.svc.ConfirmBookingPayment(customerContext("u1"), "b1", "pay_1")
	require.NoError(t, err)

	ctx := systemContext()

	for _, event := range []model.FulfillmentEvent{model.EventVisaSubmitted, model.EventVisaApproved, model.EventReadyToFly} {
		_, err := f.svc.AdvanceStatus(ctx, "b1", event, "")
		require.NoError(t, err, event)
	}

	_, err = f.svc.AdvanceStatus(ctx, "b1", model.EventVisaApproved, "")
	assert.True(t, failure.IsKind(err, failure.KindInvalidState))

	booking, err := f.svc.AdvanceStatus(ctx, "b1", model.EventCompleted, "welcome home")
	require.NoError(t, err)

	assert.Equal(t, model.StatusCompleted, booking.Status)
	assert.Len(t, booking.StatusHistory, 6)
	assert.Equal(t, "welcome home", booking.StatusHistory[5].Note)

	for _, entry := range booking.StatusHistory[1:] {
		assert.True(t, entry.Status.IsValid())
	}

	_, err = f.svc.AdvanceStatus(customerContext("u1"), "b1", model.EventFail, "")
	assert.Error(t, err)
}

func TestBookingService_SettleRefund(t *testing.T) {
	f := newFixture(t, pendingBooking("b1"))
	ctx := customerContext("u1")

	_, err := f.svc.ConfirmBookingPayment(ctx, "b1", "pay_1")
	require.NoError(t, err)

	cancelled, err := f.svc.CancelBooking(ctx, "b1", "visa denied")
	require.NoError(t, err)

	settled, err := f.svc.SettleRefund(systemContext(), "b1")
	require.NoError(t, err)

	assert.Equal(t, model.StatusRefunded, settled.Status)
	assert.Equal(t, model.PaymentRefunded, settled.PaymentStatus)
	assert.Len(t, settled.StatusHistory, len(cancelled.StatusHistory))

	_, err = f.svc.SettleRefund(systemContext(), "b1")
	assert.True(t, failure.IsKind(err, failure.KindInvalidState))
}

func TestBookingService_GetUserBookings(t *testing.T) {
	other := pendingBooking("b2")
	other.UserID = "u2"

	f := newFixture(t, pendingBooking("b1"), other)

	bookings, err := f.svc.GetUserBookings(customerContext("u1"), "u1")
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
	assert.Equal(t, "b1", bookings[0].ID)

	_, err = f.svc.GetUserBookings(customerContext("u1"), "u2")
	assert.True(t, failure.IsKind(err, failure.KindForbidden))
}

func TestBookingService_GetBookingByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockPublisher := serviceMocks.NewMockEventPublisher(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, catalogMocks.NewMockCatalog(ctrl), mockPublisher, cfg, mockCache, mocks.NewOtel())

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func()
		wantKind  failure.Kind
	}{
		{
			name: "cache hit",
			ctx:  customerContext("u1"),
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), "booking:get:b1", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						*value.(*model.Booking) = pendingBooking("b1")

						return nil
					})
			},
		},
		{
			name: "cache hit for another user",
			ctx:  customerContext("u2"),
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						*value.(*model.Booking) = pendingBooking("b1")

						return nil
					})
			},
			wantKind: failure.KindForbidden,
		},
		{
			name: "cache miss, successful get from db",
			ctx:  customerContext("u1"),
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), "b1").
					Return(pendingBooking("b1"), nil)

				mockCache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
		},
		{
			name: "booking not found",
			ctx:  customerContext("u1"),
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), "b1").
					Return(model.Booking{}, repository.ErrNotFound)
			},
			wantKind: failure.KindNotFound,
		},
		{
			name: "repository error",
			ctx:  customerContext("u1"),
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), "b1").
					Return(model.Booking{}, errors.New("server selection timeout"))
			},
			wantKind: failure.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			booking, err := svc.GetBookingByID(tt.ctx, "b1")

			if tt.wantKind != "" {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "b1", booking.ID)
			}

			time.Sleep(10 * time.Millisecond)
		})
	}
}

func TestBookingService_StaleWritesExhaustRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockPublisher := serviceMocks.NewMockEventPublisher(ctrl)

	svc := service.New(mockRepo, catalogMocks.NewMockCatalog(ctrl), mockPublisher, &config.Config{}, cacheMocks.NewMockRedisCache(ctrl), mocks.NewOtel())

	mockRepo.EXPECT().Get(gomock.Any(), "b1").Return(pendingBooking("b1"), nil).Times(3)
	mockRepo.EXPECT().
		ApplyTransition(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(model.Booking{}, repository.ErrStale).
		Times(3)

	_, err := svc.ConfirmBookingPayment(customerContext("u1"), "b1", "pay_1")

	assert.True(t, failure.IsKind(err, failure.KindInvalidState))
}

func TestBookingService_GetBookingByID_TracesReturnedError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	recorder := mocks.NewRecorder()

	svc := service.New(mockRepo, catalogMocks.NewMockCatalog(ctrl), serviceMocks.NewMockEventPublisher(ctrl), &config.Config{}, mockCache, recorder)

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
	mockRepo.EXPECT().Get(gomock.Any(), "b1").Return(model.Booking{}, repository.ErrNotFound)

	_, err := svc.GetBookingByID(customerContext("u1"), "b1")
	require.Error(t, err)

	span := recorder.Span(constant.OtelServiceScopeName + ".GetBookingByID")
	require.NotNil(t, span)
	assert.True(t, span.Ended)
	require.Len(t, span.Errors, 1)
	assert.True(t, failure.IsKind(span.Errors[0], failure.KindNotFound))
}

func TestBookingService_GetBookingByID_SuccessLeavesSpanClean(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	recorder := mocks.NewRecorder()

	svc := service.New(bookingMocks.NewMockBooking(ctrl), catalogMocks.NewMockCatalog(ctrl), serviceMocks.NewMockEventPublisher(ctrl), &config.Config{}, mockCache, recorder)

	mockCache.EXPECT().
		Get(gomock.Any(), "booking:get:b1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, value any) error {
			*value.(*model.Booking) = pendingBooking("b1")

			return nil
		})

	_, err := svc.GetBookingByID(customerContext("u1"), "b1")
	require.NoError(t, err)

	span := recorder.Span(constant.OtelServiceScopeName + ".GetBookingByID")
	require.NotNil(t, span)
	assert.Empty(t, span.Errors)
}
