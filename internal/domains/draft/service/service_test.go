package service_test

import (
	"context"
	"errors"
	"testing"
	"voyage/infras/otel/mocks"
	bookingModel "voyage/internal/domains/booking/model"
	bookingDto "voyage/internal/domains/booking/model/dto"
	bookingMocks "voyage/internal/domains/booking/service/mocks"
	catalogModel "voyage/internal/domains/catalog/model"
	catalogMocks "voyage/internal/domains/catalog/service/mocks"
	draftMocks "voyage/internal/domains/draft/mocks"
	"voyage/internal/domains/draft/model"
	"voyage/internal/domains/draft/model/dto"
	"voyage/internal/domains/draft/repository"
	"voyage/internal/domains/draft/service"
	"voyage/internal/domains/payment/lock"
	paymentMocks "voyage/internal/domains/payment/mocks"
	"voyage/shared/constant"
	"voyage/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	repo     *draftMocks.MockDraft
	catalog  *catalogMocks.MockCatalog
	bookings *bookingMocks.MockBooking
	svc      service.Draft
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:     draftMocks.NewMockDraft(ctrl),
		catalog:  catalogMocks.NewMockCatalog(ctrl),
		bookings: bookingMocks.NewMockBooking(ctrl),
	}
	f.svc = service.New(f.repo, f.catalog, f.bookings, lock.NewMemory(), mocks.NewOtel())

	return f
}

func userContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "user-1")
}

func storedDraft() model.Draft {
	draft := model.InitDraft(model.PackageSnapshot{ID: "pkg-1", Title: "Kyoto in Autumn", Price: 1000, Currency: "USD"}, nil)
	draft.UserID = "user-1"

	return draft
}

func completeDraft() model.Draft {
	return storedDraft().
		SetDates("2026-11-02", "2026-11-08").
		SetTravelers([]bookingModel.Traveler{
			{ID: "t-1", Name: "Aiko Tanaka", Age: 34, Type: bookingModel.TravelerAdult, PassportNumber: "TK123456"},
		})
}

func TestDraftService_Init(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.InitDraftRequest
		setupMock func(f fixture)
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name: "package snapshot and search context",
			ctx:  userContext(),
			req:  dto.InitDraftRequest{PackageID: "pkg-1", Adults: 2, DepartureDate: "2026-11-02"},
			setupMock: func(f fixture) {
				f.catalog.EXPECT().
					GetAvailable(gomock.Any(), "pkg-1").
					Return(catalogModel.Package{ID: "pkg-1", Title: "Kyoto in Autumn", Price: 1000, Currency: "USD", Active: true}, nil)

				f.repo.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, draft model.Draft) error {
						assert.Equal(t, "user-1", draft.UserID)
						assert.Equal(t, 2, draft.AdultsCount)
						assert.False(t, draft.UpdatedAt.IsZero())

						return nil
					})
			},
		},
		{
			name: "inactive package",
			ctx:  userContext(),
			req:  dto.InitDraftRequest{PackageID: "pkg-9"},
			setupMock: func(f fixture) {
				f.catalog.EXPECT().
					GetAvailable(gomock.Any(), "pkg-9").
					Return(catalogModel.Package{}, failure.PackageUnavailable("pkg-9"))
			},
			wantErr:  true,
			wantKind: failure.KindPackageUnavailable,
		},
		{
			name:      "anonymous caller",
			ctx:       context.Background(),
			req:       dto.InitDraftRequest{PackageID: "pkg-1"},
			setupMock: func(fixture) {},
			wantErr:   true,
			wantKind:  failure.KindUnauthorized,
		},
		{
			name:      "missing package id",
			ctx:       userContext(),
			req:       dto.InitDraftRequest{},
			setupMock: func(fixture) {},
			wantErr:   true,
			wantKind:  failure.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Init(tt.ctx, tt.req)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "pkg-1", res.PackageID)
			assert.Equal(t, int64(2000), res.EstimatedTotal)
			assert.Contains(t, res.MissingFields, "travelers")
		})
	}
}

func TestDraftService_Get_NotFound(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), "user-1").Return(model.Draft{}, repository.ErrNotFound)

	_, err := f.svc.Get(userContext())

	require.Error(t, err)
	assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
}

func TestDraftService_Update(t *testing.T) {
	f := newFixture(t)

	adults := 3
	departure := "2026-12-01"

	f.repo.EXPECT().Get(gomock.Any(), "user-1").Return(storedDraft(), nil)
	f.repo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, draft model.Draft) error {
			assert.Equal(t, 3, draft.AdultsCount)
			assert.Equal(t, "2026-12-01", draft.DepartureDate)
			assert.Equal(t, []string{}, draft.SelectedAddons)

			return nil
		})

	res, err := f.svc.Update(userContext(), dto.UpdateDraftRequest{AdultsCount: &adults, DepartureDate: &departure})

	require.NoError(t, err)
	assert.Equal(t, int64(3000), res.EstimatedTotal)
}

func TestDraftService_Update_InvalidDate(t *testing.T) {
	f := newFixture(t)

	departure := "02/12/2026"

	_, err := f.svc.Update(userContext(), dto.UpdateDraftRequest{DepartureDate: &departure})

	require.Error(t, err)
	assert.Equal(t, failure.KindValidation, failure.GetKind(err))
}

func TestDraftService_SetTravelers(t *testing.T) {
	t.Run("valid travelers are stored", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), "user-1").Return(storedDraft(), nil)
		f.repo.EXPECT().
			Save(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, draft model.Draft) error {
				require.Len(t, draft.Travelers, 1)
				assert.Equal(t, "TK123456", draft.Travelers[0].PassportNumber)
				assert.NotEmpty(t, draft.Travelers[0].ID)

				return nil
			})

		_, err := f.svc.SetTravelers(userContext(), dto.SetTravelersRequest{
			Travelers: []bookingDto.TravelerRequest{
				{Name: "Aiko Tanaka", Age: 34, Type: "adult", PassportNumber: "tk123456"},
			},
		})

		assert.NoError(t, err)
	})

	t.Run("short passport is rejected before the draft is read", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.SetTravelers(userContext(), dto.SetTravelersRequest{
			Travelers: []bookingDto.TravelerRequest{
				{Name: "Aiko Tanaka", Age: 34, Type: "adult", PassportNumber: "TK1"},
			},
		})

		require.Error(t, err)
		assert.Equal(t, failure.KindValidation, failure.GetKind(err))
		assert.Contains(t, err.Error(), "travelers[0].passport_number")
	})
}

func TestDraftService_Submit(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantErr   bool
		wantKind  failure.Kind
	}{
		{
			name: "booking created and draft removed",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), "user-1").Return(completeDraft(), nil)
				f.bookings.EXPECT().
					CreateBooking(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req bookingDto.CreateBookingRequest) (bookingModel.Booking, error) {
						assert.Equal(t, "pkg-1", req.PackageID)
						assert.Len(t, req.Travelers, 1)

						return bookingModel.Booking{ID: "booking-1", Status: bookingModel.StatusPendingPayment}, nil
					})
				f.repo.EXPECT().Delete(gomock.Any(), "user-1").Return(nil)
			},
		},
		{
			name: "failed delete does not fail the submission",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), "user-1").Return(completeDraft(), nil)
				f.bookings.EXPECT().
					CreateBooking(gomock.Any(), gomock.Any()).
					Return(bookingModel.Booking{ID: "booking-1"}, nil)
				f.repo.EXPECT().Delete(gomock.Any(), "user-1").Return(errors.New("redis down"))
			},
		},
		{
			name: "incomplete draft never reaches the booking service",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), "user-1").Return(storedDraft(), nil)
			},
			wantErr:  true,
			wantKind: failure.KindValidation,
		},
		{
			name: "rejected booking keeps the draft",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), "user-1").Return(completeDraft(), nil)
				f.bookings.EXPECT().
					CreateBooking(gomock.Any(), gomock.Any()).
					Return(bookingModel.Booking{}, failure.Validation("travelers count does not match party size"))
			},
			wantErr:  true,
			wantKind: failure.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			booking, err := f.svc.Submit(userContext())

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "booking-1", booking.ID)
		})
	}
}

func TestDraftService_Submit_ConcurrentSubmissionIsRejected(t *testing.T) {
	f := newFixture(t)

	entered := make(chan struct{})
	proceed := make(chan struct{})

	f.repo.EXPECT().Get(gomock.Any(), "user-1").Return(completeDraft(), nil)
	f.bookings.EXPECT().
		CreateBooking(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, bookingDto.CreateBookingRequest) (bookingModel.Booking, error) {
			close(entered)
			<-proceed

			return bookingModel.Booking{ID: "booking-1"}, nil
		}).
		Times(1)
	f.repo.EXPECT().Delete(gomock.Any(), "user-1").Return(nil)

	type result struct {
		booking bookingModel.Booking
		err     error
	}

	first := make(chan result, 1)

	go func() {
		booking, err := f.svc.Submit(userContext())
		first <- result{booking: booking, err: err}
	}()

	<-entered

	_, err := f.svc.Submit(userContext())
	require.Error(t, err)
	assert.Equal(t, failure.KindAlreadyInProgress, failure.GetKind(err))

	close(proceed)

	res := <-first
	require.NoError(t, res.err)
	assert.Equal(t, "booking-1", res.booking.ID)
}

func TestDraftService_Submit_GuardReleasedAfterRejection(t *testing.T) {
	f := newFixture(t)

	gomock.InOrder(
		f.repo.EXPECT().Get(gomock.Any(), "user-1").Return(completeDraft(), nil),
		f.bookings.EXPECT().
			CreateBooking(gomock.Any(), gomock.Any()).
			Return(bookingModel.Booking{}, failure.Validation("travelers count does not match party size")),
		f.repo.EXPECT().Get(gomock.Any(), "user-1").Return(completeDraft(), nil),
		f.bookings.EXPECT().
			CreateBooking(gomock.Any(), gomock.Any()).
			Return(bookingModel.Booking{ID: "booking-1"}, nil),
		f.repo.EXPECT().Delete(gomock.Any(), "user-1").Return(nil),
	)

	_, err := f.svc.Submit(userContext())
	require.Error(t, err)

	booking, err := f.svc.Submit(userContext())
	require.NoError(t, err)
	assert.Equal(t, "booking-1", booking.ID)
}

func TestDraftService_Submit_LockFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	locker := paymentMocks.NewMockLocker(ctrl)
	locker.EXPECT().
		TryAcquire(gomock.Any(), lock.SubmitKey("user-1")).
		Return(func() {}, false, errors.New("redis down"))

	svc := service.New(draftMocks.NewMockDraft(ctrl), catalogMocks.NewMockCatalog(ctrl), bookingMocks.NewMockBooking(ctrl), locker, mocks.NewOtel())

	_, err := svc.Submit(userContext())

	require.Error(t, err)
	assert.False(t, failure.IsKind(err, failure.KindAlreadyInProgress))
}

func TestDraftService_Submit_AnonymousCallerTakesNoLock(t *testing.T) {
	ctrl := gomock.NewController(t)

	svc := service.New(draftMocks.NewMockDraft(ctrl), catalogMocks.NewMockCatalog(ctrl), bookingMocks.NewMockBooking(ctrl), paymentMocks.NewMockLocker(ctrl), mocks.NewOtel())

	_, err := svc.Submit(context.Background())

	require.Error(t, err)
	assert.Equal(t, failure.KindUnauthorized, failure.GetKind(err))
}

func TestDraftService_Discard(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Delete(gomock.Any(), "user-1").Return(nil)

	assert.NoError(t, f.svc.Discard(userContext()))

	err := f.svc.Discard(context.Background())
	assert.Equal(t, failure.KindUnauthorized, failure.GetKind(err))
}
