package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"voyage/config"
	"voyage/infras/otel/mocks"
	catalogMocks "voyage/internal/domains/catalog/mocks"
	"voyage/internal/domains/catalog/model"
	"voyage/internal/domains/catalog/service"
	cacheMocks "voyage/shared/cache/mocks"
	gDto "voyage/shared/dto"
	"voyage/shared/failure"
	gModel "voyage/shared/model"
	"voyage/shared/timezone"
)

func samplePackage() model.Package {
	return model.Package{
		ID:           "pkg-1",
		Title:        "Kyoto in Autumn",
		Destination:  "Kyoto",
		Price:        125000,
		Currency:     "USD",
		DurationDays: 6,
		Active:       true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  "seed",
			ModifiedBy: "seed",
		},
	}
}

func TestCatalogService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := catalogMocks.NewMockPackage(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mocks.NewOtel())

	tests := []struct {
		name      string
		params    gDto.QueryParams
		setupMock func()
		wantErr   bool
		wantTotal int
	}{
		{
			name:   "cache hit",
			params: gDto.QueryParams{Page: 1, Limit: 10},
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name:   "cache miss, successful get from db",
			params: gDto.QueryParams{Page: 1, Limit: 10},
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss")).
					Times(2)

				mockRepo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(1, nil)

				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Package{samplePackage()}, nil)

				mockCache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantTotal: 1,
		},
		{
			name:   "unknown sort column is dropped before querying",
			params: gDto.QueryParams{Page: 1, Limit: 10, SortBy: "price; DROP TABLE packages", SortDir: gDto.SortDirAsc},
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss")).
					Times(2)

				mockRepo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, nil)

				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Package, error) {
						assert.Empty(t, params.SortBy)

						return []model.Package{}, nil
					})

				mockCache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
		},
		{
			name:   "count error",
			params: gDto.QueryParams{Page: 1, Limit: 10},
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss")).
					Times(2)

				mockRepo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, errors.New("count error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.GetAll(context.Background(), tt.params, gDto.FilterGroup{})

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantTotal, result.TotalData)
			}

			time.Sleep(10 * time.Millisecond)
		})
	}
}

func TestCatalogService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := catalogMocks.NewMockPackage(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mocks.NewOtel())

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
		wantKind  failure.Kind
		wantID    string
	}{
		{
			name: "cache miss, successful get from db",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(samplePackage(), nil)

				mockCache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantID: "pkg-1",
		},
		{
			name: "package not found",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Package{}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
		{
			name: "repository error",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Package{}, errors.New("database error"))
			},
			wantErr:  true,
			wantKind: failure.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.Get(context.Background(), "pkg-1")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, result.ID)
			}

			time.Sleep(10 * time.Millisecond)
		})
	}
}

func TestCatalogService_GetAvailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := catalogMocks.NewMockPackage(ctrl)
	svc := service.New(mockRepo, &config.Config{}, cacheMocks.NewMockRedisCache(ctrl), mocks.NewOtel())

	inactive := samplePackage()
	inactive.Active = false

	tests := []struct {
		name     string
		stored   model.Package
		repoErr  error
		wantKind failure.Kind
	}{
		{name: "active package", stored: samplePackage()},
		{name: "inactive package", stored: inactive, wantKind: failure.KindPackageUnavailable},
		{name: "unknown package", stored: model.Package{}, wantKind: failure.KindPackageUnavailable},
		{name: "store failure", repoErr: errors.New("connection refused"), wantKind: failure.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(tt.stored, tt.repoErr)

			pkg, err := svc.GetAvailable(context.Background(), "pkg-1")

			if tt.wantKind == "" {
				assert.NoError(t, err)
				assert.Equal(t, int64(125000), pkg.Price)

				return
			}

			assert.Error(t, err)
			assert.Equal(t, tt.wantKind, failure.GetKind(err))
		})
	}
}
