package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"voyage/config"
	"voyage/internal/domains/draft/model"
	"voyage/internal/domains/draft/repository"
	"voyage/shared/cache"
	cacheMocks "voyage/shared/cache/mocks"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestDraftRepository_Save(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	tests := []struct {
		name    string
		ttl     int
		wantTTL int
		saveErr error
		wantErr bool
	}{
		{name: "configured ttl", ttl: 600, wantTTL: 600},
		{name: "zero ttl falls back to a day", ttl: 0, wantTTL: 86400},
		{name: "store failure", ttl: 600, wantTTL: 600, saveErr: errors.New("connection refused"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Cache.DraftTTL = tt.ttl

			repo := repository.New(cfg, mockCache)
			draft := model.Draft{UserID: "user-1", PackageID: "pkg-1"}

			mockCache.EXPECT().
				Save(gomock.Any(), "draft:user-1", draft, tt.wantTTL).
				Return(tt.saveErr)

			err := repo.Save(context.Background(), draft)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDraftRepository_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	repo := repository.New(&config.Config{}, mockCache)

	tests := []struct {
		name      string
		setupMock func()
		wantErr   error
		wantPkg   string
	}{
		{
			name: "found",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), "draft:user-1", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						*value.(*model.Draft) = model.Draft{UserID: "user-1", PackageID: "pkg-1"}

						return nil
					})
			},
			wantPkg: "pkg-1",
		},
		{
			name: "expired or never created",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), "draft:user-1", gomock.Any()).
					Return(fmt.Errorf("failed to get cache value: %w", cache.Nil))
			},
			wantErr: repository.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			draft, err := repo.Get(context.Background(), "user-1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantPkg, draft.PackageID)
		})
	}
}

func TestDraftRepository_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	repo := repository.New(&config.Config{}, mockCache)

	mockCache.EXPECT().Delete(gomock.Any(), "draft:user-1").Return(nil)

	assert.NoError(t, repo.Delete(context.Background(), "user-1"))
}
