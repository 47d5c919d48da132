package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"voyage/config"
	"voyage/internal/domains/draft/model"
	"voyage/shared"
	"voyage/shared/cache"
)

const (
	keyPrefix = "draft"

	defaultTTLSeconds = 86400
)

var ErrNotFound = errors.New("draft not found")

// Draft keeps one wizard session per user. Sessions expire after the
// configured TTL and are not persisted anywhere else.
type Draft interface {
	Save(ctx context.Context, draft model.Draft) error
	Get(ctx context.Context, userID string) (model.Draft, error)
	Delete(ctx context.Context, userID string) error
}

type draftRepository struct {
	cache cache.RedisCache
	ttl   int
}

func New(cfg *config.Config, redisCache cache.RedisCache) Draft {
	ttl := cfg.Cache.DraftTTL
	if ttl <= 0 {
		ttl = defaultTTLSeconds
	}

	return &draftRepository{
		cache: redisCache,
		ttl:   ttl,
	}
}

func key(userID string) string {
	return shared.BuildCacheKey(keyPrefix, userID)
}

func (r *draftRepository) Save(ctx context.Context, draft model.Draft) error {
	if err := r.cache.Save(ctx, key(draft.UserID), draft, r.ttl); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}

	return nil
}

func (r *draftRepository) Get(ctx context.Context, userID string) (model.Draft, error) {
	var draft model.Draft

	if err := r.cache.Get(ctx, key(userID), &draft); err != nil {
		if errors.Is(err, cache.Nil) {
			return model.Draft{}, ErrNotFound
		}

		return model.Draft{}, fmt.Errorf("failed to get draft: %w", err)
	}

	return draft, nil
}

func (r *draftRepository) Delete(ctx context.Context, userID string) error {
	if err := r.cache.Delete(ctx, key(userID)); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}

	return nil
}
