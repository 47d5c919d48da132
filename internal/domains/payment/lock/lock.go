package lock

//go:generate go run go.uber.org/mock/mockgen -source=./lock.go -destination=../mocks/lock_mock.go -package=mocks

import (
	"context"
	"strings"
	"time"
	"voyage/config"
	"voyage/shared"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"

	keyPrefix       = "payment:lock"
	submitKeyPrefix = "draft:submit"

	defaultTTL = 10 * time.Minute
)

// Locker hands out at most one holder per key. TryAcquire never waits: a held
// key reports acquired=false. release is safe to call more than once.
type Locker interface {
	TryAcquire(ctx context.Context, key string) (release func(), acquired bool, err error)
}

// New picks the backend from configuration. The redis backend is required
// as soon as more than one instance serves payments.
func New(cfg *config.Config, client *goRedis.Client) Locker {
	if strings.EqualFold(cfg.Payment.Lock.Backend, BackendRedis) {
		ttl := time.Duration(cfg.Payment.Lock.TTLSeconds) * time.Second
		if ttl <= 0 {
			ttl = defaultTTL
		}

		log.Info().Dur("ttl", ttl).Msg("payment lock backed by redis")

		return NewRedis(client, ttl)
	}

	return NewMemory()
}

func Key(bookingID string) string {
	return shared.BuildCacheKey(keyPrefix, bookingID)
}

// SubmitKey guards one user's draft submission.
func SubmitKey(userID string) string {
	return shared.BuildCacheKey(submitKeyPrefix, userID)
}
