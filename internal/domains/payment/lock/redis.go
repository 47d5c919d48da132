package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const releaseTimeout = 5 * time.Second

// releaseScript deletes the key only while it still carries our token, so an
// expired holder cannot free a lock that someone else has since taken.
var releaseScript = goRedis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLocker struct {
	client *goRedis.Client
	ttl    time.Duration
}

func NewRedis(client *goRedis.Client, ttl time.Duration) Locker {
	return &redisLocker{client: client, ttl: ttl}
}

func (l *redisLocker) TryAcquire(ctx context.Context, key string) (func(), bool, error) {
	token := uuid.NewString()

	acquired, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return func() {}, false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}

	if !acquired {
		return func() {}, false, nil
	}

	var once sync.Once

	return func() {
		once.Do(func() {
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
			defer cancel()

			if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
				log.Error().Err(err).Str("key", key).Msg("failed to release lock, it will expire on its own")
			}
		})
	}, true, nil
}
