package redislock

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	domainerrors "hoa/contexts/governance/election-engine/domain/errors"
	"hoa/contexts/governance/election-engine/ports"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "election:lock:"

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another process is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker serializes election mutations across processes with SET NX PX.
type Locker struct {
	client        redis.UniversalClient
	ttl           time.Duration
	retryInterval time.Duration
	logger        *slog.Logger
}

type Option func(*Locker)

func WithTTL(ttl time.Duration) Option {
	return func(l *Locker) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

func WithRetryInterval(interval time.Duration) Option {
	return func(l *Locker) {
		if interval > 0 {
			l.retryInterval = interval
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Locker) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func NewLocker(client redis.UniversalClient, opts ...Option) *Locker {
	locker := &Locker{
		client:        client,
		ttl:           10 * time.Second,
		retryInterval: 25 * time.Millisecond,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(locker)
		}
	}
	return locker
}

// Lock retries until the key is free or ctx is done. The lock expires after
// the configured TTL even if the unlock func is never called.
func (l *Locker) Lock(ctx context.Context, electionID string) (func(), error) {
	key := keyPrefix + strings.TrimSpace(electionID)
	token := uuid.NewString()

	ticker := time.NewTicker(l.retryInterval)
	defer ticker.Stop()
	for {
		acquired, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %w", domainerrors.ErrLockNotAcquired, ctx.Err())
			}
			l.logger.Error("election lock acquire failed",
				"event", "election_lock_acquire_failed",
				"module", "governance/election-engine",
				"layer", "adapter",
				"election_id", electionID,
				"error", err.Error(),
			)
			return nil, err
		}
		if acquired {
			return l.unlockFunc(key, token, electionID), nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", domainerrors.ErrLockNotAcquired, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *Locker) unlockFunc(key string, token string, electionID string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
				l.logger.Warn("election lock release failed",
					"event", "election_lock_release_failed",
					"module", "governance/election-engine",
					"layer", "adapter",
					"election_id", electionID,
					"error", err.Error(),
				)
			}
		})
	}
}

var _ ports.ElectionLocker = (*Locker)(nil)
