//go:build integration

package redislock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"hoa/contexts/governance/election-engine/adapters/redislock"
	domainerrors "hoa/contexts/governance/election-engine/domain/errors"
)

type LockerSuite struct {
	suite.Suite
	container *tcredis.RedisContainer
	client    *redis.Client
}

func TestLockerSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(LockerSuite))
}

func (s *LockerSuite) SetupSuite() {
	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	s.Require().NoError(err)
	s.container = container

	addr, err := container.ConnectionString(ctx)
	s.Require().NoError(err)
	opts, err := redis.ParseURL(addr)
	s.Require().NoError(err)
	s.client = redis.NewClient(opts)
	s.Require().NoError(s.client.Ping(ctx).Err())
}

func (s *LockerSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *LockerSuite) SetupTest() {
	s.Require().NoError(s.client.FlushAll(context.Background()).Err())
}

func (s *LockerSuite) TestSecondLockWaitsForRelease() {
	locker := redislock.NewLocker(s.client, redislock.WithRetryInterval(5*time.Millisecond))
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "election-1")
	s.Require().NoError(err)

	acquired := make(chan struct{})
	go func() {
		unlockSecond, err := locker.Lock(ctx, "election-1")
		if err == nil {
			unlockSecond()
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		s.Fail("second lock acquired while first was held")
	case <-time.After(50 * time.Millisecond):
	}
	unlock()

	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		s.Fail("second lock never acquired")
	}
}

func (s *LockerSuite) TestLockTimesOutWithContext() {
	locker := redislock.NewLocker(s.client, redislock.WithRetryInterval(5*time.Millisecond))
	unlock, err := locker.Lock(context.Background(), "election-2")
	s.Require().NoError(err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "election-2")
	s.Require().ErrorIs(err, domainerrors.ErrLockNotAcquired)
}

func (s *LockerSuite) TestExpiredLockIsNotReleasedByFormerOwner() {
	locker := redislock.NewLocker(s.client,
		redislock.WithTTL(50*time.Millisecond),
		redislock.WithRetryInterval(5*time.Millisecond),
	)
	ctx := context.Background()

	staleUnlock, err := locker.Lock(ctx, "election-3")
	s.Require().NoError(err)
	time.Sleep(80 * time.Millisecond)

	freshUnlock, err := locker.Lock(ctx, "election-3")
	s.Require().NoError(err)
	staleUnlock()

	exists, err := s.client.Exists(ctx, "election:lock:election-3").Result()
	s.Require().NoError(err)
	s.Equal(int64(1), exists)
	freshUnlock()
}

func (s *LockerSuite) TestDistinctElectionsLockIndependently() {
	locker := redislock.NewLocker(s.client)
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, id := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, id)
			s.NoError(err)
			if err == nil {
				unlock()
			}
		}(id)
	}
	wg.Wait()
}
