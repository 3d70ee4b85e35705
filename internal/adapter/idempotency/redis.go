package idempotency

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/polkiloo/gencart/internal/domain/repository"
)

const pendingMarker = "pending"

// RedisStore keeps one value per key: a pending marker while the request runs,
// then the id of the order it produced.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Reserve(ctx context.Context, key string) (repository.Reservation, error) {
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := s.client.SetNX(ctx, key, pendingMarker, s.ttl).Result()
		if err != nil {
			return repository.Reservation{}, fmt.Errorf("reserve idempotency key: %w", err)
		}
		if ok {
			return repository.Reservation{State: repository.ReservationAcquired}, nil
		}

		value, err := s.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			// expired between SETNX and GET
			continue
		}
		if err != nil {
			return repository.Reservation{}, fmt.Errorf("read idempotency key: %w", err)
		}
		if value == pendingMarker {
			return repository.Reservation{State: repository.ReservationInFlight}, nil
		}
		orderID, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return repository.Reservation{}, fmt.Errorf("corrupt idempotency key %q: %w", key, err)
		}
		return repository.Reservation{State: repository.ReservationCompleted, OrderID: orderID}, nil
	}
	return repository.Reservation{State: repository.ReservationInFlight}, nil
}

func (s *RedisStore) Complete(ctx context.Context, key string, orderID int64) error {
	if err := s.client.Set(ctx, key, strconv.FormatInt(orderID, 10), s.ttl).Err(); err != nil {
		return fmt.Errorf("complete idempotency key: %w", err)
	}
	return nil
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}

// Disabled accepts every key and remembers nothing.
type Disabled struct{}

func (Disabled) Reserve(context.Context, string) (repository.Reservation, error) {
	return repository.Reservation{State: repository.ReservationAcquired}, nil
}

func (Disabled) Complete(context.Context, string, int64) error { return nil }

func (Disabled) Release(context.Context, string) error { return nil }
