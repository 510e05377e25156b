package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

var _ Store = (*RedisStore)(nil)

const (
	keyPrefix  = "idem:"
	lockPrefix = "idem-lock:"
	lockTTL    = 30 * time.Second
)

// RedisStore implementa Store con go-redis (respuestas) y redislock (reserva de la llave).
type RedisStore struct {
	rdb    *redis.Client
	locker *redislock.Client
	ttl    time.Duration
}

// NewRedisClient abre el cliente y valida la conexión.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return rdb, nil
}

// NewRedisStore construye el store. ttl es el tiempo que se conserva cada respuesta.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, locker: redislock.New(rdb), ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, key string) (*Response, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get idempotency key: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode idempotency response: %w", err)
	}
	return &resp, nil
}

func (s *RedisStore) Lock(ctx context.Context, key string) (func(context.Context), error) {
	lock, err := s.locker.Obtain(ctx, lockPrefix+key, lockTTL, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrInFlight
	}
	if err != nil {
		return nil, fmt.Errorf("obtain idempotency lock: %w", err)
	}
	return func(ctx context.Context) { _ = lock.Release(ctx) }, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, resp Response) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, keyPrefix+key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save idempotency response: %w", err)
	}
	return nil
}
