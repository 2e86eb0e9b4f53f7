package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"traderflow/pkg/common"
	redisPkg "traderflow/pkg/redis"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// PreferenceRepository stores string preferences per browser session.
type PreferenceRepository interface {
	// Get returns the stored value and whether it was present.
	Get(ctx context.Context, sessionID, key string) (string, bool, error)
	Set(ctx context.Context, sessionID, key, value string) error
	// Update atomically replaces the value with fn's result and returns it.
	Update(ctx context.Context, sessionID, key string, fn func(current string, ok bool) string) (string, error)
}

const maxUpdateAttempts = 5

// NewMemoryPreferenceRepository keeps preferences in process memory. A ttl of
// zero keeps them for the process lifetime.
func NewMemoryPreferenceRepository(ttl time.Duration) PreferenceRepository {
	expiration := ttl
	if expiration <= 0 {
		expiration = cache.NoExpiration
	}
	return &memoryPreferenceRepository{
		store: cache.New(expiration, 10*time.Minute),
		ttl:   expiration,
	}
}

type memoryPreferenceRepository struct {
	store *cache.Cache
	ttl   time.Duration
	mu    sync.Mutex
}

func (r *memoryPreferenceRepository) Get(_ context.Context, sessionID, key string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(sessionID, key)
}

func (r *memoryPreferenceRepository) get(sessionID, key string) (string, bool, error) {
	v, ok := r.store.Get(preferenceKey(sessionID, key))
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, fmt.Errorf("preference %s has unexpected type %T", key, v)
	}
	return s, true, nil
}

func (r *memoryPreferenceRepository) Set(_ context.Context, sessionID, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store.Set(preferenceKey(sessionID, key), value, r.ttl)
	return nil
}

func (r *memoryPreferenceRepository) Update(_ context.Context, sessionID, key string, fn func(current string, ok bool) string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok, err := r.get(sessionID, key)
	if err != nil {
		return "", err
	}
	next := fn(current, ok)
	r.store.Set(preferenceKey(sessionID, key), next, r.ttl)
	return next, nil
}

// NewRedisPreferenceRepository keeps preferences in Redis so they survive
// restarts and are shared between replicas.
func NewRedisPreferenceRepository(client *redisPkg.Client, ttl time.Duration) PreferenceRepository {
	return &redisPreferenceRepository{client: client, ttl: ttl}
}

type redisPreferenceRepository struct {
	client *redisPkg.Client
	ttl    time.Duration
}

func (r *redisPreferenceRepository) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, preferenceKey(sessionID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *redisPreferenceRepository) Set(ctx context.Context, sessionID, key, value string) error {
	return r.client.Set(ctx, preferenceKey(sessionID, key), value, r.ttl).Err()
}

// Update runs fn inside a WATCH transaction and retries when another writer
// changed the key in between.
func (r *redisPreferenceRepository) Update(ctx context.Context, sessionID, key string, fn func(current string, ok bool) string) (string, error) {
	redisKey := preferenceKey(sessionID, key)
	var next string
	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, redisKey).Result()
		ok := true
		if errors.Is(err, redis.Nil) {
			ok = false
		} else if err != nil {
			return err
		}
		next = fn(current, ok)
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, redisKey, next, r.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateAttempts; i++ {
		err := r.client.Watch(ctx, txf, redisKey)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return "", err
		}
		return next, nil
	}
	return "", fmt.Errorf("preference %s changed concurrently %d times", key, maxUpdateAttempts)
}

func preferenceKey(sessionID, key string) string {
	return fmt.Sprintf(common.RedisKeyPreference, sessionID, key)
}
