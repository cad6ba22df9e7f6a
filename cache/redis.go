// Package cache provides the Redis-backed emission cache and the outbound
// event queue.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gatherpoint/checkin-go/models"
)

// emissionTTL bounds staleness of cached code lookups. Revocation deletes the
// key eagerly; the TTL covers the path where that delete fails.
const emissionTTL = 60 * time.Second

type RedisStore struct {
	Client *redis.Client
}

func New(addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{Client: client}, nil
}

func (r *RedisStore) Close() {
	r.Client.Close()
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

func emissionKey(code, day string) string {
	return "emission:" + day + ":" + code
}

func (r *RedisStore) GetEmission(ctx context.Context, code, day string) (*models.DailyCodeEmission, error) {
	val, err := r.Client.Get(ctx, emissionKey(code, day)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var emission models.DailyCodeEmission
	if err := json.Unmarshal([]byte(val), &emission); err != nil {
		return nil, err
	}
	return &emission, nil
}

func (r *RedisStore) SetEmission(ctx context.Context, emission *models.DailyCodeEmission) error {
	data, err := json.Marshal(emission)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, emissionKey(emission.Code, emission.CodeDate), data, emissionTTL).Err()
}

func (r *RedisStore) InvalidateEmission(ctx context.Context, code, day string) error {
	return r.Client.Del(ctx, emissionKey(code, day)).Err()
}

// Enqueue pushes a task payload onto the named list queue.
func (r *RedisStore) Enqueue(ctx context.Context, queueName string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return r.Client.LPush(ctx, queueName, data).Err()
}
