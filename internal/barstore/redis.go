package barstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mdsiyam69/Clarity/internal/model"
)

const redisKeyPrefix = "clarity:bars:"

// RedisStore keeps histories as JSON values that expire after the TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to addr and checks the connection.
func NewRedisStore(ctx context.Context, addr string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func redisKey(symbol string) string { return redisKeyPrefix + symbol }

func (r *RedisStore) Get(ctx context.Context, symbol string) (*Entry, error) {
	data, err := r.client.Get(ctx, redisKey(symbol)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return decodeEntry(data)
}

func (r *RedisStore) Put(ctx context.Context, symbol, source string, days int, bars model.PriceHistory) error {
	data, err := encodeEntry(Entry{Symbol: symbol, Source: source, FetchedAt: time.Now(), Days: days, Bars: bars})
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, redisKey(symbol), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error { return r.client.Close() }

func encodeEntry(e Entry) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode entry: %w", err)
	}
	return data, nil
}

func decodeEntry(data []byte) (*Entry, error) {
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode entry: %w", err)
	}
	if len(e.Bars) == 0 {
		return nil, nil
	}
	return &e, nil
}
