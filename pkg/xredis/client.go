package xredis

import (
	"context"
	"time"

	"github.com/questx-lab/classroom/pkg/xcontext"
	"github.com/redis/go-redis/v9"
)

type Client interface {
	Exist(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, key ...string) error
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Set
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	SCard(ctx context.Context, key string) (uint64, error)

	// Single object
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error

	// Pub/Sub
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context) *redis.PubSub
}

type client struct {
	redisClient *redis.Client
}

func NewClient(ctx context.Context) (*client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:            xcontext.Configs(ctx).Redis.Addr,
		MaxRetries:      5,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		PoolFIFO:        false,
		PoolSize:        5,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &client{redisClient: redisClient}, nil
}

func (c *client) Close() error {
	return c.redisClient.Close()
}

// Common
func (c *client) Keys(ctx context.Context, pattern string) ([]string, error) {
	return c.redisClient.Keys(ctx, pattern).Result()
}

func (c *client) Exist(ctx context.Context, key string) (bool, error) {
	n, err := c.redisClient.Exists(ctx, key).Uint64()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func (c *client) Del(ctx context.Context, key ...string) error {
	err := c.redisClient.Del(ctx, key...).Err()
	if err == nil || err == redis.Nil {
		return nil
	}

	return err
}

// Set
func (c *client) SAdd(ctx context.Context, key string, members ...string) error {
	return c.redisClient.SAdd(ctx, key, toAny(members)...).Err()
}

func (c *client) SRem(ctx context.Context, key string, members ...string) error {
	return c.redisClient.SRem(ctx, key, toAny(members)...).Err()
}

func (c *client) SMembers(ctx context.Context, key string) ([]string, error) {
	return c.redisClient.SMembers(ctx, key).Result()
}

func (c *client) SCard(ctx context.Context, key string) (uint64, error) {
	n, err := c.redisClient.SCard(ctx, key).Result()
	return uint64(n), err
}

// Single object
func (c *client) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.redisClient.Set(ctx, key, value, ttl).Err()
}

// Pub/Sub
func (c *client) Publish(ctx context.Context, channel string, payload []byte) error {
	return c.redisClient.Publish(ctx, channel, payload).Err()
}

// Subscribe returns a PubSub without any channel. Callers add channels with
// PubSub.Subscribe and must close it when done.
func (c *client) Subscribe(ctx context.Context) *redis.PubSub {
	return c.redisClient.Subscribe(ctx)
}

func toAny(members []string) []any {
	result := make([]any, 0, len(members))
	for _, m := range members {
		result = append(result, m)
	}

	return result
}
