package testutil

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type MockRedisClient struct {
	ExistFunc      func(ctx context.Context, key string) (bool, error)
	DelFunc        func(ctx context.Context, key ...string) error
	KeysFunc       func(ctx context.Context, pattern string) ([]string, error)
	SAddFunc       func(ctx context.Context, key string, members ...string) error
	SRemFunc       func(ctx context.Context, key string, members ...string) error
	SMembersFunc   func(ctx context.Context, key string) ([]string, error)
	SCardFunc      func(ctx context.Context, key string) (uint64, error)
	SetWithTTLFunc func(ctx context.Context, key, value string, ttl time.Duration) error
	PublishFunc    func(ctx context.Context, channel string, payload []byte) error
}

func (m *MockRedisClient) Exist(ctx context.Context, key string) (bool, error) {
	if m.ExistFunc != nil {
		return m.ExistFunc(ctx, key)
	}

	return false, nil
}

func (m *MockRedisClient) Del(ctx context.Context, key ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, key...)
	}

	return nil
}

func (m *MockRedisClient) Keys(ctx context.Context, pattern string) ([]string, error) {
	if m.KeysFunc != nil {
		return m.KeysFunc(ctx, pattern)
	}

	return nil, nil
}

func (m *MockRedisClient) SAdd(ctx context.Context, key string, members ...string) error {
	if m.SAddFunc != nil {
		return m.SAddFunc(ctx, key, members...)
	}

	return nil
}

func (m *MockRedisClient) SRem(ctx context.Context, key string, members ...string) error {
	if m.SRemFunc != nil {
		return m.SRemFunc(ctx, key, members...)
	}

	return nil
}

func (m *MockRedisClient) SMembers(ctx context.Context, key string) ([]string, error) {
	if m.SMembersFunc != nil {
		return m.SMembersFunc(ctx, key)
	}

	return nil, nil
}

func (m *MockRedisClient) SCard(ctx context.Context, key string) (uint64, error) {
	if m.SCardFunc != nil {
		return m.SCardFunc(ctx, key)
	}

	return 0, nil
}

func (m *MockRedisClient) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetWithTTLFunc != nil {
		return m.SetWithTTLFunc(ctx, key, value, ttl)
	}

	return nil
}

func (m *MockRedisClient) Publish(ctx context.Context, channel string, payload []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, channel, payload)
	}

	return nil
}

// Subscribe is not supported by the mock.
func (m *MockRedisClient) Subscribe(ctx context.Context) *redis.PubSub {
	return nil
}
