package registry

import (
	"context"

	"github.com/questx-lab/classroom/pkg/xredis"
	"github.com/redis/go-redis/v9"
)

type Message struct {
	Channel string
	Payload []byte
}

// Transport relays group events between service instances.
type Transport interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) error
	Unsubscribe(ctx context.Context, channel string) error

	// Messages is closed after Close.
	Messages() <-chan Message
	Close() error
}

type redisTransport struct {
	client xredis.Client
	pubsub *redis.PubSub
	c      chan Message
}

func NewRedisTransport(ctx context.Context, client xredis.Client) *redisTransport {
	t := &redisTransport{
		client: client,
		pubsub: client.Subscribe(ctx),
		c:      make(chan Message, 256),
	}

	go t.run()
	return t
}

func (t *redisTransport) run() {
	defer close(t.c)
	for msg := range t.pubsub.Channel() {
		t.c <- Message{Channel: msg.Channel, Payload: []byte(msg.Payload)}
	}
}

func (t *redisTransport) Publish(ctx context.Context, channel string, payload []byte) error {
	return t.client.Publish(ctx, channel, payload)
}

func (t *redisTransport) Subscribe(ctx context.Context, channel string) error {
	return t.pubsub.Subscribe(ctx, channel)
}

func (t *redisTransport) Unsubscribe(ctx context.Context, channel string) error {
	return t.pubsub.Unsubscribe(ctx, channel)
}

func (t *redisTransport) Messages() <-chan Message {
	return t.c
}

func (t *redisTransport) Close() error {
	return t.pubsub.Close()
}
