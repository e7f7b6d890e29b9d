package pubsub

import (
	"context"
	"time"
)

type SubscribeHandler func(context.Context, *Pack, time.Time)

type Subscriber interface {
	// Subscribe blocks and feeds every received pack to the handler until ctx
	// is cancelled.
	Subscribe(ctx context.Context) error
	Stop(ctx context.Context) error
}
