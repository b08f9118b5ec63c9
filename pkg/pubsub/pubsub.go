package pubsub

import (
	"context"
	"time"
)

type Pack struct {
	Key []byte
	Msg []byte
}

type Publisher interface {
	Publish(ctx context.Context, topic string, pack *Pack) error
	Close() error
}

// SubscribeHandler processes one message. Errors are logged by the
// subscriber, the handler owns its retry policy.
type SubscribeHandler func(ctx context.Context, topic string, pack *Pack, t time.Time) error

type Subscriber interface {
	// Subscribe blocks, dispatching messages to the handler until ctx is
	// done.
	Subscribe(ctx context.Context) error
	Close() error
}
