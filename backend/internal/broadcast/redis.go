package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/itchan-dev/boardsync/shared/domain"
	"github.com/redis/go-redis/v9"
)

// size of the per-subscription buffers
const subscriptionBuffer = 64

// RedisBus is a Bus over Redis Pub/Sub. Delivery reaches only subscribers connected at
// publish time.
type RedisBus struct {
	rdb *redis.Client
}

var _ Bus = (*RedisBus)(nil)

func NewRedisBus(opts *redis.Options) *RedisBus {
	return &RedisBus{rdb: redis.NewClient(opts)}
}

// NewRedisBusFromURL accepts redis://[user:password@]host:port/db urls.
func NewRedisBusFromURL(url string) (*RedisBus, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewRedisBus(opts), nil
}

func (b *RedisBus) Publish(ctx context.Context, channel string, payload []byte) error {
	return b.rdb.Publish(ctx, channel, payload).Err()
}

// Subscribe returns once Redis has confirmed the subscription, so nothing published after
// it returns is missed.
func (b *RedisBus) Subscribe(ctx context.Context, channel string) (*Subscription, error) {
	pubsub := b.rdb.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	events := make(chan domain.BoardEvent, subscriptionBuffer)
	errs := make(chan error, subscriptionBuffer)
	subCtx, cancel := context.WithCancel(ctx)

	go func() {
		defer close(events)
		defer close(errs)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var e domain.BoardEvent
				if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
					// skip the message, keep the subscription
					select {
					case errs <- fmt.Errorf("failed to unmarshal board event: %w", err):
					case <-subCtx.Done():
						return
					}
					continue
				}

				select {
				case events <- e:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return &Subscription{events: events, errors: errs, cancel: cancel}, nil
}

// Ping verifies Redis connectivity.
func (b *RedisBus) Ping(ctx context.Context) error {
	return b.rdb.Ping(ctx).Err()
}

func (b *RedisBus) Close() error {
	return b.rdb.Close()
}

// Subscription is an active subscription to one board channel.
// Caller must call Close() when done.
type Subscription struct {
	events <-chan domain.BoardEvent
	errors <-chan error
	cancel func()
	once   sync.Once
}

// Events is closed when the subscription is closed or its context is cancelled.
func (s *Subscription) Events() <-chan domain.BoardEvent {
	return s.events
}

// Errors carries non-fatal problems such as undecodable messages.
func (s *Subscription) Errors() <-chan error {
	return s.errors
}

// Close is safe to call multiple times.
func (s *Subscription) Close() error {
	s.once.Do(s.cancel)
	return nil
}
