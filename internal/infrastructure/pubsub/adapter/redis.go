package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/amuarte/NoteChat/internal/infrastructure/pubsub/port"
)

// RedisBus is an adapter that satisfies the port.Bus interface using Redis
// pub/sub. It wraps a go-redis v9 Client.
type RedisBus struct {
	client *redis.Client
}

// NewRedisBus constructs a RedisBus from a redis:// URL and verifies
// connectivity with a ping before returning.
func NewRedisBus(url string) (*RedisBus, error) {
	if url == "" {
		return nil, errors.New("redis: url is empty")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	c := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return &RedisBus{client: c}, nil
}

// Ensure interface compliance at compile time
var _ port.Bus = (*RedisBus)(nil)

func (b *RedisBus) Publish(ctx context.Context, channel string, payload []byte) error {
	return b.client.Publish(ctx, channel, payload).Err()
}

// Subscribe opens a pattern subscription and pumps deliveries into the
// returned channel until ctx is canceled.
func (b *RedisBus) Subscribe(ctx context.Context, pattern string) (<-chan port.Message, error) {
	sub := b.client.PSubscribe(ctx, pattern)

	// Force the subscription handshake so a dead backend fails here, not
	// silently inside the pump goroutine.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("redis: subscribe %q: %w", pattern, err)
	}

	out := make(chan port.Message, 64)
	in := sub.Channel()
	go func() {
		defer close(out)
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- port.Message{Channel: msg.Channel, Payload: []byte(msg.Payload)}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (b *RedisBus) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

func (b *RedisBus) Close() error {
	return b.client.Close()
}
