package port

import "context"

// Message is one delivery from a subscription.
type Message struct {
	Channel string
	Payload []byte
}

// Bus is the minimal publish/subscribe contract used to bridge room
// broadcasts between nodes. Implementations must be concurrency-safe.
//
// Subscribe matches a channel pattern (backend glob syntax) and returns a
// channel that closes when ctx is canceled or the backend connection drops.
type Bus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, pattern string) (<-chan Message, error)

	// Ping verifies connectivity with the backend.
	Ping(ctx context.Context) error

	// Close releases any resources held by the bus.
	Close() error
}
