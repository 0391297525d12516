package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/amuarte/NoteChat/internal/infrastructure/pubsub/port"
)

const channelPrefix = "room."

// ErrBusClosed reports that the subscription dropped while the bridge was
// still supposed to run, e.g. the backend connection died.
var ErrBusClosed = errors.New("bridge: bus subscription closed")

// envelope is the wire form of a bridged broadcast. Node identifies the
// publishing process so each node can drop its own deliveries.
type envelope struct {
	Node    string          `json:"node"`
	Room    string          `json:"room"`
	Payload json.RawMessage `json:"payload"`
}

// Bridge replicates room broadcasts across nodes through a pub/sub bus.
// Every local broadcast is also published on "room.<name>"; foreign envelopes
// received from the pattern subscription are re-delivered to local members.
// With a nil Bridge the relay is local-only.
type Bridge struct {
	registry *Registry
	bus      port.Bus
	nodeID   string
	log      *slog.Logger
}

// NewBridge wires a registry to the bus. The node id is generated per process.
func NewBridge(registry *Registry, bus port.Bus, log *slog.Logger) *Bridge {
	if log == nil {
		log = slog.Default()
	}
	return &Bridge{
		registry: registry,
		bus:      bus,
		nodeID:   uuid.NewString(),
		log:      log,
	}
}

// Publish sends a room broadcast to the other nodes. Local delivery is the
// caller's job; the bridge only handles the remote leg.
func (b *Bridge) Publish(ctx context.Context, roomName string, payload []byte) error {
	if b == nil {
		return nil
	}
	env := envelope{Node: b.nodeID, Room: roomName, Payload: payload}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("bridge: encode envelope: %w", err)
	}
	return b.bus.Publish(ctx, channelPrefix+roomName, data)
}

// Run subscribes to every room channel and re-delivers foreign envelopes to
// local members until ctx is canceled.
func (b *Bridge) Run(ctx context.Context) error {
	msgs, err := b.bus.Subscribe(ctx, channelPrefix+"*")
	if err != nil {
		return err
	}
	for msg := range msgs {
		var env envelope
		if err := json.Unmarshal(msg.Payload, &env); err != nil {
			b.log.Warn("bridge: dropping malformed envelope", "channel", msg.Channel, "err", err)
			continue
		}
		if env.Node == b.nodeID {
			continue
		}
		roomName := env.Room
		if roomName == "" {
			roomName = strings.TrimPrefix(msg.Channel, channelPrefix)
		}
		b.registry.Broadcast(roomName, env.Payload, "")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	// The subscription closed underneath us; surface it so the caller can
	// log or restart instead of losing cross-node fan-out silently.
	return ErrBusClosed
}
