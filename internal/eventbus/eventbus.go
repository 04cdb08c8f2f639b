// Package eventbus publishes coarse DocEvent summaries over NATS for
// out-of-process observability, adapted from the board server's
// database/nats.go connection helper (§4.O). It is deliberately
// separate from broker: broker moves ChangePacks between gateway
// instances for replay, eventbus announces that something happened for
// consumers that never touch CRDT state at all.
package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/bifshteksex/crdt-engine/internal/config"
)

// NewConn opens a NATS connection using the gateway's event bus config.
func NewConn(cfg *config.EventBusConfig) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnect),
		nats.ReconnectWait(time.Duration(cfg.ReconnectWait) * time.Second),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to event bus: %w", err)
	}
	return nc, nil
}

// CloseConn closes the NATS connection.
func CloseConn(nc *nats.Conn) {
	if nc != nil {
		nc.Close()
	}
}

// DocEvent is a coarse, external-facing summary of a successfully
// applied ChangePack, distinct from document.Subscribe's in-process
// callback (§4.K) — this is for metrics/observability consumers
// outside the gateway process, not for CRDT integration itself.
type DocEvent struct {
	DocumentKey      string    `json:"document_key"`
	ServerSeq        uint64    `json:"server_seq"`
	GarbageCollected int       `json:"garbage_collected"`
	ChangedAt        time.Time `json:"changed_at"`
}

// EventBus wraps a NATS connection for publishing/subscribing DocEvents.
type EventBus struct {
	nc *nats.Conn
}

// New wraps an existing NATS connection.
func New(nc *nats.Conn) *EventBus {
	return &EventBus{nc: nc}
}

// PublishDocEvent publishes e to subject.
func (b *EventBus) PublishDocEvent(subject string, e DocEvent) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal doc event: %w", err)
	}
	if err := b.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish doc event: %w", err)
	}
	return nil
}

// SubscribeDocEvents invokes handler for every DocEvent received on
// subject. Malformed payloads are dropped.
func (b *EventBus) SubscribeDocEvents(subject string, handler func(DocEvent)) (*nats.Subscription, error) {
	sub, err := b.nc.Subscribe(subject, func(msg *nats.Msg) {
		var e DocEvent
		if err := json.Unmarshal(msg.Data, &e); err != nil {
			return
		}
		handler(e)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to doc events: %w", err)
	}
	return sub, nil
}
