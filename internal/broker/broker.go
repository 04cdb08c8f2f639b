// Package broker fans ChangePacks out across gateway instances over
// Redis pub/sub, adapted from the board server's Hub (§4.N): instead of
// relaying WSMessage frames to in-memory rooms, it relays ChangePacks so
// every instance's in-memory Document can replay what it missed without
// a second round trip through store.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bifshteksex/crdt-engine/internal/config"
	"github.com/bifshteksex/crdt-engine/internal/wire"
)

const (
	dialTimeout   = 5 * time.Second
	readTimeout   = 3 * time.Second
	writeTimeout  = 3 * time.Second
	minIdleConns  = 2
	channelPrefix = "doc:"
)

// NewClient creates the Redis client backing the broker.
func NewClient(cfg *config.BrokerConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.GetAddr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   cfg.MaxRetries,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: minIdleConns,
		DialTimeout:  dialTimeout,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping broker: %w", err)
	}
	return client, nil
}

// CloseClient closes the Redis client.
func CloseClient(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// Broker publishes and subscribes to per-document ChangePacks.
type Broker struct {
	client *redis.Client
}

// New wraps an existing Redis client.
func New(client *redis.Client) *Broker {
	return &Broker{client: client}
}

// Publish marshals pack and publishes it to documentKey's channel for
// sibling gateway instances to replay.
func (b *Broker) Publish(ctx context.Context, documentKey string, pack *wire.ChangePackWire) error {
	data, err := json.Marshal(pack)
	if err != nil {
		return fmt.Errorf("failed to marshal change pack: %w", err)
	}
	if err := b.client.Publish(ctx, channelPrefix+documentKey, data).Err(); err != nil {
		return fmt.Errorf("failed to publish change pack: %w", err)
	}
	return nil
}

// Subscribe opens a subscription to documentKey's channel, returning a
// channel of decoded ChangePacks and a closer that unsubscribes.
// Malformed payloads are dropped rather than surfaced, since a
// neighboring instance's decode bug should not take this one down.
func (b *Broker) Subscribe(ctx context.Context, documentKey string) (<-chan *wire.ChangePackWire, func()) {
	pubsub := b.client.Subscribe(ctx, channelPrefix+documentKey)
	out := make(chan *wire.ChangePackWire, 16)

	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			var pack wire.ChangePackWire
			if err := json.Unmarshal([]byte(msg.Payload), &pack); err != nil {
				continue
			}
			select {
			case out <- &pack:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, func() { _ = pubsub.Close() }
}
