package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/bifshteksex/crdt-engine/internal/change"
	"github.com/bifshteksex/crdt-engine/internal/eventbus"
	"github.com/bifshteksex/crdt-engine/internal/wire"
)

// fanOut publishes the just-integrated pack to sibling gateway
// instances via broker and a coarse DocEvent via eventbus. Both are
// best-effort: a fan-out failure is logged, never surfaced to the
// caller that already persisted the change successfully (§5 addendum).
func (g *Gateway) fanOut(ctx context.Context, key string, checkpoint change.Checkpoint, pack *change.Pack) {
	if g.broker != nil {
		wirePack, err := wire.FromPack(pack)
		if err != nil {
			log.Printf("gateway: failed to encode pack for broker: %v", err)
		} else if err := g.broker.Publish(ctx, key, wirePack); err != nil {
			log.Printf("gateway: failed to publish to broker: %v", err)
		}
	}

	if g.eventBus != nil {
		doc, err := g.Document(ctx, key)
		garbage := 0
		if err == nil {
			garbage = doc.GetGarbageLength()
		}
		event := eventbus.DocEvent{
			DocumentKey:      key,
			ServerSeq:        checkpoint.ServerSeq,
			GarbageCollected: garbage,
			ChangedAt:        time.Now(),
		}
		if err := g.eventBus.PublishDocEvent(g.docEventSubject, event); err != nil {
			log.Printf("gateway: failed to publish doc event: %v", err)
		}
	}

	g.forwardToCoordinator(ctx, key, pack)
}

// forwardToCoordinator pushes pack to the upstream federation
// coordinator's sync endpoint, authenticated via the oauth2 bearer
// token coordinatorClient attaches automatically. Best-effort, like the
// rest of fanOut: a federation peer being unreachable must never fail
// a sync that has already been persisted locally.
func (g *Gateway) forwardToCoordinator(ctx context.Context, key string, pack *change.Pack) {
	if g.coordinatorClient == nil || g.coordinatorEndpoint == "" {
		return
	}

	wirePack, err := wire.FromPack(pack)
	if err != nil {
		log.Printf("gateway: failed to encode pack for coordinator: %v", err)
		return
	}
	body, err := json.Marshal(wirePack)
	if err != nil {
		log.Printf("gateway: failed to marshal pack for coordinator: %v", err)
		return
	}

	url := fmt.Sprintf("%s/documents/%s/sync", g.coordinatorEndpoint, key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Printf("gateway: failed to build coordinator request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.coordinatorClient.Do(req)
	if err != nil {
		log.Printf("gateway: failed to forward pack to coordinator: %v", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		log.Printf("gateway: coordinator rejected forwarded pack for %q: %s", key, resp.Status)
	}
}

// AdoptRemote applies a ChangePack received from a sibling gateway
// instance (via broker) to the local in-process Document, so this
// process's replica stays current without a second store round trip.
func (g *Gateway) AdoptRemote(ctx context.Context, key string, wirePack *wire.ChangePackWire) error {
	pack, err := wirePack.ToPack()
	if err != nil {
		return err
	}
	doc, err := g.Document(ctx, key)
	if err != nil {
		return err
	}
	return doc.ApplyChangePack(pack)
}
