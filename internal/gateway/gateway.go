// Package gateway exposes Document over HTTP and WebSocket, adapted
// from the board server's router/handler/hub layers (§4.U): instead of
// canvas-element CRUD, every route exchanges ChangePacks with an
// in-process Document, persisting through store and fanning out
// through broker/eventbus.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/bifshteksex/crdt-engine/internal/blobstore"
	"github.com/bifshteksex/crdt-engine/internal/broker"
	"github.com/bifshteksex/crdt-engine/internal/change"
	"github.com/bifshteksex/crdt-engine/internal/document"
	"github.com/bifshteksex/crdt-engine/internal/eventbus"
	"github.com/bifshteksex/crdt-engine/internal/session"
	"github.com/bifshteksex/crdt-engine/internal/store"
)

// Gateway owns every open Document in this process and the
// infrastructure clients used to persist and fan out their changes.
type Gateway struct {
	mu        sync.Mutex
	documents map[string]*document.Document

	store     *store.Store
	broker    *broker.Broker
	eventBus  *eventbus.EventBus
	blobStore *blobstore.BlobStore
	verifier  *session.Verifier

	nodeID         string
	docEventSubject string

	// coordinatorClient and coordinatorEndpoint, when both set, make
	// fanOut forward every locally-integrated ChangePack to an upstream
	// federation coordinator (§4.S). Either left zero-valued disables
	// forwarding.
	coordinatorClient   *http.Client
	coordinatorEndpoint string
}

// Config bundles the infrastructure a Gateway wires together. BlobStore
// may be nil; archival export is best-effort and skipped without it.
// CoordinatorClient/CoordinatorEndpoint may be left zero-valued to
// disable upstream federation forwarding entirely.
type Config struct {
	Store               *store.Store
	Broker              *broker.Broker
	EventBus            *eventbus.EventBus
	BlobStore           *blobstore.BlobStore
	Verifier            *session.Verifier
	NodeID              string
	DocEventSubject     string
	CoordinatorClient   *http.Client
	CoordinatorEndpoint string
}

// New creates a Gateway from cfg.
func New(cfg Config) *Gateway {
	return &Gateway{
		documents:           make(map[string]*document.Document),
		store:               cfg.Store,
		broker:              cfg.Broker,
		eventBus:            cfg.EventBus,
		blobStore:           cfg.BlobStore,
		verifier:            cfg.Verifier,
		nodeID:              cfg.NodeID,
		docEventSubject:     cfg.DocEventSubject,
		coordinatorClient:   cfg.CoordinatorClient,
		coordinatorEndpoint: cfg.CoordinatorEndpoint,
	}
}

// Document returns the in-process Document for key, loading it from
// store (snapshot plus any changes recorded after it) on first access.
func (g *Gateway) Document(ctx context.Context, key string) (*document.Document, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if doc, ok := g.documents[key]; ok {
		return doc, nil
	}

	doc := document.New(key)
	if err := g.hydrate(ctx, key, doc); err != nil {
		return nil, err
	}
	g.documents[key] = doc
	return doc, nil
}

// hydrate replays store's durable history into a freshly created
// Document, via the same ApplyChangePack path used for a live sync so
// there is only one integration code path to reason about.
func (g *Gateway) hydrate(ctx context.Context, key string, doc *document.Document) error {
	snapshot, serverSeq, err := g.store.LoadLatestSnapshot(ctx, key)
	if err != nil {
		changes, err := g.store.ListChangesAfter(ctx, key, 0)
		if err != nil {
			return fmt.Errorf("failed to load changes for %q: %w", key, err)
		}
		if len(changes) == 0 {
			return nil
		}
		return doc.ApplyChangePack(&change.Pack{DocumentKey: key, Changes: changes})
	}

	changes, err := g.store.ListChangesAfter(ctx, key, serverSeq)
	if err != nil {
		return fmt.Errorf("failed to load changes for %q: %w", key, err)
	}
	return doc.ApplyChangePack(&change.Pack{DocumentKey: key, Snapshot: snapshot, Changes: changes})
}

// Sync applies an incoming ChangePack to key's Document, persists the
// newly integrated changes, and returns the response ChangePack
// (spec.md §4.K's applyChangePack/createChangePack pair), fanning the
// update out to sibling gateway instances and observability consumers.
func (g *Gateway) Sync(ctx context.Context, key string, incoming *change.Pack) (*change.Pack, error) {
	doc, err := g.Document(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := doc.ApplyChangePack(incoming); err != nil {
		return nil, fmt.Errorf("sync %q: %w", key, err)
	}

	var checkpoint change.Checkpoint
	if len(incoming.Changes) > 0 {
		checkpoint, err = g.store.SaveChanges(ctx, key, incoming.Changes)
		if err != nil {
			return nil, fmt.Errorf("sync %q: %w", key, err)
		}
		g.fanOut(ctx, key, checkpoint, incoming)
		g.maybeArchive(ctx, key, checkpoint)
	}

	return doc.CreateChangePack(), nil
}
