// Command sync-gateway boots the CRDT sync gateway: a Hertz HTTP
// surface for ChangePack exchange plus a WebSocket push channel,
// backed by Postgres (store), Redis (broker), NATS (eventbus), and
// MinIO (blobstore). Adapted from the board server's cmd/ws-server and
// cmd/api-gateway, which left this wiring as TODO stubs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"

	"github.com/bifshteksex/crdt-engine/internal/blobstore"
	"github.com/bifshteksex/crdt-engine/internal/broker"
	"github.com/bifshteksex/crdt-engine/internal/config"
	"github.com/bifshteksex/crdt-engine/internal/coordinator"
	"github.com/bifshteksex/crdt-engine/internal/eventbus"
	"github.com/bifshteksex/crdt-engine/internal/gateway"
	"github.com/bifshteksex/crdt-engine/internal/session"
	"github.com/bifshteksex/crdt-engine/internal/store"
)

const (
	shutdownTimeout = 5 * time.Second
	wsPort          = ":8082"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to gateway config file")
	migrationsPath := flag.String("migrations", "migrations", "path to SQL migration files")
	flag.Parse()

	log.Println("Starting crdt-engine sync gateway...")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool, err := store.NewPool(&cfg.Store)
	if err != nil {
		log.Fatalf("failed to connect to store: %v", err)
	}
	defer store.ClosePool(pool)

	if err := store.Migrate(pool, *migrationsPath); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	redisClient, err := broker.NewClient(&cfg.Broker)
	if err != nil {
		log.Fatalf("failed to connect to broker: %v", err)
	}
	defer broker.CloseClient(redisClient)

	natsConn, err := eventbus.NewConn(&cfg.EventBus)
	if err != nil {
		log.Fatalf("failed to connect to event bus: %v", err)
	}
	defer eventbus.CloseConn(natsConn)

	blobs, err := blobstore.New(&cfg.BlobStore)
	if err != nil {
		log.Fatalf("failed to connect to blob store: %v", err)
	}

	verifier, err := session.NewVerifier(&cfg.Session)
	if err != nil {
		log.Fatalf("failed to build session verifier: %v", err)
	}

	nodeID := os.Getenv("NODE_ID")
	if nodeID == "" {
		nodeID = fmt.Sprintf("sync-gateway-%d", os.Getpid())
	}

	var coordinatorClient *http.Client
	if cfg.Coordinator.Endpoint != "" {
		coordinatorClient = coordinator.NewHTTPClient(context.Background(), &cfg.Coordinator)
	}

	g := gateway.New(gateway.Config{
		Store:               store.New(pool),
		Broker:              broker.New(redisClient),
		EventBus:            eventbus.New(natsConn),
		BlobStore:           blobs,
		Verifier:            verifier,
		NodeID:              nodeID,
		DocEventSubject:     cfg.EventBus.Subject,
		CoordinatorClient:   coordinatorClient,
		CoordinatorEndpoint: cfg.Coordinator.Endpoint,
	})

	h := server.Default(server.WithHostPorts(fmt.Sprintf(":%d", cfg.App.Port)))
	gateway.Setup(h, cfg, g, verifier)

	wsMux := http.NewServeMux()
	wsMux.HandleFunc("/ws/documents/", g.WebSocketHandler())
	wsServer := &http.Server{Addr: wsPort, Handler: wsMux}

	go func() {
		if err := h.Run(); err != nil {
			log.Fatalf("failed to run HTTP server: %v", err)
		}
	}()
	go func() {
		if err := wsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to run websocket server: %v", err)
		}
	}()

	log.Printf("sync gateway %s listening: HTTP :%d, WS %s", nodeID, cfg.App.Port, wsPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down sync gateway...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := h.Shutdown(ctx); err != nil {
		log.Printf("HTTP server forced to shutdown: %v", err)
	}
	if err := wsServer.Shutdown(ctx); err != nil {
		log.Printf("websocket server forced to shutdown: %v", err)
	}

	fmt.Println("sync gateway exited")
}
