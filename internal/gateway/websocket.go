package gateway

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bifshteksex/crdt-engine/internal/wire"
)

// websocket push runs as a second, plain net/http server alongside the
// Hertz REST surface, mirroring the board server's separate
// cmd/api-gateway / cmd/ws-server split rather than bridging
// gorilla/websocket into Hertz's request context.

const (
	wsWriteWait      = 10 * time.Second
	wsPongWait       = 60 * time.Second
	wsPingPeriod     = (wsPongWait * 9) / 10
	wsMaxMessageSize = 512 * 1024
	wsSendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WebSocketHandler upgrades a connection to a live push channel for one
// document: client-sent ChangePacks are applied and persisted exactly
// as HandleSync does, and every update — local or relayed from a
// sibling instance via broker — is pushed back as a ChangePack frame.
func (g *Gateway) WebSocketHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(r.URL.Path, "/ws/documents/")
		if key == "" {
			http.Error(w, "missing document key", http.StatusBadRequest)
			return
		}

		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing authentication token", http.StatusUnauthorized)
			return
		}
		if _, err := g.verifier.VerifyActor(token); err != nil {
			http.Error(w, "invalid authentication token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("gateway: websocket upgrade failed: %v", err)
			return
		}

		g.serveConn(r.Context(), key, conn)
	}
}

func (g *Gateway) serveConn(ctx context.Context, key string, conn *websocket.Conn) {
	defer conn.Close()

	conn.SetReadLimit(wsMaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	send := make(chan *wire.ChangePackWire, wsSendBufferSize)
	go g.writePump(connCtx, conn, send)

	if g.broker != nil {
		remote, unsubscribe := g.broker.Subscribe(connCtx, key)
		defer unsubscribe()
		go func() {
			for pack := range remote {
				select {
				case send <- pack:
				case <-connCtx.Done():
					return
				}
			}
		}()
	}

	g.readPump(ctx, key, conn, send)
}

func (g *Gateway) readPump(ctx context.Context, key string, conn *websocket.Conn, send chan<- *wire.ChangePackWire) {
	for {
		var incoming wire.ChangePackWire
		if err := conn.ReadJSON(&incoming); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("gateway: websocket read error: %v", err)
			}
			return
		}
		incoming.DocumentKey = key

		pack, err := incoming.ToPack()
		if err != nil {
			continue
		}

		responsePack, err := g.Sync(ctx, key, pack)
		if err != nil {
			log.Printf("gateway: websocket sync failed for %q: %v", key, err)
			continue
		}

		responseWire, err := wire.FromPack(responsePack)
		if err != nil {
			continue
		}
		send <- responseWire
	}
}

func (g *Gateway) writePump(ctx context.Context, conn *websocket.Conn, send <-chan *wire.ChangePackWire) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case pack, ok := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(pack); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
