package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"

	"github.com/bifshteksex/crdt-engine/internal/wire"
)

// Healthz reports liveness, grounded on the board server's ws-server
// health endpoint.
func (g *Gateway) Healthz(_ context.Context, c *app.RequestContext) {
	c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"service":   "sync-gateway",
		"timestamp": time.Now().Unix(),
	})
}

// HandleSync handles POST /documents/:key/sync: decodes a ChangePack from the
// request body, applies it, and responds with the ChangePack the
// caller should merge back (spec.md §4.K).
func (g *Gateway) HandleSync(ctx context.Context, c *app.RequestContext) {
	key := c.Param("key")

	var wirePack wire.ChangePackWire
	if err := c.BindJSON(&wirePack); err != nil {
		c.JSON(http.StatusBadRequest, map[string]interface{}{"error": "invalid change pack"})
		return
	}
	wirePack.DocumentKey = key

	pack, err := wirePack.ToPack()
	if err != nil {
		c.JSON(http.StatusBadRequest, map[string]interface{}{"error": err.Error()})
		return
	}

	responsePack, err := g.Sync(ctx, key, pack)
	if err != nil {
		hlog.CtxErrorf(ctx, "sync failed for %q: %v", key, err)
		c.JSON(http.StatusInternalServerError, map[string]interface{}{"error": "sync failed"})
		return
	}

	responseWire, err := wire.FromPack(responsePack)
	if err != nil {
		hlog.CtxErrorf(ctx, "failed to encode response pack for %q: %v", key, err)
		c.JSON(http.StatusInternalServerError, map[string]interface{}{"error": "encode failed"})
		return
	}

	c.JSON(http.StatusOK, responseWire)
}

// HandleGetDocument handles GET /documents/:key: returns the document's
// current state as canonical JSON (spec.md §4.K toSortedJSON).
func (g *Gateway) HandleGetDocument(ctx context.Context, c *app.RequestContext) {
	key := c.Param("key")

	doc, err := g.Document(ctx, key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, map[string]interface{}{"error": "failed to load document"})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc.ToSortedJSON()))
}
