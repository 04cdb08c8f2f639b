package gateway

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"

	"github.com/bifshteksex/crdt-engine/internal/config"
	"github.com/bifshteksex/crdt-engine/internal/middleware"
	"github.com/bifshteksex/crdt-engine/internal/session"
)

// Setup registers the gateway's routes and global middleware onto h,
// adapted from the board server's router.Setup (§4.U).
func Setup(h *server.Hertz, cfg *config.Config, g *Gateway, verifier *session.Verifier) {
	h.Use(middleware.Recovery())
	h.Use(middleware.RequestID())
	h.Use(middleware.Logger())
	h.Use(middleware.CORS(&cfg.CORS))

	h.GET("/healthz", g.Healthz)

	documents := h.Group("/documents")
	documents.Use(middleware.Auth(verifier))
	documents.POST("/:key/sync", g.HandleSync)
	documents.GET("/:key", g.HandleGetDocument)
}

// NotFound is a fallback handler for unmatched routes.
func NotFound(_ context.Context, c *app.RequestContext) {
	c.JSON(http.StatusNotFound, map[string]interface{}{"error": "not found"})
}
