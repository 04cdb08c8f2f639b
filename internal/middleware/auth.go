package middleware

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/bifshteksex/crdt-engine/internal/session"
)

// Auth returns a middleware that verifies the bearer token against
// verifier and stores the resulting actor.ID in the request context
// under "actor_id" (§4.C, §4.R). The gateway's handlers do not read
// that value, and no Document is rebound to it.
func Auth(verifier *session.Verifier) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		authHeader := string(ctx.Request.Header.Peek("Authorization"))
		if authHeader == "" {
			ctx.JSON(consts.StatusUnauthorized, map[string]interface{}{
				"error": "Authorization header required",
			})
			ctx.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			ctx.JSON(consts.StatusUnauthorized, map[string]interface{}{
				"error": "Invalid authorization header format",
			})
			ctx.Abort()
			return
		}

		actorID, err := verifier.VerifyActor(parts[1])
		if err != nil {
			ctx.JSON(consts.StatusUnauthorized, map[string]interface{}{
				"error": "Invalid or expired token",
			})
			ctx.Abort()
			return
		}

		ctx.Set("actor_id", actorID)
		ctx.Next(c)
	}
}
