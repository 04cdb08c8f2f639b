// Package coordinator builds the client-credentials token source a
// sync gateway instance uses to authenticate itself against an upstream
// coordinator cluster, adapted from the board server's oauth_service.go
// (which exchanged authorization codes for end-user tokens; this
// exchanges gateway credentials for a machine token instead — there is
// no end user in this flow, §4.S). It never touches CRDT state; it is a
// transport-adjacent concern.
package coordinator

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/bifshteksex/crdt-engine/internal/config"
)

// NewTokenSource builds an oauth2.TokenSource that authenticates this
// gateway instance against its configured coordinator using the OAuth2
// client-credentials grant. Callers wrap it in oauth2.NewClient to get
// an *http.Client that attaches the bearer token automatically.
func NewTokenSource(ctx context.Context, cfg *config.CoordinatorConfig) oauth2.TokenSource {
	ccCfg := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       cfg.Scopes,
	}
	return ccCfg.TokenSource(ctx)
}

// NewHTTPClient returns an *http.Client that attaches a bearer token
// from NewTokenSource to every outbound request, refreshing it
// automatically as it expires. Used by gateway to forward ChangePacks
// to an upstream federation coordinator.
func NewHTTPClient(ctx context.Context, cfg *config.CoordinatorConfig) *http.Client {
	return oauth2.NewClient(ctx, NewTokenSource(ctx, cfg))
}
