// Package gate guards protected screens. It is evaluated on every protected
// command dispatch — the CLI analogue of re-running an auth check each time
// a screen regains focus — so a session invalidated while the app was idle
// is caught promptly.
package gate

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/minhwalab/minhwa-cli/internal/client/session"
	"github.com/minhwalab/minhwa-cli/internal/logging"
)

// nowFn is a test seam.
var nowFn = time.Now

type Status int

const (
	// Allowed means the protected content may be shown.
	Allowed Status = iota
	// DeniedLoggedOut means there is no session; the caller must drop to
	// the login screen with no way back into the protected view.
	DeniedLoggedOut
	// DeniedExpired means the session's access token has expired; the gate
	// has already logged the session out.
	DeniedExpired
)

type Gate struct {
	store *session.Store
	log   logging.Logger
}

func New(store *session.Store, log logging.Logger) *Gate {
	return &Gate{store: store, log: log.With("component", "gate")}
}

// Check blocks while the initial session restore is in flight (nothing is
// rendered during that window), then evaluates the session. The only error
// returned is ctx's, when cancelled mid-restore.
func (g *Gate) Check(ctx context.Context) (Status, error) {
	select {
	case <-g.store.Restored():
	case <-ctx.Done():
		return DeniedLoggedOut, ctx.Err()
	}

	snap := g.store.Snapshot()
	if !snap.LoggedIn {
		return DeniedLoggedOut, nil
	}

	if snap.User.Token != "" && tokenExpired(snap.User.Token) {
		g.log.Warn(ctx, "access token expired", "user_id", snap.User.ID)
		g.store.Logout(ctx)
		return DeniedExpired, nil
	}

	return Allowed, nil
}

// tokenExpired inspects the token's exp claim without verifying the
// signature; the client has no verification key, and the backend is the
// authority anyway. Opaque or claimless tokens pass.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(nowFn())
}
