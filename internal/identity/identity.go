package identity

import (
	"context"
	"errors"
)

// Principal is the verified identity of a caller.
type Principal struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// ErrUnauthenticated covers every negative verification outcome: missing or
// invalid credential, verifier unreachable, or an unparseable response. Callers
// cannot tell "down" from "rejected".
var ErrUnauthenticated = errors.New("unauthenticated")

// Verifier resolves a bearer credential into a Principal.
type Verifier interface {
	VerifyIdentity(ctx context.Context, token string) (*Principal, error)
}

type principalKey struct{}

// WithPrincipal stores the principal in the context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal set by the auth middleware.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)

	return p, ok
}
