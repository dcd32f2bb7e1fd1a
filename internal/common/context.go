package common

import "context"

// UserContext carries the authenticated identity for a request.
type UserContext struct {
	Username string
}

type userContextKey struct{}

// WithUserContext returns a context carrying the user identity.
func WithUserContext(ctx context.Context, uc *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, uc)
}

// UserContextFrom extracts the user identity, or nil when unauthenticated.
func UserContextFrom(ctx context.Context) *UserContext {
	uc, _ := ctx.Value(userContextKey{}).(*UserContext)
	return uc
}
