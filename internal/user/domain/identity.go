package domain

import "context"

// Identity is the authenticated caller as asserted by token verification.
type Identity struct {
	UserID   uint
	UserName string
	Role     string
}

// IsAdmin checks if the caller has admin role
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller identity stored in ctx, if any.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok {
		return nil, false
	}
	return &id, true
}
