// Package access decides whether a caller identity may act on a resource.
// Use cases call the Guard before touching any store.
package access

import (
	"github.com/tair/user-favorites/internal/user/domain"
)

// Guard authorizes identities against owners and roles.
type Guard struct{}

// NewGuard creates a new access guard
func NewGuard() *Guard {
	return &Guard{}
}

// AuthorizeOwnerAccess allows admins and the owner itself.
func (g *Guard) AuthorizeOwnerAccess(identity *domain.Identity, ownerID uint) error {
	if identity == nil {
		return domain.NewError(domain.KindForbidden, "authentication required")
	}
	if identity.IsAdmin() || identity.UserID == ownerID {
		return nil
	}
	return domain.NewError(domain.KindForbidden, "user %d may not access resources of user %d", identity.UserID, ownerID)
}

// AuthorizeRole allows identities holding role, and admins.
func (g *Guard) AuthorizeRole(identity *domain.Identity, role string) error {
	if identity == nil {
		return domain.NewError(domain.KindForbidden, "authentication required")
	}
	if identity.IsAdmin() || identity.Role == role {
		return nil
	}
	return domain.NewError(domain.KindForbidden, "%s access required", role)
}
