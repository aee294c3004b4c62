package command

import (
	"context"
	"time"

	"github.com/tair/user-favorites/internal/user/access"
	"github.com/tair/user-favorites/internal/user/domain"
)

// ChangeRoleCommand represents the command to change user role (admin only)
type ChangeRoleCommand struct {
	Identity *domain.Identity
	UserID   uint
	Role     string
}

// ChangeRoleHandler handles user role change command
type ChangeRoleHandler struct {
	repo  domain.UserRepository
	guard *access.Guard
}

// NewChangeRoleHandler creates a new change role handler
func NewChangeRoleHandler(repo domain.UserRepository, guard *access.Guard) *ChangeRoleHandler {
	return &ChangeRoleHandler{repo: repo, guard: guard}
}

// Handle executes the change role command
func (h *ChangeRoleHandler) Handle(ctx context.Context, cmd ChangeRoleCommand) (*domain.User, error) {
	if err := h.guard.AuthorizeRole(cmd.Identity, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if !domain.ValidRole(cmd.Role) {
		return nil, domain.NewValidationError("invalid role")
	}

	user, err := h.repo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, domain.StoreError("find user", err)
	}

	user.Role = cmd.Role
	user.UpdatedAt = time.Now()

	if err := h.repo.Update(ctx, user); err != nil {
		return nil, domain.StoreError("update user role", err)
	}

	return user, nil
}
