package command

import (
	"context"
	"strings"
	"time"

	"github.com/tair/user-favorites/internal/user/access"
	"github.com/tair/user-favorites/internal/user/domain"
)

// UpdateUserCommand represents the command to rename a user
type UpdateUserCommand struct {
	Identity            *domain.Identity
	ID                  uint
	UserName            string
	UserNameDescription *string // nil leaves the description unchanged
}

// UpdateUserHandler handles user update command
type UpdateUserHandler struct {
	repo  domain.UserRepository
	guard *access.Guard
}

// NewUpdateUserHandler creates a new update user handler
func NewUpdateUserHandler(repo domain.UserRepository, guard *access.Guard) *UpdateUserHandler {
	return &UpdateUserHandler{repo: repo, guard: guard}
}

// Handle executes the update user command
func (h *UpdateUserHandler) Handle(ctx context.Context, cmd UpdateUserCommand) (*domain.User, error) {
	if err := h.guard.AuthorizeOwnerAccess(cmd.Identity, cmd.ID); err != nil {
		return nil, err
	}

	userName := strings.TrimSpace(cmd.UserName)
	if userName == "" {
		return nil, domain.NewValidationError("user_name is required")
	}

	user, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, domain.StoreError("find user", err)
	}

	user.UserName = userName
	if cmd.UserNameDescription != nil {
		user.UserNameDescription = *cmd.UserNameDescription
	}
	user.UpdatedAt = time.Now()

	if err := h.repo.Update(ctx, user); err != nil {
		return nil, domain.StoreError("update user", err)
	}

	return user, nil
}
