package command

import (
	"context"

	"github.com/tair/user-favorites/internal/user/access"
	"github.com/tair/user-favorites/internal/user/domain"
)

// CreateUserCommand represents the command an admin uses to create a user
type CreateUserCommand struct {
	Identity            *domain.Identity
	UserName            string
	UserNameDescription string
	Password            string
	Role                string // Optional, defaults to "user"
}

// CreateUserHandler handles user creation command
type CreateUserHandler struct {
	repo  domain.UserRepository
	guard *access.Guard
}

// NewCreateUserHandler creates a new create user handler
func NewCreateUserHandler(repo domain.UserRepository, guard *access.Guard) *CreateUserHandler {
	return &CreateUserHandler{repo: repo, guard: guard}
}

// Handle executes the create user command
func (h *CreateUserHandler) Handle(ctx context.Context, cmd CreateUserCommand) (*domain.User, error) {
	if err := h.guard.AuthorizeRole(cmd.Identity, domain.RoleAdmin); err != nil {
		return nil, err
	}

	return createUser(ctx, h.repo, cmd.UserName, cmd.UserNameDescription, cmd.Password, cmd.Role)
}
