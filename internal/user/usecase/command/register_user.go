package command

import (
	"context"
	"strings"
	"time"

	"github.com/tair/user-favorites/internal/user/domain"
	"github.com/tair/user-favorites/pkg/auth"
)

const minPasswordLength = 6

// RegisterUserCommand represents the command to register a new user
type RegisterUserCommand struct {
	UserName            string
	UserNameDescription string
	Password            string
}

// RegisterUserHandler handles user registration command
type RegisterUserHandler struct {
	repo domain.UserRepository
}

// NewRegisterUserHandler creates a new register user handler
func NewRegisterUserHandler(repo domain.UserRepository) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo}
}

// Handle executes the register user command. Self-registered users always
// get the user role.
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*domain.User, error) {
	return createUser(ctx, h.repo, cmd.UserName, cmd.UserNameDescription, cmd.Password, domain.RoleUser)
}

// createUser validates and persists a new account
func createUser(ctx context.Context, repo domain.UserRepository, userName, description, password, role string) (*domain.User, error) {
	userName = strings.TrimSpace(userName)
	if userName == "" {
		return nil, domain.NewValidationError("user_name is required")
	}
	if len(password) < minPasswordLength {
		return nil, domain.NewValidationError("password must be at least 6 characters")
	}
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, domain.NewValidationError("invalid role")
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		UserName:            userName,
		UserNameDescription: description,
		Password:            hashedPassword,
		Role:                role,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := repo.Create(ctx, user); err != nil {
		return nil, domain.StoreError("create user", err)
	}

	return user, nil
}
