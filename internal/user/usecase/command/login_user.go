package command

import (
	"context"

	"github.com/tair/user-favorites/internal/user/domain"
	"github.com/tair/user-favorites/pkg/auth"
)

// LoginUserCommand represents the command to login a user
type LoginUserCommand struct {
	UserName string
	Password string
}

// LoginResponse represents the response after successful login
type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// LoginUserHandler handles user login command
type LoginUserHandler struct {
	repo   domain.UserRepository
	tokens *auth.TokenManager
}

// NewLoginUserHandler creates a new login user handler
func NewLoginUserHandler(repo domain.UserRepository, tokens *auth.TokenManager) *LoginUserHandler {
	return &LoginUserHandler{repo: repo, tokens: tokens}
}

// Handle executes the login user command
func (h *LoginUserHandler) Handle(ctx context.Context, cmd LoginUserCommand) (*LoginResponse, error) {
	if cmd.UserName == "" || cmd.Password == "" {
		return nil, domain.NewValidationError("user_name and password are required")
	}

	user, err := h.repo.FindByUserName(ctx, cmd.UserName)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, domain.NewError(domain.KindUnauthenticated, "invalid credentials")
		}
		return nil, domain.StoreError("find user", err)
	}

	if !auth.CheckPassword(user.Password, cmd.Password) {
		return nil, domain.NewError(domain.KindUnauthenticated, "invalid credentials")
	}

	token, err := h.tokens.GenerateToken(user.ID, user.UserName, user.Role)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token: token,
		User:  user,
	}, nil
}
