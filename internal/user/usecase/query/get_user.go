package query

import (
	"context"

	"github.com/tair/user-favorites/internal/user/domain"
)

// GetUserQuery represents the query to get a user by ID
type GetUserQuery struct {
	ID uint
}

// GetUserHandler handles get user query
type GetUserHandler struct {
	users     domain.UserRepository
	favorites domain.FavoriteRepository
}

// NewGetUserHandler creates a new get user handler
func NewGetUserHandler(users domain.UserRepository, favorites domain.FavoriteRepository) *GetUserHandler {
	return &GetUserHandler{users: users, favorites: favorites}
}

// Handle executes the get user query. The user's favorites are resolved.
func (h *GetUserHandler) Handle(ctx context.Context, query GetUserQuery) (*domain.User, error) {
	if query.ID == 0 {
		return nil, domain.NewValidationError("invalid user id")
	}

	user, err := h.users.FindByID(ctx, query.ID)
	if err != nil {
		return nil, domain.StoreError("find user", err)
	}

	favorites, err := h.favorites.FindByOwner(ctx, user.ID)
	if err != nil {
		return nil, domain.StoreError("find favorites", err)
	}
	user.Favorites = favorites

	return user, nil
}
