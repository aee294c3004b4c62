package query

import (
	"context"

	"github.com/tair/user-favorites/internal/user/access"
	"github.com/tair/user-favorites/internal/user/domain"
)

// ListFavoritesQuery represents the query to list a user's favorites
type ListFavoritesQuery struct {
	Identity *domain.Identity
	OwnerID  uint
}

// ListFavoritesHandler handles list favorites query
type ListFavoritesHandler struct {
	users     domain.UserRepository
	favorites domain.FavoriteRepository
	guard     *access.Guard
}

// NewListFavoritesHandler creates a new list favorites handler
func NewListFavoritesHandler(users domain.UserRepository, favorites domain.FavoriteRepository, guard *access.Guard) *ListFavoritesHandler {
	return &ListFavoritesHandler{users: users, favorites: favorites, guard: guard}
}

// Handle returns the owner's edges in insertion order, each with its target
// resolved. An owner without favorites gets an empty slice.
func (h *ListFavoritesHandler) Handle(ctx context.Context, query ListFavoritesQuery) ([]domain.Favorite, error) {
	if err := h.guard.AuthorizeOwnerAccess(query.Identity, query.OwnerID); err != nil {
		return nil, err
	}

	if _, err := h.users.FindByID(ctx, query.OwnerID); err != nil {
		return nil, domain.StoreError("find owner", err)
	}

	favorites, err := h.favorites.FindByOwner(ctx, query.OwnerID)
	if err != nil {
		return nil, domain.StoreError("find favorites", err)
	}
	if favorites == nil {
		favorites = []domain.Favorite{}
	}

	return favorites, nil
}
