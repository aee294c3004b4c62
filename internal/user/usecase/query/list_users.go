package query

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tair/user-favorites/internal/user/domain"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200

	// favoriteLoaders bounds the concurrent FindByOwner calls per request
	favoriteLoaders = 8
)

// ListUsersQuery represents the query to list users
type ListUsersQuery struct {
	Identity *domain.Identity // optional
	Limit    int
	Offset   int
}

// ListUsersHandler handles list users query
type ListUsersHandler struct {
	users     domain.UserRepository
	favorites domain.FavoriteRepository
}

// NewListUsersHandler creates a new list users handler
func NewListUsersHandler(users domain.UserRepository, favorites domain.FavoriteRepository) *ListUsersHandler {
	return &ListUsersHandler{users: users, favorites: favorites}
}

// Handle executes the list users query. Every user carries its favorites,
// and IsFavorite marks the users the caller has favorited.
func (h *ListUsersHandler) Handle(ctx context.Context, query ListUsersQuery) ([]domain.User, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	users, err := h.users.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, domain.StoreError("list users", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(favoriteLoaders)
	for i := range users {
		g.Go(func() error {
			favorites, err := h.favorites.FindByOwner(gctx, users[i].ID)
			if err != nil {
				return err
			}
			users[i].Favorites = favorites
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, domain.StoreError("find favorites", err)
	}

	if query.Identity != nil {
		if err := h.markFavorites(ctx, query.Identity.UserID, users); err != nil {
			return nil, err
		}
	}

	return users, nil
}

func (h *ListUsersHandler) markFavorites(ctx context.Context, callerID uint, users []domain.User) error {
	var own []domain.Favorite
	for _, u := range users {
		if u.ID == callerID {
			own = u.Favorites
			break
		}
	}
	if own == nil {
		var err error
		own, err = h.favorites.FindByOwner(ctx, callerID)
		if err != nil {
			return domain.StoreError("find favorites", err)
		}
	}

	favorited := make(map[uint]struct{}, len(own))
	for _, f := range own {
		favorited[f.TargetID] = struct{}{}
	}
	for i := range users {
		_, users[i].IsFavorite = favorited[users[i].ID]
	}
	return nil
}
