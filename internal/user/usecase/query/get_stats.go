package query

import (
	"context"

	"github.com/tair/user-favorites/internal/user/access"
	"github.com/tair/user-favorites/internal/user/domain"
)

// GetStatsQuery represents the query to get directory statistics (admin only)
type GetStatsQuery struct {
	Identity *domain.Identity
}

// UserStats represents directory statistics
type UserStats struct {
	TotalUsers     int64 `json:"total_users"`
	AdminCount     int64 `json:"admin_count"`
	UserCount      int64 `json:"user_count"`
	TotalFavorites int64 `json:"total_favorites"`
}

// GetStatsHandler handles get stats query
type GetStatsHandler struct {
	users     domain.UserRepository
	favorites domain.FavoriteRepository
	guard     *access.Guard
}

// NewGetStatsHandler creates a new get stats handler
func NewGetStatsHandler(users domain.UserRepository, favorites domain.FavoriteRepository, guard *access.Guard) *GetStatsHandler {
	return &GetStatsHandler{users: users, favorites: favorites, guard: guard}
}

// Handle executes the get stats query
func (h *GetStatsHandler) Handle(ctx context.Context, query GetStatsQuery) (*UserStats, error) {
	if err := h.guard.AuthorizeRole(query.Identity, domain.RoleAdmin); err != nil {
		return nil, err
	}

	totalUsers, err := h.users.Count(ctx)
	if err != nil {
		return nil, domain.StoreError("count users", err)
	}

	adminCount, err := h.users.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, domain.StoreError("count admins", err)
	}

	userCount, err := h.users.CountByRole(ctx, domain.RoleUser)
	if err != nil {
		return nil, domain.StoreError("count users", err)
	}

	totalFavorites, err := h.favorites.Count(ctx)
	if err != nil {
		return nil, domain.StoreError("count favorites", err)
	}

	return &UserStats{
		TotalUsers:     totalUsers,
		AdminCount:     adminCount,
		UserCount:      userCount,
		TotalFavorites: totalFavorites,
	}, nil
}
