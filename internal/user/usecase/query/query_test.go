package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/user-favorites/internal/user/access"
	"github.com/tair/user-favorites/internal/user/domain"
	"github.com/tair/user-favorites/internal/user/repository"
)

var admin = &domain.Identity{UserID: 1000, UserName: "root", Role: domain.RoleAdmin}

func self(u *domain.User) *domain.Identity {
	return &domain.Identity{UserID: u.ID, UserName: u.UserName, Role: u.Role}
}

func seed(t *testing.T, names ...string) (*repository.MemoryStore, []*domain.User) {
	t.Helper()
	store := repository.NewMemoryStore()
	users := make([]*domain.User, 0, len(names))
	for _, name := range names {
		u := &domain.User{UserName: name, Password: "hash", Role: domain.RoleUser}
		require.NoError(t, store.Users().Create(context.Background(), u))
		users = append(users, u)
	}
	return store, users
}

func favorite(t *testing.T, store *repository.MemoryStore, owner, target *domain.User) {
	t.Helper()
	require.NoError(t, store.Favorites().Create(context.Background(), &domain.Favorite{OwnerID: owner.ID, TargetID: target.ID}))
}

func TestListFavorites(t *testing.T) {
	store, users := seed(t, "alice", "bob", "carol")
	alice, bob, carol := users[0], users[1], users[2]
	favorite(t, store, alice, carol)
	favorite(t, store, alice, bob)

	handler := NewListFavoritesHandler(store.Users(), store.Favorites(), access.NewGuard())
	ctx := context.Background()

	got, err := handler.Handle(ctx, ListFavoritesQuery{Identity: self(alice), OwnerID: alice.ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "carol", got[0].Target.UserName)
	assert.Equal(t, "bob", got[1].Target.UserName)

	empty, err := handler.Handle(ctx, ListFavoritesQuery{Identity: self(bob), OwnerID: bob.ID})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestListFavorites_SingleEdge(t *testing.T) {
	store, users := seed(t, "alice", "bob")
	favorite(t, store, users[0], users[1])

	got, err := NewListFavoritesHandler(store.Users(), store.Favorites(), access.NewGuard()).
		Handle(context.Background(), ListFavoritesQuery{Identity: self(users[0]), OwnerID: users[0].ID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, users[1].ID, got[0].TargetID)
	assert.Equal(t, users[1].ID, got[0].Target.ID)
}

func TestListFavorites_Errors(t *testing.T) {
	store, users := seed(t, "alice", "bob")
	handler := NewListFavoritesHandler(store.Users(), store.Favorites(), access.NewGuard())
	ctx := context.Background()

	_, err := handler.Handle(ctx, ListFavoritesQuery{Identity: self(users[1]), OwnerID: users[0].ID})
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = handler.Handle(ctx, ListFavoritesQuery{OwnerID: users[0].ID})
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = handler.Handle(ctx, ListFavoritesQuery{Identity: admin, OwnerID: 404})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGetUser_ResolvesFavorites(t *testing.T) {
	store, users := seed(t, "alice", "bob")
	favorite(t, store, users[0], users[1])

	user, err := NewGetUserHandler(store.Users(), store.Favorites()).Handle(context.Background(), GetUserQuery{ID: users[0].ID})
	require.NoError(t, err)
	require.Len(t, user.Favorites, 1)
	assert.Equal(t, "bob", user.Favorites[0].Target.UserName)

	_, err = NewGetUserHandler(store.Users(), store.Favorites()).Handle(context.Background(), GetUserQuery{ID: 404})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestListUsers_MarksCallerFavorites(t *testing.T) {
	store, users := seed(t, "alice", "bob", "carol")
	alice, bob, carol := users[0], users[1], users[2]
	favorite(t, store, alice, carol)
	favorite(t, store, bob, alice)

	handler := NewListUsersHandler(store.Users(), store.Favorites())
	ctx := context.Background()

	list, err := handler.Handle(ctx, ListUsersQuery{Identity: self(alice)})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.False(t, list[0].IsFavorite)
	assert.False(t, list[1].IsFavorite)
	assert.True(t, list[2].IsFavorite)
	assert.Len(t, list[0].Favorites, 1)
	assert.Len(t, list[1].Favorites, 1)
	assert.Empty(t, list[2].Favorites)

	anonymous, err := handler.Handle(ctx, ListUsersQuery{})
	require.NoError(t, err)
	for _, u := range anonymous {
		assert.False(t, u.IsFavorite)
	}
}

func TestListUsers_CallerOutsidePage(t *testing.T) {
	store, users := seed(t, "alice", "bob", "carol")
	favorite(t, store, users[0], users[2])

	list, err := NewListUsersHandler(store.Users(), store.Favorites()).
		Handle(context.Background(), ListUsersQuery{Identity: self(users[0]), Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "bob", list[0].UserName)
	assert.False(t, list[0].IsFavorite)
	assert.True(t, list[1].IsFavorite)
}

func TestGetStats(t *testing.T) {
	store, users := seed(t, "alice", "bob")
	favorite(t, store, users[0], users[1])
	handler := NewGetStatsHandler(store.Users(), store.Favorites(), access.NewGuard())
	ctx := context.Background()

	_, err := handler.Handle(ctx, GetStatsQuery{Identity: self(users[0])})
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	stats, err := handler.Handle(ctx, GetStatsQuery{Identity: admin})
	require.NoError(t, err)
	assert.Equal(t, &UserStats{TotalUsers: 2, AdminCount: 0, UserCount: 2, TotalFavorites: 1}, stats)
}
