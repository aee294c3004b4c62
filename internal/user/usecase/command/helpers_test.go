package command

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tair/user-favorites/internal/user/access"
	"github.com/tair/user-favorites/internal/user/domain"
	"github.com/tair/user-favorites/internal/user/repository"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.FavoriteEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.FavoriteEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.EventType)
	}
	return types
}

type fixture struct {
	store     *repository.MemoryStore
	guard     *access.Guard
	publisher *recordingPublisher
	users     []*domain.User
}

func newFixture(t *testing.T, names ...string) *fixture {
	t.Helper()
	f := &fixture{
		store:     repository.NewMemoryStore(),
		guard:     access.NewGuard(),
		publisher: &recordingPublisher{},
	}
	for _, name := range names {
		u := &domain.User{UserName: name, Password: "hash", Role: domain.RoleUser}
		require.NoError(t, f.store.Users().Create(context.Background(), u))
		f.users = append(f.users, u)
	}
	return f
}

func (f *fixture) addFavorite() *AddFavoriteHandler {
	return NewAddFavoriteHandler(f.store.Users(), f.store.Favorites(), f.guard, f.publisher)
}

func (f *fixture) removeFavorite() *RemoveFavoriteHandler {
	return NewRemoveFavoriteHandler(f.store.Favorites(), f.guard, f.publisher)
}

func (f *fixture) deleteUser(policy domain.DeletePolicy) *DeleteUserHandler {
	return NewDeleteUserHandler(f.store, f.guard, policy, f.publisher)
}

func self(u *domain.User) *domain.Identity {
	return &domain.Identity{UserID: u.ID, UserName: u.UserName, Role: domain.RoleUser}
}

var admin = &domain.Identity{UserID: 1000, UserName: "root", Role: domain.RoleAdmin}
