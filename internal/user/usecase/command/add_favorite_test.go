package command

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/user-favorites/internal/user/domain"
)

func TestAddFavorite_Success(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	alice, bob := f.users[0], f.users[1]

	favorite, err := f.addFavorite().Handle(context.Background(), AddFavoriteCommand{
		Identity: self(alice), OwnerID: alice.ID, TargetID: bob.ID,
	})
	require.NoError(t, err)
	assert.NotZero(t, favorite.ID)
	require.NotNil(t, favorite.Target)
	assert.Equal(t, "bob", favorite.Target.UserName)

	assert.Equal(t, []string{domain.EventTypeFavoriteAdded}, f.publisher.types())
	assert.Equal(t, favorite.ID, f.publisher.events[0].FavoriteID)
}

func TestAddFavorite_Errors(t *testing.T) {
	f := newFixture(t, "alice", "bob", "carol")
	alice, bob, carol := f.users[0], f.users[1], f.users[2]
	handler := f.addFavorite()
	ctx := context.Background()

	_, err := handler.Handle(ctx, AddFavoriteCommand{Identity: self(alice), OwnerID: alice.ID, TargetID: carol.ID})
	require.NoError(t, err)

	tests := []struct {
		name string
		cmd  AddFavoriteCommand
		want *domain.Error
	}{
		{"self", AddFavoriteCommand{Identity: self(alice), OwnerID: alice.ID, TargetID: alice.ID}, domain.ErrInvalidOperation},
		{"unknown target", AddFavoriteCommand{Identity: self(alice), OwnerID: alice.ID, TargetID: 404}, domain.ErrNotFound},
		{"unknown owner as admin", AddFavoriteCommand{Identity: admin, OwnerID: 404, TargetID: bob.ID}, domain.ErrNotFound},
		{"duplicate", AddFavoriteCommand{Identity: self(alice), OwnerID: alice.ID, TargetID: carol.ID}, domain.ErrConflict},
		{"other owner", AddFavoriteCommand{Identity: self(bob), OwnerID: alice.ID, TargetID: bob.ID}, domain.ErrForbidden},
		{"anonymous", AddFavoriteCommand{OwnerID: alice.ID, TargetID: bob.ID}, domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handler.Handle(ctx, tt.cmd)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	count, err := f.store.Favorites().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAddFavorite_AdminActsForOwner(t *testing.T) {
	f := newFixture(t, "alice", "bob")

	_, err := f.addFavorite().Handle(context.Background(), AddFavoriteCommand{
		Identity: admin, OwnerID: f.users[0].ID, TargetID: f.users[1].ID,
	})
	assert.NoError(t, err)
}

func TestAddFavorite_ForbiddenBeforeStoreAccess(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// a cancelled context would fail any store call, so Forbidden proves
	// the guard ran first
	_, err := f.addFavorite().Handle(ctx, AddFavoriteCommand{
		Identity: self(f.users[1]), OwnerID: f.users[0].ID, TargetID: f.users[1].ID,
	})
	assert.True(t, errors.Is(err, domain.ErrForbidden), "got %v", err)
}

func TestAddFavorite_ConcurrentDuplicates(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	alice, bob := f.users[0], f.users[1]
	handler := f.addFavorite()

	const n = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
		other     []error
	)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := handler.Handle(context.Background(), AddFavoriteCommand{
				Identity: self(alice), OwnerID: alice.ID, TargetID: bob.ID,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrConflict):
				conflicts++
			default:
				other = append(other, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Empty(t, other)
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, n-1, conflicts)

	favorites, err := f.store.Favorites().FindByOwner(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Len(t, favorites, 1)
}

func TestAddFavorite_StoreTimeout(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := f.addFavorite().Handle(ctx, AddFavoriteCommand{
		Identity: self(f.users[0]), OwnerID: f.users[0].ID, TargetID: f.users[1].ID,
	})
	assert.True(t, errors.Is(err, domain.ErrTimeout), "got %v", err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAddFavorite_StoreCancelled(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.addFavorite().Handle(ctx, AddFavoriteCommand{
		Identity: self(f.users[0]), OwnerID: f.users[0].ID, TargetID: f.users[1].ID,
	})
	assert.True(t, errors.Is(err, domain.ErrUnavailable), "got %v", err)
}

func TestAddFavorite_PublishFailureIsNotFatal(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	f.publisher.err = errors.New("broker down")

	_, err := f.addFavorite().Handle(context.Background(), AddFavoriteCommand{
		Identity: self(f.users[0]), OwnerID: f.users[0].ID, TargetID: f.users[1].ID,
	})
	assert.NoError(t, err)
}
