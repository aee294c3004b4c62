package command

import (
	"context"
	"time"

	"github.com/tair/user-favorites/internal/user/access"
	"github.com/tair/user-favorites/internal/user/domain"
)

// AddFavoriteCommand represents the command to favorite another user
type AddFavoriteCommand struct {
	Identity *domain.Identity
	OwnerID  uint
	TargetID uint
}

// AddFavoriteHandler handles add favorite command
type AddFavoriteHandler struct {
	users     domain.UserRepository
	favorites domain.FavoriteRepository
	guard     *access.Guard
	publisher domain.EventPublisher
}

// NewAddFavoriteHandler creates a new add favorite handler
func NewAddFavoriteHandler(users domain.UserRepository, favorites domain.FavoriteRepository, guard *access.Guard, publisher domain.EventPublisher) *AddFavoriteHandler {
	return &AddFavoriteHandler{users: users, favorites: favorites, guard: guard, publisher: publisher}
}

// Handle executes the add favorite command
func (h *AddFavoriteHandler) Handle(ctx context.Context, cmd AddFavoriteCommand) (*domain.Favorite, error) {
	if err := h.guard.AuthorizeOwnerAccess(cmd.Identity, cmd.OwnerID); err != nil {
		return nil, err
	}

	if cmd.OwnerID == cmd.TargetID {
		return nil, domain.NewError(domain.KindInvalidOperation, "cannot favorite yourself")
	}

	if _, err := h.users.FindByID(ctx, cmd.OwnerID); err != nil {
		return nil, domain.StoreError("find owner", err)
	}
	target, err := h.users.FindByID(ctx, cmd.TargetID)
	if err != nil {
		return nil, domain.StoreError("find target", err)
	}

	// Advisory only: the unique index decides when two requests race.
	_, err = h.favorites.FindByPair(ctx, cmd.OwnerID, cmd.TargetID)
	switch {
	case err == nil:
		return nil, domain.NewError(domain.KindConflict, "user %d already favorited user %d", cmd.OwnerID, cmd.TargetID)
	case domain.KindOf(err) != domain.KindNotFound:
		return nil, domain.StoreError("find favorite", err)
	}

	favorite := &domain.Favorite{
		OwnerID:   cmd.OwnerID,
		TargetID:  cmd.TargetID,
		CreatedAt: time.Now(),
	}
	if err := h.favorites.Create(ctx, favorite); err != nil {
		return nil, domain.StoreError("create favorite", err)
	}
	favorite.Target = target

	publish(ctx, h.publisher, domain.FavoriteEvent{
		EventType:  domain.EventTypeFavoriteAdded,
		OwnerID:    favorite.OwnerID,
		TargetID:   favorite.TargetID,
		FavoriteID: favorite.ID,
	})

	return favorite, nil
}
