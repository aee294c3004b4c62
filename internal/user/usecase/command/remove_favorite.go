package command

import (
	"context"

	"github.com/tair/user-favorites/internal/user/access"
	"github.com/tair/user-favorites/internal/user/domain"
)

// RemoveFavoriteCommand represents the command to drop a favorite edge
type RemoveFavoriteCommand struct {
	Identity *domain.Identity
	OwnerID  uint
	TargetID uint
}

// RemoveFavoriteHandler handles remove favorite command
type RemoveFavoriteHandler struct {
	favorites domain.FavoriteRepository
	guard     *access.Guard
	publisher domain.EventPublisher
}

// NewRemoveFavoriteHandler creates a new remove favorite handler
func NewRemoveFavoriteHandler(favorites domain.FavoriteRepository, guard *access.Guard, publisher domain.EventPublisher) *RemoveFavoriteHandler {
	return &RemoveFavoriteHandler{favorites: favorites, guard: guard, publisher: publisher}
}

// Handle executes the remove favorite command. Unknown users simply have
// no matching edge and yield NotFound.
func (h *RemoveFavoriteHandler) Handle(ctx context.Context, cmd RemoveFavoriteCommand) error {
	if err := h.guard.AuthorizeOwnerAccess(cmd.Identity, cmd.OwnerID); err != nil {
		return err
	}

	favorite, err := h.favorites.FindByPair(ctx, cmd.OwnerID, cmd.TargetID)
	if err != nil {
		return domain.StoreError("find favorite", err)
	}

	if err := h.favorites.Delete(ctx, favorite.ID); err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			// removed concurrently
			return domain.NewFavoriteNotFoundError(cmd.OwnerID, cmd.TargetID)
		}
		return domain.StoreError("delete favorite", err)
	}

	publish(ctx, h.publisher, domain.FavoriteEvent{
		EventType:  domain.EventTypeFavoriteRemoved,
		OwnerID:    cmd.OwnerID,
		TargetID:   cmd.TargetID,
		FavoriteID: favorite.ID,
	})

	return nil
}
