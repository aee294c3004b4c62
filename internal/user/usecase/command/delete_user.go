package command

import (
	"context"

	"github.com/tair/user-favorites/internal/user/access"
	"github.com/tair/user-favorites/internal/user/domain"
)

var errUserHasFavorites = domain.NewError(domain.KindInvalidOperation, "cannot delete user with favorites")

// DeleteUserCommand represents the command to delete a user
type DeleteUserCommand struct {
	Identity *domain.Identity
	ID       uint
}

// DeleteUserHandler handles user deletion command
type DeleteUserHandler struct {
	tx        domain.Transactor
	guard     *access.Guard
	policy    domain.DeletePolicy
	publisher domain.EventPublisher
}

// NewDeleteUserHandler creates a new delete user handler. An unknown policy
// falls back to strict.
func NewDeleteUserHandler(tx domain.Transactor, guard *access.Guard, policy domain.DeletePolicy, publisher domain.EventPublisher) *DeleteUserHandler {
	if !policy.Valid() {
		policy = domain.DeletePolicyStrict
	}
	return &DeleteUserHandler{tx: tx, guard: guard, policy: policy, publisher: publisher}
}

// Handle executes the delete user command. Under the strict policy a user
// owning favorites cannot be deleted: only incoming edges are removed, so
// an outgoing edge committed after the count still blocks the user delete
// through the foreign key. Cascade removes both directions.
func (h *DeleteUserHandler) Handle(ctx context.Context, cmd DeleteUserCommand) error {
	if err := h.guard.AuthorizeOwnerAccess(cmd.Identity, cmd.ID); err != nil {
		return err
	}

	var removed int64
	err := h.tx.WithinTx(ctx, func(users domain.UserRepository, favorites domain.FavoriteRepository) error {
		if _, err := users.FindByID(ctx, cmd.ID); err != nil {
			return err
		}

		removeEdges := favorites.DeleteByUser
		if h.policy == domain.DeletePolicyStrict {
			owned, err := favorites.CountByOwner(ctx, cmd.ID)
			if err != nil {
				return err
			}
			if owned > 0 {
				return errUserHasFavorites
			}
			removeEdges = favorites.DeleteByTarget
		}

		n, err := removeEdges(ctx, cmd.ID)
		if err != nil {
			return err
		}
		removed = n

		if err = users.Delete(ctx, cmd.ID); err != nil {
			if domain.KindOf(err) == domain.KindInvalidOperation {
				return errUserHasFavorites
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.StoreError("delete user", err)
	}

	publish(ctx, h.publisher, domain.FavoriteEvent{
		EventType:    domain.EventTypeUserDeleted,
		OwnerID:      cmd.ID,
		RemovedEdges: removed,
	})

	return nil
}
