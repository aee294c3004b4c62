package command

import (
	"context"
	"time"

	"github.com/tair/user-favorites/internal/user/domain"
	"github.com/tair/user-favorites/pkg/logger"
)

// publish delivers an event after the store change has been committed.
// Delivery failures are logged; the change itself already succeeded.
func publish(ctx context.Context, publisher domain.EventPublisher, event domain.FavoriteEvent) {
	if publisher == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("event_type", event.EventType).
			Uint("owner_id", event.OwnerID).
			Msg("Failed to publish event")
	}
}
