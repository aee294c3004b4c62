package kafka

import (
	"strconv"

	"github.com/tair/user-favorites/internal/user/domain"
)

// DefaultTopic receives favorite and user lifecycle events
const DefaultTopic = "user-favorites-events"

// Header keys set on every message
const (
	HeaderEventType = "event_type"
	HeaderEventID   = "event_id"
)

// messageKey partitions events by owner so the edges of one user are
// consumed in order.
func messageKey(event domain.FavoriteEvent) string {
	return "user_" + strconv.FormatUint(uint64(event.OwnerID), 10)
}
