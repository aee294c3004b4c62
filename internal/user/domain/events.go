package domain

import (
	"context"
	"time"
)

// Event types
const (
	EventTypeFavoriteAdded   = "favorite.added"
	EventTypeFavoriteRemoved = "favorite.removed"
	EventTypeUserDeleted     = "user.deleted"
)

// FavoriteEvent describes a change to the favorites graph.
type FavoriteEvent struct {
	EventID      string    `json:"event_id"`
	EventType    string    `json:"event_type"`
	OwnerID      uint      `json:"owner_id"`
	TargetID     uint      `json:"target_id,omitempty"`
	FavoriteID   uint      `json:"favorite_id,omitempty"`
	RemovedEdges int64     `json:"removed_edges,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// EventPublisher delivers favorite events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event FavoriteEvent) error
}

// NopPublisher discards events.
type NopPublisher struct{}

// Publish implements EventPublisher.
func (NopPublisher) Publish(context.Context, FavoriteEvent) error { return nil }
