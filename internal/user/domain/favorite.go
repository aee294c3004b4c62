package domain

import (
	"context"
	"time"
)

// Favorite is a directed edge: Owner has favorited Target.
// (owner_id, target_id) is unique and the two ids never match.
type Favorite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OwnerID   uint      `json:"owner_id" gorm:"not null;uniqueIndex:idx_favorites_owner_target;check:chk_favorites_not_self,owner_id <> target_id"`
	TargetID  uint      `json:"target_id" gorm:"not null;uniqueIndex:idx_favorites_owner_target;index"`
	Target    *User     `json:"target,omitempty" gorm:"foreignKey:TargetID;constraint:OnDelete:RESTRICT"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (Favorite) TableName() string {
	return "favorites"
}

// FavoriteRepository defines the contract for favorite edge storage.
//
// FindByPair returns an error matching ErrNotFound when no edge exists.
// FindByOwner returns edges in insertion order with Target resolved.
// Create returns an error matching ErrConflict when the pair already exists.
// DeleteByTarget removes incoming edges only; DeleteByUser removes both
// directions.
type FavoriteRepository interface {
	FindByPair(ctx context.Context, ownerID, targetID uint) (*Favorite, error)
	FindByOwner(ctx context.Context, ownerID uint) ([]Favorite, error)
	Create(ctx context.Context, favorite *Favorite) error
	Delete(ctx context.Context, id uint) error
	CountByOwner(ctx context.Context, ownerID uint) (int64, error)
	DeleteByTarget(ctx context.Context, targetID uint) (int64, error)
	DeleteByUser(ctx context.Context, userID uint) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// Transactor runs fn with repositories bound to a single transaction.
// fn returning an error rolls the transaction back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(users UserRepository, favorites FavoriteRepository) error) error
}

// DeletePolicy decides what happens to favorite edges when a user is deleted.
type DeletePolicy string

const (
	// DeletePolicyStrict rejects deletion while the user owns favorites.
	DeletePolicyStrict DeletePolicy = "strict"
	// DeletePolicyCascade removes every edge touching the user.
	DeletePolicyCascade DeletePolicy = "cascade"
)

// Valid reports whether p is a known policy.
func (p DeletePolicy) Valid() bool {
	return p == DeletePolicyStrict || p == DeletePolicyCascade
}
