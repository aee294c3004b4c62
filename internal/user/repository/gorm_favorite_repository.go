package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/user-favorites/internal/user/domain"
)

// GormFavoriteRepository implements FavoriteRepository interface using GORM
type GormFavoriteRepository struct {
	db *gorm.DB
}

// NewGormFavoriteRepository creates a new GORM favorite repository
func NewGormFavoriteRepository(db *gorm.DB) *GormFavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

// FindByPair retrieves the edge owner -> target
func (r *GormFavoriteRepository) FindByPair(ctx context.Context, ownerID, targetID uint) (*domain.Favorite, error) {
	var favorite domain.Favorite
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND target_id = ?", ownerID, targetID).
		First(&favorite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewFavoriteNotFoundError(ownerID, targetID)
		}
		return nil, fmt.Errorf("failed to find favorite: %w", err)
	}
	return &favorite, nil
}

// FindByOwner retrieves all edges of an owner in insertion order
func (r *GormFavoriteRepository) FindByOwner(ctx context.Context, ownerID uint) ([]domain.Favorite, error) {
	favorites := []domain.Favorite{}
	err := r.db.WithContext(ctx).
		Preload("Target").
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&favorites).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find favorites: %w", err)
	}
	return favorites, nil
}

// Create inserts a new edge. The unique index on (owner_id, target_id) is
// what actually prevents duplicates.
func (r *GormFavoriteRepository) Create(ctx context.Context, favorite *domain.Favorite) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(favorite).Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &domain.Error{Kind: domain.KindConflict, Message: fmt.Sprintf("user %d already favorited user %d", favorite.OwnerID, favorite.TargetID), Cause: err}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &domain.Error{Kind: domain.KindNotFound, Message: "favorite references a missing user", Cause: err}
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return &domain.Error{Kind: domain.KindInvalidOperation, Message: "cannot favorite yourself", Cause: err}
	default:
		return fmt.Errorf("failed to create favorite: %w", err)
	}
}

// Delete removes a single edge by ID
func (r *GormFavoriteRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Favorite{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewError(domain.KindNotFound, "favorite %d not found", id)
	}
	return nil
}

// CountByOwner returns the number of outgoing edges of a user
func (r *GormFavoriteRepository) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Favorite{}).Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return count, nil
}

// DeleteByTarget removes the edges pointing at a user
func (r *GormFavoriteRepository) DeleteByTarget(ctx context.Context, targetID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("target_id = ?", targetID).Delete(&domain.Favorite{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete favorites: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteByUser removes every edge where the user is owner or target
func (r *GormFavoriteRepository) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("owner_id = ? OR target_id = ?", userID, userID).
		Delete(&domain.Favorite{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete favorites: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Count returns the total number of edges
func (r *GormFavoriteRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Favorite{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return count, nil
}
