package domain

import (
	"context"
	"time"
)

// Role types
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents the user entity (domain model)
type User struct {
	ID                  uint       `json:"id" gorm:"primaryKey"`
	UserName            string     `json:"user_name" gorm:"uniqueIndex;not null"`
	UserNameDescription string     `json:"user_name_description,omitempty"`
	Password            string     `json:"-" gorm:"not null"` // Never expose password in JSON
	Role                string     `json:"role" gorm:"not null;default:'user'"`
	IsFavorite          bool       `json:"is_favorite" gorm:"-"` // Relative to the caller, computed on read
	Favorites           []Favorite `json:"favorites,omitempty" gorm:"foreignKey:OwnerID;constraint:OnDelete:RESTRICT"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// IsAdmin checks if user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// UserRepository defines the contract for user data access
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByUserName(ctx context.Context, userName string) (*User, error)
	FindAll(ctx context.Context, limit, offset int) ([]User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}
