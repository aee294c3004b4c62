package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/tair/user-favorites/internal/user/domain"
)

// PostgreSQL error codes
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// PostgresUserRepository implements UserRepository interface
type PostgresUserRepository struct {
	db queryer
}

// NewPostgresUserRepository creates a new PostgreSQL user repository
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `id, user_name, user_name_description, password, role, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*domain.User, error) {
	user := &domain.User{}
	var description sql.NullString
	err := row.Scan(
		&user.ID,
		&user.UserName,
		&description,
		&user.Password,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.UserNameDescription = description.String
	return user, nil
}

// Create inserts a new user into the database
func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (user_name, user_name_description, password, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx,
		query,
		user.UserName,
		nullString(user.UserNameDescription),
		user.Password,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)

	if err != nil {
		if pqCode(err) == pqUniqueViolation {
			return &domain.Error{Kind: domain.KindConflict, Message: fmt.Sprintf("user name %q already exists", user.UserName), Cause: err}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// FindByID retrieves a user by ID
func (r *PostgresUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.NewUserNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// FindByUserName retrieves a user by user name
func (r *PostgresUserRepository) FindByUserName(ctx context.Context, userName string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_name = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, userName))
	if err == sql.ErrNoRows {
		return nil, domain.NewError(domain.KindNotFound, "user %q not found", userName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// FindAll retrieves users ordered by id. A non-positive limit means no limit.
func (r *PostgresUserRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id ASC LIMIT $1 OFFSET $2`

	var lim interface{}
	if limit > 0 {
		lim = limit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.QueryContext(ctx, query, lim, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// Update updates a user's information
func (r *PostgresUserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET user_name = $1, user_name_description = $2, role = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := r.db.ExecContext(ctx, query,
		user.UserName, nullString(user.UserNameDescription), user.Role, user.UpdatedAt, user.ID)
	if err != nil {
		if pqCode(err) == pqUniqueViolation {
			return &domain.Error{Kind: domain.KindConflict, Message: fmt.Sprintf("user name %q already exists", user.UserName), Cause: err}
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return domain.NewUserNotFoundError(user.ID)
	}

	return nil
}

// Delete removes a user from the database
func (r *PostgresUserRepository) Delete(ctx context.Context, id uint) error {
	query := `DELETE FROM users WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			return &domain.Error{Kind: domain.KindInvalidOperation, Message: "cannot delete user with favorites", Cause: err}
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return domain.NewUserNotFoundError(id)
	}

	return nil
}

// Count returns the total number of users
func (r *PostgresUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// CountByRole returns the number of users by role
func (r *PostgresUserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users by role: %w", err)
	}
	return count, nil
}

// PostgresFavoriteRepository implements FavoriteRepository interface
type PostgresFavoriteRepository struct {
	db queryer
}

// NewPostgresFavoriteRepository creates a new PostgreSQL favorite repository
func NewPostgresFavoriteRepository(db *sql.DB) *PostgresFavoriteRepository {
	return &PostgresFavoriteRepository{db: db}
}

// FindByPair retrieves the edge owner -> target
func (r *PostgresFavoriteRepository) FindByPair(ctx context.Context, ownerID, targetID uint) (*domain.Favorite, error) {
	query := `
		SELECT id, owner_id, target_id, created_at
		FROM favorites
		WHERE owner_id = $1 AND target_id = $2
	`

	favorite := &domain.Favorite{}
	err := r.db.QueryRowContext(ctx, query, ownerID, targetID).Scan(
		&favorite.ID,
		&favorite.OwnerID,
		&favorite.TargetID,
		&favorite.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.NewFavoriteNotFoundError(ownerID, targetID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find favorite: %w", err)
	}

	return favorite, nil
}

// FindByOwner retrieves the edges of an owner joined with their targets
func (r *PostgresFavoriteRepository) FindByOwner(ctx context.Context, ownerID uint) ([]domain.Favorite, error) {
	query := `
		SELECT f.id, f.owner_id, f.target_id, f.created_at,
		       u.id, u.user_name, u.user_name_description, u.password, u.role, u.created_at, u.updated_at
		FROM favorites f
		JOIN users u ON u.id = f.target_id
		WHERE f.owner_id = $1
		ORDER BY f.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find favorites: %w", err)
	}
	defer rows.Close()

	favorites := []domain.Favorite{}
	for rows.Next() {
		var (
			favorite    domain.Favorite
			target      domain.User
			description sql.NullString
		)
		err := rows.Scan(
			&favorite.ID,
			&favorite.OwnerID,
			&favorite.TargetID,
			&favorite.CreatedAt,
			&target.ID,
			&target.UserName,
			&description,
			&target.Password,
			&target.Role,
			&target.CreatedAt,
			&target.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		target.UserNameDescription = description.String
		favorite.Target = &target
		favorites = append(favorites, favorite)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate favorites: %w", err)
	}

	return favorites, nil
}

// Create inserts a new edge
func (r *PostgresFavoriteRepository) Create(ctx context.Context, favorite *domain.Favorite) error {
	query := `
		INSERT INTO favorites (owner_id, target_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query, favorite.OwnerID, favorite.TargetID, favorite.CreatedAt).Scan(&favorite.ID)
	if err != nil {
		switch pqCode(err) {
		case pqUniqueViolation:
			return &domain.Error{Kind: domain.KindConflict, Message: fmt.Sprintf("user %d already favorited user %d", favorite.OwnerID, favorite.TargetID), Cause: err}
		case pqForeignKeyViolation:
			return &domain.Error{Kind: domain.KindNotFound, Message: "favorite references a missing user", Cause: err}
		case pqCheckViolation:
			return &domain.Error{Kind: domain.KindInvalidOperation, Message: "cannot favorite yourself", Cause: err}
		}
		return fmt.Errorf("failed to create favorite: %w", err)
	}

	return nil
}

// Delete removes a single edge by ID
func (r *PostgresFavoriteRepository) Delete(ctx context.Context, id uint) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return domain.NewError(domain.KindNotFound, "favorite %d not found", id)
	}

	return nil
}

// CountByOwner returns the number of outgoing edges of a user
func (r *PostgresFavoriteRepository) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM favorites WHERE owner_id = $1`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return count, nil
}

// DeleteByTarget removes the edges pointing at a user
func (r *PostgresFavoriteRepository) DeleteByTarget(ctx context.Context, targetID uint) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE target_id = $1`, targetID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete favorites: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

// DeleteByUser removes every edge where the user is owner or target
func (r *PostgresFavoriteRepository) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE owner_id = $1 OR target_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete favorites: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

// Count returns the total number of edges
func (r *PostgresFavoriteRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM favorites`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return count, nil
}

// PostgresTransactor runs repository work inside a database/sql transaction
type PostgresTransactor struct {
	db *sql.DB
}

// NewPostgresTransactor creates a new PostgreSQL transactor
func NewPostgresTransactor(db *sql.DB) *PostgresTransactor {
	return &PostgresTransactor{db: db}
}

// WithinTx implements domain.Transactor
func (t *PostgresTransactor) WithinTx(ctx context.Context, fn func(domain.UserRepository, domain.FavoriteRepository) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&PostgresUserRepository{db: tx}, &PostgresFavoriteRepository{db: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// InitSchema creates the users and favorites tables if they don't exist
func InitSchema(ctx context.Context, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			user_name VARCHAR(100) UNIQUE NOT NULL,
			user_name_description TEXT,
			password VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'user',
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS favorites (
			id SERIAL PRIMARY KEY,
			owner_id INTEGER NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
			target_id INTEGER NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			CONSTRAINT chk_favorites_not_self CHECK (owner_id <> target_id)
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_favorites_owner_target ON favorites (owner_id, target_id);
		CREATE INDEX IF NOT EXISTS idx_favorites_target_id ON favorites (target_id);
	`

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
