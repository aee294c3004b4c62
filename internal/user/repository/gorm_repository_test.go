package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tair/user-favorites/internal/user/domain"
)

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestGormUserRepository_FindByIDMissing(t *testing.T) {
	db, mock := newGormMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_name"}))

	_, err := NewGormUserRepository(db).FindByID(context.Background(), 42)
	assert.True(t, errors.Is(err, domain.ErrNotFound), "got %v", err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormFavoriteRepository_CreateDuplicateIsConflict(t *testing.T) {
	db, mock := newGormMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "favorites"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := NewGormFavoriteRepository(db).Create(context.Background(), &domain.Favorite{OwnerID: 1, TargetID: 2})
	assert.True(t, errors.Is(err, domain.ErrConflict), "got %v", err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormFavoriteRepository_CreateSelfIsInvalid(t *testing.T) {
	db, mock := newGormMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "favorites"`)).
		WillReturnError(&pgconn.PgError{Code: "23514", ConstraintName: "chk_favorites_not_self"})

	err := NewGormFavoriteRepository(db).Create(context.Background(), &domain.Favorite{OwnerID: 3, TargetID: 3})
	assert.True(t, errors.Is(err, domain.ErrInvalidOperation), "got %v", err)
}

func TestGormFavoriteRepository_CreateAssignsID(t *testing.T) {
	db, mock := newGormMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "favorites"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	favorite := &domain.Favorite{OwnerID: 1, TargetID: 2}
	require.NoError(t, NewGormFavoriteRepository(db).Create(context.Background(), favorite))
	assert.Equal(t, uint(11), favorite.ID)
}

func TestGormFavoriteRepository_DeleteByUserBothDirections(t *testing.T) {
	db, mock := newGormMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "favorites" WHERE owner_id = $1 OR target_id = $2`)).
		WithArgs(5, 5).
		WillReturnResult(sqlmock.NewResult(0, 3))

	removed, err := NewGormFavoriteRepository(db).DeleteByUser(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
}

func TestGormFavoriteRepository_DeleteByTargetOnlyIncoming(t *testing.T) {
	db, mock := newGormMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "favorites" WHERE target_id = $1`)).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 2))

	removed, err := NewGormFavoriteRepository(db).DeleteByTarget(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
}
