package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/user-favorites/internal/user/domain"
)

func newSQLMock(t *testing.T) (*PostgresUserRepository, *PostgresFavoriteRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresUserRepository(db), NewPostgresFavoriteRepository(db), mock
}

func TestPostgresFavoriteRepository_CreateDuplicateIsConflict(t *testing.T) {
	_, favorites, mock := newSQLMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO favorites (owner_id, target_id, created_at)")).
		WithArgs(1, 2, sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: pqUniqueViolation, Message: "duplicate key value violates unique constraint"})

	err := favorites.Create(context.Background(), &domain.Favorite{OwnerID: 1, TargetID: 2, CreatedAt: time.Now()})
	assert.True(t, errors.Is(err, domain.ErrConflict), "got %v", err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFavoriteRepository_CreateConstraintMapping(t *testing.T) {
	tests := []struct {
		code pq.ErrorCode
		want *domain.Error
	}{
		{pqForeignKeyViolation, domain.ErrNotFound},
		{pqCheckViolation, domain.ErrInvalidOperation},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			_, favorites, mock := newSQLMock(t)
			mock.ExpectQuery("INSERT INTO favorites").WillReturnError(&pq.Error{Code: tt.code})

			err := favorites.Create(context.Background(), &domain.Favorite{OwnerID: 1, TargetID: 2})
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestPostgresFavoriteRepository_CreateReturnsID(t *testing.T) {
	_, favorites, mock := newSQLMock(t)

	mock.ExpectQuery("INSERT INTO favorites").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	favorite := &domain.Favorite{OwnerID: 1, TargetID: 2}
	require.NoError(t, favorites.Create(context.Background(), favorite))
	assert.Equal(t, uint(7), favorite.ID)
}

func TestPostgresFavoriteRepository_FindByPairMissing(t *testing.T) {
	_, favorites, mock := newSQLMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM favorites")).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "target_id", "created_at"}))

	_, err := favorites.FindByPair(context.Background(), 1, 2)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestPostgresFavoriteRepository_FindByOwnerResolvesTarget(t *testing.T) {
	_, favorites, mock := newSQLMock(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "owner_id", "target_id", "created_at",
		"id", "user_name", "user_name_description", "password", "role", "created_at", "updated_at",
	}).
		AddRow(1, 1, 2, now, 2, "bob", nil, "hash", "user", now, now).
		AddRow(2, 1, 3, now, 3, "carol", "likes go", "hash", "admin", now, now)

	mock.ExpectQuery(regexp.QuoteMeta("JOIN users u ON u.id = f.target_id")).
		WithArgs(1).
		WillReturnRows(rows)

	got, err := favorites.FindByOwner(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "bob", got[0].Target.UserName)
	assert.Equal(t, "", got[0].Target.UserNameDescription)
	assert.Equal(t, "likes go", got[1].Target.UserNameDescription)
}

func TestPostgresFavoriteRepository_DeleteMissing(t *testing.T) {
	_, favorites, mock := newSQLMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM favorites WHERE id = $1")).
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := favorites.Delete(context.Background(), 9)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestPostgresUserRepository_FindByIDMissing(t *testing.T) {
	users, _, mock := newSQLMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := users.FindByID(context.Background(), 3)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestPostgresUserRepository_DeleteReferenced(t *testing.T) {
	users, _, mock := newSQLMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users")).
		WillReturnError(&pq.Error{Code: pqForeignKeyViolation})

	err := users.Delete(context.Background(), 3)
	assert.True(t, errors.Is(err, domain.ErrInvalidOperation))

	var e *domain.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "cannot delete user with favorites", e.Message)
}

func TestPostgresFavoriteRepository_DeleteByTargetOnlyIncoming(t *testing.T) {
	_, favorites, mock := newSQLMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM favorites WHERE target_id = $1")).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 2))

	removed, err := favorites.DeleteByTarget(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_DriverErrorIsWrapped(t *testing.T) {
	users, _, mock := newSQLMock(t)
	boom := errors.New("connection refused")

	mock.ExpectQuery("SELECT COUNT").WillReturnError(boom)

	_, err := users.Count(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, domain.Kind(""), domain.KindOf(err))
}

func TestPostgresTransactor_RollbackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM favorites WHERE owner_id").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM users").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = NewPostgresTransactor(db).WithinTx(context.Background(), func(u domain.UserRepository, f domain.FavoriteRepository) error {
		removed, err := f.DeleteByUser(context.Background(), 4)
		require.NoError(t, err)
		assert.Equal(t, int64(2), removed)
		return u.Delete(context.Background(), 4)
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTransactor_Commit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectCommit()

	err = NewPostgresTransactor(db).WithinTx(context.Background(), func(_ domain.UserRepository, f domain.FavoriteRepository) error {
		_, err := f.CountByOwner(context.Background(), 1)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
