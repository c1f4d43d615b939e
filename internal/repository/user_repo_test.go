package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func userColumns() []string {
	return []string{"id", "username", "email", "password", "role", "is_deleted", "created_at", "updated_at"}
}

func TestUserRepository_FindByIdentifier(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	id := uuid.NewString()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE .*email = \$1 OR username = \$2.* AND is_deleted = \$3`).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(id, "alice", "a@x.io", "hash", "user", false, now, now))

	user, err := repo.FindByIdentifier(context.Background(), "alice", true)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "hash", user.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByIdentifierNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE .*email = \$1 OR username = \$2`).
		WillReturnRows(sqlmock.NewRows(userColumns()))

	user, err := repo.FindByIdentifier(context.Background(), "ghost", false)
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByIDInvalidUUID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	user, err := repo.FindByID(context.Background(), "not-a-uuid")
	require.NoError(t, err)
	assert.Nil(t, user)

	users, err := repo.FindByIDs(context.Background(), []string{"nope"})
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Count(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users" WHERE is_deleted = $1`)).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.Count(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetDeleted(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	id := uuid.NewString()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE "users" SET .* WHERE id = .* RETURNING \*`).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(id, "alice", "a@x.io", "hash", "user", true, now, now))
	mock.ExpectCommit()

	user, err := repo.SetDeleted(context.Background(), id, true)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.True(t, user.IsDeleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetDeletedMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE "users" SET .* RETURNING \*`).
		WillReturnRows(sqlmock.NewRows(userColumns()))
	mock.ExpectCommit()

	user, err := repo.SetDeleted(context.Background(), uuid.NewString(), true)
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslateUniqueError(t *testing.T) {
	other := errors.New("connection refused")
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "nil", err: nil, want: nil},
		{name: "username", err: errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_username" (SQLSTATE 23505)`), want: ErrDuplicateUsername},
		{name: "email", err: errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email" (SQLSTATE 23505)`), want: ErrDuplicateEmail},
		{name: "gorm sentinel", err: fmt.Errorf("%w: idx_users_email", gorm.ErrDuplicatedKey), want: ErrDuplicateEmail},
		{name: "unrelated", err: other, want: other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, translateUniqueError(tt.err))
		})
	}
}
