package users

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/atxwallet/atxserver/internal/common"
	"github.com/atxwallet/atxserver/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertQuery  = `(?s)^INSERT\s+INTO\s+users\s*\(name,\s*username,\s*email,\s*password_hash\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+id,\s*created_at,\s*updated_at\s*$`
	byLoginQuery = `(?s)^SELECT\s+id,\s*name,\s*username,\s*email,\s*password_hash,\s*created_at,\s*updated_at\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1\s*$`
	byEmailQuery = `(?s)^SELECT\s+id,.*FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+LIMIT\s+1\s*$`
)

var userColumns = []string{"id", "name", "username", "email", "password_hash", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(insertQuery).
		WithArgs("Alice", "alice", nil, "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("u-42", now, now))

	u := &models.User{Name: "Alice", UserName: "alice", PasswordHash: "hash"}
	got, err := repo.Create(context.Background(), u)
	require.NoError(t, err)

	assert.Equal(t, "u-42", got.ID)
	assert.Equal(t, "alice", got.UserName)
	assert.Equal(t, now, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQuery).
		WithArgs(nil, "alice", "a@example.com", "hash").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	_, err := repo.Create(context.Background(), &models.User{UserName: "alice", Email: "a@example.com", PasswordHash: "hash"})
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
	assert.Contains(t, err.Error(), "users_username_key")
}

func TestCreate_ConnectivityError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQuery).WillReturnError(&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")})

	_, err := repo.Create(context.Background(), &models.User{UserName: "alice", PasswordHash: "hash"})
	require.ErrorIs(t, err, common.ErrorUnavailable)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQuery).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{UserName: "alice", PasswordHash: "hash"})
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
	assert.NotErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestGetUserByLogin_Found(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(userColumns).AddRow("u-1", nil, "alice", "a@example.com", "hash", now, now)
	mock.ExpectQuery(byLoginQuery).WithArgs("alice").WillReturnRows(rows)

	got, err := repo.GetUserByLogin(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, "u-1", got.ID)
	assert.Equal(t, "", got.Name)
	assert.Equal(t, "alice", got.UserName)
	assert.Equal(t, "a@example.com", got.Email)
	assert.Equal(t, "hash", got.PasswordHash)
}

func TestGetUserByLogin_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(byLoginQuery).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetUserByLogin(context.Background(), "ghost")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetUserByLogin_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(byLoginQuery).WithArgs("alice").WillReturnError(errors.New("db err"))

	_, err := repo.GetUserByLogin(context.Background(), "alice")
	require.Error(t, err)
	assert.Regexp(t, `db error: .*db err`, err.Error())
}

func TestGetUserByEmail_Found(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(userColumns).AddRow("u-7", "Bob", "bob", "b@example.com", "hash", now, now)
	mock.ExpectQuery(byEmailQuery).WithArgs("b@example.com").WillReturnRows(rows)

	got, err := repo.GetUserByEmail(context.Background(), "b@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u-7", got.ID)
	assert.Equal(t, "Bob", got.Name)
	assert.Equal(t, "bob", got.UserName)
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(byEmailQuery).WithArgs("nobody@example.com").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetUserByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, common.ErrorNotFound)
}
