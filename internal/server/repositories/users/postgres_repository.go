// Package users implements the credential store on PostgreSQL.
package users

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/atxwallet/atxserver/internal/common"
	"github.com/atxwallet/atxserver/internal/dbx"
	"github.com/atxwallet/atxserver/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts user and fills its ID and timestamps. Username uniqueness is
// left to the users_username_key constraint, so concurrent inserts of the
// same name cannot both succeed.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (name, username, email, password_hash)
         VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		nullable(user.Name), user.UserName, nullable(user.Email), user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return nil, classify(err)
	}

	return user, nil
}

func (r *PostgresRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	query :=
		`SELECT id, name, username, email, password_hash, created_at, updated_at FROM users
		 WHERE username = $1
		 `

	return r.getOne(ctx, query, userName)
}

// GetUserByEmail returns the oldest account registered with email; emails are
// not unique.
func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, name, username, email, password_hash, created_at, updated_at FROM users
		 WHERE email = $1
		 ORDER BY created_at
		 LIMIT 1
		 `

	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg string) (*models.User, error) {
	var (
		user  models.User
		name  sql.NullString
		email sql.NullString
	)

	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &name, &user.UserName, &email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, classify(err)
	}

	user.Name = name.String
	user.Email = email.String

	return &user, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// classify maps driver errors onto the common sentinels.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", common.ErrorAlreadyExists, pgErr.ConstraintName)
	}

	if isConnectivityError(err) {
		return fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
	}

	return fmt.Errorf("db error: %w", err)
}

func isConnectivityError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
