// Package services contains server-side business logic. This file implements
// UserService, which handles registration and login and mints session tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atxwallet/atxserver/internal/common"
	"github.com/atxwallet/atxserver/internal/server/models"
	"github.com/atxwallet/atxserver/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID, username string) (string, time.Time, error)
}

// AuthResult is returned by a successful Register or Login.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// UserService provides authentication-related operations:
// - Register: create users with bcrypt-hashed passwords
// - Login: verify credentials and mint a session token
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	issuer      TokenIssuer
	hashCost    int
}

// NewUserService constructs a UserService. A nil db means the database was
// not reachable at boot; Register and Login then fail with ErrorUnavailable.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, issuer TokenIssuer) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		issuer:      issuer,
		hashCost:    bcrypt.DefaultCost,
	}
}

// Available reports whether the credential store was connected at boot.
func (s *UserService) Available() bool {
	return s.db != nil
}

// Register creates a user and returns a token for it. Username conflicts are
// reported as common.ErrorAlreadyExists by the repository.
func (s *UserService) Register(ctx context.Context, name, username, email, password string) (*AuthResult, error) {
	if username == "" || password == "" {
		return nil, common.ErrorBadRequest
	}
	if !s.Available() {
		return nil, common.ErrorUnavailable
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password too long", common.ErrorBadRequest)
		}
		return nil, fmt.Errorf("%w: hash password: %v", common.ErrorInternal, err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(name),
		UserName:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: string(hash),
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.authResult(u)
}

// Login looks the user up by username, then by email, and checks the
// password. Unknown users and wrong passwords both yield
// common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, login, password string) (*AuthResult, error) {
	if login == "" || password == "" {
		return nil, common.ErrorBadRequest
	}
	if !s.Available() {
		return nil, common.ErrorUnavailable
	}

	user, err := s.findByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrorUnauthorized
	}

	return s.authResult(user)
}

func (s *UserService) findByLogin(ctx context.Context, login string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByLogin(ctx, login)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	return repo.GetUserByEmail(ctx, login)
}

func (s *UserService) authResult(u *models.User) (*AuthResult, error) {
	token, expiresAt, err := s.issuer.Issue(u.ID, u.UserName)
	if err != nil {
		return nil, fmt.Errorf("%w: issue token: %v", common.ErrorInternal, err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: u}, nil
}
