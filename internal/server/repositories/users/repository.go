package users

import (
	"context"

	"github.com/atxwallet/atxserver/internal/server/models"
)

// Repository persists account rows. Lookups return common.ErrorNotFound when
// no row matches; Create returns common.ErrorAlreadyExists when the username
// is taken.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, userName string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}
