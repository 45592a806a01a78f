package repomanager

import (
	"context"
	"database/sql"

	"github.com/atxwallet/atxserver/internal/dbx"
	"github.com/atxwallet/atxserver/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
