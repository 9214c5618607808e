package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/carshowroom/internal/dbx"
	"github.com/dmitrijs2005/carshowroom/internal/server/repositories/cars"
	"github.com/dmitrijs2005/carshowroom/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Cars(db dbx.DBTX) cars.Repository
}
