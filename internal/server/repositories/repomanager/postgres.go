// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/martinsb/pantrylist/internal/dbx"
	"github.com/martinsb/pantrylist/internal/server/migrations"
	"github.com/martinsb/pantrylist/internal/server/repositories/households"
	"github.com/martinsb/pantrylist/internal/server/repositories/refreshtokens"
	"github.com/martinsb/pantrylist/internal/server/repositories/shoppingitems"
	"github.com/martinsb/pantrylist/internal/server/repositories/shoppinglists"
	"github.com/martinsb/pantrylist/internal/server/repositories/storetags"
	"github.com/martinsb/pantrylist/internal/server/repositories/users"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook. It is stateless; every factory binds a
// fresh repository to the caller's DBTX, so the same manager serves both plain
// connections and transactions.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Households(db dbx.DBTX) households.Repository {
	return households.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) ShoppingLists(db dbx.DBTX) shoppinglists.Repository {
	return shoppinglists.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) ShoppingItems(db dbx.DBTX) shoppingitems.Repository {
	return shoppingitems.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) StoreTags(db dbx.DBTX) storetags.Repository {
	return storetags.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetDialect("pgx")
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
