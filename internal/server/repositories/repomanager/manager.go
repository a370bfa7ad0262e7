package repomanager

import (
	"context"
	"database/sql"

	"github.com/martinsb/pantrylist/internal/dbx"
	"github.com/martinsb/pantrylist/internal/server/repositories/households"
	"github.com/martinsb/pantrylist/internal/server/repositories/refreshtokens"
	"github.com/martinsb/pantrylist/internal/server/repositories/shoppingitems"
	"github.com/martinsb/pantrylist/internal/server/repositories/shoppinglists"
	"github.com/martinsb/pantrylist/internal/server/repositories/storetags"
	"github.com/martinsb/pantrylist/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Households(db dbx.DBTX) households.Repository
	ShoppingLists(db dbx.DBTX) shoppinglists.Repository
	ShoppingItems(db dbx.DBTX) shoppingitems.Repository
	StoreTags(db dbx.DBTX) storetags.Repository
}
