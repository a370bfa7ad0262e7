// Package httpapi exposes the service layer over a JSON REST API using the
// standard library mux. Authentication is a Bearer access token; the refresh
// token travels in an HttpOnly cookie scoped to the auth routes.
package httpapi

import (
	"context"
	"net/http"

	"github.com/martinsb/pantrylist/internal/logging"
	"github.com/martinsb/pantrylist/internal/server/auth"
	"github.com/martinsb/pantrylist/internal/server/models"
	"github.com/martinsb/pantrylist/internal/server/services"
)

// Sessions is the slice of the session service the API consumes.
type Sessions interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (*models.User, error)
	Login(ctx context.Context, email, password, ip string) (*services.AuthResult, error)
	Refresh(ctx context.Context, refreshToken, ip string) (*services.AuthResult, error)
	LogoutWithRefreshToken(ctx context.Context, refreshToken, ip string) error
	LogoutWithAccessToken(ctx context.Context, accessToken, ip string) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ActiveSessions(ctx context.Context, userID string) ([]*models.RefreshToken, error)
}

// Households is the household service surface the API consumes.
type Households interface {
	Create(ctx context.Context, userID, name string) (*models.Household, error)
	Get(ctx context.Context, userID string) (*models.Household, []*models.User, error)
	Rename(ctx context.Context, userID, name string) error
	AddMember(ctx context.Context, managerID, email string, role models.HouseholdRole) (*models.User, error)
	ChangeRole(ctx context.Context, managerID, memberID string, role models.HouseholdRole) error
	RemoveMember(ctx context.Context, managerID, memberID string) error
}

// Lists is the shopping list service surface the API consumes.
type Lists interface {
	Create(ctx context.Context, userID, name string) (*models.ShoppingList, error)
	List(ctx context.Context, userID string) ([]*models.ShoppingList, error)
	Get(ctx context.Context, userID, listID string) (*models.ShoppingList, []*models.ShoppingItem, error)
	Rename(ctx context.Context, userID, listID, name string) error
	SetCompleted(ctx context.Context, userID, listID string, completed bool) error
	Delete(ctx context.Context, userID, listID string) error
	AddItem(ctx context.Context, userID, listID, name string, quantity int, notes, storeTagID string) (*models.ShoppingItem, error)
	UpdateItem(ctx context.Context, userID, itemID, name string, quantity int, notes, storeTagID string) (*models.ShoppingItem, error)
	SetItemChecked(ctx context.Context, userID, itemID string, checked bool) error
	DeleteItem(ctx context.Context, userID, itemID string) error
	DeleteCheckedItems(ctx context.Context, userID, listID string) (int64, error)
}

// Tags is the store tag service surface the API consumes.
type Tags interface {
	Create(ctx context.Context, userID, name, description, colorHex string) (*models.StoreTag, error)
	List(ctx context.Context, userID string) ([]*models.StoreTag, error)
	Update(ctx context.Context, userID, tagID, name, description, colorHex string) (*models.StoreTag, error)
	Delete(ctx context.Context, userID, tagID string) error
}

type Server struct {
	mux        *http.ServeMux
	sessions   Sessions
	households Households
	lists      Lists
	tags       Tags
	codec      *auth.TokenCodec
	logger     logging.Logger

	// secureCookies is disabled only in tests running over plain HTTP.
	secureCookies bool
}

func NewServer(sessions Sessions, households Households, lists Lists, tags Tags,
	codec *auth.TokenCodec, logger logging.Logger) *Server {
	s := &Server{
		mux:           http.NewServeMux(),
		sessions:      sessions,
		households:    households,
		lists:         lists,
		tags:          tags,
		codec:         codec,
		logger:        logger,
		secureCookies: true,
	}
	s.initRoutes()
	return s
}

// Handler returns the fully routed handler with the outer middleware applied.
func (s *Server) Handler() http.Handler {
	return s.recoverMiddleware(s.loggingMiddleware(s.mux.ServeHTTP))
}
