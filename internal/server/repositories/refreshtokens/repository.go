package refreshtokens

import (
	"context"
	"time"

	"github.com/martinsb/pantrylist/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, token *models.RefreshToken) (*models.RefreshToken, error)
	FindByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	ListActiveByUser(ctx context.Context, userID string, now time.Time) ([]*models.RefreshToken, error)
	Revoke(ctx context.Context, tokenHash string, at time.Time, ip string, replacedByHash string) (bool, error)
	RevokeAllActiveByUser(ctx context.Context, userID string, at time.Time, ip string) (int64, error)
}
