package shoppingitems

import (
	"context"

	"github.com/martinsb/pantrylist/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, item *models.ShoppingItem) (*models.ShoppingItem, error)
	GetByID(ctx context.Context, id string) (*models.ShoppingItem, error)
	ListByList(ctx context.Context, listID string) ([]*models.ShoppingItem, error)
	Update(ctx context.Context, item *models.ShoppingItem) error
	Delete(ctx context.Context, id string) error
	DeleteChecked(ctx context.Context, listID string) (int64, error)
	ClearTag(ctx context.Context, storeTagID string) error
}
