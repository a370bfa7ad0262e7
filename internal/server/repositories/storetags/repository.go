package storetags

import (
	"context"

	"github.com/martinsb/pantrylist/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, tag *models.StoreTag) (*models.StoreTag, error)
	GetByID(ctx context.Context, id string) (*models.StoreTag, error)
	ListByHousehold(ctx context.Context, householdID string) ([]*models.StoreTag, error)
	Update(ctx context.Context, tag *models.StoreTag) error
	Delete(ctx context.Context, id string) error
}
