package shoppinglists

import (
	"context"
	"time"

	"github.com/martinsb/pantrylist/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, list *models.ShoppingList) (*models.ShoppingList, error)
	GetByID(ctx context.Context, id string) (*models.ShoppingList, error)
	ListByHousehold(ctx context.Context, householdID string) ([]*models.ShoppingList, error)
	Rename(ctx context.Context, id string, name string) error
	SetCompleted(ctx context.Context, id string, at *time.Time) error
	Delete(ctx context.Context, id string) error
}
