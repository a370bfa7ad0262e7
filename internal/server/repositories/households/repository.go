package households

import (
	"context"

	"github.com/martinsb/pantrylist/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, household *models.Household) (*models.Household, error)
	GetByID(ctx context.Context, id string) (*models.Household, error)
	Rename(ctx context.Context, id string, name string) error
}
