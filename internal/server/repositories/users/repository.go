package users

import (
	"context"

	"github.com/martinsb/pantrylist/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	SetHousehold(ctx context.Context, userID string, householdID string, role models.HouseholdRole) error
	ClearHousehold(ctx context.Context, userID string) error
	ListByHousehold(ctx context.Context, householdID string) ([]*models.User, error)
}
