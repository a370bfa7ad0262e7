package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/martinsb/pantrylist/internal/common"
	"github.com/martinsb/pantrylist/internal/logging"
	"github.com/martinsb/pantrylist/internal/server/identity"
	"github.com/martinsb/pantrylist/internal/server/models"
	"github.com/martinsb/pantrylist/internal/server/repositories/repomanager"
)

// ShoppingListService manages a household's shopping lists and the items on
// them. Role requirements: readers may view, shoppers may check items and
// complete lists, editors may change content.
type ShoppingListService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	identity    *identity.Service
	now         func() time.Time
	logger      logging.Logger
}

func NewShoppingListService(db *sql.DB, m repomanager.RepositoryManager, ident *identity.Service,
	now func() time.Time, logger logging.Logger) *ShoppingListService {
	if now == nil {
		now = time.Now
	}
	return &ShoppingListService{db: db, repomanager: m, identity: ident, now: now, logger: logger}
}

// listInHousehold loads the list and verifies it belongs to the user's
// household. Lists of other households are indistinguishable from absent ones.
func (s *ShoppingListService) listInHousehold(ctx context.Context, user *models.User, listID string) (*models.ShoppingList, error) {
	list, err := s.repomanager.ShoppingLists(s.db).GetByID(ctx, listID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.E(common.CodeNotFound, "Shopping list not found.")
		}
		return nil, common.Wrap(common.CodeUnexpectedError, "Could not load shopping list.", err)
	}
	if list.HouseholdID != user.HouseholdID {
		return nil, common.E(common.CodeNotFound, "Shopping list not found.")
	}
	return list, nil
}

// Create adds a new list to the caller's household. Editor and up.
func (s *ShoppingListService) Create(ctx context.Context, userID, name string) (*models.ShoppingList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.E(common.CodeInvalidInput, "List name is required.")
	}
	user, err := memberWithRole(ctx, s.identity, userID, models.RoleEditor)
	if err != nil {
		return nil, err
	}
	list := &models.ShoppingList{
		ID:          uuid.NewString(),
		HouseholdID: user.HouseholdID,
		Name:        name,
		CreatedAt:   s.now(),
	}
	if _, err := s.repomanager.ShoppingLists(s.db).Create(ctx, list); err != nil {
		return nil, common.Wrap(common.CodeUnexpectedError, "Could not create shopping list.", err)
	}
	s.logger.Debug(ctx, "shopping list created", "list_id", list.ID, "household_id", user.HouseholdID)
	return list, nil
}

// List returns all lists of the caller's household, newest first.
func (s *ShoppingListService) List(ctx context.Context, userID string) ([]*models.ShoppingList, error) {
	user, err := memberWithRole(ctx, s.identity, userID, models.RoleReader)
	if err != nil {
		return nil, err
	}
	lists, err := s.repomanager.ShoppingLists(s.db).ListByHousehold(ctx, user.HouseholdID)
	if err != nil {
		return nil, common.Wrap(common.CodeUnexpectedError, "Could not list shopping lists.", err)
	}
	return lists, nil
}

// Get returns one list of the caller's household together with its items.
func (s *ShoppingListService) Get(ctx context.Context, userID, listID string) (*models.ShoppingList, []*models.ShoppingItem, error) {
	user, err := memberWithRole(ctx, s.identity, userID, models.RoleReader)
	if err != nil {
		return nil, nil, err
	}
	list, err := s.listInHousehold(ctx, user, listID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.repomanager.ShoppingItems(s.db).ListByList(ctx, listID)
	if err != nil {
		return nil, nil, common.Wrap(common.CodeUnexpectedError, "Could not load shopping list.", err)
	}
	return list, items, nil
}

// Rename changes a list's name. Editor and up.
func (s *ShoppingListService) Rename(ctx context.Context, userID, listID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return common.E(common.CodeInvalidInput, "List name is required.")
	}
	user, err := memberWithRole(ctx, s.identity, userID, models.RoleEditor)
	if err != nil {
		return err
	}
	if _, err := s.listInHousehold(ctx, user, listID); err != nil {
		return err
	}
	if err := s.repomanager.ShoppingLists(s.db).Rename(ctx, listID, name); err != nil {
		return common.Wrap(common.CodeUnexpectedError, "Could not rename shopping list.", err)
	}
	return nil
}

// SetCompleted marks a list done or reopens it. Shopper and up.
func (s *ShoppingListService) SetCompleted(ctx context.Context, userID, listID string, completed bool) error {
	user, err := memberWithRole(ctx, s.identity, userID, models.RoleShopper)
	if err != nil {
		return err
	}
	if _, err := s.listInHousehold(ctx, user, listID); err != nil {
		return err
	}
	var at *time.Time
	if completed {
		now := s.now()
		at = &now
	}
	if err := s.repomanager.ShoppingLists(s.db).SetCompleted(ctx, listID, at); err != nil {
		return common.Wrap(common.CodeUnexpectedError, "Could not update shopping list.", err)
	}
	return nil
}

// Delete removes a list and everything on it. Editor and up.
func (s *ShoppingListService) Delete(ctx context.Context, userID, listID string) error {
	user, err := memberWithRole(ctx, s.identity, userID, models.RoleEditor)
	if err != nil {
		return err
	}
	if _, err := s.listInHousehold(ctx, user, listID); err != nil {
		return err
	}
	if err := s.repomanager.ShoppingLists(s.db).Delete(ctx, listID); err != nil {
		return common.Wrap(common.CodeUnexpectedError, "Could not delete shopping list.", err)
	}
	return nil
}

// AddItem puts a new item on a list. Editor and up. A zero quantity defaults
// to one; a tag, when given, must belong to the same household.
func (s *ShoppingListService) AddItem(ctx context.Context, userID, listID, name string, quantity int, notes, storeTagID string) (*models.ShoppingItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.E(common.CodeInvalidInput, "Item name is required.")
	}
	if quantity < 0 {
		return nil, common.E(common.CodeInvalidInput, "Quantity cannot be negative.")
	}
	if quantity == 0 {
		quantity = 1
	}
	user, err := memberWithRole(ctx, s.identity, userID, models.RoleEditor)
	if err != nil {
		return nil, err
	}
	if _, err := s.listInHousehold(ctx, user, listID); err != nil {
		return nil, err
	}
	if storeTagID != "" {
		if err := s.tagInHousehold(ctx, user, storeTagID); err != nil {
			return nil, err
		}
	}
	item := &models.ShoppingItem{
		ID:         uuid.NewString(),
		ListID:     listID,
		Name:       name,
		Quantity:   quantity,
		Notes:      strings.TrimSpace(notes),
		StoreTagID: storeTagID,
		CreatedAt:  s.now(),
	}
	if _, err := s.repomanager.ShoppingItems(s.db).Create(ctx, item); err != nil {
		return nil, common.Wrap(common.CodeUnexpectedError, "Could not add item.", err)
	}
	return item, nil
}

// UpdateItem overwrites an item's content. Editor and up.
func (s *ShoppingListService) UpdateItem(ctx context.Context, userID, itemID, name string, quantity int, notes, storeTagID string) (*models.ShoppingItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.E(common.CodeInvalidInput, "Item name is required.")
	}
	if quantity <= 0 {
		return nil, common.E(common.CodeInvalidInput, "Quantity must be positive.")
	}
	user, err := memberWithRole(ctx, s.identity, userID, models.RoleEditor)
	if err != nil {
		return nil, err
	}
	item, err := s.itemInHousehold(ctx, user, itemID)
	if err != nil {
		return nil, err
	}
	if storeTagID != "" && storeTagID != item.StoreTagID {
		if err := s.tagInHousehold(ctx, user, storeTagID); err != nil {
			return nil, err
		}
	}
	now := s.now()
	item.Name = name
	item.Quantity = quantity
	item.Notes = strings.TrimSpace(notes)
	item.StoreTagID = storeTagID
	item.UpdatedAt = &now
	if err := s.repomanager.ShoppingItems(s.db).Update(ctx, item); err != nil {
		return nil, common.Wrap(common.CodeUnexpectedError, "Could not update item.", err)
	}
	return item, nil
}

// SetItemChecked ticks an item off or puts it back. Shopper and up.
func (s *ShoppingListService) SetItemChecked(ctx context.Context, userID, itemID string, checked bool) error {
	user, err := memberWithRole(ctx, s.identity, userID, models.RoleShopper)
	if err != nil {
		return err
	}
	item, err := s.itemInHousehold(ctx, user, itemID)
	if err != nil {
		return err
	}
	now := s.now()
	item.Checked = checked
	item.UpdatedAt = &now
	if err := s.repomanager.ShoppingItems(s.db).Update(ctx, item); err != nil {
		return common.Wrap(common.CodeUnexpectedError, "Could not update item.", err)
	}
	return nil
}

// DeleteItem removes a single item. Editor and up.
func (s *ShoppingListService) DeleteItem(ctx context.Context, userID, itemID string) error {
	user, err := memberWithRole(ctx, s.identity, userID, models.RoleEditor)
	if err != nil {
		return err
	}
	if _, err := s.itemInHousehold(ctx, user, itemID); err != nil {
		return err
	}
	if err := s.repomanager.ShoppingItems(s.db).Delete(ctx, itemID); err != nil {
		return common.Wrap(common.CodeUnexpectedError, "Could not delete item.", err)
	}
	return nil
}

// DeleteCheckedItems clears everything already ticked off a list and reports
// how many items were removed. Shopper and up.
func (s *ShoppingListService) DeleteCheckedItems(ctx context.Context, userID, listID string) (int64, error) {
	user, err := memberWithRole(ctx, s.identity, userID, models.RoleShopper)
	if err != nil {
		return 0, err
	}
	if _, err := s.listInHousehold(ctx, user, listID); err != nil {
		return 0, err
	}
	n, err := s.repomanager.ShoppingItems(s.db).DeleteChecked(ctx, listID)
	if err != nil {
		return 0, common.Wrap(common.CodeUnexpectedError, "Could not delete checked items.", err)
	}
	return n, nil
}

// itemInHousehold loads an item and verifies that its list belongs to the
// user's household.
func (s *ShoppingListService) itemInHousehold(ctx context.Context, user *models.User, itemID string) (*models.ShoppingItem, error) {
	item, err := s.repomanager.ShoppingItems(s.db).GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.E(common.CodeNotFound, "Item not found.")
		}
		return nil, common.Wrap(common.CodeUnexpectedError, "Could not load item.", err)
	}
	if _, err := s.listInHousehold(ctx, user, item.ListID); err != nil {
		return nil, err
	}
	return item, nil
}

// tagInHousehold verifies a store tag belongs to the user's household.
func (s *ShoppingListService) tagInHousehold(ctx context.Context, user *models.User, storeTagID string) error {
	tag, err := s.repomanager.StoreTags(s.db).GetByID(ctx, storeTagID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.E(common.CodeNotFound, "Store tag not found.")
		}
		return common.Wrap(common.CodeUnexpectedError, "Could not load store tag.", err)
	}
	if tag.HouseholdID != user.HouseholdID {
		return common.E(common.CodeNotFound, "Store tag not found.")
	}
	return nil
}
