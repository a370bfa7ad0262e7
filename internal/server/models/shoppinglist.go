package models

import "time"

// ShoppingList is a household's list of items for one shopping run.
type ShoppingList struct {
	ID          string
	HouseholdID string
	Name        string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// ShoppingItem is a single entry on a shopping list. StoreTagID is empty when
// the item is not tagged to a store.
type ShoppingItem struct {
	ID         string
	ListID     string
	Name       string
	Quantity   int
	Notes      string
	Checked    bool
	StoreTagID string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}
