package models

import "time"

// StoreTag labels items with the store they are usually bought in.
// ColorHex is a "#RRGGBB" display color.
type StoreTag struct {
	ID          string
	HouseholdID string
	Name        string
	Description string
	ColorHex    string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
