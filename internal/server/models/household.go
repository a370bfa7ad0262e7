package models

// Household groups users that share shopping lists and store tags.
// Membership lives on the user row (single household per user).
type Household struct {
	ID   string
	Name string
}
