// Package models declares the persistent entities shared by repositories and
// services on the server side.
package models

import "time"

// User is an account record. PasswordHash is a bcrypt hash; the plaintext
// password never reaches a repository. HouseholdID and Role are empty until
// the user joins a household (single-household membership).
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	HouseholdID  string
	Role         HouseholdRole
	CreatedAt    time.Time
}

// HouseholdRole orders household permissions from weakest to strongest.
type HouseholdRole string

const (
	RoleNone    HouseholdRole = ""
	RoleReader  HouseholdRole = "reader"
	RoleShopper HouseholdRole = "shopper"
	RoleEditor  HouseholdRole = "editor"
	RoleManager HouseholdRole = "manager"
)

var roleRank = map[HouseholdRole]int{
	RoleReader:  1,
	RoleShopper: 2,
	RoleEditor:  3,
	RoleManager: 4,
}

// Valid reports whether r names a known role.
func (r HouseholdRole) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r grants at least the permissions of required.
// RoleNone never satisfies any requirement.
func (r HouseholdRole) AtLeast(required HouseholdRole) bool {
	return roleRank[r] >= roleRank[required] && roleRank[r] > 0
}
