// Package identity implements account creation and credential verification.
// Passwords are stored as bcrypt hashes; the plaintext never leaves this
// package.
package identity

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/martinsb/pantrylist/internal/common"
	"github.com/martinsb/pantrylist/internal/server/models"
	"github.com/martinsb/pantrylist/internal/server/repositories/users"
)

const minPasswordLength = 12

type Service struct {
	users      users.Repository
	bcryptCost int
	now        func() time.Time
}

// NewService constructs the identity service. A non-positive cost falls back
// to bcrypt.DefaultCost.
func NewService(users users.Repository, bcryptCost int, now func() time.Time) *Service {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if now == nil {
		now = time.Now
	}
	return &Service{users: users, bcryptCost: bcryptCost, now: now}
}

// validatePassword enforces the account password policy and reports the first
// violated rule.
func validatePassword(password string) *common.Error {
	if len(password) < minPasswordLength {
		return common.E(common.CodePasswordTooShort, "Passwords must be at least 12 characters.")
	}
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	if !hasUpper {
		return common.E(common.CodePasswordRequiresUpper, "Passwords must have at least one uppercase ('A'-'Z').")
	}
	if !hasLower {
		return common.E(common.CodePasswordRequiresLower, "Passwords must have at least one lowercase ('a'-'z').")
	}
	if !hasDigit {
		return common.E(common.CodePasswordRequiresDigit, "Passwords must have at least one digit ('0'-'9').")
	}
	if !hasSymbol {
		return common.E(common.CodePasswordRequiresNonAlphanumeric, "Passwords must have at least one non alphanumeric character.")
	}
	return nil
}

// validateEmail rejects addresses the mail package cannot parse as a single
// bare address.
func validateEmail(email string) *common.Error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return common.E(common.CodeInvalidEmail, "Email is invalid.")
	}
	return nil
}

// CreateUser validates the email and password, hashes the password and stores
// the new account. The email is unique case-insensitively.
func (s *Service) CreateUser(ctx context.Context, email, password, firstName, lastName string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, common.E(common.CodeInvalidModel, "Email and password are required.")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, common.Wrap(common.CodeUnexpectedError, "Could not create user.", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		CreatedAt:    s.now(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorDuplicate) {
			return nil, common.E(common.CodeDuplicateEmail, "Email is already taken.")
		}
		return nil, common.Wrap(common.CodeUnexpectedError, "Could not create user.", err)
	}
	return created, nil
}

// FindByEmail returns the account for the address, or nil when none exists.
func (s *Service) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, common.Wrap(common.CodeUnexpectedError, "Could not look up user.", err)
	}
	return user, nil
}

// FindByID returns the account with the given id, or nil when none exists.
func (s *Service) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, common.Wrap(common.CodeUnexpectedError, "Could not look up user.", err)
	}
	return user, nil
}

// VerifyPassword reports whether the plaintext matches the user's stored hash.
func (s *Service) VerifyPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
