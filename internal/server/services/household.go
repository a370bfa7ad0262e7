package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/martinsb/pantrylist/internal/common"
	"github.com/martinsb/pantrylist/internal/dbx"
	"github.com/martinsb/pantrylist/internal/logging"
	"github.com/martinsb/pantrylist/internal/server/identity"
	"github.com/martinsb/pantrylist/internal/server/models"
	"github.com/martinsb/pantrylist/internal/server/repositories/repomanager"
)

// HouseholdService manages households and their membership. A user belongs to
// at most one household; the membership and role live on the user row.
type HouseholdService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	identity    *identity.Service
	logger      logging.Logger
}

func NewHouseholdService(db *sql.DB, m repomanager.RepositoryManager, ident *identity.Service, logger logging.Logger) *HouseholdService {
	return &HouseholdService{db: db, repomanager: m, identity: ident, logger: logger}
}

// memberWithRole loads the user and checks household membership plus minimum
// role. Shared by every service that guards operations by role.
func memberWithRole(ctx context.Context, ident *identity.Service, userID string, min models.HouseholdRole) (*models.User, error) {
	user, err := ident.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.E(common.CodeUserIDNotFound, "User id not found.")
	}
	if user.HouseholdID == "" {
		return nil, common.E(common.CodeHouseholdRequired, "You are not a member of a household.")
	}
	if !user.Role.AtLeast(min) {
		return nil, common.E(common.CodeForbidden, "Insufficient role for this operation.")
	}
	return user, nil
}

// Create starts a new household with the caller as its manager.
func (s *HouseholdService) Create(ctx context.Context, userID, name string) (*models.Household, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.E(common.CodeInvalidInput, "Household name is required.")
	}
	user, err := s.identity.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.E(common.CodeUserIDNotFound, "User id not found.")
	}
	if user.HouseholdID != "" {
		return nil, common.E(common.CodeAlreadyInHousehold, "You already belong to a household.")
	}

	household := &models.Household{ID: uuid.NewString(), Name: name}
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Households(tx).Create(ctx, household); err != nil {
			return err
		}
		return s.repomanager.Users(tx).SetHousehold(ctx, userID, household.ID, models.RoleManager)
	}); err != nil {
		return nil, common.Wrap(common.CodeUnexpectedError, "Could not create household.", err)
	}
	s.logger.Info(ctx, "household created", "household_id", household.ID, "user_id", userID)
	return household, nil
}

// Get returns the caller's household together with its members.
func (s *HouseholdService) Get(ctx context.Context, userID string) (*models.Household, []*models.User, error) {
	user, err := memberWithRole(ctx, s.identity, userID, models.RoleReader)
	if err != nil {
		return nil, nil, err
	}
	household, err := s.repomanager.Households(s.db).GetByID(ctx, user.HouseholdID)
	if err != nil {
		return nil, nil, common.Wrap(common.CodeUnexpectedError, "Could not load household.", err)
	}
	members, err := s.repomanager.Users(s.db).ListByHousehold(ctx, user.HouseholdID)
	if err != nil {
		return nil, nil, common.Wrap(common.CodeUnexpectedError, "Could not load household.", err)
	}
	return household, members, nil
}

// Rename changes the household name. Manager only.
func (s *HouseholdService) Rename(ctx context.Context, userID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return common.E(common.CodeInvalidInput, "Household name is required.")
	}
	user, err := memberWithRole(ctx, s.identity, userID, models.RoleManager)
	if err != nil {
		return err
	}
	if err := s.repomanager.Households(s.db).Rename(ctx, user.HouseholdID, name); err != nil {
		return common.Wrap(common.CodeUnexpectedError, "Could not rename household.", err)
	}
	return nil
}

// AddMember attaches an existing account to the caller's household with the
// given role. Manager only.
func (s *HouseholdService) AddMember(ctx context.Context, managerID, email string, role models.HouseholdRole) (*models.User, error) {
	if !role.Valid() {
		return nil, common.E(common.CodeInvalidInput, "Unknown household role.")
	}
	manager, err := memberWithRole(ctx, s.identity, managerID, models.RoleManager)
	if err != nil {
		return nil, err
	}
	member, err := s.identity.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, common.E(common.CodeUserNotFound, "User not found.")
	}
	if member.HouseholdID != "" {
		return nil, common.E(common.CodeAlreadyInHousehold, "User already belongs to a household.")
	}
	if err := s.repomanager.Users(s.db).SetHousehold(ctx, member.ID, manager.HouseholdID, role); err != nil {
		return nil, common.Wrap(common.CodeUnexpectedError, "Could not add member.", err)
	}
	member.HouseholdID = manager.HouseholdID
	member.Role = role
	s.logger.Info(ctx, "household member added", "household_id", manager.HouseholdID, "user_id", member.ID, "role", string(role))
	return member, nil
}

// ChangeRole updates a member's role. Manager only; managers cannot demote
// themselves.
func (s *HouseholdService) ChangeRole(ctx context.Context, managerID, memberID string, role models.HouseholdRole) error {
	if !role.Valid() {
		return common.E(common.CodeInvalidInput, "Unknown household role.")
	}
	manager, err := memberWithRole(ctx, s.identity, managerID, models.RoleManager)
	if err != nil {
		return err
	}
	if managerID == memberID {
		return common.E(common.CodeInvalidInput, "Managers cannot change their own role.")
	}
	member, err := s.identity.FindByID(ctx, memberID)
	if err != nil {
		return err
	}
	if member == nil || member.HouseholdID != manager.HouseholdID {
		return common.E(common.CodeNotFound, "Member not found.")
	}
	if err := s.repomanager.Users(s.db).SetHousehold(ctx, memberID, manager.HouseholdID, role); err != nil {
		return common.Wrap(common.CodeUnexpectedError, "Could not change role.", err)
	}
	return nil
}

// RemoveMember detaches a member from the caller's household. Manager only;
// managers cannot remove themselves.
func (s *HouseholdService) RemoveMember(ctx context.Context, managerID, memberID string) error {
	manager, err := memberWithRole(ctx, s.identity, managerID, models.RoleManager)
	if err != nil {
		return err
	}
	if managerID == memberID {
		return common.E(common.CodeInvalidInput, "Managers cannot remove themselves.")
	}
	member, err := s.identity.FindByID(ctx, memberID)
	if err != nil {
		return err
	}
	if member == nil || member.HouseholdID != manager.HouseholdID {
		return common.E(common.CodeNotFound, "Member not found.")
	}
	if err := s.repomanager.Users(s.db).ClearHousehold(ctx, memberID); err != nil {
		return common.Wrap(common.CodeUnexpectedError, "Could not remove member.", err)
	}
	s.logger.Info(ctx, "household member removed", "household_id", manager.HouseholdID, "user_id", memberID)
	return nil
}
