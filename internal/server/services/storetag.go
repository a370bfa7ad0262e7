package services

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/martinsb/pantrylist/internal/common"
	"github.com/martinsb/pantrylist/internal/dbx"
	"github.com/martinsb/pantrylist/internal/logging"
	"github.com/martinsb/pantrylist/internal/server/identity"
	"github.com/martinsb/pantrylist/internal/server/models"
	"github.com/martinsb/pantrylist/internal/server/repositories/repomanager"
)

var colorHexPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// StoreTagService manages a household's store tags. Tag names are unique per
// household.
type StoreTagService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	identity    *identity.Service
	now         func() time.Time
	logger      logging.Logger
}

func NewStoreTagService(db *sql.DB, m repomanager.RepositoryManager, ident *identity.Service,
	now func() time.Time, logger logging.Logger) *StoreTagService {
	if now == nil {
		now = time.Now
	}
	return &StoreTagService{db: db, repomanager: m, identity: ident, now: now, logger: logger}
}

func validateTagInput(name, colorHex string) (string, *common.Error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", common.E(common.CodeInvalidInput, "Tag name is required.")
	}
	if colorHex != "" && !colorHexPattern.MatchString(colorHex) {
		return "", common.E(common.CodeInvalidInput, "Tag color must look like #RRGGBB.")
	}
	return name, nil
}

// Create adds a tag to the caller's household. Editor and up.
func (s *StoreTagService) Create(ctx context.Context, userID, name, description, colorHex string) (*models.StoreTag, error) {
	name, verr := validateTagInput(name, colorHex)
	if verr != nil {
		return nil, verr
	}
	user, err := memberWithRole(ctx, s.identity, userID, models.RoleEditor)
	if err != nil {
		return nil, err
	}
	tag := &models.StoreTag{
		ID:          uuid.NewString(),
		HouseholdID: user.HouseholdID,
		Name:        name,
		Description: strings.TrimSpace(description),
		ColorHex:    colorHex,
		CreatedAt:   s.now(),
	}
	if _, err := s.repomanager.StoreTags(s.db).Create(ctx, tag); err != nil {
		if errors.Is(err, common.ErrorDuplicate) {
			return nil, common.E(common.CodeInvalidInput, "A tag with this name already exists.")
		}
		return nil, common.Wrap(common.CodeUnexpectedError, "Could not create tag.", err)
	}
	return tag, nil
}

// List returns the household's tags ordered by name.
func (s *StoreTagService) List(ctx context.Context, userID string) ([]*models.StoreTag, error) {
	user, err := memberWithRole(ctx, s.identity, userID, models.RoleReader)
	if err != nil {
		return nil, err
	}
	tags, err := s.repomanager.StoreTags(s.db).ListByHousehold(ctx, user.HouseholdID)
	if err != nil {
		return nil, common.Wrap(common.CodeUnexpectedError, "Could not list tags.", err)
	}
	return tags, nil
}

// Update changes a tag's name, description or color. Editor and up.
func (s *StoreTagService) Update(ctx context.Context, userID, tagID, name, description, colorHex string) (*models.StoreTag, error) {
	name, verr := validateTagInput(name, colorHex)
	if verr != nil {
		return nil, verr
	}
	user, err := memberWithRole(ctx, s.identity, userID, models.RoleEditor)
	if err != nil {
		return nil, err
	}
	tag, err := s.tagInHousehold(ctx, user, tagID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	tag.Name = name
	tag.Description = strings.TrimSpace(description)
	tag.ColorHex = colorHex
	tag.UpdatedAt = &now
	if err := s.repomanager.StoreTags(s.db).Update(ctx, tag); err != nil {
		if errors.Is(err, common.ErrorDuplicate) {
			return nil, common.E(common.CodeInvalidInput, "A tag with this name already exists.")
		}
		return nil, common.Wrap(common.CodeUnexpectedError, "Could not update tag.", err)
	}
	return tag, nil
}

// Delete removes a tag, detaching it from any items first so the two changes
// land atomically. Editor and up.
func (s *StoreTagService) Delete(ctx context.Context, userID, tagID string) error {
	user, err := memberWithRole(ctx, s.identity, userID, models.RoleEditor)
	if err != nil {
		return err
	}
	if _, err := s.tagInHousehold(ctx, user, tagID); err != nil {
		return err
	}
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.ShoppingItems(tx).ClearTag(ctx, tagID); err != nil {
			return err
		}
		return s.repomanager.StoreTags(tx).Delete(ctx, tagID)
	}); err != nil {
		return common.Wrap(common.CodeUnexpectedError, "Could not delete tag.", err)
	}
	s.logger.Debug(ctx, "store tag deleted", "tag_id", tagID)
	return nil
}

func (s *StoreTagService) tagInHousehold(ctx context.Context, user *models.User, tagID string) (*models.StoreTag, error) {
	tag, err := s.repomanager.StoreTags(s.db).GetByID(ctx, tagID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.E(common.CodeNotFound, "Store tag not found.")
		}
		return nil, common.Wrap(common.CodeUnexpectedError, "Could not load store tag.", err)
	}
	if tag.HouseholdID != user.HouseholdID {
		return nil, common.E(common.CodeNotFound, "Store tag not found.")
	}
	return tag, nil
}
