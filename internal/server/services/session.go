// Package services contains server-side business logic. This file implements
// SessionService, which handles registration, login, refresh token rotation
// and revocation.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/martinsb/pantrylist/internal/common"
	"github.com/martinsb/pantrylist/internal/dbx"
	"github.com/martinsb/pantrylist/internal/logging"
	"github.com/martinsb/pantrylist/internal/server/auth"
	"github.com/martinsb/pantrylist/internal/server/config"
	"github.com/martinsb/pantrylist/internal/server/identity"
	"github.com/martinsb/pantrylist/internal/server/models"
	"github.com/martinsb/pantrylist/internal/server/repositories/repomanager"
)

// AuthResult is returned by every operation that establishes a session. The
// refresh token is the only place its plaintext ever appears; storage keeps
// hashes.
type AuthResult struct {
	User                  *models.User
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

// SessionService provides the session lifecycle:
// - Register: create an account and start a session
// - Login: verify credentials and start a session
// - Refresh: rotate a refresh token, detecting reuse
// - LogoutWithRefreshToken / LogoutWithAccessToken: end sessions
type SessionService struct {
	db                   *sql.DB
	repomanager          repomanager.RepositoryManager
	identity             *identity.Service
	codec                *auth.TokenCodec
	refreshTokenValidity time.Duration
	now                  func() time.Time
	logger               logging.Logger
}

// NewSessionService constructs a SessionService using repositories and server
// config. A nil now falls back to time.Now.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, ident *identity.Service,
	codec *auth.TokenCodec, cfg *config.Config, now func() time.Time, logger logging.Logger) *SessionService {
	if now == nil {
		now = time.Now
	}
	return &SessionService{
		db:                   db,
		repomanager:          m,
		identity:             ident,
		codec:                codec,
		refreshTokenValidity: cfg.RefreshTokenValidityDuration,
		now:                  now,
		logger:               logger,
	}
}

// Register creates a new account. No session is started; the caller logs in
// afterward.
func (s *SessionService) Register(ctx context.Context, email, password, firstName, lastName string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, common.E(common.CodeInvalidInput, "Email and password are required.")
	}
	user, err := s.identity.CreateUser(ctx, email, password, firstName, lastName)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies the credentials and starts a session. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *SessionService) Login(ctx context.Context, email, password, ip string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, common.E(common.CodeInvalidInput, "Email and password are required.")
	}
	user, err := s.identity.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.identity.VerifyPassword(user, password) {
		return nil, common.E(common.CodeInvalidCredentials, "Email or password is incorrect.")
	}
	s.logger.Debug(ctx, "user logged in", "user_id", user.ID)
	return s.startSession(ctx, user, ip, s.db)
}

// Refresh rotates the presented refresh token: the old token is revoked with a
// pointer to its replacement and a new one is issued, atomically. A token that
// is revoked or expired is treated as evidence of theft and every active
// session of its owner is ended.
func (s *SessionService) Refresh(ctx context.Context, refreshToken, ip string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, common.E(common.CodeInvalidRefreshToken, "Invalid refresh token.")
	}
	tokenHash := auth.HashToken(refreshToken)

	repo := s.repomanager.RefreshTokens(s.db)
	token, err := repo.FindByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.E(common.CodeInvalidRefreshToken, "Invalid refresh token.")
		}
		return nil, common.Wrap(common.CodeUnexpectedError, "Could not refresh session.", err)
	}

	now := s.now()
	if !token.IsActive(now) {
		if err := s.revokeAllSessions(ctx, token.UserID, ip); err != nil {
			return nil, err
		}
		s.logger.Warn(ctx, "inactive refresh token presented, all sessions revoked", "user_id", token.UserID)
		return nil, common.E(common.CodeInvalidRefreshToken, "Invalid refresh token.")
	}

	user, err := s.identity.FindByID(ctx, token.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.E(common.CodeUserNotFound, "User not found.")
	}

	plaintext, err := auth.RandomTokenURLSafe(auth.RefreshTokenBytes)
	if err != nil {
		return nil, common.Wrap(common.CodeRefreshTokenGenerationFailed, "Could not generate refresh token.", err)
	}
	newToken := &models.RefreshToken{
		UserID:      token.UserID,
		TokenHash:   auth.HashToken(plaintext),
		CreatedAt:   now,
		CreatedByIP: ip,
		ExpiresAt:   now.Add(s.refreshTokenValidity),
	}

	reused := false
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.RefreshTokens(tx)
		ok, err := repoTx.Revoke(ctx, tokenHash, now, ip, newToken.TokenHash)
		if err != nil {
			return err
		}
		if !ok {
			// A concurrent rotation won the race; this presentation counts
			// as reuse.
			reused = true
			_, err := repoTx.RevokeAllActiveByUser(ctx, token.UserID, now, ip)
			return err
		}
		_, err = repoTx.Create(ctx, newToken)
		return err
	}); err != nil {
		return nil, common.Wrap(common.CodeUnexpectedError, "Could not refresh session.", err)
	}
	if reused {
		s.logger.Warn(ctx, "refresh token reused concurrently, all sessions revoked", "user_id", token.UserID)
		return nil, common.E(common.CodeInvalidRefreshToken, "Invalid refresh token.")
	}

	accessToken, expiresAt, err := s.codec.Issue(user.ID, user.Email)
	if err != nil {
		if common.CodeOf(err) == common.CodeConfigurationError {
			return nil, err
		}
		return nil, common.Wrap(common.CodeTokenGenerationFailed, "Could not generate access token.", err)
	}

	return &AuthResult{
		User:                  user,
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  expiresAt,
		RefreshToken:          plaintext,
		RefreshTokenExpiresAt: newToken.ExpiresAt,
	}, nil
}

// LogoutWithRefreshToken revokes the session the token belongs to. Revoking an
// unknown or already revoked token succeeds without effect, so clients may
// retry freely.
func (s *SessionService) LogoutWithRefreshToken(ctx context.Context, refreshToken, ip string) error {
	if refreshToken == "" {
		return common.E(common.CodeInvalidRefreshToken, "Invalid refresh token.")
	}
	tokenHash := auth.HashToken(refreshToken)

	repo := s.repomanager.RefreshTokens(s.db)
	token, err := repo.FindByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return common.Wrap(common.CodeUnexpectedError, "Could not revoke session.", err)
	}
	if !token.IsActive(s.now()) {
		return nil
	}
	if _, err := repo.Revoke(ctx, tokenHash, s.now(), ip, ""); err != nil {
		return common.Wrap(common.CodeUnexpectedError, "Could not revoke session.", err)
	}
	s.logger.Debug(ctx, "session revoked", "user_id", token.UserID)
	return nil
}

// LogoutWithAccessToken ends every session of the token's owner. The access
// token may already be expired; only its signature must verify.
func (s *SessionService) LogoutWithAccessToken(ctx context.Context, accessToken, ip string) error {
	claims := s.codec.ValidateExpired(accessToken)
	if claims == nil {
		return common.E(common.CodeInvalidAccessToken, "Invalid access token.")
	}

	user, err := s.identity.FindByID(ctx, claims.Subject)
	if err != nil {
		return err
	}
	if user == nil {
		return common.E(common.CodeUserIDNotFound, "User id not found.")
	}

	if err := s.revokeAllSessions(ctx, user.ID, ip); err != nil {
		return err
	}
	s.logger.Info(ctx, "all sessions revoked", "user_id", user.ID)
	return nil
}

// GetUserByID returns the account behind an authenticated session.
func (s *SessionService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.identity.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.E(common.CodeUserNotFound, "User not found.")
	}
	return user, nil
}

// ActiveSessions lists the user's refresh tokens that are still usable.
func (s *SessionService) ActiveSessions(ctx context.Context, userID string) ([]*models.RefreshToken, error) {
	repo := s.repomanager.RefreshTokens(s.db)
	tokens, err := repo.ListActiveByUser(ctx, userID, s.now())
	if err != nil {
		return nil, common.Wrap(common.CodeUnexpectedError, "Could not list sessions.", err)
	}
	return tokens, nil
}

// startSession issues a refresh token row and an access token for the user.
func (s *SessionService) startSession(ctx context.Context, user *models.User, ip string, db dbx.DBTX) (*AuthResult, error) {
	plaintext, err := auth.RandomTokenURLSafe(auth.RefreshTokenBytes)
	if err != nil {
		return nil, common.Wrap(common.CodeRefreshTokenGenerationFailed, "Could not generate refresh token.", err)
	}

	now := s.now()
	token := &models.RefreshToken{
		UserID:      user.ID,
		TokenHash:   auth.HashToken(plaintext),
		CreatedAt:   now,
		CreatedByIP: ip,
		ExpiresAt:   now.Add(s.refreshTokenValidity),
	}
	repo := s.repomanager.RefreshTokens(db)
	if _, err := repo.Create(ctx, token); err != nil {
		return nil, common.Wrap(common.CodeUnexpectedError, "Could not start session.", err)
	}

	accessToken, expiresAt, err := s.codec.Issue(user.ID, user.Email)
	if err != nil {
		if common.CodeOf(err) == common.CodeConfigurationError {
			return nil, err
		}
		return nil, common.Wrap(common.CodeTokenGenerationFailed, "Could not generate access token.", err)
	}

	return &AuthResult{
		User:                  user,
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  expiresAt,
		RefreshToken:          plaintext,
		RefreshTokenExpiresAt: token.ExpiresAt,
	}, nil
}

// revokeAllSessions mass-revokes the user's active tokens in one transaction.
func (s *SessionService) revokeAllSessions(ctx context.Context, userID, ip string) error {
	now := s.now()
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := s.repomanager.RefreshTokens(tx).RevokeAllActiveByUser(ctx, userID, now, ip)
		return err
	}); err != nil {
		return common.Wrap(common.CodeUnexpectedError, "Could not revoke sessions.", err)
	}
	return nil
}
