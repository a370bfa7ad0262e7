package httpapi

import (
	"net/http"
	"time"

	"github.com/martinsb/pantrylist/internal/common"
	"github.com/martinsb/pantrylist/internal/server/models"
	"github.com/martinsb/pantrylist/internal/server/services"
)

const refreshCookieName = "refreshToken"

type userResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	HouseholdID string    `json:"householdId,omitempty"`
	Role        string    `json:"role,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		HouseholdID: u.HouseholdID,
		Role:        string(u.Role),
		CreatedAt:   u.CreatedAt,
	}
}

type authResponse struct {
	AccessToken          string       `json:"accessToken"`
	AccessTokenExpiresAt time.Time    `json:"accessTokenExpiresAt"`
	User                 userResponse `json:"user"`
}

// setRefreshCookie scopes the refresh token to the auth routes so it is never
// sent with ordinary API calls.
func (s *Server) setRefreshCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/api/v1/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) writeAuthResult(w http.ResponseWriter, status int, res *services.AuthResult) {
	s.setRefreshCookie(w, res.RefreshToken, res.RefreshTokenExpiresAt)
	writeJSON(w, status, authResponse{
		AccessToken:          res.AccessToken,
		AccessTokenExpiresAt: res.AccessTokenExpiresAt,
		User:                 toUserResponse(res.User),
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := s.sessions.Register(r.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := s.sessions.Login(r.Context(), req.Email, req.Password, clientIP(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeAuthResult(w, http.StatusOK, res)
}

// refreshTokenFromRequest reads the refresh token from the cookie, falling
// back to the request body for clients that cannot use cookies.
func refreshTokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(refreshCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if r.Body != nil {
		_ = decodeBody(r, &req)
	}
	return req.RefreshToken
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	token := refreshTokenFromRequest(r)
	if token == "" {
		s.writeError(w, r, common.E(common.CodeInvalidRefreshToken, "Invalid refresh token."))
		return
	}
	res, err := s.sessions.Refresh(r.Context(), token, clientIP(r))
	if err != nil {
		s.clearRefreshCookie(w)
		s.writeError(w, r, err)
		return
	}
	s.writeAuthResult(w, http.StatusOK, res)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := refreshTokenFromRequest(r)
	if token != "" {
		if err := s.sessions.LogoutWithRefreshToken(r.Context(), token, clientIP(r)); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	s.clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLogoutAll(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	token, ok := cutBearer(header)
	if !ok {
		s.writeError(w, r, common.E(common.CodeInvalidAccessToken, "Invalid access token."))
		return
	}
	if err := s.sessions.LogoutWithAccessToken(r.Context(), token, clientIP(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.sessions.GetUserByID(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

type sessionResponse struct {
	CreatedAt   time.Time `json:"createdAt"`
	CreatedByIP string    `json:"createdByIp"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

func (s *Server) handleMeSessions(w http.ResponseWriter, r *http.Request) {
	tokens, err := s.sessions.ActiveSessions(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sessions := make([]sessionResponse, 0, len(tokens))
	for _, t := range tokens {
		sessions = append(sessions, sessionResponse{
			CreatedAt:   t.CreatedAt,
			CreatedByIP: t.CreatedByIP,
			ExpiresAt:   t.ExpiresAt,
		})
	}
	writeJSON(w, http.StatusOK, sessions)
}
