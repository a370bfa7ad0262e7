package httpapi

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/martinsb/pantrylist/internal/common"
)

type contextKey string

const userIDKey contextKey = "userID"

// userID returns the authenticated user's id stored by requireAuth.
func userID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the
// connection's remote address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// cutBearer extracts the token from an Authorization header.
func cutBearer(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	return token, ok && token != ""
}

// requireAuth validates the Bearer access token and stores the subject in the
// request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := cutBearer(r.Header.Get("Authorization"))
		if !ok {
			s.writeError(w, r, common.E(common.CodeInvalidAccessToken, "Invalid access token."))
			return
		}
		claims := s.codec.Validate(token)
		if claims == nil {
			s.writeError(w, r, common.E(common.CodeInvalidAccessToken, "Invalid access token."))
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
		next(w, r.WithContext(ctx))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		s.logger.Debug(r.Context(), "request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	}
}

func (s *Server) recoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error(r.Context(), "panic in handler", "panic", rec, "path", r.URL.Path)
				writeJSON(w, http.StatusInternalServerError, errorBody{
					Code:  string(common.CodeUnexpectedError),
					Title: "Something went wrong.",
				})
			}
		}()
		next(w, r)
	}
}
