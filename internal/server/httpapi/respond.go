package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/martinsb/pantrylist/internal/common"
)

// errorBody is the JSON shape of every failed response.
type errorBody struct {
	Code  string `json:"code"`
	Title string `json:"title"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// statusForCode maps service error codes onto HTTP statuses. Unknown codes are
// treated as internal failures so nothing leaks by accident.
func statusForCode(code common.ErrorCode) int {
	switch code {
	case common.CodeInvalidModel, common.CodeInvalidInput, common.CodeInvalidEmail,
		common.CodeDuplicateEmail, common.CodeAlreadyInHousehold,
		common.CodePasswordTooShort, common.CodePasswordRequiresUpper,
		common.CodePasswordRequiresLower, common.CodePasswordRequiresDigit,
		common.CodePasswordRequiresNonAlphanumeric:
		return http.StatusBadRequest
	case common.CodeInvalidCredentials, common.CodeInvalidRefreshToken, common.CodeInvalidAccessToken:
		return http.StatusUnauthorized
	case common.CodeForbidden, common.CodeHouseholdRequired:
		return http.StatusForbidden
	case common.CodeNotFound, common.CodeUserNotFound, common.CodeUserIDNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var serr *common.Error
	if !errors.As(err, &serr) {
		s.logger.Error(r.Context(), "unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Code:  string(common.CodeUnexpectedError),
			Title: "Something went wrong.",
		})
		return
	}
	status := statusForCode(serr.Code)
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "internal error", "code", string(serr.Code), "error", err)
	}
	writeJSON(w, status, errorBody{Code: string(serr.Code), Title: serr.Title})
}

// decodeBody decodes without reporting; used where the body is optional.
func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Code:  string(common.CodeInvalidModel),
			Title: "Request body is not valid JSON.",
		})
		return false
	}
	return true
}
