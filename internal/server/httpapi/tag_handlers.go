package httpapi

import (
	"net/http"
	"time"

	"github.com/martinsb/pantrylist/internal/server/models"
)

type tagResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	ColorHex    string     `json:"colorHex,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

func toTagResponse(t *models.StoreTag) tagResponse {
	return tagResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		ColorHex:    t.ColorHex,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type tagRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ColorHex    string `json:"colorHex"`
}

func (s *Server) handleTagCreate(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tag, err := s.tags.Create(r.Context(), userID(r), req.Name, req.Description, req.ColorHex)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTagResponse(tag))
}

func (s *Server) handleTagIndex(w http.ResponseWriter, r *http.Request) {
	tags, err := s.tags.List(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := make([]tagResponse, 0, len(tags))
	for _, t := range tags {
		resp = append(resp, toTagResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTagUpdate(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tag, err := s.tags.Update(r.Context(), userID(r), r.PathValue("id"), req.Name, req.Description, req.ColorHex)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTagResponse(tag))
}

func (s *Server) handleTagDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.tags.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
