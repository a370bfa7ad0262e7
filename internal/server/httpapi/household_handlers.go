package httpapi

import (
	"net/http"

	"github.com/martinsb/pantrylist/internal/server/models"
)

type householdResponse struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Members []userResponse `json:"members,omitempty"`
}

func (s *Server) handleHouseholdCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	household, err := s.households.Create(r.Context(), userID(r), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, householdResponse{ID: household.ID, Name: household.Name})
}

func (s *Server) handleHouseholdGet(w http.ResponseWriter, r *http.Request) {
	household, members, err := s.households.Get(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := householdResponse{ID: household.ID, Name: household.Name}
	for _, m := range members {
		resp.Members = append(resp.Members, toUserResponse(m))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHouseholdRename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.households.Rename(r.Context(), userID(r), req.Name); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMemberAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	member, err := s.households.AddMember(r.Context(), userID(r), req.Email, models.HouseholdRole(req.Role))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(member))
}

func (s *Server) handleMemberChangeRole(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Role string `json:"role"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	err := s.households.ChangeRole(r.Context(), userID(r), r.PathValue("id"), models.HouseholdRole(req.Role))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMemberRemove(w http.ResponseWriter, r *http.Request) {
	if err := s.households.RemoveMember(r.Context(), userID(r), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
