package httpapi

import (
	"net/http"
	"time"

	"github.com/martinsb/pantrylist/internal/server/models"
)

type listResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	CreatedAt   time.Time      `json:"createdAt"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
	Items       []itemResponse `json:"items,omitempty"`
}

type itemResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Quantity   int        `json:"quantity"`
	Notes      string     `json:"notes,omitempty"`
	Checked    bool       `json:"checked"`
	StoreTagID string     `json:"storeTagId,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

func toListResponse(l *models.ShoppingList) listResponse {
	return listResponse{ID: l.ID, Name: l.Name, CreatedAt: l.CreatedAt, CompletedAt: l.CompletedAt}
}

func toItemResponse(i *models.ShoppingItem) itemResponse {
	return itemResponse{
		ID:         i.ID,
		Name:       i.Name,
		Quantity:   i.Quantity,
		Notes:      i.Notes,
		Checked:    i.Checked,
		StoreTagID: i.StoreTagID,
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  i.UpdatedAt,
	}
}

type itemRequest struct {
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	Notes      string `json:"notes"`
	StoreTagID string `json:"storeTagId"`
}

func (s *Server) handleListCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	list, err := s.lists.Create(r.Context(), userID(r), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toListResponse(list))
}

func (s *Server) handleListIndex(w http.ResponseWriter, r *http.Request) {
	lists, err := s.lists.List(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := make([]listResponse, 0, len(lists))
	for _, l := range lists {
		resp = append(resp, toListResponse(l))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListGet(w http.ResponseWriter, r *http.Request) {
	list, items, err := s.lists.Get(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := toListResponse(list)
	for _, i := range items {
		resp.Items = append(resp.Items, toItemResponse(i))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListRename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.lists.Rename(r.Context(), userID(r), r.PathValue("id"), req.Name); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListComplete(w http.ResponseWriter, r *http.Request) {
	if err := s.lists.SetCompleted(r.Context(), userID(r), r.PathValue("id"), true); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListReopen(w http.ResponseWriter, r *http.Request) {
	if err := s.lists.SetCompleted(r.Context(), userID(r), r.PathValue("id"), false); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.lists.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleItemAdd(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := s.lists.AddItem(r.Context(), userID(r), r.PathValue("id"), req.Name, req.Quantity, req.Notes, req.StoreTagID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemResponse(item))
}

func (s *Server) handleItemUpdate(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := s.lists.UpdateItem(r.Context(), userID(r), r.PathValue("id"), req.Name, req.Quantity, req.Notes, req.StoreTagID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (s *Server) handleItemCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.lists.SetItemChecked(r.Context(), userID(r), r.PathValue("id"), true); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleItemUncheck(w http.ResponseWriter, r *http.Request) {
	if err := s.lists.SetItemChecked(r.Context(), userID(r), r.PathValue("id"), false); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleItemDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.lists.DeleteItem(r.Context(), userID(r), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleItemsDeleteChecked(w http.ResponseWriter, r *http.Request) {
	n, err := s.lists.DeleteCheckedItems(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}
