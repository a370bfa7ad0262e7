package httpapi

func (s *Server) initRoutes() {
	// Session lifecycle.
	s.mux.HandleFunc("POST /api/v1/auth/register", s.handleRegister)
	s.mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	s.mux.HandleFunc("POST /api/v1/auth/refresh", s.handleRefresh)
	s.mux.HandleFunc("POST /api/v1/auth/logout", s.handleLogout)
	s.mux.HandleFunc("POST /api/v1/auth/logout-all", s.handleLogoutAll)

	// Current user.
	s.mux.HandleFunc("GET /api/v1/me", s.requireAuth(s.handleMe))
	s.mux.HandleFunc("GET /api/v1/me/sessions", s.requireAuth(s.handleMeSessions))

	// Household.
	s.mux.HandleFunc("POST /api/v1/household", s.requireAuth(s.handleHouseholdCreate))
	s.mux.HandleFunc("GET /api/v1/household", s.requireAuth(s.handleHouseholdGet))
	s.mux.HandleFunc("PUT /api/v1/household", s.requireAuth(s.handleHouseholdRename))
	s.mux.HandleFunc("POST /api/v1/household/members", s.requireAuth(s.handleMemberAdd))
	s.mux.HandleFunc("PUT /api/v1/household/members/{id}", s.requireAuth(s.handleMemberChangeRole))
	s.mux.HandleFunc("DELETE /api/v1/household/members/{id}", s.requireAuth(s.handleMemberRemove))

	// Shopping lists and items.
	s.mux.HandleFunc("POST /api/v1/lists", s.requireAuth(s.handleListCreate))
	s.mux.HandleFunc("GET /api/v1/lists", s.requireAuth(s.handleListIndex))
	s.mux.HandleFunc("GET /api/v1/lists/{id}", s.requireAuth(s.handleListGet))
	s.mux.HandleFunc("PUT /api/v1/lists/{id}", s.requireAuth(s.handleListRename))
	s.mux.HandleFunc("POST /api/v1/lists/{id}/complete", s.requireAuth(s.handleListComplete))
	s.mux.HandleFunc("POST /api/v1/lists/{id}/reopen", s.requireAuth(s.handleListReopen))
	s.mux.HandleFunc("DELETE /api/v1/lists/{id}", s.requireAuth(s.handleListDelete))
	s.mux.HandleFunc("POST /api/v1/lists/{id}/items", s.requireAuth(s.handleItemAdd))
	s.mux.HandleFunc("DELETE /api/v1/lists/{id}/items/checked", s.requireAuth(s.handleItemsDeleteChecked))
	s.mux.HandleFunc("PUT /api/v1/items/{id}", s.requireAuth(s.handleItemUpdate))
	s.mux.HandleFunc("POST /api/v1/items/{id}/check", s.requireAuth(s.handleItemCheck))
	s.mux.HandleFunc("POST /api/v1/items/{id}/uncheck", s.requireAuth(s.handleItemUncheck))
	s.mux.HandleFunc("DELETE /api/v1/items/{id}", s.requireAuth(s.handleItemDelete))

	// Store tags.
	s.mux.HandleFunc("POST /api/v1/tags", s.requireAuth(s.handleTagCreate))
	s.mux.HandleFunc("GET /api/v1/tags", s.requireAuth(s.handleTagIndex))
	s.mux.HandleFunc("PUT /api/v1/tags/{id}", s.requireAuth(s.handleTagUpdate))
	s.mux.HandleFunc("DELETE /api/v1/tags/{id}", s.requireAuth(s.handleTagDelete))
}
