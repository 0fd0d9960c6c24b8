package http

import (
	"log/slog"
	"net/http"

	"crewfin/internal/core"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.ListUsers(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List users failed", "error", err)
		writeServiceError(w, err)
		return
	}
	if users == nil {
		users = []core.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var u core.User
	if err := decodeJSON(r, &u); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := u.Validate(); err != nil {
		writeServiceError(w, err)
		return
	}
	created, err := s.users.CreateUser(r.Context(), u)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create user failed", "error", err)
		writeServiceError(w, err)
		return
	}
	// The roster feeds into team contribution, so a changed roster means
	// a stale overview.
	s.dash.Invalidate()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var u core.User
	if err := decodeJSON(r, &u); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := s.users.UpdateUser(r.Context(), r.PathValue("id"), u)
	if err != nil {
		slog.ErrorContext(r.Context(), "Update user failed", "id", r.PathValue("id"), "error", err)
		writeServiceError(w, err)
		return
	}
	s.dash.Invalidate()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.users.DeleteUser(r.Context(), r.PathValue("id")); err != nil {
		slog.ErrorContext(r.Context(), "Delete user failed", "id", r.PathValue("id"), "error", err)
		writeServiceError(w, err)
		return
	}
	s.dash.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}
