package http

import (
	"log/slog"
	"net/http"
)

// handleDashboard serves the cached overview, computing it on first use.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	overview, err := s.dash.Overview(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard overview failed", "error", err)
		writeError(w, http.StatusBadGateway, "upstream fetch failed")
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

// The sub-view handlers serve one slice of the same cached overview, for
// clients that only render a single card.

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	overview, err := s.dash.Overview(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard overview failed", "error", err)
		writeError(w, http.StatusBadGateway, "upstream fetch failed")
		return
	}
	writeJSON(w, http.StatusOK, overview.Stats)
}

func (s *Server) handleDashboardMonthly(w http.ResponseWriter, r *http.Request) {
	overview, err := s.dash.Overview(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard overview failed", "error", err)
		writeError(w, http.StatusBadGateway, "upstream fetch failed")
		return
	}
	writeJSON(w, http.StatusOK, overview.Monthly)
}

func (s *Server) handleDashboardCategories(w http.ResponseWriter, r *http.Request) {
	overview, err := s.dash.Overview(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard overview failed", "error", err)
		writeError(w, http.StatusBadGateway, "upstream fetch failed")
		return
	}
	writeJSON(w, http.StatusOK, overview.Categories)
}

func (s *Server) handleDashboardTeam(w http.ResponseWriter, r *http.Request) {
	overview, err := s.dash.Overview(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard overview failed", "error", err)
		writeError(w, http.StatusBadGateway, "upstream fetch failed")
		return
	}
	writeJSON(w, http.StatusOK, overview.Team)
}

// handleDashboardRefresh forces a recomputation from a fresh snapshot.
func (s *Server) handleDashboardRefresh(w http.ResponseWriter, r *http.Request) {
	s.dash.Invalidate()
	overview, err := s.dash.Refresh(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard refresh failed", "error", err)
		writeError(w, http.StatusBadGateway, "upstream fetch failed")
		return
	}
	writeJSON(w, http.StatusOK, overview)
}
