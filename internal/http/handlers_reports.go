package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// handleBuildStatement computes a statement on the fly without archiving
// it. month=0 (or absent) selects the whole year.
func (s *Server) handleBuildStatement(w http.ResponseWriter, r *http.Request) {
	year, month := parsePeriod(r)
	st, err := s.reports.BuildStatement(r.Context(), year, month, parseMethod(r))
	if err != nil {
		slog.ErrorContext(r.Context(), "Build statement failed", "year", year, "month", int(month), "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// handleRecordStatement builds a statement and archives its figures.
func (s *Server) handleRecordStatement(w http.ResponseWriter, r *http.Request) {
	year, month := parsePeriod(r)
	st, err := s.reports.RecordStatement(r.Context(), year, month, parseMethod(r))
	if err != nil {
		slog.ErrorContext(r.Context(), "Record statement failed", "year", year, "month", int(month), "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) handleArchivedStatements(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	recs, err := s.reports.ArchivedStatements(r.Context(), limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "List archived statements failed", "error", err)
		writeError(w, http.StatusInternalServerError, "archive read failed")
		return
	}
	writeJSON(w, http.StatusOK, recs)
}
