package http

import (
	"errors"
	"log/slog"
	"net/http"

	"crewfin/internal/backend"
	"crewfin/internal/core"
)

// writeServiceError maps service errors onto API status codes. Validation
// failures are the client's fault; everything else is the upstream's.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, backend.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidMethod),
		errors.Is(err, core.ErrNegativeAmount),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrMissingDate),
		errors.Is(err, core.ErrEmptyName):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusBadGateway, "upstream request failed")
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter := backend.TxFilter{UserID: r.URL.Query().Get("userId")}
	txs, err := s.txs.List(r.Context(), filter)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions failed", "error", err)
		writeServiceError(w, err)
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx core.Transaction
	if err := decodeJSON(r, &tx); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := s.txs.Create(r.Context(), tx)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create transaction failed", "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx core.Transaction
	if err := decodeJSON(r, &tx); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := s.txs.Update(r.Context(), r.PathValue("id"), tx)
	if err != nil {
		slog.ErrorContext(r.Context(), "Update transaction failed", "id", r.PathValue("id"), "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.txs.Delete(r.Context(), r.PathValue("id")); err != nil {
		slog.ErrorContext(r.Context(), "Delete transaction failed", "id", r.PathValue("id"), "error", err)
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

func (s *Server) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.txs.BulkDelete(r.Context(), req.IDs); err != nil {
		slog.ErrorContext(r.Context(), "Bulk delete failed", "count", len(req.IDs), "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": len(req.IDs)})
}

type bulkCategoryRequest struct {
	IDs      []string `json:"ids"`
	Category string   `json:"category"`
}

func (s *Server) handleBulkCategory(w http.ResponseWriter, r *http.Request) {
	var req bulkCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.txs.BulkUpdateCategory(r.Context(), req.IDs, req.Category); err != nil {
		slog.ErrorContext(r.Context(), "Bulk category update failed", "count", len(req.IDs), "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"updated": len(req.IDs)})
}
