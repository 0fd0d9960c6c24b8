package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"crewfin/internal/core"
	"crewfin/internal/services"
)

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.plans.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List plans failed", "error", err)
		writeServiceError(w, err)
		return
	}
	if plans == nil {
		plans = []core.Plan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var p core.Plan
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := s.plans.Create(r.Context(), p)
	if err != nil {
		slog.WarnContext(r.Context(), "Create plan rejected", "error", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := s.plans.Delete(r.Context(), r.PathValue("id")); err != nil {
		slog.ErrorContext(r.Context(), "Delete plan failed", "id", r.PathValue("id"), "error", err)
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlanStats(w http.ResponseWriter, r *http.Request) {
	var currentValue float64
	if v := strings.TrimSpace(r.URL.Query().Get("currentValue")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			currentValue = f
		}
	}

	plan, stats, err := s.plans.Stats(r.Context(), r.PathValue("id"), currentValue)
	if err != nil {
		if errors.Is(err, services.ErrPlanNotFound) {
			writeError(w, http.StatusNotFound, "plan not found")
			return
		}
		slog.ErrorContext(r.Context(), "Plan stats failed", "id", r.PathValue("id"), "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"plan": plan, "stats": stats})
}

func (s *Server) handlePlanMembers(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.plans.MemberStatuses(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, services.ErrPlanNotFound) {
			writeError(w, http.StatusNotFound, "plan not found")
			return
		}
		slog.ErrorContext(r.Context(), "Plan member statuses failed", "id", r.PathValue("id"), "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

type installmentRequest struct {
	Member string             `json:"member"`
	Amount float64            `json:"amount"`
	Method core.PaymentMethod `json:"method,omitempty"`
}

func (s *Server) handleRecordInstallment(w http.ResponseWriter, r *http.Request) {
	var req installmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tx, err := s.plans.RecordInstallment(r.Context(), r.PathValue("id"), req.Member, req.Amount, req.Method)
	if err != nil {
		if errors.Is(err, services.ErrPlanNotFound) {
			writeError(w, http.StatusNotFound, "plan not found")
			return
		}
		slog.ErrorContext(r.Context(), "Record installment failed", "id", r.PathValue("id"), "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}
