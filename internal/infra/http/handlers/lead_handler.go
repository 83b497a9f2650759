package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

const maxBodyBytes = 1 << 20

type LeadHandler struct {
	QualifyLeadUC *usecase.QualifyLeadUseCase
	ListLeadsUC   *usecase.ListLeadsUseCase
	rateLimiter   *RateLimiter // nil desliga
}

func NewLeadHandler(qualify *usecase.QualifyLeadUseCase, list *usecase.ListLeadsUseCase, limiter *RateLimiter) *LeadHandler {
	return &LeadHandler{
		QualifyLeadUC: qualify,
		ListLeadsUC:   list,
		rateLimiter:   limiter,
	}
}

type QualifyLeadResponse struct {
	Success bool `json:"success"`
	*usecase.QualifyLeadOutput
}

type ListLeadsResponse struct {
	Success bool           `json:"success"`
	Leads   []*entity.Lead `json:"leads"`
}

// CreateLead (POST /api/lead)
func (h *LeadHandler) CreateLead(w http.ResponseWriter, r *http.Request) {
	if h.rateLimiter != nil && !h.rateLimiter.Allow(getClientIP(r)) {
		writeErrorResponse(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
		return
	}

	var input usecase.QualifyLeadInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	output, err := h.QualifyLeadUC.Execute(r.Context(), input)
	if err != nil {
		writeStageError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, QualifyLeadResponse{Success: true, QualifyLeadOutput: output})
}

// ListLeads (GET /api/leads), mais recentes primeiro
func (h *LeadHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.ListLeadsUC.Execute(r.Context())
	if err != nil {
		writeStageError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ListLeadsResponse{Success: true, Leads: leads})
}
