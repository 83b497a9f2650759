package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/ligue-leads/internal/usecase"
)

type AIHandler struct {
	PromptUC *usecase.PromptUseCase
}

func NewAIHandler(uc *usecase.PromptUseCase) *AIHandler {
	return &AIHandler{PromptUC: uc}
}

type PromptRequest struct {
	Prompt string `json:"prompt"`
}

type PromptResponse struct {
	Success bool   `json:"success"`
	Reply   string `json:"reply"`
}

// Handle (POST /api/ai)
func (h *AIHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req PromptRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	reply, err := h.PromptUC.Execute(r.Context(), req.Prompt)
	if err != nil {
		writeStageError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, PromptResponse{Success: true, Reply: reply})
}
