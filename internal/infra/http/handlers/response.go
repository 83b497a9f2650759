package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-leads/internal/usecase"
)

type ErrorResponse struct {
	Success bool                      `json:"success"`
	Error   string                    `json:"error"`
	Stage   string                    `json:"stage,omitempty"`
	Kind    string                    `json:"kind,omitempty"`
	Fields  []usecase.ValidationError `json:"fields,omitempty"`
	Raw     string                    `json:"raw,omitempty"` // saída crua do modelo, para diagnóstico
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeErrorResponse(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Success: false, Error: message})
}

// writeStageError maps a pipeline failure onto one JSON response: validation
// is the client's fault (400), every other kind is a 500 naming the stage.
func writeStageError(w http.ResponseWriter, r *http.Request, err error) {
	se, ok := usecase.AsStageError(err)
	if !ok {
		zap.L().Error("erro inesperado",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		writeErrorResponse(w, http.StatusInternalServerError, "Server error")
		return
	}

	if se.Kind == usecase.KindValidation {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   se.Message,
			Fields:  se.Fields,
		})
		return
	}

	zap.L().Error("falha no pipeline",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("stage", se.Stage),
		zap.String("kind", string(se.Kind)),
		zap.String("raw", se.Raw),
		zap.Error(se.Err),
	)

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Success: false,
		Error:   se.Error(),
		Stage:   se.Stage,
		Kind:    string(se.Kind),
		Raw:     se.Raw,
	})
}
